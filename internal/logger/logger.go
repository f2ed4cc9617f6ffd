package logger

import (
	"inmo-sync/internal/config"
	"inmo-sync/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the service logger: console output plus an async Mongo
// writer so batch runs leave an inspectable trail in the `logs` collection.
func NewLogger(cfg *config.Config, db *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(db, cfg)

	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}

// NewConsoleLogger is the logger used by the one-shot batch binaries, which
// have no Mongo connection.
func NewConsoleLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
