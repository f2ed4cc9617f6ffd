package propsync

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run kinds.
const (
	KindProperties = "properties"
	KindPhones     = "phones"
)

// SyncRun is the stored history of one batch run.
type SyncRun struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Kind      string             `json:"kind" bson:"kind"`
	StartTime time.Time          `json:"start_time" bson:"start_time"`
	EndTime   time.Time          `json:"end_time" bson:"end_time"`
	Status    string             `json:"status" bson:"status"` // "success", "failed", "in_progress"
	Processed int                `json:"processed" bson:"processed"`
	Succeeded int                `json:"succeeded" bson:"succeeded"`
	Failed    int                `json:"failed" bson:"failed"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
}

// Totals is what a finished run reports.
type Totals struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
