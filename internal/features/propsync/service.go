package propsync

import (
	"context"
	"strings"
	"time"

	"inmo-sync/internal/config"
	"inmo-sync/internal/podio"

	"go.uber.org/zap"
)

// Source and derived field external ids on the property app.
// "localiadad" is the real external id in the remote schema, typo included.
const (
	propLocationField    = "localiadad"
	propLinkField        = "enlace-de-la-propiedad"
	propLocationTextDest = "localidad-texto-2"
	propLinkTextDest     = "enlace-texto-2"
)

// Lead phone fields: the search field holds the digits-only copy of the
// main phone so the store's plain-text filter can match it.
const (
	leadPhoneField       = "telefono-2"
	leadSearchPhoneField = "telefono-busqueda"
)

const (
	propertiesPageSize = 100
	phonesPageSize     = 500
)

type SyncService interface {
	RunProperties(ctx context.Context) (Totals, error)
	RunPhones(ctx context.Context) (Totals, error)
	ListRuns(ctx context.Context, kind string, limit int64) ([]SyncRun, error)
}

type SyncServiceImpl struct {
	Client *podio.Client
	Config *config.Config
	Runs   SyncRunRepository // nil in the one-shot binaries
	Props  CheckpointStore
	Phones CheckpointStore
	Logger *zap.Logger
}

func NewSyncService(client *podio.Client, cfg *config.Config, runs SyncRunRepository, logger *zap.Logger) SyncService {
	return &SyncServiceImpl{
		Client: client,
		Config: cfg,
		Runs:   runs,
		Props:  NewFileCheckpointStore(cfg.PropertiesProgressFile),
		Phones: NewFileCheckpointStore(cfg.PhonesProgressFile),
		Logger: logger,
	}
}

// NewBatchSyncService builds the service for the CLI binaries: no run
// history repository, plain console logger.
func NewBatchSyncService(client *podio.Client, cfg *config.Config, logger *zap.Logger) *SyncServiceImpl {
	return &SyncServiceImpl{
		Client: client,
		Config: cfg,
		Props:  NewFileCheckpointStore(cfg.PropertiesProgressFile),
		Phones: NewFileCheckpointStore(cfg.PhonesProgressFile),
		Logger: logger,
	}
}

func (s *SyncServiceImpl) ListRuns(ctx context.Context, kind string, limit int64) ([]SyncRun, error) {
	if s.Runs == nil {
		return nil, nil
	}
	return s.Runs.List(ctx, kind, limit)
}

// RunProperties backfills the derived text fields (location text, link text)
// across the whole property collection, resuming from the checkpoint.
func (s *SyncServiceImpl) RunProperties(ctx context.Context) (Totals, error) {
	appID := s.Config.PodioApps[config.TenantProperties].AppID
	return s.runCollection(ctx, KindProperties, config.TenantProperties, appID,
		propertiesPageSize, s.Props, extractPropertyFields)
}

// RunPhones normalizes every lead's main phone into the digits-only search
// field, resuming from the checkpoint.
func (s *SyncServiceImpl) RunPhones(ctx context.Context) (Totals, error) {
	appID := s.Config.PodioApps[config.TenantLeads].AppID
	return s.runCollection(ctx, KindPhones, config.TenantLeads, appID,
		phonesPageSize, s.Phones, extractPhoneFields)
}

// runCollection drives one resumable batch run: fetch pages from the stored
// offset, process records strictly in page order, write derived fields,
// advance the checkpoint after every record. A record's failure is counted
// and skipped; a page-fetch or auth failure ends the run.
func (s *SyncServiceImpl) runCollection(
	ctx context.Context,
	kind, tenant, appID string,
	pageSize int,
	store CheckpointStore,
	extract func(item *podio.Item) map[string]any,
) (Totals, error) {
	run := &SyncRun{Kind: kind, StartTime: time.Now(), Status: "in_progress"}
	if s.Runs != nil {
		_ = s.Runs.Create(ctx, run)
	}

	cp, err := store.Load()
	if err != nil {
		s.finishRun(ctx, run, Totals{}, err)
		return Totals{}, err
	}

	s.Logger.Info("starting batch run",
		zap.String("kind", kind),
		zap.String("tenant", tenant),
		zap.Int("offset", cp.Offset))

	totals := Totals{Succeeded: cp.Succeeded, Failed: cp.Failed}

	for {
		items, err := s.Client.FilterItems(ctx, tenant, appID, podio.FilterRequest{
			Limit:  pageSize,
			Offset: cp.Offset,
		})
		if err != nil {
			s.Logger.Error("page fetch failed, ending run",
				zap.String("kind", kind), zap.Int("offset", cp.Offset), zap.Error(err))
			s.finishRun(ctx, run, totals, err)
			return totals, err
		}

		if len(items) == 0 {
			s.Logger.Info("batch run complete",
				zap.String("kind", kind),
				zap.Int("succeeded", totals.Succeeded),
				zap.Int("failed", totals.Failed))
			s.finishRun(ctx, run, totals, nil)
			return totals, nil
		}

		for i := range items {
			item := &items[i]
			totals.Processed++

			fields := extract(item)
			if len(fields) > 0 {
				if err := s.Client.UpdateItemFields(ctx, tenant, item.ItemID, fields); err != nil {
					totals.Failed++
					s.Logger.Warn("record update failed, skipping",
						zap.String("kind", kind),
						zap.Int64("item_id", item.ItemID),
						zap.Error(err))
				} else {
					totals.Succeeded++
				}
			}

			cp.Offset++
			cp.Succeeded = totals.Succeeded
			cp.Failed = totals.Failed
			if err := store.Save(cp); err != nil {
				s.finishRun(ctx, run, totals, err)
				return totals, err
			}
		}
	}
}

func (s *SyncServiceImpl) finishRun(ctx context.Context, run *SyncRun, totals Totals, err error) {
	if s.Runs == nil {
		return
	}
	run.EndTime = time.Now()
	run.Processed = totals.Processed
	run.Succeeded = totals.Succeeded
	run.Failed = totals.Failed
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	} else {
		run.Status = "success"
	}
	_ = s.Runs.Update(ctx, run)
}

// extractPropertyFields copies the location option text and the property
// link embed URL into their derived plain-text fields. Rewriting an
// unchanged value is harmless, which is what makes resumed runs safe.
func extractPropertyFields(item *podio.Item) map[string]any {
	fields := map[string]any{}

	if text, ok := item.Field(propLocationField).FirstText(); ok {
		fields[propLocationTextDest] = text
	}
	if url, ok := item.Field(propLinkField).FirstEmbedURL(); ok {
		fields[propLinkTextDest] = url
	}

	return fields
}

// extractPhoneFields produces the digits-only search copy of the lead's
// phone when it is missing or stale.
func extractPhoneFields(item *podio.Item) map[string]any {
	phone, ok := item.Field(leadPhoneField).FirstString()
	if !ok {
		return nil
	}

	digits := NormalizeDigits(phone)
	if digits == "" {
		return nil
	}

	current, _ := item.Field(leadSearchPhoneField).FirstString()
	if digits == current {
		return nil
	}

	return map[string]any{leadSearchPhoneField: digits}
}

// NormalizeDigits strips everything but decimal digits from a phone number.
func NormalizeDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}
