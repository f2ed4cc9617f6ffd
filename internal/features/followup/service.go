package followup

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"inmo-sync/internal/config"
	"inmo-sync/internal/podio"

	"go.uber.org/zap"
)

// LogFieldExternalID is the stable external name of the lead's activity-log
// field. The schema's numeric field id can differ; writes fall back to it.
const LogFieldExternalID = "seguimiento"

const entryTimeLayout = "2006-01-02 15:04:05"

// AppendResult is what callers get instead of an error: a failed append must
// never crash an inbound-event handler.
type AppendResult struct {
	OK       bool   `json:"ok"`
	NotFound bool   `json:"not_found,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Entry is one parsed line of the activity log.
type Entry struct {
	Timestamp time.Time
	Text      string
}

type FollowupService interface {
	Append(ctx context.Context, itemID int64, text string) AppendResult
	LastEntryForItem(ctx context.Context, itemID int64) (Entry, bool, error)
}

type FollowupServiceImpl struct {
	Client *podio.Client
	Tenant string
	Loc    *time.Location
	Logger *zap.Logger

	now func() time.Time

	// Appends for the same item go through one mutex, so two in-process
	// callers cannot lose each other's entry to the read-modify-write
	// window. Appends from other processes remain unguarded.
	mu        sync.Mutex
	itemLocks map[int64]*sync.Mutex
}

func NewFollowupService(client *podio.Client, cfg *config.Config, logger *zap.Logger) FollowupService {
	return &FollowupServiceImpl{
		Client:    client,
		Tenant:    config.TenantLeads,
		Loc:       cfg.Location(),
		Logger:    logger,
		now:       time.Now,
		itemLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *FollowupServiceImpl) lockFor(itemID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.itemLocks[itemID]
	if !ok {
		l = &sync.Mutex{}
		s.itemLocks[itemID] = l
	}
	return l
}

// Append reads the record's current log value, appends a timestamped entry
// and writes the merged value back. The field may never have been set; the
// record must exist.
func (s *FollowupServiceImpl) Append(ctx context.Context, itemID int64, text string) AppendResult {
	lock := s.lockFor(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.Client.GetItem(ctx, s.Tenant, itemID)
	if err != nil {
		if errors.Is(err, podio.ErrRecordNotFound) {
			return AppendResult{NotFound: true, Error: "record not found"}
		}
		return AppendResult{Error: err.Error()}
	}

	field := item.Field(LogFieldExternalID)
	previous, _ := field.FirstString()

	entry := "[" + s.now().In(s.Loc).Format(entryTimeLayout) + "] " + strings.TrimSpace(text)
	merged := entry
	if previous != "" {
		merged = previous + "\n" + entry
	}

	if err := s.Client.UpdateItemField(ctx, s.Tenant, itemID, LogFieldExternalID, merged); err != nil {
		// Schema fallback: address the field by its numeric id.
		if field == nil || field.FieldID == 0 {
			s.Logger.Error("followup append failed", zap.Int64("item_id", itemID), zap.Error(err))
			return AppendResult{Error: err.Error()}
		}
		fieldRef := strconv.FormatInt(field.FieldID, 10)
		if err := s.Client.UpdateItemField(ctx, s.Tenant, itemID, fieldRef, merged); err != nil {
			s.Logger.Error("followup append failed", zap.Int64("item_id", itemID), zap.Error(err))
			return AppendResult{Error: err.Error()}
		}
	}

	return AppendResult{OK: true}
}

// LastEntryForItem fetches the record and extracts the latest log entry.
func (s *FollowupServiceImpl) LastEntryForItem(ctx context.Context, itemID int64) (Entry, bool, error) {
	item, err := s.Client.GetItem(ctx, s.Tenant, itemID)
	if err != nil {
		return Entry{}, false, err
	}
	blob, _ := item.Field(LogFieldExternalID).FirstString()
	entry, ok := LastEntry(blob)
	return entry, ok, nil
}

var (
	entryPattern  = regexp.MustCompile(`(?m)^\[(\d{4}-\d{2}-\d{2}) (\d{2}:\d{2}:\d{2})\]\s*(.*)$`)
	markupPattern = regexp.MustCompile(`<[^>]*>`)
)

// LastEntry parses the log blob and returns its newest entry. Embedded
// markup is stripped first; legacy blobs without any bracketed-timestamp
// line report no entry.
func LastEntry(blob string) (Entry, bool) {
	clean := markupPattern.ReplaceAllString(blob, "")

	matches := entryPattern.FindAllStringSubmatch(clean, -1)
	if len(matches) == 0 {
		return Entry{}, false
	}

	last := matches[len(matches)-1]
	ts, err := time.Parse(entryTimeLayout, last[1]+" "+last[2])
	if err != nil {
		return Entry{}, false
	}

	return Entry{Timestamp: ts, Text: strings.TrimSpace(last[3])}, true
}

// NoEntryText is shown when a lead has no parseable log entry.
const NoEntryText = "Sin seguimientos registrados"

// FormatEntry renders an entry for chat display: "DD/MM/YYYY: content".
func FormatEntry(e Entry, ok bool) string {
	if !ok {
		return NoEntryText
	}
	return e.Timestamp.Format("02/01/2006") + ": " + e.Text
}
