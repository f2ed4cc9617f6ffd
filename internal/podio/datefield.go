package podio

import (
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// DateFieldConfig describes how the remote schema configured a date field.
// It decides which of the four payload shapes a write must use; sending the
// wrong shape is silently rejected or miswritten by the store.
type DateFieldConfig struct {
	RangeEnabled bool
	TimeEnabled  bool
}

// DateValue is the wire shape of a date field value. Exactly one of the four
// combinations is populated:
//
//	{start_date}              single, date-only
//	{start_date, end_date}    range, date-only
//	{start}                   single, with time
//	{start, end}              range, with time
type DateValue struct {
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ParsedDate is a date input split into calendar date and clock, with an
// explicit HasTime flag instead of inferring it downstream from
// midnight-equality. For bare time.Time inputs the flag still falls back to
// the midnight heuristic, since the type carries no "time meant" bit: a
// genuine midnight event arriving as time.Time is treated as date-only.
type ParsedDate struct {
	Date    string // YYYY-MM-DD
	Clock   string // HH:MM:SS
	HasTime bool
}

// DateNormalizer converts heterogeneous date inputs into the exact DateValue
// shape a field's configuration expects. There is one canonical
// implementation; every write path goes through it.
type DateNormalizer struct {
	loc *time.Location
	now func() time.Time
}

func NewDateNormalizer(loc *time.Location) *DateNormalizer {
	if loc == nil {
		loc = time.Local
	}
	return &DateNormalizer{loc: loc, now: time.Now}
}

// Parse accepts a time.Time, a "YYYY-MM-DD[ HH:MM:SS]" string (a literal 'T'
// separator is treated as a space), or an existing DateValue. It reports
// false for anything that does not resolve to a calendar date; callers must
// then omit the field from the payload rather than send a malformed one.
func (n *DateNormalizer) Parse(v any) (ParsedDate, bool) {
	switch val := v.(type) {
	case time.Time:
		clock := val.In(n.loc).Format(clockLayout)
		return ParsedDate{
			Date:    val.In(n.loc).Format(dateLayout),
			Clock:   clock,
			HasTime: clock != "00:00:00",
		}, true
	case string:
		return parseDateTimeString(val)
	case *DateValue:
		if val == nil {
			return ParsedDate{}, false
		}
		return parseDateValue(*val)
	case DateValue:
		return parseDateValue(val)
	}
	return ParsedDate{}, false
}

func parseDateTimeString(s string) (ParsedDate, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "T", " "))
	if s == "" {
		return ParsedDate{}, false
	}

	parts := strings.Fields(s)
	if _, err := time.Parse(dateLayout, parts[0]); err != nil {
		return ParsedDate{}, false
	}

	p := ParsedDate{Date: parts[0], Clock: "00:00:00"}
	if len(parts) > 1 {
		clock := parts[1]
		if _, err := time.Parse(clockLayout, clock); err != nil {
			if _, err := time.Parse("15:04", clock); err != nil {
				return ParsedDate{}, false
			}
			clock += ":00"
		}
		p.Clock = clock
		p.HasTime = true
	}
	return p, true
}

func parseDateValue(dv DateValue) (ParsedDate, bool) {
	if dv.Start != "" {
		return parseDateTimeString(dv.Start)
	}
	if dv.StartDate != "" {
		return parseDateTimeString(dv.StartDate)
	}
	return ParsedDate{}, false
}

// NormalizeForWrite shapes a date input for an item-field update. The second
// return is false when the input could not be parsed ("no value"). Range
// shapes duplicate the same instant into start and end; this subsystem never
// computes a distinct end instant.
func (n *DateNormalizer) NormalizeForWrite(cfg DateFieldConfig, v any) (*DateValue, bool) {
	// Already-shaped payloads pass through unchanged.
	switch dv := v.(type) {
	case *DateValue:
		if dv != nil && (dv.Start != "" || dv.StartDate != "") {
			return dv, true
		}
		return nil, false
	case DateValue:
		if dv.Start != "" || dv.StartDate != "" {
			out := dv
			return &out, true
		}
		return nil, false
	}

	p, ok := n.Parse(v)
	if !ok {
		return nil, false
	}
	return shapeFor(cfg, p), true
}

// NormalizeForCreate shapes a date for record creation. Creation payloads
// always carry date fields as a single-element sequence, even single-valued
// ones. A nil input defaults to now in the configured time zone, covering
// required-but-missing fields.
func (n *DateNormalizer) NormalizeForCreate(cfg DateFieldConfig, v any) []*DateValue {
	if v == nil {
		v = n.now().In(n.loc)
	}
	dv, ok := n.NormalizeForWrite(cfg, v)
	if !ok {
		return nil
	}
	return []*DateValue{dv}
}

func shapeFor(cfg DateFieldConfig, p ParsedDate) *DateValue {
	withTime := cfg.TimeEnabled && p.HasTime

	if withTime {
		stamp := p.Date + " " + p.Clock
		if cfg.RangeEnabled {
			return &DateValue{Start: stamp, End: stamp}
		}
		return &DateValue{Start: stamp}
	}

	if cfg.RangeEnabled {
		return &DateValue{StartDate: p.Date, EndDate: p.Date}
	}
	return &DateValue{StartDate: p.Date}
}
