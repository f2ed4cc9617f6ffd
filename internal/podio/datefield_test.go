package podio

import (
	"testing"
	"time"
)

func TestNormalizeForWriteShapes(t *testing.T) {
	n := NewDateNormalizer(time.UTC)

	tests := []struct {
		name  string
		cfg   DateFieldConfig
		input any
		want  DateValue
	}{
		{
			name:  "single date-only",
			cfg:   DateFieldConfig{RangeEnabled: false, TimeEnabled: false},
			input: "2024-03-05",
			want:  DateValue{StartDate: "2024-03-05"},
		},
		{
			name:  "range date-only duplicates the date",
			cfg:   DateFieldConfig{RangeEnabled: true, TimeEnabled: false},
			input: "2024-03-05",
			want:  DateValue{StartDate: "2024-03-05", EndDate: "2024-03-05"},
		},
		{
			name:  "single with time",
			cfg:   DateFieldConfig{RangeEnabled: false, TimeEnabled: true},
			input: "2024-03-05 14:30:00",
			want:  DateValue{Start: "2024-03-05 14:30:00"},
		},
		{
			name:  "range with time duplicates the instant",
			cfg:   DateFieldConfig{RangeEnabled: true, TimeEnabled: true},
			input: "2024-03-05 14:30:00",
			want:  DateValue{Start: "2024-03-05 14:30:00", End: "2024-03-05 14:30:00"},
		},
		{
			name:  "time-enabled field with date-only input stays date-only",
			cfg:   DateFieldConfig{RangeEnabled: false, TimeEnabled: true},
			input: "2024-03-05",
			want:  DateValue{StartDate: "2024-03-05"},
		},
		{
			name:  "date-only field drops the clock",
			cfg:   DateFieldConfig{RangeEnabled: false, TimeEnabled: false},
			input: "2024-03-05 14:30:00",
			want:  DateValue{StartDate: "2024-03-05"},
		},
		{
			name:  "T separator accepted",
			cfg:   DateFieldConfig{RangeEnabled: false, TimeEnabled: true},
			input: "2024-03-05T14:30:00",
			want:  DateValue{Start: "2024-03-05 14:30:00"},
		},
		{
			name:  "minutes-only clock padded with seconds",
			cfg:   DateFieldConfig{RangeEnabled: false, TimeEnabled: true},
			input: "2024-03-05 14:30",
			want:  DateValue{Start: "2024-03-05 14:30:00"},
		},
		{
			name:  "time.Time with clock",
			cfg:   DateFieldConfig{RangeEnabled: false, TimeEnabled: true},
			input: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
			want:  DateValue{Start: "2024-03-05 14:30:00"},
		},
		{
			name:  "time.Time at midnight treated as date-only",
			cfg:   DateFieldConfig{RangeEnabled: true, TimeEnabled: true},
			input: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			want:  DateValue{StartDate: "2024-03-05", EndDate: "2024-03-05"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.NormalizeForWrite(tt.cfg, tt.input)
			if !ok {
				t.Fatalf("NormalizeForWrite() ok = false, want true")
			}
			if *got != tt.want {
				t.Errorf("NormalizeForWrite() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestNormalizeForWriteRejectsGarbage(t *testing.T) {
	n := NewDateNormalizer(time.UTC)

	for _, input := range []any{"", "not-a-date", "2024-13-45", "2024-03-05 99:99:99", nil, 42} {
		if _, ok := n.NormalizeForWrite(DateFieldConfig{}, input); ok {
			t.Errorf("NormalizeForWrite(%v) ok = true, want false", input)
		}
	}
}

func TestNormalizeForWritePassthrough(t *testing.T) {
	n := NewDateNormalizer(time.UTC)

	// An already-shaped value passes through untouched even when its shape
	// disagrees with the field configuration.
	in := &DateValue{Start: "2024-03-05 10:00:00", End: "2024-03-06 10:00:00"}
	got, ok := n.NormalizeForWrite(DateFieldConfig{RangeEnabled: false, TimeEnabled: false}, in)
	if !ok {
		t.Fatal("NormalizeForWrite() ok = false, want true")
	}
	if got != in {
		t.Errorf("NormalizeForWrite() = %+v, want the input passed through", got)
	}
}

func TestNormalizeForCreateDefaultsToNow(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Cordoba")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}

	n := NewDateNormalizer(loc)
	n.now = func() time.Time {
		return time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC) // 20:30 in Córdoba
	}

	got := n.NormalizeForCreate(DateFieldConfig{TimeEnabled: true}, nil)
	if len(got) != 1 {
		t.Fatalf("NormalizeForCreate() returned %d values, want 1", len(got))
	}
	want := DateValue{Start: "2024-03-05 20:30:00"}
	if *got[0] != want {
		t.Errorf("NormalizeForCreate() = %+v, want %+v", *got[0], want)
	}
}

func TestNormalizeForCreateWrapsSingleValue(t *testing.T) {
	n := NewDateNormalizer(time.UTC)

	got := n.NormalizeForCreate(DateFieldConfig{}, "2024-03-05")
	if len(got) != 1 {
		t.Fatalf("NormalizeForCreate() returned %d values, want 1", len(got))
	}
	if got[0].StartDate != "2024-03-05" {
		t.Errorf("NormalizeForCreate()[0].StartDate = %q, want %q", got[0].StartDate, "2024-03-05")
	}

	if got := n.NormalizeForCreate(DateFieldConfig{}, "garbage"); got != nil {
		t.Errorf("NormalizeForCreate(garbage) = %v, want nil", got)
	}
}
