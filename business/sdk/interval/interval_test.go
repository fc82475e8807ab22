package interval_test

import (
	"testing"
	"time"

	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	tm, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parsing time %q: %s", value, err)
	}

	return tm
}

func Test_Overlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{"identical", "2025-06-10T10:00:00Z", "2025-06-10T11:00:00Z", "2025-06-10T10:00:00Z", "2025-06-10T11:00:00Z", true},
		{"contained", "2025-06-10T10:00:00Z", "2025-06-10T12:00:00Z", "2025-06-10T10:30:00Z", "2025-06-10T11:00:00Z", true},
		{"partial", "2025-06-10T10:00:00Z", "2025-06-10T12:00:00Z", "2025-06-10T11:00:00Z", "2025-06-10T13:00:00Z", true},
		{"touching boundary", "2025-06-10T10:00:00Z", "2025-06-10T11:00:00Z", "2025-06-10T11:00:00Z", "2025-06-10T12:00:00Z", false},
		{"touching boundary reversed", "2025-06-10T11:00:00Z", "2025-06-10T12:00:00Z", "2025-06-10T10:00:00Z", "2025-06-10T11:00:00Z", false},
		{"disjoint", "2025-06-10T10:00:00Z", "2025-06-10T11:00:00Z", "2025-06-10T14:00:00Z", "2025-06-10T15:00:00Z", false},
		{"different zones same instant", "2025-06-10T10:00:00Z", "2025-06-10T11:00:00Z", "2025-06-10T12:00:00+02:00", "2025-06-10T13:00:00+02:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interval.Overlaps(mustTime(t, tt.aStart), mustTime(t, tt.aEnd), mustTime(t, tt.bStart), mustTime(t, tt.bEnd))
			if got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_IsValidRange(t *testing.T) {
	now := time.Now()

	if !interval.IsValidRange(now, now.Add(time.Hour)) {
		t.Error("expected forward range to be valid")
	}

	if interval.IsValidRange(now, now) {
		t.Error("expected zero-length range to be invalid")
	}

	if interval.IsValidRange(now, now.Add(-time.Minute)) {
		t.Error("expected inverted range to be invalid")
	}
}

func Test_DayWindow(t *testing.T) {
	date := mustTime(t, "2025-06-10T15:45:12Z")

	start, end := interval.DayWindow(date)

	if want := mustTime(t, "2025-06-10T00:00:00Z"); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}

	if want := mustTime(t, "2025-06-10T23:59:59.999Z"); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func Test_SameDay(t *testing.T) {
	a := mustTime(t, "2025-06-10T23:30:00Z")
	b := mustTime(t, "2025-06-10T00:15:00Z")
	c := mustTime(t, "2025-06-11T00:15:00Z")

	if !interval.SameDay(a, b) {
		t.Error("expected same UTC day")
	}

	if interval.SameDay(a, c) {
		t.Error("expected different UTC days")
	}

	// A local time past midnight still belongs to its UTC day.
	d := mustTime(t, "2025-06-11T01:30:00+02:00")
	if !interval.SameDay(a, d) {
		t.Error("expected zone-normalized comparison to match")
	}
}
