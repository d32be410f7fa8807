package reservation

import (
	"errors"
	"testing"
	"time"
)

func mustSlot(t *testing.T, start, end string) TimeSlot {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("parsing start: %v", err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("parsing end: %v", err)
	}
	slot, err := NewTimeSlot(s, e)
	if err != nil {
		t.Fatalf("building slot: %v", err)
	}
	return slot
}

func TestNewTimeSlotRejectsNonPositiveRange(t *testing.T) {
	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	if _, err := NewTimeSlot(at, at); !errors.Is(err, ErrInvalidTimeSlot) {
		t.Fatalf("expected ErrInvalidTimeSlot for zero-length slot, got %v", err)
	}
	if _, err := NewTimeSlot(at, at.Add(-time.Hour)); !errors.Is(err, ErrInvalidTimeSlot) {
		t.Fatalf("expected ErrInvalidTimeSlot for inverted slot, got %v", err)
	}
	if _, err := NewTimeSlot(at, at.Add(time.Minute)); err != nil {
		t.Fatalf("expected valid slot, got %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{
			name: "partial overlap",
			a:    mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"),
			b:    mustSlot(t, "2025-01-01T10:30:00Z", "2025-01-01T11:30:00Z"),
			want: true,
		},
		{
			name: "containment",
			a:    mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z"),
			b:    mustSlot(t, "2025-01-01T10:30:00Z", "2025-01-01T11:00:00Z"),
			want: true,
		},
		{
			name: "adjacent slots never overlap",
			a:    mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"),
			b:    mustSlot(t, "2025-01-01T11:00:00Z", "2025-01-01T12:00:00Z"),
			want: false,
		},
		{
			name: "disjoint",
			a:    mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"),
			b:    mustSlot(t, "2025-01-02T10:00:00Z", "2025-01-02T11:00:00Z"),
			want: false,
		},
		{
			name: "same instant different zones",
			a:    mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"),
			b:    mustSlot(t, "2025-01-01T05:30:00-05:00", "2025-01-01T06:30:00-05:00"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	slot := mustSlot(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z")
	if !slot.Overlaps(slot) {
		t.Fatal("a slot must overlap itself")
	}
}

func TestDurationMinutesTruncates(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	slot, err := NewTimeSlot(start, start.Add(90*time.Minute+30*time.Second))
	if err != nil {
		t.Fatalf("building slot: %v", err)
	}
	if got := slot.DurationMinutes(); got != 90 {
		t.Fatalf("DurationMinutes() = %d, want 90", got)
	}
}

func TestDayKeyUsesSlotLocalDay(t *testing.T) {
	// 23:00 on Jan 1 in UTC-5 is 04:00 on Jan 2 in UTC; the quota bucket
	// follows the slot's own calendar day.
	slot := mustSlot(t, "2025-01-01T23:00:00-05:00", "2025-01-01T23:30:00-05:00")
	if got := slot.DayKey(); got != "2025-01-01" {
		t.Fatalf("DayKey() = %q, want %q", got, "2025-01-01")
	}
}
