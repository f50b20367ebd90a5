package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseStoredTime_NormalizesToReference(t *testing.T) {
	loc := mustRef(t)

	got := mustParse(t, "2025-01-01 04:30:00+0000", loc)
	if got.Hour() != 10 || got.Minute() != 0 {
		t.Fatalf("want 10:00 IST, got %s", got.Format(StoredTimeLayout))
	}
	_, offset := got.Zone()
	if offset != istOffset {
		t.Fatalf("want +05:30 offset, got %d", offset)
	}
}

func TestParseStoredTime_AcceptedForms(t *testing.T) {
	loc := mustRef(t)
	want := time.Date(2025, time.January, 1, 4, 30, 0, 0, time.UTC)

	for _, s := range []string{
		"2025-01-01 10:00:00+0530",
		"2025-01-01 10:00:00+05:30",
		"2025-01-01 04:30:00Z",
		"  2025-01-01 10:00:00+0530  ",
	} {
		got := mustParse(t, s, loc)
		if !got.Equal(want) {
			t.Errorf("%q: want %v, got %v", s, want, got)
		}
	}
}

func TestParseStoredTime_Invalid(t *testing.T) {
	loc := mustRef(t)

	if _, err := ParseStoredTime("", loc); !errors.Is(err, ErrEmptyTime) {
		t.Fatalf("want ErrEmptyTime, got %v", err)
	}
	if _, err := ParseStoredTime("tomorrow at ten", loc); err == nil {
		t.Fatal("want error for free text")
	}
	// %z requires an offset; a naive time is rejected.
	if _, err := ParseStoredTime("2025-01-01 10:00:00", loc); err == nil {
		t.Fatal("want error for missing offset")
	}
	// date and time are separated by a space, never "T"
	if _, err := ParseStoredTime("2025-01-01T10:00:00+05:30", loc); err == nil {
		t.Fatal("want error for ISO 8601 T separator")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	loc := mustRef(t)
	raw := time.Date(2025, time.June, 9, 18, 45, 12, 345_678_901, time.UTC)

	once := Normalize(raw, loc)
	twice := Normalize(once, loc)
	if !once.Equal(twice) || once.Location() != twice.Location() {
		t.Fatalf("normalize not idempotent: %v vs %v", once, twice)
	}
	if once.Nanosecond() != 0 {
		t.Fatalf("want truncated seconds, got %v", once)
	}
}

func TestNormalize_StringAndNativeAgree(t *testing.T) {
	loc := mustRef(t)

	fromString := mustParse(t, "2025-01-01 10:00:00+0530", loc)
	fromNative := Normalize(time.Date(2025, time.January, 1, 4, 30, 0, 250_000_000, time.UTC), loc)
	if !fromString.Equal(fromNative) {
		t.Fatalf("want same instant, got %v and %v", fromString, fromNative)
	}
}

func TestLoadReference(t *testing.T) {
	loc, err := LoadReference("UTC")
	if err != nil {
		t.Fatalf("load UTC: %v", err)
	}
	if loc.String() != "UTC" {
		t.Fatalf("want UTC, got %s", loc)
	}
	if _, err := LoadReference("Mars/Olympus_Mons"); err == nil {
		t.Fatal("want error for unknown zone")
	}
}

func TestFormatStoredTime(t *testing.T) {
	ts := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.FixedZone("IST", istOffset))
	if got := FormatStoredTime(ts); got != "2025-01-01 04:30:00+0000" {
		t.Fatalf("got %s", got)
	}
}
