package hebdate

import (
	"errors"
	"testing"
	"time"
)

func TestConvertKnownDate(t *testing.T) {
	got, err := Convert("2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "20 Tevet 5784" {
		t.Fatalf("expected '20 Tevet 5784', got %q", got)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	start := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 4000; d += 37 {
		date := start.AddDate(0, 0, d).Format(Layout)
		first, err := Convert(date)
		if err != nil {
			t.Fatalf("convert %s: %v", date, err)
		}
		second, err := Convert(date)
		if err != nil {
			t.Fatalf("convert %s again: %v", date, err)
		}
		if first != second || first == "" {
			t.Fatalf("expected stable non-empty result for %s, got %q then %q", date, first, second)
		}
	}
}

func TestConvertRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-date", "2024-13-01", "01/02/2024"} {
		_, err := Convert(in)
		if err == nil {
			t.Fatalf("expected error for %q", in)
		}
		var convErr *ConversionError
		if !errors.As(err, &convErr) {
			t.Fatalf("expected ConversionError for %q, got %T", in, err)
		}
		if convErr.Input != in {
			t.Fatalf("expected input %q recorded, got %q", in, convErr.Input)
		}
	}
}

func TestFromTimeUsesCalendarDay(t *testing.T) {
	late := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	if FromTime(late) != "20 Tevet 5784" {
		t.Fatalf("expected calendar day conversion, got %q", FromTime(late))
	}
}
