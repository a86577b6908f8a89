package clock

import (
	"testing"
	"time"
)

func TestNowUsesStorageOffset(t *testing.T) {
	got := Now()
	want := time.Now().UTC().Add(StorageOffset)

	if diff := want.Sub(got); diff < -time.Second || diff > time.Second {
		t.Errorf("Now() off by %v from shifted UTC", diff)
	}
}

func TestFormatDisplay(t *testing.T) {
	when, _ := time.Parse("2006-01-02 15:04", "2024-06-15 09:05")

	if got := FormatDisplay(&when); got != "15-06-2024 09:05 AM" {
		t.Errorf("FormatDisplay = %q", got)
	}
	if got := FormatDisplay(nil); got != "" {
		t.Errorf("FormatDisplay(nil) = %q, want empty", got)
	}
}
