package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("disk full")
	err := Wrap(IOFailure, "save workbook: %w", base)

	if KindOf(err) != IOFailure {
		t.Errorf("KindOf = %v, want IOFailure", KindOf(err))
	}
	if !errors.Is(err, base) {
		t.Error("wrapped chain lost the base error")
	}
}

func TestKindOfSurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("outer context: %w", Wrap(NotFound, "client 7 not found"))

	if KindOf(err) != NotFound {
		t.Errorf("KindOf = %v, want NotFound", KindOf(err))
	}
}

func TestKindOfUntagged(t *testing.T) {
	if KindOf(errors.New("plain")) != Unknown {
		t.Error("plain error should report Unknown")
	}
	if KindOf(nil) != Unknown {
		t.Error("nil error should report Unknown")
	}
}
