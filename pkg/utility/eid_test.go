package utility

import (
	"testing"

	"github.com/google/uuid"
)

func TestUtility_GetExecutionIDStable(t *testing.T) {
	first := GetExecutionID()
	if first == uuid.Nil {
		t.Fatal("Expected a non-nil execution id")
	}

	second := GetExecutionID()
	if first != second {
		t.Errorf("Execution id changed between calls: %s vs %s", first, second)
	}
}

func TestUtility_ResetExecutionID(t *testing.T) {
	before := GetExecutionID()
	fresh := ResetExecutionID()

	if fresh == uuid.Nil {
		t.Fatal("Expected a non-nil execution id after reset")
	}
	if fresh == before {
		t.Error("Expected reset to mint a new execution id")
	}
	if got := GetExecutionID(); got != fresh {
		t.Errorf("Expected the reset id to stick, got %s want %s", got, fresh)
	}
}
