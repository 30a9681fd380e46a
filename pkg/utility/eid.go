package utility

import (
	"sync"

	"github.com/google/uuid"
)

// ExecutionID identifies one process run. Persisted runs carry it so a result
// can be traced back to the service instance that produced it.
type ExecutionID = uuid.UUID

var (
	executionMu sync.Mutex
	executionID ExecutionID
)

// GetExecutionID lazily mints the process id on first use and returns the
// same value for the lifetime of the process.
func GetExecutionID() ExecutionID {
	executionMu.Lock()
	defer executionMu.Unlock()

	if executionID == uuid.Nil {
		executionID = uuid.Must(uuid.NewV7())
	}
	return executionID
}

// ResetExecutionID mints a fresh id, ending the previous execution scope.
func ResetExecutionID() ExecutionID {
	executionMu.Lock()
	defer executionMu.Unlock()

	executionID = uuid.Must(uuid.NewV7())
	return executionID
}
