package backtest

import "fmt"

// ValidationError rejects malformed input before the replay runs. It exists
// so the service layer can map bad requests to 400s while everything else
// stays a generic failure.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
