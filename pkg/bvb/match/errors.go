package match

import "fmt"

// ExecutionError reports that the game engine could not deliver a usable
// result: it failed to spawn, exited abnormally, overran its time budget, or
// produced output that does not decode.
type ExecutionError struct {
	Stage string // "run" or "decode"
	Err   error
}

func (err *ExecutionError) Error() string {
	return fmt.Sprintf("match: engine %s: %v", err.Stage, err.Err)
}

func (err *ExecutionError) Unwrap() error {
	return err.Err
}
