package core

import "fmt"

// GenerationUnavailableError reports that the generation service kept failing
// after the retry policy was exhausted. Last carries the final underlying
// error.
type GenerationUnavailableError struct {
	Attempts int
	Last     error
}

func (e *GenerationUnavailableError) Error() string {
	return fmt.Sprintf("generation unavailable after %d attempts: %v", e.Attempts, e.Last)
}

func (e *GenerationUnavailableError) Unwrap() error {
	return e.Last
}
