package pipeline

import "fmt"

// Stage names, used in errors, events, and logs.
const (
	StageTranscribe = "transcribe"
	StageGenerate   = "generate"
	StageSynthesize = "synthesize"
)

// StageError marks a pipeline run as failed at a specific stage. The wrapped
// error is backend detail for logs; the stage name is what callers surface.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
