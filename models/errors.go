package models

import (
	"errors"
	"fmt"
)

// ErrSchemaViolation marks a CSV row whose shape does not match Columns.
var ErrSchemaViolation = errors.New("schema violation")

// Stage names the pipeline step a fatal error came from.
type Stage string

const (
	StageConnecting Stage = "connecting"
	StageTruncating Stage = "truncating"
	StageReading    Stage = "reading"
	StageInserting  Stage = "inserting"
	StageWriting    Stage = "writing-results"
)

type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// WrapStage tags err with stage. A nil err stays nil.
func WrapStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf reports the stage attached to err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
