package render

import (
	"errors"
	"fmt"
)

var (
	ErrMissingData      = errors.New("missing section data")
	ErrMissingContainer = errors.New("missing section container")
	// ErrSpent is returned when an orchestrator is run a second time.
	ErrSpent = errors.New("orchestrator already ran")
)

// MissingDataError reports a section key absent from an otherwise valid
// document. Only that section is skipped.
type MissingDataError struct {
	Section Kind
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%s: %v", e.Section, ErrMissingData)
}

func (e *MissingDataError) Is(target error) bool { return target == ErrMissingData }

// MissingContainerError reports a mount point absent from the host page.
type MissingContainerError struct {
	Section   Kind
	Container string
}

func (e *MissingContainerError) Error() string {
	return fmt.Sprintf("%s: %v #%s", e.Section, ErrMissingContainer, e.Container)
}

func (e *MissingContainerError) Is(target error) bool { return target == ErrMissingContainer }
