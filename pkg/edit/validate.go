package edit

import (
	"fmt"
	"sort"
)

// ValidationError describes an edit whose range does not fit the text.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// ConflictError describes two overlapping edits.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Validate checks every edit range against a text of textLen bytes and
// returns the first invalid one.
func Validate(edits []TextEdit, textLen int) error {
	for _, e := range edits {
		switch {
		case e.Start < 0:
			return &ValidationError{Edit: e, Message: "start offset is negative"}
		case e.End < e.Start:
			return &ValidationError{Edit: e, Message: "end offset is before start offset"}
		case e.End > textLen:
			return &ValidationError{
				Edit:    e,
				Message: fmt.Sprintf("end offset %d exceeds text length %d", e.End, textLen),
			}
		}
	}
	return nil
}

// Prepare validates edits and returns a sorted copy. Overlapping edits
// are rejected with a ConflictError; two insertions at the same offset
// keep their relative order.
func Prepare(edits []TextEdit, textLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}
	if err := Validate(edits, textLen); err != nil {
		return nil, err
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return nil, &ConflictError{First: sorted[i-1], Second: sorted[i]}
		}
	}
	return sorted, nil
}
