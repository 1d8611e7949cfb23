package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidID   = errors.New("model: invalid task id")
	ErrEmptyText   = errors.New("model: task text is required")
	ErrDuplicateID = errors.New("model: duplicate task id")
)

// Task is a single entry in the list. The JSON shape is the persisted layout.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Validate checks the invariants every stored task must satisfy. Text may be
// empty here: edits are allowed to clear it, only creation rejects blanks.
func (t Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, t.ID)
	}
	return nil
}

// ValidateNewText is the creation-time rule for task text.
func ValidateNewText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// Toggled returns a copy with the completion flag flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// WithText returns a copy carrying the given text.
func (t Task) WithText(text string) Task {
	t.Text = text
	return t
}

// CheckUniqueIDs reports the first id that appears more than once.
func CheckUniqueIDs(tasks []Task) error {
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
