package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTask wraps every task validation failure.
var ErrInvalidTask = errors.New("invalid task")

type Task struct {
	ID          string
	Code        string
	Title       string
	Category    string
	Description string
	Column      Column
	Squad       Squad

	// DevDoneAt is stamped the first time the task enters Testes or Deploy Dev.
	DevDoneAt *time.Time
	// ProdDoneAt is stamped the first time the task enters Deploy Prod.
	ProdDoneAt *time.Time
}

// EffectiveSquad returns the task's squad, counting unset as Geral.
func (t *Task) EffectiveSquad() Squad {
	if t.Squad == "" {
		return SquadGeneral
	}
	return t.Squad
}

// Validate checks the fields every stored task must carry.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidTask)
	}
	if !t.Column.Valid() {
		return fmt.Errorf("%w: column %q is not a pipeline stage", ErrInvalidTask, t.Column)
	}
	if t.Squad != "" {
		if _, err := ParseSquad(string(t.Squad)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTask, err)
		}
	}
	return nil
}

// MoveTo places the task in col. Every column is reachable from every other.
// Entering Testes/Deploy Dev or Deploy Prod records the matching completion
// stamp only if it is still unset; moving back never clears a stamp.
func (t *Task) MoveTo(col Column, now time.Time) error {
	if !col.Valid() {
		return fmt.Errorf("cannot move task to %q: not a pipeline stage", col)
	}
	t.Column = col
	switch col {
	case ColumnTesting, ColumnDeployDev:
		if t.DevDoneAt == nil {
			stamp := now
			t.DevDoneAt = &stamp
		}
	case ColumnDeployProd:
		if t.ProdDoneAt == nil {
			stamp := now
			t.ProdDoneAt = &stamp
		}
	}
	return nil
}

// CompletedAt returns the first completion ever recorded for the task, or nil.
func (t *Task) CompletedAt() *time.Time {
	switch {
	case t.DevDoneAt == nil:
		return t.ProdDoneAt
	case t.ProdDoneAt == nil:
		return t.DevDoneAt
	case t.ProdDoneAt.Before(*t.DevDoneAt):
		return t.ProdDoneAt
	default:
		return t.DevDoneAt
	}
}

// Label renders "CODE Title" for lists and cards.
func (t *Task) Label() string {
	return CoalesceStr(strings.TrimSpace(t.Code+" "+t.Title), t.ID)
}

// Clone returns a copy that does not share timestamp pointers.
func (t Task) Clone() Task {
	if t.DevDoneAt != nil {
		d := *t.DevDoneAt
		t.DevDoneAt = &d
	}
	if t.ProdDoneAt != nil {
		p := *t.ProdDoneAt
		t.ProdDoneAt = &p
	}
	return t
}
