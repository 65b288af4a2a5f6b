package examdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// ExamState is the phase the exam is in.
type ExamState string

const (
	ExamStopped   ExamState = "stopped"
	ExamRunning   ExamState = "running"
	ExamReviewing ExamState = "reviewing"
)

// Exam is the single exam.
type Exam struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	State ExamState `json:"state"`
}

type examPayload struct {
	Name string `validate:"required"`
}

type examStatePayload struct {
	State ExamState `validate:"oneof=stopped running reviewing"`
}

// Every exam row carries singleton = 1 under a UNIQUE constraint, so the
// natural key is a constant.
var examKind = entityKind[noKey, Exam]{
	name:   "exam",
	table:  "exam",
	onMiss: FailOnMiss,
	key: func(noKey) record.Fields {
		return record.Fields{"singleton": record.Int(1)}
	},
	decode: decodeExam,
}

func decodeExam(row record.Row) (Exam, error) {
	name, err := row.Fields.String("name")
	if err != nil {
		return Exam{}, err
	}
	state, err := row.Fields.String("state")
	if err != nil {
		return Exam{}, err
	}
	return Exam{ID: row.ID, Name: name, State: ExamState(state)}, nil
}

// Exams manages the single exam.
type Exams struct {
	st store.Store
}

// Create creates the exam in the stopped state. If an exam already exists
// it is returned unmodified and name is discarded without being validated.
// The stored name is in NFC.
func (r *Exams) Create(ctx context.Context, name string) (Exam, error) {
	exam, created, err := examKind.firstWrite(ctx, r.st, noKey{}, record.Fields{
		"name":  record.String(normText(name)),
		"state": record.String(ExamStopped),
	}, func() error {
		return check(examKind.name, examPayload{Name: name})
	})
	if err != nil {
		return Exam{}, err
	}
	if !created {
		slog.Info("exam already exists, keeping it", "id", exam.ID, "name", exam.Name, "ignored", name)
	}
	return exam, nil
}

// Get returns the exam, or a *NotFoundError if none was created.
func (r *Exams) Get(ctx context.Context) (Exam, error) {
	return examKind.lookup(ctx, r.st, noKey{})
}

// SetState stores a new state for exam and updates exam in place.
func (r *Exams) SetState(ctx context.Context, exam *Exam, state ExamState) error {
	if err := check(examKind.name, examStatePayload{State: state}); err != nil {
		return err
	}
	if err := r.st.Update(ctx, examKind.table, exam.ID, record.Fields{"state": record.String(state)}); err != nil {
		return fmt.Errorf("set exam state: %w", err)
	}
	exam.State = state
	return nil
}
