package examdb

import "github.com/roach88/peerexam/internal/store"

// DB groups the entity registries over one store.
type DB struct {
	Users             *Users
	Exams             *Exams
	Questions         *Questions
	Assignments       *Assignments
	Answers           *Answers
	ReviewAssignments *ReviewAssignments
	Reviews           *Reviews
}

// New wires every registry to st.
func New(st store.Store) *DB {
	questions := &Questions{st: st}
	assignments := &Assignments{st: st}
	reviewAssignments := &ReviewAssignments{st: st}

	return &DB{
		Users:             &Users{st: st},
		Exams:             &Exams{st: st},
		Questions:         questions,
		Assignments:       assignments,
		Answers:           &Answers{st: st, questions: questions, assignments: assignments},
		ReviewAssignments: reviewAssignments,
		Reviews:           &Reviews{st: st},
	}
}
