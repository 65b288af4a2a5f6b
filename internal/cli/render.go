package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/peerexam/internal/examdb"
)

func userText(u examdb.User) string {
	if !u.Exists() {
		return fmt.Sprintf("user %d: not registered", u.UserID)
	}
	return fmt.Sprintf("user %d (id %d): %s, %s", u.UserID, u.ID, u.Username, u.PrivLevel)
}

func examText(e examdb.Exam) string {
	return fmt.Sprintf("exam %q (id %d): %s", e.Name, e.ID, e.State)
}

func questionText(q examdb.Question) string {
	return fmt.Sprintf("question %d.%d (id %d): %s", q.Number, q.Variant, q.ID, q.Text)
}

func assignmentText(uq examdb.UserQuestion) string {
	return fmt.Sprintf("assignment %d: exam %d, user %d, question %d", uq.ID, uq.ExamID, uq.UserID, uq.QuestionID)
}

func answerText(a examdb.Answer) string {
	return fmt.Sprintf("answer %d to assignment %d: %s", a.ID, a.UQID, a.Text)
}

func reviewAssignmentText(ur examdb.UserReview) string {
	return fmt.Sprintf("review assignment %d: reviewer %d, assignment %d", ur.ID, ur.UserID, ur.UserQuestionID)
}

func reviewText(r examdb.Review) string {
	return fmt.Sprintf("review %d for review assignment %d: grade %d, %s", r.ID, r.RevID, r.Grade, r.Text)
}

// listText renders one line per item, or "(none)".
func listText[T any](items []T, line func(T) string) string {
	if len(items) == 0 {
		return "(none)"
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = line(item)
	}
	return strings.Join(lines, "\n")
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
