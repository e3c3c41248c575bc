package models

import "time"

// GroupKind distinguishes how a set of question IDs was linked together.
type GroupKind string

const (
	GroupSingle   GroupKind = "single"
	GroupCase     GroupKind = "case"
	GroupOrdering GroupKind = "ordering"
)

// Question is reference data from the exam question bank. The scheduler
// treats it as read-only; only Number, Subject and IsRequired matter to
// the core, the remaining fields feed the grading and display layers.
type Question struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	Subject       string    `json:"subject"`
	IsRequired    bool      `json:"is_required"`
	CaseID        string    `json:"case_id,omitempty"`
	Kind          GroupKind `json:"kind"`
	Text          string    `json:"text,omitempty"`
	Choices       []string  `json:"choices,omitempty"`
	CorrectAnswer string    `json:"correct_answer,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuestionGroup is the unit the session queue serves: one or more
// question numbers presented and evaluated together.
type QuestionGroup struct {
	Kind          GroupKind `json:"kind"`
	QuestionIDs   []string  `json:"question_ids"`
	ExpectedOrder []string  `json:"expected_order,omitempty"`
}

// SingleGroup wraps an ordinary standalone question.
func SingleGroup(questionID string) QuestionGroup {
	return QuestionGroup{Kind: GroupSingle, QuestionIDs: []string{questionID}}
}

// CaseGroup wraps linked case questions that must be answered together.
func CaseGroup(questionIDs ...string) QuestionGroup {
	return QuestionGroup{Kind: GroupCase, QuestionIDs: questionIDs}
}

// OrderingGroup wraps an ordering question with its expected sequence.
func OrderingGroup(questionIDs, expectedOrder []string) QuestionGroup {
	return QuestionGroup{Kind: GroupOrdering, QuestionIDs: questionIDs, ExpectedOrder: expectedOrder}
}

// Empty reports whether the group carries no questions.
func (g QuestionGroup) Empty() bool {
	return len(g.QuestionIDs) == 0
}

// QuestionFilter narrows question listings.
type QuestionFilter struct {
	Subject      string
	RequiredOnly bool
	NumberPrefix string
	Limit        int
	Offset       int
}
