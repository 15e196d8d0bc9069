package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleStudent is a student user role.
	UserRoleStudent UserRole = "student"
	// UserRoleTeacher is a teacher user role.
	UserRoleTeacher UserRole = "teacher"
)

// User represents a system user. Authentication happens upstream; the
// user table exists so ownership checks and certificates have names to
// work with.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

type userCtxKey struct{}

// ContextWithUser stores the authenticated caller in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated caller from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// ExamStatus represents whether an exam accepts submissions.
type ExamStatus string

const (
	ExamActive ExamStatus = "active"
	ExamClosed ExamStatus = "closed"
)

// Exam is a named collection of multiple-choice questions owned by a teacher.
type Exam struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	OwnerID   int64      `json:"owner_id"`
	Status    ExamStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Question is a prompt with four options and one correct option letter.
// Correct is stored normalized to a lowercase single letter in a..d.
type Question struct {
	ID      int64  `json:"id"`
	ExamID  int64  `json:"exam_id"`
	Prompt  string `json:"prompt"`
	OptionA string `json:"option_a"`
	OptionB string `json:"option_b"`
	OptionC string `json:"option_c"`
	OptionD string `json:"option_d"`
	Correct string `json:"correct"`
}

// PresentedQuestion is a question as shown to a student: the correct
// option letter is stripped.
type PresentedQuestion struct {
	ID      int64  `json:"id"`
	Prompt  string `json:"prompt"`
	OptionA string `json:"option_a"`
	OptionB string `json:"option_b"`
	OptionC string `json:"option_c"`
	OptionD string `json:"option_d"`
}

// Result is the single permitted grading outcome for a student on an exam.
// Rows are append-only and never updated.
type Result struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"student_id"`
	ExamID      int64     `json:"exam_id"`
	Score       float64   `json:"score"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Certificate is the field contract handed to the certificate renderer.
type Certificate struct {
	Serial         string `json:"serial"`
	StudentName    string `json:"student_name"`
	ExamTitle      string `json:"exam_title"`
	Score          string `json:"score"`
	CompletionDate string `json:"completion_date"`
}
