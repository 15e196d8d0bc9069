package exam

import "errors"

var (
	// ErrExamNotFound is returned when the referenced exam does not exist.
	ErrExamNotFound = errors.New("exam not found")
	// ErrExamInactive is returned when the exam is closed for submissions.
	ErrExamInactive = errors.New("exam is not active")
	// ErrAlreadyAttempted is returned when the student already has a
	// result for the exam. One attempt per student per exam.
	ErrAlreadyAttempted = errors.New("exam already attempted")
	// ErrQuestionNotFound is returned when the referenced question does
	// not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrResultNotFound is returned when no result exists for the pair.
	ErrResultNotFound = errors.New("result not found")
	// ErrNotOwner is returned when the requester does not own the entity.
	ErrNotOwner = errors.New("requester is not the owner")
	// ErrScoreBelowThreshold is returned when the result does not qualify
	// for a certificate.
	ErrScoreBelowThreshold = errors.New("score below certificate threshold")

	// ErrDuplicateResult must be wrapped by Store.CreateResult when the
	// (student, exam) uniqueness constraint rejects the insert. Submit
	// maps it to ErrAlreadyAttempted, which closes the race between two
	// concurrent submissions.
	ErrDuplicateResult = errors.New("result already exists for this student and exam")
)
