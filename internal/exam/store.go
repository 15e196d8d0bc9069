package exam

import "github.com/elizeurcandido/sistema-provas/internal/model"

// Store is the persistence interface the exam engine consumes. The SQLite
// implementation lives in internal/store; tests may substitute their own.
//
// GetExam reports a missing exam with sql.ErrNoRows. GetResult returns
// (nil, nil) when no result exists. CreateResult must enforce a uniqueness
// constraint on (student, exam) at the storage layer and wrap
// ErrDuplicateResult on violation.
type Store interface {
	GetExam(id int64) (model.Exam, error)
	GetQuestions(examID int64) ([]model.Question, error)
	GetResult(studentID, examID int64) (*model.Result, error)
	CreateResult(r model.Result) (int64, error)
	GetUserByID(id int64) (*model.User, error)
}
