package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/elizeurcandido/sistema-provas/internal/exam"
	"github.com/elizeurcandido/sistema-provas/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestUser(t *testing.T, s *Store, username string, role model.UserRole) int64 {
	t.Helper()
	id, err := s.CreateUser(model.User{
		Username: username, DisplayName: username, PasswordHash: "x", Role: role, Active: true,
	})
	if err != nil {
		t.Fatalf("insertTestUser: %v", err)
	}
	return id
}

func insertTestExam(t *testing.T, s *Store, ownerID int64) int64 {
	t.Helper()
	id, err := s.CreateExam(model.Exam{Title: "Historia", OwnerID: ownerID, Status: model.ExamActive})
	if err != nil {
		t.Fatalf("insertTestExam: %v", err)
	}
	return id
}

func insertTestQuestion(t *testing.T, s *Store, examID int64, prompt, correct string) int64 {
	t.Helper()
	id, err := s.AddQuestion(model.Question{
		ExamID: examID, Prompt: prompt,
		OptionA: "A", OptionB: "B", OptionC: "C", OptionD: "D",
		Correct: correct,
	})
	if err != nil {
		t.Fatalf("insertTestQuestion: %v", err)
	}
	return id
}

// Connection pragmas must actually take effect: the lock contention on
// concurrent submissions is resolved by the busy timeout, and a DSN in
// the wrong syntax is ignored without error.
func TestNewAppliesPragmas(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want wal", journalMode)
	}

	var busyTimeout int
	if err := s.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busyTimeout)
	}
}

func TestExamCRUD(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)

	id := insertTestExam(t, s, owner)
	ex, err := s.GetExam(id)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if ex.Title != "Historia" {
		t.Errorf("expected title 'Historia', got %q", ex.Title)
	}
	if ex.Status != model.ExamActive {
		t.Errorf("expected active status, got %q", ex.Status)
	}
	if ex.OwnerID != owner {
		t.Errorf("expected owner %d, got %d", owner, ex.OwnerID)
	}

	// Not found.
	if _, err := s.GetExam(9999); err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows, got %v", err)
	}

	// Listing by owner.
	other := insertTestUser(t, s, "other", model.UserRoleTeacher)
	insertTestExam(t, s, other)
	mine, err := s.ListExamsByOwner(owner)
	if err != nil {
		t.Fatalf("ListExamsByOwner: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 exam for owner, got %d", len(mine))
	}

	all, err := s.ListActiveExams()
	if err != nil {
		t.Fatalf("ListActiveExams: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 active exams, got %d", len(all))
	}
}

func TestToggleExamStatus(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)
	id := insertTestExam(t, s, owner)

	if err := s.ToggleExamStatus(id); err != nil {
		t.Fatalf("ToggleExamStatus: %v", err)
	}
	ex, _ := s.GetExam(id)
	if ex.Status != model.ExamClosed {
		t.Errorf("expected closed after toggle, got %q", ex.Status)
	}

	if err := s.ToggleExamStatus(id); err != nil {
		t.Fatalf("ToggleExamStatus back: %v", err)
	}
	ex, _ = s.GetExam(id)
	if ex.Status != model.ExamActive {
		t.Errorf("expected active after second toggle, got %q", ex.Status)
	}

	active, _ := s.ListActiveExams()
	if len(active) != 1 {
		t.Errorf("expected 1 active exam, got %d", len(active))
	}
}

func TestQuestionCRUD(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)
	examID := insertTestExam(t, s, owner)

	count, err := s.QuestionCount(examID)
	if err != nil {
		t.Fatalf("QuestionCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 questions, got %d", count)
	}

	qID := insertTestQuestion(t, s, examID, "Capital do Brasil?", "c")
	q, err := s.GetQuestion(qID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.Prompt != "Capital do Brasil?" || q.Correct != "c" {
		t.Errorf("unexpected question: %+v", q)
	}

	insertTestQuestion(t, s, examID, "Q2", "a")
	list, err := s.GetQuestions(examID)
	if err != nil {
		t.Fatalf("GetQuestions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(list))
	}

	if err := s.DeleteQuestion(qID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	count, _ = s.QuestionCount(examID)
	if count != 1 {
		t.Errorf("expected 1 question after delete, got %d", count)
	}
}

func TestAddQuestionsBatch(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)
	examID := insertTestExam(t, s, owner)

	batch := []model.Question{
		{Prompt: "Q1", OptionA: "A", OptionB: "B", OptionC: "C", OptionD: "D", Correct: "a"},
		{Prompt: "Q2", OptionA: "A", OptionB: "B", OptionC: "C", OptionD: "D", Correct: "b"},
		{Prompt: "Q3", OptionA: "A", OptionB: "B", OptionC: "C", OptionD: "D", Correct: "c"},
	}
	if err := s.AddQuestions(examID, batch); err != nil {
		t.Fatalf("AddQuestions: %v", err)
	}

	list, err := s.GetQuestions(examID)
	if err != nil {
		t.Fatalf("GetQuestions: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(list))
	}
	for i, q := range list {
		if q.ExamID != examID {
			t.Errorf("question %d exam_id = %d, want %d", i, q.ExamID, examID)
		}
	}
}

func TestDuplicateExam(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)
	student := insertTestUser(t, s, "student", model.UserRoleStudent)
	examID := insertTestExam(t, s, owner)
	q1 := insertTestQuestion(t, s, examID, "Q1", "a")
	insertTestQuestion(t, s, examID, "Q2", "b")

	if _, err := s.CreateResult(model.Result{
		StudentID: student, ExamID: examID, Score: 10, Correct: 2, Total: 2, SubmittedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}

	copyID, err := s.DuplicateExam(examID)
	if err != nil {
		t.Fatalf("DuplicateExam: %v", err)
	}
	if copyID == examID {
		t.Fatal("copy must have a new identity")
	}

	dup, err := s.GetExam(copyID)
	if err != nil {
		t.Fatalf("GetExam copy: %v", err)
	}
	if dup.Status != model.ExamClosed {
		t.Errorf("copy status = %q, want closed", dup.Status)
	}
	if dup.OwnerID != owner {
		t.Errorf("copy owner = %d, want %d", dup.OwnerID, owner)
	}

	copied, err := s.GetQuestions(copyID)
	if err != nil {
		t.Fatalf("GetQuestions copy: %v", err)
	}
	if len(copied) != 2 {
		t.Fatalf("expected 2 copied questions, got %d", len(copied))
	}
	for _, q := range copied {
		if q.ID == q1 {
			t.Error("copied question reuses the original's identity")
		}
	}

	// Original results untouched, copy has none.
	origResults, _ := s.ListResults(examID)
	if len(origResults) != 1 {
		t.Errorf("original results = %d, want 1", len(origResults))
	}
	copyResults, _ := s.ListResults(copyID)
	if len(copyResults) != 0 {
		t.Errorf("copy results = %d, want 0", len(copyResults))
	}
}

func TestDeleteExamCascades(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)
	student := insertTestUser(t, s, "student", model.UserRoleStudent)
	examID := insertTestExam(t, s, owner)
	insertTestQuestion(t, s, examID, "Q1", "a")
	if _, err := s.CreateResult(model.Result{
		StudentID: student, ExamID: examID, Score: 10, Correct: 1, Total: 1, SubmittedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}

	if err := s.DeleteExam(examID); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}

	if _, err := s.GetExam(examID); err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows after delete, got %v", err)
	}
	questions, _ := s.GetQuestions(examID)
	if len(questions) != 0 {
		t.Errorf("expected cascaded question delete, got %d rows", len(questions))
	}
	results, _ := s.ListResults(examID)
	if len(results) != 0 {
		t.Errorf("expected cascaded result delete, got %d rows", len(results))
	}
}

func TestCreateResultUnique(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)
	student := insertTestUser(t, s, "student", model.UserRoleStudent)
	examID := insertTestExam(t, s, owner)

	r := model.Result{StudentID: student, ExamID: examID, Score: 5, Correct: 1, Total: 2, SubmittedAt: time.Now()}
	if _, err := s.CreateResult(r); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}

	// The same pair must be rejected by the storage constraint.
	if _, err := s.CreateResult(r); !errors.Is(err, exam.ErrDuplicateResult) {
		t.Errorf("duplicate CreateResult = %v, want ErrDuplicateResult", err)
	}

	// A different exam for the same student is fine.
	examID2 := insertTestExam(t, s, owner)
	r.ExamID = examID2
	if _, err := s.CreateResult(r); err != nil {
		t.Errorf("CreateResult on second exam: %v", err)
	}

	got, err := s.GetResult(student, examID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got == nil || got.Score != 5 {
		t.Fatalf("GetResult = %+v, want score 5", got)
	}

	// Missing pair yields nil, nil.
	missing, err := s.GetResult(9999, examID)
	if err != nil {
		t.Fatalf("GetResult missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil result, got %+v", missing)
	}
}

func TestExportResults(t *testing.T) {
	s := newTestStore(t)
	owner := insertTestUser(t, s, "teacher", model.UserRoleTeacher)
	student := insertTestUser(t, s, "maria", model.UserRoleStudent)
	examID := insertTestExam(t, s, owner)
	if _, err := s.CreateResult(model.Result{
		StudentID: student, ExamID: examID, Score: 7.5, Correct: 3, Total: 4, SubmittedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}

	export, err := s.ExportResults(examID)
	if err != nil {
		t.Fatalf("ExportResults: %v", err)
	}
	if export.Title != "Historia" {
		t.Errorf("Title = %q, want 'Historia'", export.Title)
	}
	if len(export.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(export.Results))
	}
	if export.Results[0].StudentName != "maria" {
		t.Errorf("StudentName = %q, want 'maria'", export.Results[0].StudentName)
	}
	if export.Results[0].Score != 7.5 {
		t.Errorf("Score = %v, want 7.5", export.Results[0].Score)
	}
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)

	id := insertTestUser(t, s, "joao", model.UserRoleStudent)
	u, err := s.GetUserByID(id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if u == nil || u.Username != "joao" {
		t.Fatalf("GetUserByID = %+v, want joao", u)
	}

	byName, err := s.GetUserByUsername("joao")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName == nil || byName.ID != id {
		t.Fatalf("GetUserByUsername = %+v", byName)
	}

	missing, err := s.GetUserByID(9999)
	if err != nil {
		t.Fatalf("GetUserByID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil user, got %+v", missing)
	}

	// Startup seeding keys on this nil return.
	noSuch, err := s.GetUserByUsername("professor")
	if err != nil {
		t.Fatalf("GetUserByUsername missing: %v", err)
	}
	if noSuch != nil {
		t.Errorf("expected nil user, got %+v", noSuch)
	}
}
