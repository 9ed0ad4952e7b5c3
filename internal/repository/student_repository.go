package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jwkim/studyroom-seat-reservation/internal/model"
)

// StudentRepo provides access to the 'students' table.  It is the
// registry collaborator of the reservation store: a seat claim is
// only accepted for a student id present here.
type StudentRepo struct{ DB *sql.DB }

// NewStudentRepo constructs a StudentRepo.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

// GetByID fetches a student by student id.
func (r *StudentRepo) GetByID(ctx context.Context, studentID string) (model.Student, error) {
	var s model.Student
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, student_id, name, created_at FROM students WHERE student_id = ? LIMIT 1",
		studentID).Scan(&s.ID, &s.StudentID, &s.Name, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, ErrStudentNotFound
	}
	return s, err
}

// LookupName resolves a student id to a display name.  It implements
// the store's Registry interface; ok is false when the id is not
// registered, err is reserved for infrastructure failures.
func (r *StudentRepo) LookupName(ctx context.Context, studentID string) (string, bool, error) {
	s, err := r.GetByID(ctx, studentID)
	if errors.Is(err, ErrStudentNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s.Name, true, nil
}

// List returns all students ordered by student id.
func (r *StudentRepo) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, student_id, name, created_at FROM students ORDER BY student_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Add inserts a student and returns the stored row.  A duplicate
// student id yields ErrStudentExists.
func (r *StudentRepo) Add(ctx context.Context, studentID, name string) (model.Student, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO students (student_id, name) VALUES (?, ?)", studentID, name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.Student{}, ErrStudentExists
		}
		return model.Student{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Student{}, err
	}
	return r.getByRowID(ctx, uint64(id))
}

// Delete removes a student by student id.  Missing ids yield
// ErrStudentNotFound.
func (r *StudentRepo) Delete(ctx context.Context, studentID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM students WHERE student_id = ?", studentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepo) getByRowID(ctx context.Context, id uint64) (model.Student, error) {
	var s model.Student
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, student_id, name, created_at FROM students WHERE id = ? LIMIT 1",
		id).Scan(&s.ID, &s.StudentID, &s.Name, &s.CreatedAt)
	return s, err
}
