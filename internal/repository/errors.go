package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an application email is already taken.
	ErrDuplicateEmail = errors.New("application with this email already exists")
	// ErrDuplicateStudentNumber is returned when a student number collides
	// with an existing one. Allocation retries on this.
	ErrDuplicateStudentNumber = errors.New("student number already exists")
	// ErrDuplicateProgramCode is returned when a study program code is taken.
	ErrDuplicateProgramCode = errors.New("study program with this code already exists")
)
