// Package repository is the persistence layer for the student
// registry.  Sentinel values below let handlers distinguish failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrStudentExists is returned when adding a student whose student id
// is already registered.  Handlers translate this into HTTP 400.
var ErrStudentExists = errors.New("student id already registered")

// ErrStudentNotFound is returned when a lookup or delete targets a
// student id that is not in the registry.  Handlers translate this
// into HTTP 404 (or 400 on the reservation path).
var ErrStudentNotFound = errors.New("student not found")
