// Package repository implements the persistence layer over MySQL. Sentinel
// errors defined here let handlers and the moderation workflow distinguish
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist. A delete that affects
// zero rows also reports ErrNotFound so that concurrent rejections of the
// same record resolve cleanly.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when registration or an account update would
// violate the unique email constraint.
var ErrEmailExists = errors.New("email already exists")
