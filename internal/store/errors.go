// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by store methods. Handlers map them to HTTP
// status codes with errors.Is.
var (
	// ErrNotFound is returned when an update or delete matched no row.
	ErrNotFound = errors.New("not found")

	// ErrChildrenExist blocks deleting a category that still has subcategories.
	ErrChildrenExist = errors.New("category has children")

	// ErrCategoryInUse blocks deleting a skill category referenced by skills.
	ErrCategoryInUse = errors.New("category in use")

	// ErrSlugTaken is returned when a slug collides within its namespace.
	ErrSlugTaken = errors.New("slug already taken")
)

// ValidationError reports invalid caller input. Its message is safe to show
// to the admin user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// invalid returns a *ValidationError with the given message.
func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique violation,
// optionally restricted to the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// foreignKeyViolation is the PostgreSQL SQLSTATE for foreign key failures.
const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
