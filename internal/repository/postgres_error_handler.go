package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
)

// HandlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func HandlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	// Domain errors raised inside a transaction pass through untouched
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Check if it's a PostgreSQL error
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Not a PostgreSQL error: connection, context or driver failure
		return apperrors.Wrap(err, apperrors.CodeStorage, operation)
	}

	// Map PostgreSQL error codes to AppError codes
	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr, operation)

	case "23503": // FOREIGN_KEY_VIOLATION
		return handleForeignKeyViolation(pgErr, operation)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "23514": // CHECK_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "data violates check constraint")

	case "22001": // STRING_DATA_RIGHT_TRUNCATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "value too long")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found")

	case "42703": // UNDEFINED_COLUMN
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: column not found")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeStorage, "database connection error")

	case "53300": // TOO_MANY_CONNECTIONS
		return apperrors.Wrap(err, apperrors.CodeStorage, "database connection limit reached")

	case "40001", "40P01": // SERIALIZATION_FAILURE, DEADLOCK_DETECTED
		return apperrors.Wrap(err, apperrors.CodeStorage, "transaction aborted by concurrent update")

	default:
		// Unknown PostgreSQL error, return with error code for debugging
		message := operation + " (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeStorage, message)
	}
}

// handleUniqueViolation provides specific error messages for different unique constraints
func handleUniqueViolation(pgErr *pgconn.PgError, operation string) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "route_translations_lang_url"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "url already exists in this language")

	case strings.Contains(constraintName, "route_translations_route_lang"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "route already has a url in this language")

	case strings.Contains(constraintName, "content_translations_active"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "content already has an active translation in this language")

	case strings.Contains(constraintName, "routes_content"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "content already has a route")

	case strings.Contains(constraintName, "content_files_pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "file is already attached to this content")

	case strings.Contains(constraintName, "pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource with this ID already exists")

	default:
		// Generic unique violation
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, operation+": resource already exists")
	}
}

// handleForeignKeyViolation provides specific error messages for foreign key constraints
func handleForeignKeyViolation(pgErr *pgconn.PgError, operation string) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "parent_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced parent content does not exist")

	case strings.Contains(constraintName, "language_code"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced language does not exist")

	case strings.Contains(constraintName, "file_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced file does not exist")

	case strings.Contains(constraintName, "author_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced author does not exist")

	case strings.Contains(constraintName, "content_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced content does not exist")

	default:
		// Generic foreign key violation
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": referenced resource does not exist")
	}
}
