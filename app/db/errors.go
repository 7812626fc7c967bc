package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// Constraint names created by the migrations.
const (
	ConstraintUsersUsername      = "users_username_key"
	ConstraintUsersEmail         = "users_email_key"
	ConstraintUserPoliciesPair   = "user_policies_user_id_policy_id_key"
	ConstraintPoliciesName       = "policies_name_key"
	ConstraintUserPoliciesUser   = "user_policies_user_id_fkey"
	ConstraintUserPoliciesPolicy = "user_policies_policy_id_fkey"
)

// ConstraintViolation reports the violated constraint name when err is a
// Postgres error with the given SQLSTATE code.
func ConstraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
