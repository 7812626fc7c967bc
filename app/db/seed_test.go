package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedFixtures(t *testing.T) {
	fx := SeedFixtures()

	assert.Len(t, fx.Policies, 5)
	assert.Len(t, fx.Users, 5)
	assert.Len(t, fx.Assignments, 8)

	policyNames := map[string]bool{}
	for _, p := range fx.Policies {
		policyNames[p.Name] = true
		assert.GreaterOrEqual(t, p.MonthlyPremium, 0.0)
	}
	usernames := map[string]bool{}
	for _, u := range fx.Users {
		usernames[u.Username] = true
	}
	for _, a := range fx.Assignments {
		assert.True(t, usernames[a.Username], "unknown user %s", a.Username)
		assert.True(t, policyNames[a.PolicyName], "unknown policy %s", a.PolicyName)
	}
}

func TestSeedDatabase(t *testing.T) {
	fx := Fixtures{
		Policies:    SeedFixtures().Policies[:1],
		Users:       SeedFixtures().Users[:1],
		Assignments: []Assignment{{Username: "jsmith", PolicyName: "Car Insurance"}},
	}

	t.Run("commits all rows", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO policies").
			WithArgs(pgxmock.AnyArg(), "Car Insurance", pgxmock.AnyArg(), 89.99).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "jsmith", "John", "Smith", pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), "john.smith@email.com", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO user_policies").
			WithArgs(pgxmock.AnyArg(), "jsmith", "Car Insurance").
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectCommit()

		err = SeedDatabase(context.Background(), mock, fx, discardLogger())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO policies").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err = SeedDatabase(context.Background(), mock, fx, discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Car Insurance")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
