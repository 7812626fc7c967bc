package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-policy-admin/internal/types"
)

// Assignment names a seeded user/policy pair by their unique keys.
type Assignment struct {
	Username   string
	PolicyName string
}

// Fixtures is the reference and demo data loaded into a fresh store.
type Fixtures struct {
	Policies    []types.Policy
	Users       []types.NewUser
	Assignments []Assignment
}

func strPtr(s string) *string { return &s }

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(fmt.Sprintf("bad seed date %q: %v", s, err))
	}
	return t
}

// SeedFixtures returns the default data set. IDs are freshly generated on
// every call; rows are matched on their unique names when seeding.
func SeedFixtures() Fixtures {
	return Fixtures{
		Policies: []types.Policy{
			{ID: uuid.New(), Name: "Car Insurance", ShortDescription: "Complete coverage for your vehicle including collision, theft, and liability protection.", MonthlyPremium: 89.99},
			{ID: uuid.New(), Name: "Home Insurance", ShortDescription: "Protect your home and belongings with complete property and liability coverage.", MonthlyPremium: 125.50},
			{ID: uuid.New(), Name: "Life Insurance", ShortDescription: "Health and life insurance providing financial security for you and your family.", MonthlyPremium: 75.00},
			{ID: uuid.New(), Name: "Device Insurance", ShortDescription: "Coverage for your electronic devices including laptops, mobile phones, and tablets.", MonthlyPremium: 19.99},
			{ID: uuid.New(), Name: "Travel Insurance", ShortDescription: "Travel protection covering medical emergencies, trip cancellations, and lost luggage.", MonthlyPremium: 45.00},
		},
		Users: []types.NewUser{
			{ID: uuid.New(), Username: "jsmith", FirstName: "John", LastName: "Smith", DateOfBirth: date("1985-03-15"),
				Address: "123 Main Street, New York, NY 10001", PhoneNumber: "+1-555-0101", Email: "john.smith@email.com",
				ProfileImageURL: strPtr("https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400")},
			{ID: uuid.New(), Username: "ewilson", FirstName: "Emma", LastName: "Wilson", DateOfBirth: date("1990-07-22"),
				Address: "456 Oak Avenue, Los Angeles, CA 90001", PhoneNumber: "+1-555-0102", Email: "emma.wilson@email.com",
				ProfileImageURL: strPtr("https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=400")},
			{ID: uuid.New(), Username: "dbrown", FirstName: "David", LastName: "Brown", DateOfBirth: date("1988-11-08"),
				Address: "789 Pine Road, Chicago, IL 60601", PhoneNumber: "+1-555-0103", Email: "david.brown@email.com",
				ProfileImageURL: strPtr("https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400")},
			{ID: uuid.New(), Username: "smartinez", FirstName: "Sophia", LastName: "Martinez", DateOfBirth: date("1992-05-30"),
				Address: "321 Elm Street, Houston, TX 77001", PhoneNumber: "+1-555-0104", Email: "sophia.martinez@email.com",
				ProfileImageURL: strPtr("https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400")},
			{ID: uuid.New(), Username: "jtaylor", FirstName: "James", LastName: "Taylor", DateOfBirth: date("1987-12-10"),
				Address: "654 Maple Drive, Phoenix, AZ 85001", PhoneNumber: "+1-555-0105", Email: "james.taylor@email.com",
				ProfileImageURL: strPtr("https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400")},
		},
		Assignments: []Assignment{
			{Username: "jsmith", PolicyName: "Car Insurance"},
			{Username: "jsmith", PolicyName: "Life Insurance"},
			{Username: "ewilson", PolicyName: "Home Insurance"},
			{Username: "ewilson", PolicyName: "Travel Insurance"},
			{Username: "dbrown", PolicyName: "Device Insurance"},
			{Username: "smartinez", PolicyName: "Car Insurance"},
			{Username: "smartinez", PolicyName: "Home Insurance"},
			{Username: "smartinez", PolicyName: "Device Insurance"},
		},
	}
}

const (
	seedPolicyQuery = `
        INSERT INTO policies (id, name, short_description, monthly_premium)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT DO NOTHING`

	seedUserQuery = `
        INSERT INTO users (id, username, first_name, last_name, date_of_birth,
                           address, phone_number, email, profile_image_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT DO NOTHING`

	seedAssignmentQuery = `
        INSERT INTO user_policies (id, user_id, policy_id)
        SELECT $1, u.id, p.id
        FROM users u, policies p
        WHERE u.username = $2 AND p.name = $3
        ON CONFLICT DO NOTHING`
)

// SeedDatabase loads fixtures in a single transaction. Existing rows with the
// same unique keys are kept, so running it repeatedly is safe.
func SeedDatabase(ctx context.Context, db PgxIface, fx Fixtures, logger *slog.Logger) (err error) {
	l := logger.With(slog.String("method", "SeedDatabase"))
	l.InfoContext(ctx, "Seeding database...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				l.WarnContext(ctx, "Seed rollback failed", slog.Any("error", rbErr))
			}
		}
	}()

	var inserted int64
	for _, p := range fx.Policies {
		tag, execErr := tx.Exec(ctx, seedPolicyQuery, p.ID, p.Name, p.ShortDescription, p.MonthlyPremium)
		if execErr != nil {
			return fmt.Errorf("failed to seed policy %q: %w", p.Name, execErr)
		}
		inserted += tag.RowsAffected()
	}

	for _, u := range fx.Users {
		tag, execErr := tx.Exec(ctx, seedUserQuery, u.ID, u.Username, u.FirstName, u.LastName, u.DateOfBirth,
			u.Address, u.PhoneNumber, u.Email, u.ProfileImageURL)
		if execErr != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.Username, execErr)
		}
		inserted += tag.RowsAffected()
	}

	for _, a := range fx.Assignments {
		tag, execErr := tx.Exec(ctx, seedAssignmentQuery, uuid.New(), a.Username, a.PolicyName)
		if execErr != nil {
			return fmt.Errorf("failed to seed assignment %s/%s: %w", a.Username, a.PolicyName, execErr)
		}
		inserted += tag.RowsAffected()
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	l.InfoContext(ctx, "Database seeded successfully", slog.Int64("rows_inserted", inserted))
	return nil
}
