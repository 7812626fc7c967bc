package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-policy-admin/app/db"
	"github.com/FACorreiaa/go-policy-admin/config"
	"github.com/FACorreiaa/go-policy-admin/internal/api/policy"
	"github.com/FACorreiaa/go-policy-admin/internal/api/user"
	"github.com/FACorreiaa/go-policy-admin/internal/storage/memory"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Pool          *pgxpool.Pool // nil with the memory driver
	UserHandler   *user.HandlerImpl
	PolicyHandler *policy.HandlerImpl
}

type repositories struct {
	users    user.UserRepo
	policies policy.PolicyRepo
	links    policy.UserPolicyRepo
}

// NewContainer opens the configured store, seeds it when asked to, and wires
// repositories, services and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	var repos repositories
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		repos = c.openMemory()
	case config.StorageDriverPostgres, "":
		r, err := c.openPostgres(ctx)
		if err != nil {
			c.Close()
			return nil, err
		}
		repos = r
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	userService := user.NewUserService(repos.users, logger)
	c.UserHandler = user.NewHandlerImpl(userService, logger)

	policyService := policy.NewPolicyService(repos.policies, cfg.Cache.PolicyTTL, logger)
	assignmentService := policy.NewAssignmentService(repos.users, repos.policies, repos.links, logger)
	c.PolicyHandler = policy.NewHandlerImpl(policyService, assignmentService, logger)

	logger.Info("Container initialized", slog.String("storage", cfg.Storage.Driver))
	return c, nil
}

func (c *Container) openMemory() repositories {
	store := memory.New()
	if c.Config.Repositories.Postgres.Seed {
		store.Seed(database.SeedFixtures())
		c.Logger.Info("Memory store seeded")
	}
	return repositories{
		users:    store.Users(),
		policies: store.Policies(),
		links:    store.UserPolicies(),
	}
}

func (c *Container) openPostgres(ctx context.Context) (repositories, error) {
	dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
	if err != nil {
		c.Logger.Error("Failed to generate database config", slog.Any("error", err))
		return repositories{}, err
	}

	// Migrations run before the pool is created.
	if err = database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
		c.Logger.Error("Failed to run database migrations", slog.Any("error", err))
		return repositories{}, err
	}

	c.Pool, err = database.Init(dbConfig.ConnectionURL, c.Logger)
	if err != nil {
		c.Logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return repositories{}, err
	}

	if !c.WaitForDB(ctx) {
		return repositories{}, errors.New("database not ready after waiting")
	}

	if c.Config.Repositories.Postgres.Seed {
		if err = database.SeedDatabase(ctx, c.Pool, database.SeedFixtures(), c.Logger); err != nil {
			return repositories{}, fmt.Errorf("seeding database: %w", err)
		}
	}

	return repositories{
		users:    user.NewPostgresUserRepo(c.Pool, c.Logger),
		policies: policy.NewPostgresPolicyRepo(c.Pool, c.Logger),
		links:    policy.NewPostgresUserPolicyRepo(c.Pool, c.Logger),
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
