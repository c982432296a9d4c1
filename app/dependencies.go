package app

import (
	"context"
	"fmt"

	"github.com/upb/forum-backend/config"
	"github.com/upb/forum-backend/handlers"
	"github.com/upb/forum-backend/middleware"
	"github.com/upb/forum-backend/repositories"
	"github.com/upb/forum-backend/repositories/postgres"
	"github.com/upb/forum-backend/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users     repositories.UserRepository
	Posts     repositories.PostRepository
	TxManager repositories.TransactionManager

	// Services
	Hasher         services.PasswordHasher
	AccountService *services.AccountService
	PostService    *services.PostService

	// HTTP
	PostLookup     middleware.PostLookup
	AuthMiddleware *middleware.AuthMiddleware
	Authorizer     *middleware.Authorizer
	AccountHandler *handlers.AccountHandler
	PostHandler    *handlers.PostHandler
}

// NewDependencies opens the database and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, permitAll []middleware.PermitRule, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps := NewDependenciesFromFactory(cfg, factory, permitAll, logger)

	if err := deps.DB.PingContext(ctx); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize database: database ping failed: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesFromFactory wires dependencies around an existing repository factory
func NewDependenciesFromFactory(cfg *config.Config, factory *postgres.RepositoryFactory, permitAll []middleware.PermitRule, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()
	deps.initServices()
	deps.initHTTP(permitAll)

	return deps
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.Posts = repos.Posts
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initServices initializes the business services
func (d *Dependencies) initServices() {
	d.Hasher = services.NewArgon2Hasher(nil)
	d.AccountService = services.NewAccountService(d.Users, d.Hasher, d.Logger)
	d.PostService = services.NewPostService(d.Posts, d.TxManager, d.Logger)
}

// initHTTP initializes the authentication and authorization stages and the handlers
func (d *Dependencies) initHTTP(permitAll []middleware.PermitRule) {
	d.PostLookup = d.PostService
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.AccountService, d.Hasher, permitAll, d.Logger)
	d.Authorizer = middleware.NewAuthorizer(d.Logger)
	d.AccountHandler = handlers.NewAccountHandler(d.AccountService, d.Logger)
	d.PostHandler = handlers.NewPostHandler(d.PostService, d.Logger)
}

// SeedAdmin creates the configured administrator if it does not exist yet
func (d *Dependencies) SeedAdmin(ctx context.Context) error {
	created, err := d.AccountService.EnsureAdmin(ctx, d.Config.Admin.Login, d.Config.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if created && d.Config.Admin.Password == config.DefaultAdminPassword {
		d.Logger.Warn("admin account uses the default password; set ADMIN_PASSWORD",
			zap.String("login", d.Config.Admin.Login))
	}
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
