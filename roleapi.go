package roleapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/cache"
	"github.com/techmaster-vietnam/roleapi/config"
	"github.com/techmaster-vietnam/roleapi/contracts"
	"github.com/techmaster-vietnam/roleapi/database"
	"github.com/techmaster-vietnam/roleapi/handlers"
	"github.com/techmaster-vietnam/roleapi/models"
	"github.com/techmaster-vietnam/roleapi/repository"
	"github.com/techmaster-vietnam/roleapi/router"
	"github.com/techmaster-vietnam/roleapi/service"
	"gorm.io/gorm"
)

// Config là alias cho config.Config để tránh conflict với package config khác
type Config = config.Config

// RoleAPI là main struct chứa tất cả dependencies
type RoleAPI struct {
	Config *Config
	DB     *gorm.DB

	// Stores
	RoleStore   contracts.RoleStore
	Assignments contracts.UserRoleAssignment
	Users       database.UserCreator

	// Cache, nil khi Redis không được bật
	RoleCache *cache.RoleCache

	RoleService *service.RoleService
	RoleHandler *handlers.RoleHandler
}

// Builder là builder để tạo RoleAPI
type Builder struct {
	app         *fiber.App
	db          *gorm.DB
	redis       *redis.Client
	config      *Config
	roles       contracts.RoleStore
	assignments contracts.UserRoleAssignment
	users       database.UserCreator
}

// New tạo mới Builder
func New(app *fiber.App) *Builder {
	return &Builder{app: app}
}

// WithConfig set config cho builder
func (b *Builder) WithConfig(cfg *Config) *Builder {
	b.config = cfg
	return b
}

// WithDB dùng GORM repositories trên db
func (b *Builder) WithDB(db *gorm.DB) *Builder {
	b.db = db
	return b
}

// WithRedis bật role cache trên client
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStores set stores tùy chỉnh, ưu tiên hơn WithDB
func (b *Builder) WithStores(roles contracts.RoleStore, assignments contracts.UserRoleAssignment) *Builder {
	b.roles = roles
	b.assignments = assignments
	return b
}

// Initialize khởi tạo RoleAPI với tất cả dependencies và mount routes lên app.
// Thứ tự chọn store: WithStores, WithDB (có migrate), cuối cùng là in-memory store.
func (b *Builder) Initialize() (*RoleAPI, error) {
	if b.config == nil {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		b.config = cfg
	}

	if err := b.initStores(); err != nil {
		return nil, err
	}

	var roleCache *cache.RoleCache
	roles := b.roles
	if b.redis != nil {
		roleCache = cache.NewRoleCache(b.roles, b.redis, b.config.Redis.TTL)
		roles = roleCache
	}

	roleService := service.NewRoleService(roles, b.assignments)
	roleHandler := handlers.NewRoleHandler(roleService)

	if b.app != nil {
		router.SetupRoutes(b.app, b.config.Server.RoutePrefix, roleHandler)
	}

	return &RoleAPI{
		Config:      b.config,
		DB:          b.db,
		RoleStore:   roles,
		Assignments: b.assignments,
		Users:       b.users,
		RoleCache:   roleCache,
		RoleService: roleService,
		RoleHandler: roleHandler,
	}, nil
}

func (b *Builder) initStores() error {
	switch {
	case (b.roles == nil) != (b.assignments == nil):
		// WithStores phải set cả hai, không tự trộn với store mặc định
		return goerrorkit.NewValidationError("WithStores requires both a role store and a user role assignment store", map[string]interface{}{
			"role_store_set":  b.roles != nil,
			"assignments_set": b.assignments != nil,
		})
	case b.roles != nil && b.assignments != nil:
		if users, ok := b.assignments.(database.UserCreator); ok {
			b.users = users
		}
	case b.db != nil:
		if err := database.Migrate(b.db); err != nil {
			return err
		}
		userRepo := repository.NewUserRepository(b.db)
		b.roles = repository.NewRoleRepository(b.db)
		b.assignments = userRepo
		b.users = userRepo
	default:
		store := repository.NewMemoryStore()
		b.roles = store
		b.assignments = store
		b.users = store
	}
	return nil
}

// Seed tạo role mặc định và demo user
func (r *RoleAPI) Seed(ctx context.Context) (*models.User, error) {
	if r.Users == nil {
		return nil, nil
	}
	return database.SeedData(ctx, r.RoleStore, r.Users, r.Assignments)
}
