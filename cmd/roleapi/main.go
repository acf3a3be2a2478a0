package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi"
	"github.com/techmaster-vietnam/roleapi/config"
	"github.com/techmaster-vietnam/roleapi/database"
	"github.com/techmaster-vietnam/roleapi/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load configuration (.env + environment variables)
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(goerrorkit.WrapWithMessage(err, "Failed to load configuration"))
	}

	// 2. Initialize goerrorkit logger
	goerrorkit.InitLogger(goerrorkit.LoggerOptions{
		ConsoleOutput: true,
		FileOutput:    true,
		FilePath:      cfg.Log.FilePath,
		JSONFormat:    cfg.Log.JSON,
		MaxFileSize:   10,
		MaxBackups:    5,
		MaxAge:        30,
		LogLevel:      cfg.Log.Level,
	})

	// 3. Configure stack trace for this application
	goerrorkit.ConfigureForApplication("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Role API",
		ErrorHandler: middleware.ErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// 5. Add middleware (RequestID must be before logger)
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	builder := roleapi.New(app).WithConfig(cfg)

	// 6. Connect to database (bỏ qua khi DB_DRIVER=memory)
	if !cfg.UseMemoryStore() {
		db, err := database.Open(cfg.Database)
		if err != nil {
			panic(goerrorkit.WrapWithMessage(err, "Failed to connect to database").
				WithData(map[string]interface{}{
					"host":     cfg.Database.Host,
					"port":     cfg.Database.Port,
					"user":     cfg.Database.User,
					"database": cfg.Database.Name,
					"sslmode":  cfg.Database.SSLMode,
				}))
		}
		builder = builder.WithDB(db)
	}

	// 7. Connect to Redis role cache (tùy chọn)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			panic(goerrorkit.WrapWithMessage(err, "Failed to connect to redis").
				WithData(map[string]interface{}{
					"addr": cfg.Redis.Addr,
				}))
		}
		builder = builder.WithRedis(client)
	}

	// 8. Initialize stores, services, handlers and routes
	api, err := builder.Initialize()
	if err != nil {
		panic(goerrorkit.WrapWithMessage(err, "Failed to initialize role API"))
	}

	// 9. Seed initial data (only if SEED_DATA=true)
	if cfg.SeedData {
		if _, err := api.Seed(ctx); err != nil {
			panic(goerrorkit.WrapWithMessage(err, "Failed to seed initial data").
				WithData(map[string]interface{}{
					"operation": "seed_data",
				}))
		}
	}

	// 10. Start server, dừng khi nhận SIGINT/SIGTERM
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			goerrorkit.LogError(goerrorkit.NewSystemError(err), "main.shutdown")
		}
	}()

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		panic(goerrorkit.NewSystemError(err))
	}
}
