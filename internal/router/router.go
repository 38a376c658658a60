package router

import (
	"errors"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/handlers"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/middleware"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/services"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/storage"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Store  storage.ObjectStore
	Tokens *utils.JWTManager
	Audit  services.AuditRecorder
}

func New(deps Deps) *fiber.App {
	cfg := deps.Config

	authService := services.NewAuthService(deps.DB, deps.Tokens, deps.Audit)
	userService := services.NewUserService(deps.DB, deps.Audit)
	catalogueService := services.NewCatalogueService(deps.DB, deps.Store, deps.Audit, cfg.Upload, cfg.Catalogue.PageSize)

	authHandler := handlers.NewAuthHandler(authService)
	usersHandler := handlers.NewUsersHandler(userService)
	filesHandler := handlers.NewFilesHandler(catalogueService, cfg.Catalogue)
	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	app.Use(middleware.Metrics())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if mem, ok := storage.Unwrap(deps.Store).(*storage.MemoryStore); ok {
		app.Get("/storage/*", handlers.NewObjectsHandler(mem).Get)
	}

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	api.Get("/files", filesHandler.List)
	api.Post("/files/upload", authMiddleware.RequireAuth, middleware.RequirePrivileged, filesHandler.Upload)
	api.Get("/files/:id/download", filesHandler.Download)
	api.Get("/files/:id", filesHandler.Get)
	api.Put("/files/:id", authMiddleware.RequireAuth, middleware.RequirePrivileged, filesHandler.Update)
	api.Delete("/files/:id", authMiddleware.RequireAuth, middleware.RequirePrivileged, filesHandler.Delete)

	api.Get("/users/me", authMiddleware.RequireAuth, usersHandler.Me)
	api.Get("/users", authMiddleware.RequireAuth, middleware.RequirePrivileged, usersHandler.List)
	api.Put("/users/:id/role", authMiddleware.RequireAuth, middleware.RequirePrivileged, usersHandler.ChangeRole)
	api.Delete("/users/:id", authMiddleware.RequireAuth, middleware.RequirePrivileged, usersHandler.Delete)

	return app
}

// errorHandler keeps framework errors (unknown route, body too large) in the
// same envelope as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return utils.Error(c, code, message)
}
