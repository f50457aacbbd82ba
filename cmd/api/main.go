package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/config"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/controller"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/handler"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/middleware"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/repository"
	"github.com/tinethkaveesha/Study-Planner-sub001/internal/service"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/billing"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/database"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/email"
	jwtPkg "github.com/tinethkaveesha/Study-Planner-sub001/pkg/jwt"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/logger"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/payment"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/utils"
)

func main() {
	cfg := config.LoadConfig()

	zl, err := logger.New(cfg.Server.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.JWT.Secret == "" {
		zl.Fatal("JWT_SECRET is not set")
	}

	// Stripe SDK handle
	stripeAPI, err := billing.NewLoader(cfg.Stripe.SecretKey, billing.WithLoaderLogger(zl)).Load()
	if err != nil {
		// the loader has logged it
		_ = zl.Sync()
		os.Exit(1)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Repositories
	customerRepo := repository.NewCustomerRepository(db)

	// Email is optional in development
	var notifier service.Notifier
	if cfg.Email.ResendAPIKey != "" {
		notifier = email.NewEmailService(
			cfg.Email.ResendAPIKey,
			cfg.Email.FromAddress,
			cfg.Email.FromName,
			cfg.Stripe.PortalReturnURL,
			zl,
		)
	} else {
		zl.Warn("RESEND_API_KEY is not set, cancellation emails are disabled")
	}

	validator := utils.NewValidator()
	tokens := jwtPkg.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	// Services
	billingService := service.NewBillingService(
		payment.NewStripeGateway(stripeAPI),
		customerRepo,
		notifier,
		validator,
		service.BillingURLs{
			SuccessURL:      cfg.Stripe.SuccessURL,
			CancelURL:       cfg.Stripe.CancelURL,
			PortalReturnURL: cfg.Stripe.PortalReturnURL,
		},
		zl.Named("billing"),
	)

	// Handlers
	billingHandler := handler.NewBillingHandler(controller.NewBillingController(billingService), zl)

	// Router
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST",
		AllowCredentials: cfg.Server.AllowCredentials(),
	}))
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Protected routes
	stripeAPIGroup := app.Group("/api/stripeAPI", middleware.AuthMiddleware(tokens, zl))
	billingHandler.RegisterRoutes(stripeAPIGroup)

	zl.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
