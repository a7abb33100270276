package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"atelier/internal/config"
	"atelier/internal/handlers"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/internal/services"
	"atelier/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	handlers.SetVerbose(!cfg.Production())

	// --- Database ---
	// TranslateError maps driver duplicate-key errors onto
	// gorm.ErrDuplicatedKey so the repositories can report conflicts.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.SubscriptionPlan{},
		&models.Workshop{},
		&models.ReferralLink{},
		&models.Magazine{},
		&models.Tailor{},
		&models.Validator{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderTracking{},
		&models.ValidatorAssignmentLog{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	seedPlans(db)

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	workshopRepo := repositories.NewGORMWorkshopRepository(db)
	referralRepo := repositories.NewGORMReferralRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost)
	registrationService := services.NewRegistrationService(db, authService)
	referralService := services.NewReferralService(referralRepo, workshopRepo)
	workshopService := services.NewWorkshopService(workshopRepo)
	orderService := services.NewOrderService(orderRepo, workshopRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(registrationService, authService)
	referralHandler := handlers.NewReferralHandler(referralService)
	workshopHandler := handlers.NewWorkshopHandler(workshopService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	workshopHandler.RegisterPublicRoutes(apiV1)

	// Authenticated routes
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	// Workshop-owner routes
	owner := protected.Group("", middleware.RequireRoles(models.RoleWorkshopOwner))
	referralHandler.RegisterRoutes(owner)
	workshopHandler.RegisterOwnerRoutes(owner)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	// Downstream effects (notifications etc.) hang off these events;
	// the API itself only logs them.
	go func() {
		log.Println("Starting RabbitMQ consumer for order events...")
		err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		})
		if err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}()

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// seedPlans inserts the default subscription plans if they are missing.
func seedPlans(db *gorm.DB) {
	plans := []models.SubscriptionPlan{
		{Name: "Starter", Price: 0, MaxMagazines: 1, MaxTailors: 3},
		{Name: "Studio", Price: 29.90, MaxMagazines: 5, MaxTailors: 15},
		{Name: "Factory", Price: 99.90, MaxMagazines: 50, MaxTailors: 200},
	}
	for i := range plans {
		plans[i].ID = uuid.New().String()
		res := db.Where("name = ?", plans[i].Name).FirstOrCreate(&plans[i])
		if res.Error != nil {
			log.Printf("Error seeding plan %s: %v", plans[i].Name, res.Error)
		}
	}
}
