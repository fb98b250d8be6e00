package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/eventsphere/backend/internal/config"
	"github.com/eventsphere/backend/internal/handler"
	"github.com/eventsphere/backend/internal/middleware"
	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/internal/repository"
	"github.com/eventsphere/backend/internal/service"
	"github.com/eventsphere/backend/pkg/database"
	"github.com/eventsphere/backend/pkg/email"
	"github.com/eventsphere/backend/pkg/logger"
	"github.com/eventsphere/backend/pkg/maps"
	"github.com/eventsphere/backend/pkg/storage"
	"github.com/eventsphere/backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()

	zapLogger := logger.New()
	defer zapLogger.Sync()

	// Initialize database
	db := database.NewDatabase(cfg.DatabaseURL)

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Event{},
		&models.RSVP{},
		&models.Conversation{},
		&models.Message{},
		&models.ConversationNickname{},
		&models.MessageRead{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	rsvpRepo := repository.NewRSVPRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	// Storage service
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize R2 storage:", err)
	}

	// Email service
	emailService := email.NewEmailService(cfg.Email, zapLogger)

	// Maps client
	mapsClient := maps.NewClient(cfg.Maps, zapLogger)

	// Services
	authService := service.NewAuthService(userRepo, emailService)
	userService := service.NewUserService(userRepo)
	eventService := service.NewEventService(
		eventRepo,
		userRepo,
		rsvpRepo,
		emailService,
		mapsClient,
		r2Storage,
		zapLogger,
	)
	rsvpService := service.NewRSVPService(rsvpRepo, eventRepo, userRepo, emailService)
	conversationService := service.NewConversationService(conversationRepo, userRepo)
	travelService := service.NewTravelService(eventRepo, mapsClient, cfg.Maps.Timeout, zapLogger)
	reportService := service.NewReportService(userRepo, eventRepo, rsvpRepo)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	eventHandler := handler.NewEventHandler(eventService, validator)
	rsvpHandler := handler.NewRSVPHandler(rsvpService, validator)
	conversationHandler := handler.NewConversationHandler(conversationService, validator)
	travelHandler := handler.NewTravelHandler(travelService)
	adminHandler := handler.NewAdminHandler(eventService, reportService)

	// Router
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public event discovery. The organizer's own listing must be
	// registered before the :id routes or "my" would parse as an ID.
	api.Get("/events", eventHandler.ListEvents)
	api.Get("/events/my", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleOrganizer), eventHandler.GetMyEvents)
	api.Get("/events/:id", eventHandler.GetEvent)
	api.Get("/events/:id/travel-options", travelHandler.GetTravelOptions)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		user := api.Group("/user")
		user.Get("/profile", userHandler.GetMyProfile)
		user.Put("/profile", userHandler.UpdateProfile)

		// Organizer event management
		events := api.Group("/events")
		events.Post("/", middleware.RequireRole(models.RoleOrganizer), eventHandler.CreateEvent)
		events.Put("/:id", middleware.RequireRole(models.RoleOrganizer), eventHandler.UpdateEvent)
		events.Delete("/:id", middleware.RequireRole(models.RoleOrganizer), eventHandler.DeleteEvent)
		events.Post("/:id/image", middleware.RequireRole(models.RoleOrganizer), eventHandler.UploadEventImage)
		events.Get("/:id/attendees", middleware.RequireRole(models.RoleOrganizer), eventHandler.GetEventAttendees)
		events.Get("/:id/attendees/export", middleware.RequireRole(models.RoleOrganizer), eventHandler.ExportEventAttendees)

		// Attendee RSVP ledger
		events.Post("/:id/rsvp", middleware.RequireRole(models.RoleAttendee), rsvpHandler.UpsertRSVP)
		events.Delete("/:id/rsvp", middleware.RequireRole(models.RoleAttendee), rsvpHandler.CancelRSVP)
		api.Get("/rsvps/my", middleware.RequireRole(models.RoleAttendee), rsvpHandler.GetMyEvents)

		// Messaging
		conversations := api.Group("/conversations")
		conversations.Get("/", conversationHandler.ListConversations)
		conversations.Post("/start", conversationHandler.StartConversation)
		conversations.Get("/:id", conversationHandler.GetConversation)
		conversations.Post("/:id/messages", conversationHandler.PostMessage)
		conversations.Post("/:id/add", conversationHandler.AddParticipant)
		conversations.Post("/:id/rename", conversationHandler.RenameConversation)
		conversations.Post("/:id/nickname", conversationHandler.SetNickname)

		// Admin
		admin := api.Group("/admin", middleware.RequireAdmin())
		admin.Get("/dashboard", adminHandler.GetDashboard)
		admin.Get("/events/pending", adminHandler.GetPendingEvents)
		admin.Post("/events/:id/approve", adminHandler.ApproveEvent)
		admin.Post("/events/:id/reject", adminHandler.RejectEvent)
	}

	log.Fatal(app.Listen(":" + cfg.Port))
}
