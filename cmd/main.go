package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"projectmate-service/internal/config"
	"projectmate-service/internal/database/mongo"
	"projectmate-service/internal/database/redis"
	"projectmate-service/internal/event"
	"projectmate-service/internal/handlers"
	"projectmate-service/internal/live"
	"projectmate-service/internal/repository"
	"projectmate-service/internal/service"
	"projectmate-service/pkg/discovery"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/joho/godotenv"
)

func setupLogging(logDir string) (*os.File, error) {
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	config.ServiceConfig = cfg

	logFile, err := setupLogging(cfg.Server.LogDir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	if err := mongo.InitMongoDB(&cfg.MongoDB); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongo.CloseDB()

	if err := redis.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.CloseRedis()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("ProjectMate Service is healthy")
	})

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(mongo.Database)
	projectRepo := repository.NewProjectRepository(mongo.Database)
	applicationRepo := repository.NewApplicationRepository(mongo.Database)
	conversationRepo := repository.NewConversationRepository(mongo.Database)
	readMarkerRepo := repository.NewReadMarkerRepository(redis.Client)

	// Create database indexes
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	for name, create := range map[string]func(context.Context) error{
		"profiles":      profileRepo.CreateIndexes,
		"projects":      projectRepo.CreateIndexes,
		"applications":  applicationRepo.CreateIndexes,
		"conversations": conversationRepo.CreateIndexes,
	} {
		if err := create(indexCtx); err != nil {
			log.Printf("Warning: Failed to create %s indexes: %v", name, err)
		}
	}
	indexCancel()

	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
	}

	broker := live.NewBroker()

	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	defer watcherCancel()
	watcher := live.NewWatcher(mongo.Database, broker)
	watcher.Start(watcherCtx)

	// Initialize services
	profileService := service.NewProfileService(profileRepo, eventPublisher)
	projectService := service.NewProjectService(projectRepo, eventPublisher, broker)
	applicationService := service.NewApplicationService(applicationRepo, projectRepo, profileRepo, eventPublisher, broker)
	chatService := service.NewChatService(conversationRepo, readMarkerRepo, eventPublisher, broker)
	inboxService := service.NewInboxService(applicationRepo, chatService, broker)

	eventConsumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, profileService)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer")
			defer eventConsumer.Close()
		}
	}

	// Initialize and register handlers
	handlers.NewProfileHandler(profileService).RegisterRoutes(app)
	handlers.NewProjectHandler(projectService).RegisterRoutes(app)
	handlers.NewApplicationHandler(applicationService).RegisterRoutes(app)
	handlers.NewChatHandler(chatService).RegisterRoutes(app)
	handlers.NewInboxHandler(inboxService).RegisterRoutes(app)

	serviceRegistry, err := discovery.NewServiceRegistry(cfg)
	if err != nil {
		log.Printf("Warning: Failed to create service registry: %v", err)
	} else if err := serviceRegistry.Register(); err != nil {
		log.Printf("Warning: Failed to register with Consul: %v", err)
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	watcherCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
