package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bounty-board-service/chains"
	"bounty-board-service/handlers"
	"bounty-board-service/models"
	"bounty-board-service/services"
	"bounty-board-service/utils"
	"bounty-board-service/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // proof images
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Wallet-Address",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Bounty{},
		&models.Claim{},
		&models.Participation{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	chainTable, err := chains.Load()
	if err != nil {
		log.Fatal("failed to load chain table:", err)
	}

	r2Ready, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if !r2Ready {
		log.Println("⚠️  R2 storage not configured — proof upload endpoints will answer 502")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bountyService := services.NewBountyService(db)
	claimService := services.NewClaimService(db)
	metadataService := services.NewMetadataService(claimService)
	adminService := services.NewAdminService(db, chainTable, services.AdminAddressesFromEnv())
	voteService, err := services.NewVoteService(chainTable)
	if err != nil {
		log.Fatal("failed to build vote service:", err)
	}

	registry := workers.NewRegistry()
	probes := services.NewProbeStore(db)
	syncService := services.NewSyncService(ctx, probes, registry, chainTable)
	services.StartTaskSweeper(registry)

	handlers.SetupBountyRoutes(app, bountyService, voteService)
	handlers.SetupClaimRoutes(app, claimService, metadataService)
	handlers.SetupSyncRoutes(app, syncService)
	handlers.SetupAdminRoutes(app, adminService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Reconciliation task registry running (sweep every minute)")
	log.Printf("✅ CORS configured for origins: %s", strings.Join(origins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
