package app

import (
	"context"
	"fmt"

	"donation_backend/database"
	"donation_backend/internal/config"
	"donation_backend/internal/handlers"
	"donation_backend/internal/logger"
	"donation_backend/internal/middleware"
	"donation_backend/internal/pkg/email"
	"donation_backend/internal/repositories"
	"donation_backend/internal/routes"
	"donation_backend/internal/services"
	"donation_backend/internal/services/payment"
	"donation_backend/internal/validator"
	"donation_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CharityName appears in outgoing email signatures.
const CharityName = "Amrita Chander Charity"

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate schema", "error", err)
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", "error", err)
	}

	ginRouter, cleanupWorker := SetupRouter(cfg, gormDB, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cleanupWorker.Start(ctx)
	logger.Info("Cleanup worker started")

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services and handlers into a gin engine.
// The cleanup worker is returned unstarted so tests can drive it directly.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, mailer email.Mailer) (*gin.Engine, *workers.CleanupWorker) {
	donationRepo := repositories.NewDonationRepository(gormDB)

	gateway := payment.NewPaytmService(payment.Config{
		MerchantID:   cfg.Paytm.MerchantID,
		MerchantKey:  cfg.Paytm.MerchantKey,
		Website:      cfg.Paytm.Website,
		ChannelID:    cfg.Paytm.ChannelID,
		IndustryType: cfg.Paytm.IndustryType,
		BaseURL:      cfg.Paytm.BaseURL,
		CallbackURL:  cfg.Callback.BaseURL + "/api/donate/callback",
	})

	donationService := services.NewDonationService(
		donationRepo,
		gateway,
		mailer,
		cfg.Frontend.BaseURL,
		cfg.Contact.InboxEmail,
		CharityName,
	)
	contactService := services.NewContactService(mailer, cfg.Contact.InboxEmail)

	v := validator.New()
	baseHandler := handlers.NewBaseHandler(v)
	appHandlers := &routes.AppHandlers{
		DonationHandler: handlers.NewDonationHandler(baseHandler, donationService),
		ContactHandler:  handlers.NewContactHandler(baseHandler, contactService),
	}

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, workers.NewCleanupWorker(donationRepo)
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())

	return ginRouter
}

func newMailer(cfg *config.Config) (email.Mailer, error) {
	return email.NewGomailSender(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		Username:     cfg.Email.SMTPUsername,
		Password:     cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		TemplatePath: cfg.Email.TemplatesDir,
	})
}
