package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"newsletter-italiane-backend/internal/config"
	infraCache "newsletter-italiane-backend/internal/infrastructure/cache"
	"newsletter-italiane-backend/internal/infrastructure/database"
	"newsletter-italiane-backend/internal/infrastructure/email"
	"newsletter-italiane-backend/internal/infrastructure/storage"
	"newsletter-italiane-backend/pkg/cache"
	"newsletter-italiane-backend/pkg/jwt"

	newsletterHandler "newsletter-italiane-backend/internal/domains/newsletter/handler"
	newsletterRepo "newsletter-italiane-backend/internal/domains/newsletter/repository"
	newsletterService "newsletter-italiane-backend/internal/domains/newsletter/service"

	profileHandler "newsletter-italiane-backend/internal/domains/profile/handler"
	profileRepo "newsletter-italiane-backend/internal/domains/profile/repository"
	profileService "newsletter-italiane-backend/internal/domains/profile/service"

	proposalHandler "newsletter-italiane-backend/internal/domains/proposal/handler"
	proposalRepo "newsletter-italiane-backend/internal/domains/proposal/repository"
	proposalService "newsletter-italiane-backend/internal/domains/proposal/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container è la radice del grafo delle dipendenze. Tutto singleton:
// config, infrastruttura, repository, service, handler.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config         *config.Config
	DB             *database.PostgresDB
	Cache          cache.Cache
	JWTManager     *jwt.Manager
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	AsynqClient    *asynq.Client
	Email          email.EmailService

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	NewsletterRepo newsletterRepo.NewsletterRepository
	ProfileRepo    profileRepo.ProfileRepository
	ProposalRepo   proposalRepo.ProposalRepository

	// ========================================
	// SERVICE LAYER
	// ========================================

	NewsletterService newsletterService.ServiceInterface
	ProfileService    profileService.ServiceInterface
	ProposalService   proposalService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================

	NewsletterHandler *newsletterHandler.NewsletterHandler
	ProfileHandler    *profileHandler.ProfileHandler
	ProposalHandler   *proposalHandler.ProposalHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer inizializza il grafo nell'ordine: config, infrastruttura,
// repository, service, handler. Ordine sbagliato = nil pointer.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	db := database.NewPostgresDB(&cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(context.Background()); err != nil {
		// Redis giù non è bloccante: il marketplace degrada a letture DB.
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// ========================================
	// STEP 4: OBJECT STORAGE
	// ========================================
	log.Println("🪣 Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init MinIO storage: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Println("✅ MinIO ready")

	// ========================================
	// STEP 5: TASK QUEUE CLIENT
	// ========================================
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 6: EMAIL PROVIDER
	// ========================================
	emailService, err := buildEmailService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init email service: %w", err)
	}
	c.Email = emailService

	// ========================================
	// STEP 7: REPOSITORIES / SERVICES / HANDLERS
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()

	log.Println("⚙️  Initializing services...")
	c.initServices()

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// buildEmailService sceglie il provider in base alla config:
// "api" per il provider hosted, "dev" per l'SMTP locale (mailhog).
func buildEmailService(cfg *config.Config) (email.EmailService, error) {
	switch cfg.Email.Provider {
	case "api":
		return email.NewAPIEmailService(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From)
	case "dev":
		return email.NewDevEmailService(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.Email.Provider)
	}
}

// ========================================
// LAYER INITIALIZATION
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.NewsletterRepo = newsletterRepo.NewPostgresNewsletterRepository(pool)
	c.ProfileRepo = profileRepo.NewPostgresProfileRepository(pool)
	c.ProposalRepo = proposalRepo.NewPostgresProposalRepository(pool)
}

func (c *Container) initServices() {
	c.NewsletterService = newsletterService.NewNewsletterService(
		c.NewsletterRepo,
		c.Cache,
		c.AsynqClient,
	)

	c.ProfileService = profileService.NewProfileService(
		c.ProfileRepo,
		c.JWTManager,
		c.Storage,
		c.ImageProcessor,
	)

	// Il proposal service legge il dominio profile attraverso la
	// ContactDirectory: il repository la soddisfa già.
	c.ProposalService = proposalService.NewProposalService(
		c.ProposalRepo,
		c.ProfileRepo,
		c.AsynqClient,
	)
}

func (c *Container) initHandlers() {
	c.NewsletterHandler = newsletterHandler.NewNewsletterHandler(c.NewsletterService)
	c.ProfileHandler = profileHandler.NewProfileHandler(c.ProfileService)
	c.ProposalHandler = proposalHandler.NewProposalHandler(c.ProposalService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup chiude le connessioni in ordine inverso rispetto al setup.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis connection: %v", err)
			}
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Container cleanup completed")
}
