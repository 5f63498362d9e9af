package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bizcopilot/backend/internal/agents"
	"github.com/bizcopilot/backend/internal/config"
	"github.com/bizcopilot/backend/internal/db"
	"github.com/bizcopilot/backend/internal/events"
	apphttp "github.com/bizcopilot/backend/internal/http"
	"github.com/bizcopilot/backend/internal/http/handlers"
	"github.com/bizcopilot/backend/internal/llm"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/bizcopilot/backend/internal/webscraper"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	profileRepo := repositories.NewProfileRepo(pool)
	offerRepo := repositories.NewOfferRepo(pool)
	competitorRepo := repositories.NewCompetitorRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	adRepo := repositories.NewAdRepo(pool)
	scriptRepo := repositories.NewScriptRepo(pool)
	styleRepo := repositories.NewStyleRepo(pool)
	creditRepo := repositories.NewCreditRepo(pool)
	templateRepo := repositories.NewTemplateRepo(pool)
	interactionRepo := repositories.NewInteractionRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// LLM + scraping
	llmClient := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:     cfg.LLMAPIKey,
		BaseURL:    cfg.LLMBaseURL,
		Model:      cfg.LLMModel,
		Timeout:    cfg.LLMTimeout,
		MaxRetries: cfg.LLMMaxRetries,
	}, log)
	scraper := webscraper.NewScraper(cfg.ScrapeTimeoutMS, cfg.ScrapeMaxRetries, log)

	// Agent tools
	renderer := agents.NewRenderer(templateRepo, log)
	registry := agents.NewRegistry()
	registry.Register(agents.NewCompetitorResearchTool(competitorRepo, renderer, scraper, log))
	registry.Register(agents.NewOfferGeneratorTool(offerRepo, renderer))
	registry.Register(agents.NewAdCopyTool(adRepo, offerRepo, campaignRepo, renderer))
	registry.Register(agents.NewCampaignStrategyTool(campaignRepo, offerRepo, renderer))
	registry.Register(agents.NewStyleAnalyzeTool(styleRepo, renderer))
	registry.Register(agents.NewContentWriteTool(scriptRepo, styleRepo, renderer))
	registry.Register(agents.NewProfileEnrichTool(profileRepo, scraper, renderer, log))

	// Services
	authService := services.NewAuthService(userRepo, creditRepo, auditRepo, cfg, log)
	profileService := services.NewProfileService(profileRepo, auditRepo, rdb, log)
	agentService := services.NewAgentService(registry, llmClient, userRepo, profileRepo, interactionRepo, creditRepo, auditRepo, publisher, rdb, cfg, log)
	offerService := services.NewOfferService(offerRepo, profileRepo, auditRepo, log)
	competitorService := services.NewCompetitorService(competitorRepo, profileRepo, log)
	campaignService := services.NewCampaignService(campaignRepo, profileRepo, auditRepo, log)
	adService := services.NewAdService(adRepo, offerRepo, campaignRepo, profileRepo, log)
	scriptService := services.NewScriptService(scriptRepo, styleRepo, profileRepo, log)
	creditService := services.NewCreditService(creditRepo, auditRepo, cfg, log)
	templateService := services.NewTemplateService(templateRepo, auditRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userRepo, log)
	profileHandler := handlers.NewProfileHandler(profileService, agentService, log)
	agentHandler := handlers.NewAgentHandler(agentService, log)
	offerHandler := handlers.NewOfferHandler(offerService, log)
	competitorHandler := handlers.NewCompetitorHandler(competitorService, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, log)
	adHandler := handlers.NewAdHandler(adService, log)
	scriptHandler := handlers.NewScriptHandler(scriptService, log)
	creditHandler := handlers.NewCreditHandler(creditService, agentService, log)
	templateHandler := handlers.NewTemplateHandler(templateService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			errCode := "server_error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				if code == fiber.StatusNotFound {
					errCode = "not_found"
				}
			}
			return c.Status(code).JSON(fiber.Map{"error": errCode, "message": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb,
		authHandler, userHandler, profileHandler, agentHandler, offerHandler,
		competitorHandler, campaignHandler, adHandler, scriptHandler,
		creditHandler, templateHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
