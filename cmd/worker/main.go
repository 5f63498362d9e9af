package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizcopilot/backend/internal/agents"
	"github.com/bizcopilot/backend/internal/config"
	"github.com/bizcopilot/backend/internal/db"
	"github.com/bizcopilot/backend/internal/events"
	"github.com/bizcopilot/backend/internal/llm"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/bizcopilot/backend/internal/services"
	"github.com/bizcopilot/backend/internal/webscraper"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
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

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	llmClient := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:     cfg.LLMAPIKey,
		BaseURL:    cfg.LLMBaseURL,
		Model:      cfg.LLMModel,
		Timeout:    cfg.LLMTimeout,
		MaxRetries: cfg.LLMMaxRetries,
	}, log)
	scraper := webscraper.NewScraper(cfg.ScrapeTimeoutMS, cfg.ScrapeMaxRetries, log)

	renderer := agents.NewRenderer(templateRepo, log)
	registry := agents.NewRegistry()
	registry.Register(agents.NewCompetitorResearchTool(competitorRepo, renderer, scraper, log))
	registry.Register(agents.NewOfferGeneratorTool(offerRepo, renderer))
	registry.Register(agents.NewAdCopyTool(adRepo, offerRepo, campaignRepo, renderer))
	registry.Register(agents.NewCampaignStrategyTool(campaignRepo, offerRepo, renderer))
	registry.Register(agents.NewStyleAnalyzeTool(styleRepo, renderer))
	registry.Register(agents.NewContentWriteTool(scriptRepo, styleRepo, renderer))
	registry.Register(agents.NewProfileEnrichTool(profileRepo, scraper, renderer, log))

	agentService := services.NewAgentService(registry, llmClient, userRepo, profileRepo, interactionRepo, creditRepo, auditRepo, publisher, rdb, cfg, log)

	log.Info("worker started")

	// Run jobs on tickers
	pollTicker := time.NewTicker(cfg.RunPollInterval)
	expireTicker := time.NewTicker(2 * time.Minute)
	refreshTicker := time.NewTicker(6 * time.Hour)
	defer pollTicker.Stop()
	defer expireTicker.Stop()
	defer refreshTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-pollTicker.C:
			runBackgroundPolls(ctx, interactionRepo, agentService, log)
		case <-expireTicker.C:
			runExpiry(ctx, interactionRepo, creditRepo, profileRepo, cfg, log)
		case <-refreshTicker.C:
			runCompetitorRefresh(ctx, competitorRepo, scraper, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// runBackgroundPolls checks remote job status for submitted background runs.
func runBackgroundPolls(ctx context.Context, interactionRepo *repositories.InteractionRepo, agentService *services.AgentService, log *zap.Logger) {
	runs, err := interactionRepo.GetBackgroundPending(ctx, 50)
	if err != nil {
		log.Error("failed to get pending background runs", zap.Error(err))
		return
	}

	for i := range runs {
		run := runs[i]
		updated, err := agentService.PollBackground(ctx, &run)
		if err != nil {
			log.Error("background poll failed", zap.String("run_id", run.ID.String()), zap.Error(err))
			continue
		}
		if updated.Status != run.Status {
			log.Info("background run advanced",
				zap.String("run_id", run.ID.String()),
				zap.String("status", updated.Status),
			)
		}
	}
}

func runExpiry(ctx context.Context, interactionRepo *repositories.InteractionRepo, creditRepo *repositories.CreditRepo, profileRepo *repositories.ProfileRepo, cfg *config.Config, log *zap.Logger) {
	maxAge := time.Duration(cfg.RunExpirySeconds) * time.Second
	expired, err := interactionRepo.ExpireStale(ctx, maxAge)
	if err != nil {
		log.Error("failed to expire stale runs", zap.Error(err))
	} else if expired > 0 {
		log.Info("expired stale runs", zap.Int64("count", expired))
	}

	// Profiles whose enrichment run expired go back to draft.
	reset, err := profileRepo.ResetStaleEnriching(ctx, maxAge)
	if err != nil {
		log.Error("failed to reset stale enriching profiles", zap.Error(err))
	} else if reset > 0 {
		log.Info("reset stale enriching profiles", zap.Int64("count", reset))
	}

	purchases, err := creditRepo.ExpirePurchases(ctx, time.Now())
	if err != nil {
		log.Error("failed to expire purchases", zap.Error(err))
	} else if purchases > 0 {
		log.Info("expired unpaid purchases", zap.Int64("count", purchases))
	}
}

// runCompetitorRefresh re-scrapes competitor websites whose summary is stale.
func runCompetitorRefresh(ctx context.Context, competitorRepo *repositories.CompetitorRepo, scraper *webscraper.Scraper, log *zap.Logger) {
	competitors, err := competitorRepo.ListStaleWithWebsite(ctx, "7 days", 50)
	if err != nil {
		log.Error("failed to list stale competitors", zap.Error(err))
		return
	}

	for _, comp := range competitors {
		if comp.Website == nil {
			continue
		}
		summary, err := scraper.Fetch(ctx, *comp.Website)
		if err != nil {
			log.Warn("competitor refresh scrape failed",
				zap.String("competitor_id", comp.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := competitorRepo.TouchSummary(ctx, comp.ID, summary.PromptContext()); err != nil {
			log.Error("failed to update competitor summary", zap.String("competitor_id", comp.ID.String()), zap.Error(err))
		}

		time.Sleep(1 * time.Second) // rate limiting
	}
}
