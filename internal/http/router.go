package http

import (
	"time"

	"github.com/bizcopilot/backend/internal/config"
	"github.com/bizcopilot/backend/internal/http/handlers"
	"github.com/bizcopilot/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	profileHandler *handlers.ProfileHandler,
	agentHandler *handlers.AgentHandler,
	offerHandler *handlers.OfferHandler,
	competitorHandler *handlers.CompetitorHandler,
	campaignHandler *handlers.CampaignHandler,
	adHandler *handlers.AdHandler,
	scriptHandler *handlers.ScriptHandler,
	creditHandler *handlers.CreditHandler,
	templateHandler *handlers.TemplateHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Rate-limited endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, 60, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)
	protected.Post("/me/ping", userHandler.Ping)

	// Business profiles
	protected.Post("/business-profiles", profileHandler.Create)
	protected.Get("/business-profiles", profileHandler.List)
	protected.Get("/business-profiles/:id", profileHandler.Get)
	protected.Put("/business-profiles/:id", profileHandler.Update)
	protected.Delete("/business-profiles/:id", profileHandler.Delete)
	protected.Post("/business-profiles/:id/enrich", profileHandler.Enrich)

	// Agents
	protected.Get("/agents", agentHandler.ListTools)
	protected.Get("/agents/runs", agentHandler.ListRuns)
	protected.Get("/agents/runs/:id", agentHandler.GetRun)
	protected.Post("/agents/:agent/run", agentHandler.Run)

	// Offers
	protected.Post("/offers", offerHandler.Create)
	protected.Get("/offers", offerHandler.List)
	protected.Get("/offers/:id", offerHandler.Get)
	protected.Put("/offers/:id", offerHandler.Update)
	protected.Delete("/offers/:id", offerHandler.Delete)

	// Competitors (created by the competitor research agent)
	protected.Post("/competitors", competitorHandler.Create)
	protected.Get("/competitors", competitorHandler.List)
	protected.Get("/competitors/:id", competitorHandler.Get)
	protected.Put("/competitors/:id", competitorHandler.Update)
	protected.Delete("/competitors/:id", competitorHandler.Delete)

	// Campaigns
	protected.Post("/campaigns", campaignHandler.Create)
	protected.Get("/campaigns", campaignHandler.List)
	protected.Get("/campaigns/:id", campaignHandler.Get)
	protected.Put("/campaigns/:id", campaignHandler.Update)
	protected.Put("/campaigns/:id/status", campaignHandler.UpdateStatus)
	protected.Delete("/campaigns/:id", campaignHandler.Delete)

	// Ads
	protected.Get("/ads", adHandler.List)
	protected.Get("/ads/:id", adHandler.Get)
	protected.Put("/ads/:id", adHandler.Update)
	protected.Delete("/ads/:id", adHandler.Delete)

	// Scripts + writing styles
	protected.Get("/scripts", scriptHandler.List)
	protected.Get("/scripts/:id", scriptHandler.Get)
	protected.Put("/scripts/:id", scriptHandler.Update)
	protected.Delete("/scripts/:id", scriptHandler.Delete)
	protected.Get("/styles", scriptHandler.ListStyles)
	protected.Get("/styles/:id", scriptHandler.GetStyle)
	protected.Put("/styles/:id", scriptHandler.UpdateStyle)
	protected.Post("/styles/:id/default", scriptHandler.SetDefaultStyle)
	protected.Delete("/styles/:id", scriptHandler.DeleteStyle)

	// Credits
	protected.Get("/credits", creditHandler.GetWallet)
	protected.Get("/credits/transactions", creditHandler.ListTransactions)
	protected.Get("/credits/packages", creditHandler.ListPackages)
	protected.Get("/credits/pricing", creditHandler.Pricing)
	protected.Post("/credits/topup", creditHandler.CreateTopup)
	protected.Get("/credits/topup", creditHandler.ListTopups)
	protected.Get("/credits/topup/:id", creditHandler.GetTopup)

	// Admin
	admin := protected.Group("/admin", middleware.AdminMiddleware())
	admin.Get("/templates", templateHandler.List)
	admin.Put("/templates", templateHandler.Save)
	admin.Post("/credits/grant", creditHandler.Grant)
	admin.Put("/users/:id/plan", userHandler.SetPlan)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
