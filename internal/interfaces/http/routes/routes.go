package routes

import (
	"github.com/palacios-io/attribution-api/internal/application/usecases"
	"github.com/palacios-io/attribution-api/internal/domain/repositories"
	"github.com/palacios-io/attribution-api/internal/infrastructure/cache"
	"github.com/palacios-io/attribution-api/internal/interfaces/http/handlers"
	"github.com/palacios-io/attribution-api/internal/interfaces/http/middleware"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Add performance middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// ETag só ajuda nas rotas de leitura, mas é barato global
	app.Use(etag.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Repositories
	visitorRepo := repositories.NewVisitorRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	touchpointRepo := repositories.NewTouchpointRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	attributionRepo := repositories.NewAttributionRepository(db)

	// Use Cases
	trackUseCase := usecases.NewTrackUseCase(visitorRepo, eventRepo, touchpointRepo)
	identifyUseCase := usecases.NewIdentifyUseCase(contactRepo, eventRepo, touchpointRepo)
	attributionUseCase := usecases.NewAttributionUseCase(attributionRepo)
	purchaseUseCase := usecases.NewPurchaseUseCase(purchaseRepo, contactRepo, attributionUseCase)
	statsUseCase := usecases.NewStatsUseCase(attributionRepo, cache.New())

	// Handlers
	trackHandler := handlers.NewTrackHandler(trackUseCase)
	identifyHandler := handlers.NewIdentifyHandler(identifyUseCase)
	webhookHandler := handlers.NewWebhookHandler(purchaseUseCase)
	statsHandler := handlers.NewStatsHandler(statsUseCase)

	// Routes
	groups := middleware.SetupRouteGroups(app)

	// Ingestão do snippet
	groups.Public.Post("/track", trackHandler.Track)
	groups.Public.Post("/identify", identifyHandler.Identify)

	// Webhooks de pagamento (entrega at-least-once)
	groups.Webhooks.Post("/purchase", webhookHandler.Purchase)
	groups.Webhooks.Post("/refund", webhookHandler.Refund)

	// Leitura do dashboard
	groups.Stats.Get("/channels", statsHandler.GetChannels)
	groups.Stats.Get("/purchases/:purchase_id", statsHandler.GetPurchaseAttribution)
}
