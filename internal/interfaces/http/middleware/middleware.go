package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupMiddlewares(app *fiber.App) {
	// O snippet roda em páginas de terceiros, então o CORS de /track e
	// /identify precisa aceitar as origens configuradas
	allowOrigins := os.Getenv("CORS_ORIGINS")
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	app.Use(PerformanceLogger())
	app.Use(RequestMetrics())
}

// RouteGroups define os grupos de rotas da API
type RouteGroups struct {
	Public   fiber.Router
	Webhooks fiber.Router
	Stats    fiber.Router
}

// SetupRouteGroups configura os grupos de rotas com seus respectivos middlewares
func SetupRouteGroups(app *fiber.App) RouteGroups {
	// Ingestão pública (snippet não tem como carregar credencial)
	public := app.Group("/")

	// Webhooks dos provedores de pagamento
	webhooks := app.Group("/webhooks")

	// Leitura do dashboard, atrás de JWT
	stats := app.Group("/stats")
	stats.Use(JWTAuth())

	return RouteGroups{
		Public:   public,
		Webhooks: webhooks,
		Stats:    stats,
	}
}
