package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ytemotion/docs"
	"ytemotion/internal/service"
)

// Routes bundles what RegisterRoutes wires into the app.
type Routes struct {
	DB       *sql.DB
	Analyses service.AnalysisService
	// Gatherer backs /metrics. Nil skips the endpoint.
	Gatherer prometheus.Gatherer
	// Extra dependencies checked by /health besides the database.
	Health []Pinger
	// OpenAPIPath is the file served at /openapi.yaml.
	OpenAPIPath string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, r Routes) {
	openAPIPath := r.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "openapi.yaml"
	}

	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile(openAPIPath)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(docsPage)
	})
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	if r.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/", Root())
	app.Get("/health", HealthCheck(r.DB, r.Health...))
	app.Get("/healthz", LivenessProbe())

	app.Get("/analyze", Analyze(r.Analyses))

	app.Get("/analyses", ListAnalyses(r.Analyses))
	app.Get("/analyses/:id", GetAnalysis(r.Analyses))
	app.Get("/analyses/:id/chart", GetChart(r.Analyses))
	app.Get("/analyses/:id/chart-url", GetChartURL(r.Analyses))
	app.Delete("/analyses/:id", DeleteAnalysis(r.Analyses))
}

const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>YouTube Emotion API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
