package handler

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ytemotion/internal/model"
	"ytemotion/internal/service"
)

// AnalysisIDHeader carries the id of the analysis behind a returned chart.
const AnalysisIDHeader = "X-Analysis-ID"

const defaultMaxComments = 100

var validate = validator.New()

// analyzeQuery are the query parameters of GET /analyze.
type analyzeQuery struct {
	VideoURL    string `query:"video_url" validate:"required,max=2048"`
	MaxComments int    `query:"max_comments" validate:"gte=1,lte=5000"`
	ChartType   string `query:"chart_type" validate:"max=16"`
}

// Analyze godoc
// @Summary Analyze the emotions in a video's comments
// @Description Fetches top-level comments, classifies each comment's emotion and returns the distribution chart.
// @Tags analyses
// @Produce png
// @Param video_url query string true "YouTube video URL"
// @Param max_comments query int false "Maximum comments to analyze" default(100)
// @Param chart_type query string false "bar or pie" default(bar)
// @Success 200 {file} binary
// @Header 200 {string} X-Analysis-ID "Analysis id"
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /analyze [get]
func Analyze(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := analyzeQuery{MaxComments: defaultMaxComments}
		if err := c.QueryParser(&q); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PARAMS", "invalid query parameters")
		}
		if err := validate.Struct(q); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PARAMS", "invalid query parameters")
		}

		res, err := svc.Analyze(c.UserContext(), service.AnalyzeRequest{
			VideoURL:    q.VideoURL,
			MaxComments: q.MaxComments,
			ChartType:   model.ParseChartType(q.ChartType),
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(AnalysisIDHeader, res.Analysis.ID)
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Status(fiber.StatusOK).Send(res.Chart)
	}
}

// ListAnalyses godoc
// @Summary List analyses, newest first
// @Tags analyses
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.AnalysisListResult
// @Failure 400 {object} errorPayload
// @Router /analyses [get]
func ListAnalyses(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetAnalysis godoc
// @Summary Get an analysis with its comments
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis id"
// @Success 200 {object} model.Analysis
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /analyses/{id} [get]
func GetAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := analysisID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	}
}

// GetChart godoc
// @Summary Download the chart of an analysis
// @Tags analyses
// @Produce png
// @Param id path string true "Analysis id"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /analyses/{id}/chart [get]
func GetChart(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := analysisID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, info, err := svc.Chart(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := info.ContentType
		if ct == "" {
			ct = "image/png"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(AnalysisIDHeader, id)
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.SendStream(rc, size)
	}
}

// GetChartURL godoc
// @Summary Presigned download URL for the chart of an analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis id"
// @Param expiry query string false "URL lifetime, e.g. 15m"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /analyses/{id}/chart-url [get]
func GetChartURL(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := analysisID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var expiry time.Duration
		if raw := c.Query("expiry"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 || d > 7*24*time.Hour {
				return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expiry")
			}
			expiry = d
		}

		u, err := svc.ChartURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// DeleteAnalysis godoc
// @Summary Delete an analysis and its chart
// @Tags analyses
// @Param id path string true "Analysis id"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /analyses/{id} [delete]
func DeleteAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := analysisID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func analysisID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
