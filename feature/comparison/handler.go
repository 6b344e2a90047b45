package comparison

import (
	"errors"
	"strconv"

	"agent-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/comparison")
	group.Post("/run", h.HandleRun)
	group.Get("/latest", h.HandleLatest)
	group.Get("/history", h.HandleHistory)
	group.Get("/search/:ip", h.HandleSearch)
}

// HandleRun runs a comparison and returns its result.
// @Summary Run Comparison
// @Description Fetches Nessus agents and Netbox devices and VMs, reconciles them and stores comparison_results.json. Concurrent identical requests share one run.
// @Tags comparison
// @Produce json
// @Param no_cache query boolean false "Ignore cached snapshots"
// @Param strategy query string false "Matcher strategy (indexed, linear)"
// @Param upload query boolean false "Archive the document to object storage"
// @Success 200 {object} comparison.Result "Run result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /comparison/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := h.service.DefaultRunOptions()
	opts.NoCache = c.QueryBool("no_cache", false)
	opts.Upload = c.QueryBool("upload", opts.Upload)
	if name := c.Query("strategy"); name != "" {
		strategy, err := ParseStrategy(name)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		opts.Strategy = strategy
	}

	l.Info("Comparison requested", zap.String("strategy", string(opts.Strategy)))
	res, err := h.service.Run(c.UserContext(), opts)
	if err != nil {
		l.Error("Comparison failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleLatest returns the newest comparison document.
// @Summary Latest Comparison
// @Description Returns the document of the most recent comparison run.
// @Tags comparison
// @Produce json
// @Success 200 {object} report.Document "Comparison document"
// @Failure 404 {object} map[string]string "No comparison yet"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /comparison/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	doc, err := h.service.Latest()
	if errors.Is(err, ErrNoResult) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to load latest comparison", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(doc)
}

// HandleHistory lists recorded runs.
// @Summary Comparison History
// @Description Lists recorded comparison runs, newest first.
// @Tags comparison
// @Produce json
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} comparison.ComparisonRun "Runs"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "History disabled"
// @Router /comparison/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	runs, err := h.service.History(c.UserContext(), limit)
	if errors.Is(err, ErrHistoryDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleSearch finds agents, devices and VMs by IP address.
// @Summary Search by IP
// @Description Lists agents, devices and VMs carrying the address. Uses cached snapshots when present.
// @Tags comparison
// @Produce json
// @Param ip path string true "IPv4 or IPv6 address"
// @Param no_cache query boolean false "Fetch from the APIs instead of snapshots"
// @Success 200 {object} reconcile.SearchResult "Matches"
// @Failure 400 {object} map[string]string "Invalid IP"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /comparison/search/{ip} [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	ip := c.Params("ip")
	res, err := h.service.SearchIP(c.UserContext(), ip, c.QueryBool("no_cache", false))
	if errors.Is(err, ErrInvalidIP) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Search failed", zap.String("ip", ip), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}
