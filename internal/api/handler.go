package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/aqi"
	"github.com/bobby-s-dev/weather-dashboard/internal/forecast"
	"github.com/bobby-s-dev/weather-dashboard/internal/icons"
	"github.com/bobby-s-dev/weather-dashboard/internal/models"
	"github.com/bobby-s-dev/weather-dashboard/internal/presenter"
	"github.com/bobby-s-dev/weather-dashboard/internal/scheduler"
	"github.com/bobby-s-dev/weather-dashboard/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	controller *services.Controller
	scheduler  *scheduler.Scheduler
	cache      *services.BundleCache
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandler wires the HTTP layer. sched and cache may be nil when those features are off.
func NewHandler(controller *services.Controller, sched *scheduler.Scheduler, cache *services.BundleCache, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		controller: controller,
		scheduler:  sched,
		cache:      cache,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

type searchRequest struct {
	City string `json:"city"`
}

type inputRequest struct {
	Value string `json:"value"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	mode, err := forecast.ParseMode(c.Query("view"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(h.view(h.controller.State(), mode))
}

// Search handles POST /api/v1/dashboard/search
func (h *Handler) Search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	mode, err := forecast.ParseMode(c.Query("view"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if !c.QueryBool("wait") {
		gen, err := h.controller.Submit(req.City)
		if err != nil {
			return h.searchError(c, err, mode)
		}
		h.logger.Info("Search submitted",
			zap.String("city", req.City),
			zap.Uint64("generation", gen))
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success":    true,
			"city":       strings.TrimSpace(req.City),
			"generation": gen,
		})
	}

	state, err := h.controller.Search(c.UserContext(), req.City)
	if err != nil {
		return h.searchError(c, err, mode)
	}
	return c.JSON(h.view(state, mode))
}

// Refresh handles POST /api/v1/dashboard/refresh
func (h *Handler) Refresh(c *fiber.Ctx) error {
	mode, err := forecast.ParseMode(c.Query("view"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	state, err := h.controller.Refresh(c.UserContext())
	if err != nil {
		return h.searchError(c, err, mode)
	}
	return c.JSON(h.view(state, mode))
}

// searchError maps a controller error to a response. Fetch failures still carry the view.
func (h *Handler) searchError(c *fiber.Ctx, err error, mode forecast.Mode) error {
	switch {
	case errors.Is(err, services.ErrEmptyCity):
		return fiber.NewError(fiber.StatusBadRequest, "City parameter is required")
	case errors.Is(err, services.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(h.view(h.controller.State(), mode))
	default:
		h.logger.Warn("Search failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(h.view(h.controller.State(), mode))
	}
}

// SetSearchInput handles PUT /api/v1/dashboard/input
func (h *Handler) SetSearchInput(c *fiber.Ctx) error {
	var req inputRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return c.JSON(h.view(h.controller.SetSearchInput(req.Value), forecast.Hourly))
}

// DismissError handles DELETE /api/v1/dashboard/error
func (h *Handler) DismissError(c *fiber.Ctx) error {
	return c.JSON(h.view(h.controller.DismissError(), forecast.Hourly))
}

// GetForecast handles GET /api/v1/forecast
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	mode, err := forecast.ParseMode(c.Query("view"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	state := h.controller.State()
	return c.JSON(presenter.BuildForecast(state.Forecast, mode, h.now(), h.loc))
}

// GetAQI handles GET /api/v1/aqi/:index
func (h *Handler) GetAQI(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Index must be an integer")
	}
	tier := aqi.Classify(index)
	return c.JSON(fiber.Map{
		"index":  index,
		"tier":   tier,
		"width":  tier.WidthCSS(),
		"advice": aqi.Describe(index),
	})
}

// GetIcon handles GET /api/v1/icons/:condition
func (h *Handler) GetIcon(c *fiber.Ctx) error {
	condition := c.Params("condition")
	icon := icons.Select(condition)
	return c.JSON(fiber.Map{
		"condition": condition,
		"icon":      icon,
		"accent":    icon.Accent(),
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	state := h.controller.State()

	return c.JSON(fiber.Map{
		"status":        "healthy",
		"timestamp":     h.now(),
		"last_fetch":    h.controller.GetLastFetchTime(),
		"uptime":        time.Since(startTime).String(),
		"mode":          state.Mode,
		"selected_city": state.SelectedCity,
	})
}

// GetMetrics handles GET /api/v1/metrics
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	metrics := fiber.Map{
		"controller": h.controller.GetStats(),
	}
	if h.cache != nil {
		metrics["cache"] = h.cache.GetStats()
	}
	if h.scheduler != nil {
		metrics["scheduler"] = h.scheduler.GetStatus()
	}

	return c.JSON(fiber.Map{
		"metrics":   metrics,
		"timestamp": h.now(),
	})
}

func (h *Handler) view(state models.ViewState, mode forecast.Mode) presenter.DashboardView {
	return presenter.Build(state, mode, h.now(), h.loc)
}

// ErrorHandler renders every unhandled error as {"error", "success": false}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}

var startTime = time.Now()
