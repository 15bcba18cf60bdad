package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/umber-analytics/umber/internal/model"
	"github.com/umber-analytics/umber/internal/repository"
)

// StatsHandler serves POST /stats: day-bucketed aggregates over the event
// store, selected by the request's `what` field.
type StatsHandler struct {
	store  repository.EventStore
	logger *zap.Logger
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(store repository.EventStore, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{store: store, logger: logger}
}

// Register mounts the stats route. Both the bare and trailing-slash forms
// are accepted, since dashboards have historically used either.
func (h *StatsHandler) Register(e *echo.Echo) {
	e.POST("/stats", h.Stats, NullToEmptyArray())
	e.POST("/stats/", h.Stats, NullToEmptyArray())
}

// Stats runs the page-view or unique-visitor aggregation for one site over
// an occured_at range. Unknown or empty `what` defaults to page views.
func (h *StatsHandler) Stats(c echo.Context) error {
	var req model.StatsRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "invalid request body\n")
	}

	ctx := c.Request().Context()

	var (
		metrics []model.Metric
		err     error
	)
	switch req.What {
	case "uv":
		metrics, err = h.store.UniqueVisitors(ctx, req)
	default:
		metrics, err = h.store.PageViews(ctx, req)
	}
	if err != nil {
		h.logger.Error("stats query failed",
			zap.String("site_id", req.SiteID),
			zap.String("what", req.What),
			zap.Error(err),
		)
		return c.String(http.StatusInternalServerError, err.Error()+"\n")
	}

	return c.JSON(http.StatusOK, metrics)
}
