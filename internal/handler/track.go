// Package handler mounts the public HTTP surface: the beacon ingest
// endpoint and the aggregate stats endpoint.
package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/umber-analytics/umber/internal/clientip"
	"github.com/umber-analytics/umber/internal/model"
	"github.com/umber-analytics/umber/internal/payload"
	"github.com/umber-analytics/umber/internal/referrer"
	"github.com/umber-analytics/umber/internal/uaparse"
)

// Enqueuer accepts enriched events for asynchronous persistence.
type Enqueuer interface {
	Enqueue(ev model.Event) bool
}

// GeoResolver resolves an IP to location attributes.
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (model.GeoInfo, error)
}

// TrackHandler serves GET /track. The response is always an empty 200 —
// the browser fetches the beacon as an image and cannot observe anything
// else. Every failure is server-side diagnostics only.
type TrackHandler struct {
	queue      Enqueuer
	geo        GeoResolver
	overrideIP string // --ip development flag, read-only after startup
	logger     *zap.Logger
}

// NewTrackHandler constructs a TrackHandler.
func NewTrackHandler(queue Enqueuer, geo GeoResolver, overrideIP string, logger *zap.Logger) *TrackHandler {
	return &TrackHandler{
		queue:      queue,
		geo:        geo,
		overrideIP: overrideIP,
		logger:     logger,
	}
}

// Register mounts the ingest route.
func (h *TrackHandler) Register(e *echo.Echo) {
	e.GET("/track", h.Track)
}

// Track decodes and enriches one beacon, then hands it to the queue. The
// enqueue path never blocks the response.
func (h *TrackHandler) Track(c echo.Context) error {
	raw := c.QueryParam("data")
	if raw == "" {
		h.logger.Warn("track request without data parameter")
		return c.NoContent(http.StatusOK)
	}

	beacon, err := payload.Decode(raw)
	if err != nil {
		h.logger.Warn("undecodable beacon payload", zap.Error(err))
		return c.NoContent(http.StatusOK)
	}

	browser, osName, device := uaparse.Classify(beacon.Tracking.UserAgent)

	ip, err := clientip.Resolve(c.Request(), h.overrideIP)
	if err != nil {
		h.logger.Warn("client address unresolvable", zap.Error(err))
		return c.NoContent(http.StatusOK)
	}

	// Geo failures are soft: the event is stored with empty geo fields.
	var geoInfo model.GeoInfo
	if info, err := h.geo.Lookup(c.Request().Context(), ip.String()); err != nil {
		h.logger.Warn("geo lookup failed, storing event without geo",
			zap.String("ip", ip.String()),
			zap.Error(err),
		)
	} else {
		geoInfo = info
	}

	h.queue.Enqueue(model.Event{
		SiteID:         beacon.SiteID,
		Type:           beacon.Tracking.Type,
		UserID:         beacon.Tracking.Identity,
		Event:          beacon.Tracking.Event,
		Category:       beacon.Tracking.Category,
		Referrer:       beacon.Tracking.Referrer,
		ReferrerDomain: referrer.Domain(beacon.Tracking.Referrer),
		IsTouch:        beacon.Tracking.IsTouch,
		BrowserName:    browser,
		OSName:         osName,
		DeviceType:     device,
		Country:        geoInfo.Country,
		Region:         geoInfo.RegionName,
	})

	return c.NoContent(http.StatusOK)
}
