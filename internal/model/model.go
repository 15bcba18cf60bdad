// Package model holds the wire and storage types shared by the ingestion
// pipeline and the aggregate query path.
package model

// Beacon is the envelope carried inside the base64 `data` query parameter
// of a tracking request. Tracking is a pointer so that a payload missing
// the block entirely can be told apart from one with zero values.
type Beacon struct {
	SiteID   string        `json:"site_id"`
	Tracking *TrackingData `json:"tracking"`
}

// TrackingData is the inner tracking block emitted by the browser script.
type TrackingData struct {
	Type      string `json:"type"` // "page" or "event"
	Identity  string `json:"identity"`
	UserAgent string `json:"ua"`
	Event     string `json:"event"` // page path for page views, event name otherwise
	Category  string `json:"category"`
	Referrer  string `json:"referrer"`
	IsTouch   bool   `json:"isTouch"`
}

// GeoInfo is the response shape of the geolocation oracle. Only Country and
// RegionName end up in the event store; the rest is decoded for completeness.
type GeoInfo struct {
	IP         string  `json:"ip"`
	Country    string  `json:"country"`
	CountryISO string  `json:"country_iso"`
	RegionName string  `json:"region_name"`
	RegionCode string  `json:"region_code"`
	City       string  `json:"city"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Event is the enriched form persisted to the columnar store. The day
// bucket (occured_at) and row timestamp are supplied at insertion time by
// the writer, not carried here.
type Event struct {
	SiteID         string
	Type           string
	UserID         string
	Event          string
	Category       string
	Referrer       string
	ReferrerDomain string
	IsTouch        bool
	BrowserName    string
	OSName         string
	DeviceType     string
	Country        string
	Region         string
}

// StatsRequest is the body of a POST /stats call. Start and End are
// occured_at literals (UTC YYYYMMDD).
type StatsRequest struct {
	SiteID string `json:"site_id"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	What   string `json:"what"` // "pv" (default) or "uv"
}

// Metric is one aggregate row. Value is the page path for page-view
// queries and the visitor identity for unique-visitor queries.
type Metric struct {
	OccuredAt uint32 `json:"occured_at"`
	Value     string `json:"value"`
	Count     uint64 `json:"count"`
}
