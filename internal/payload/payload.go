// Package payload decodes the opaque beacon parameter into a typed
// tracking record.
package payload

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/umber-analytics/umber/internal/model"
)

var (
	// ErrEmpty is returned when the data parameter is present but empty.
	ErrEmpty = errors.New("empty payload")
	// ErrMissingSiteID is returned when the envelope carries no site_id.
	ErrMissingSiteID = errors.New("payload missing site_id")
	// ErrMissingTracking is returned when the envelope carries no tracking block.
	ErrMissingTracking = errors.New("payload missing tracking block")
)

// Decode parses the value of the `data` query parameter: standard base64
// (padded) wrapping a UTF-8 JSON envelope. Unknown fields are ignored.
// The type/category consistency is the browser's contract and is not
// checked here.
func Decode(raw string) (model.Beacon, error) {
	if raw == "" {
		return model.Beacon{}, ErrEmpty
	}

	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return model.Beacon{}, fmt.Errorf("invalid base64: %w", err)
	}

	var beacon model.Beacon
	if err := json.Unmarshal(b, &beacon); err != nil {
		return model.Beacon{}, fmt.Errorf("invalid beacon JSON: %w", err)
	}

	if beacon.SiteID == "" {
		return model.Beacon{}, ErrMissingSiteID
	}
	if beacon.Tracking == nil {
		return model.Beacon{}, ErrMissingTracking
	}

	return beacon, nil
}
