package payload

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, body string) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte(body))
}

func TestDecode_Valid(t *testing.T) {
	raw := encode(t, `{
		"site_id": "blog",
		"tracking": {
			"type": "page",
			"identity": "visitor-1",
			"isTouch": true,
			"ua": "Mozilla/5.0",
			"event": "/about",
			"category": "Page views",
			"referrer": "https://example.com/"
		}
	}`)

	beacon, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "blog", beacon.SiteID)
	require.NotNil(t, beacon.Tracking)
	assert.Equal(t, "page", beacon.Tracking.Type)
	assert.Equal(t, "visitor-1", beacon.Tracking.Identity)
	assert.True(t, beacon.Tracking.IsTouch)
	assert.Equal(t, "/about", beacon.Tracking.Event)
	assert.Equal(t, "Page views", beacon.Tracking.Category)
	assert.Equal(t, "https://example.com/", beacon.Tracking.Referrer)
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	raw := encode(t, `{"site_id":"s","extra":42,"tracking":{"type":"event","event":"signup","future_field":true}}`)

	beacon, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "signup", beacon.Tracking.Event)
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty input", raw: "", want: ErrEmpty},
		{name: "missing site_id", raw: encode(t, `{"tracking":{"type":"page"}}`), want: ErrMissingSiteID},
		{name: "missing tracking", raw: encode(t, `{"site_id":"s"}`), want: ErrMissingTracking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_BadBase64(t *testing.T) {
	_, err := Decode("!!!not-base64!!!")
	assert.ErrorContains(t, err, "invalid base64")
}

func TestDecode_BadJSON(t *testing.T) {
	_, err := Decode(encode(t, `{not json`))
	assert.ErrorContains(t, err, "invalid beacon JSON")
}

func TestDecode_NonObjectTopLevel(t *testing.T) {
	for _, body := range []string{`"a string"`, `[1,2,3]`, `42`} {
		_, err := Decode(encode(t, body))
		assert.Error(t, err, "top-level %s should be rejected", body)
	}
}
