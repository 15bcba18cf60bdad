package referrer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "https with path and query", raw: "https://example.com/blog/post?x=1", want: "example.com"},
		{name: "http with port", raw: "http://example.com:8080/", want: "example.com:8080"},
		{name: "bare host", raw: "https://news.ycombinator.com", want: "news.ycombinator.com"},
		{name: "empty", raw: "", want: ""},
		{name: "relative path has no host", raw: "/just/a/path", want: ""},
		{name: "unparseable", raw: "http://%zz", want: ""},
		{name: "android app scheme", raw: "android-app://com.google.android.gm", want: "com.google.android.gm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Domain(tt.raw))
		})
	}
}
