// Package uaparse derives browser, OS and device-class labels from a raw
// user-agent string. It is a thin, deterministic wrapper so that the
// underlying parser can be swapped without other components noticing.
package uaparse

import "github.com/mileusna/useragent"

// Classify parses a raw user-agent string. Unrecognised values come back
// as empty strings.
func Classify(raw string) (browser, os, device string) {
	ua := useragent.Parse(raw)
	return ua.Name, ua.OS, ua.Device
}
