package format

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
)

// FormatConfidence renders a 0..1 score as a percentage with one decimal
func FormatConfidence(confidence *float64) string {
	if confidence == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *confidence*100)
}

// DefaultTruncateLength is used by Truncate callers without a preference
const DefaultTruncateLength = 100

// Truncate cuts text to maxLength runes and appends "..." when shortened
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

var imageExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

// IsValidImageURL checks for an absolute URL ending in an image extension
func IsValidImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return imageExt.MatchString(raw)
}

// IsValidCoordinates checks latitude and longitude ranges
func IsValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
