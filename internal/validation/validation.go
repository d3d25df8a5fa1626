package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// ItemIDPattern defines the valid item id format: alphanumeric, hyphens,
// underscores, colons (submission ids are minted by the platform, e.g. "ph-42").
var ItemIDPattern = regexp.MustCompile(`^[a-zA-Z0-9:_-]+$`)

// MaxReasonLength caps moderator rejection notes.
const MaxReasonLength = 500

// ValidateItemID checks if an item id matches the allowed pattern.
func ValidateItemID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	return ItemIDPattern.MatchString(id)
}

// ValidateMediaRef checks if a media locator is a valid http/https URL.
// This prevents javascript:, data:, file:, and other dangerous schemes from
// reaching the media fetcher.
func ValidateMediaRef(ref string) (bool, string) {
	if ref == "" {
		return false, "media_ref is required"
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false, "invalid media_ref format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "media_ref must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "media_ref must have a valid host"
	}

	return true, ""
}

// ValidateReason checks a rejection reason: non-blank and within the length cap.
func ValidateReason(reason string) (bool, string) {
	if strings.TrimSpace(reason) == "" {
		return false, "reason is required"
	}
	if len(reason) > MaxReasonLength {
		return false, "reason is too long"
	}
	return true, ""
}
