package utils

import "strings"

// ParseUserAgent extracts a coarse browser and platform name from a raw
// User-Agent header. Unrecognized or empty values come back as "N/A"; click
// rows keep the raw header alongside these for anything finer grained.
func ParseUserAgent(ua string) (browser, platform string) {
	browser = GeoUnknown
	platform = GeoUnknown
	if ua == "" {
		return browser, platform
	}

	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "edg/"), strings.Contains(lower, "edge/"):
		browser = "Edge"
	case strings.Contains(lower, "opr/"), strings.Contains(lower, "opera"):
		browser = "Opera"
	case strings.Contains(lower, "firefox/"):
		browser = "Firefox"
	case strings.Contains(lower, "chrome/"), strings.Contains(lower, "crios/"):
		browser = "Chrome"
	case strings.Contains(lower, "safari/"):
		browser = "Safari"
	case strings.Contains(lower, "msie"), strings.Contains(lower, "trident/"):
		browser = "Internet Explorer"
	case strings.Contains(lower, "curl/"):
		browser = "curl"
	case strings.Contains(lower, "wget/"):
		browser = "wget"
	case strings.Contains(lower, "bot"), strings.Contains(lower, "crawler"), strings.Contains(lower, "spider"):
		browser = "Bot"
	}

	switch {
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ipod"):
		platform = "iOS"
	case strings.Contains(lower, "android"):
		platform = "Android"
	case strings.Contains(lower, "windows"):
		platform = "Windows"
	case strings.Contains(lower, "mac os x"), strings.Contains(lower, "macintosh"):
		platform = "macOS"
	case strings.Contains(lower, "linux"):
		platform = "Linux"
	}

	return browser, platform
}
