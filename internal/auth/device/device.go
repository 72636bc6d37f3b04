// Package device turns raw User-Agent headers into display names for audit
// records and session listings.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknown = "Unknown"

// Info is the parsed form of a User-Agent header.
type Info struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

// Parse extracts browser and operating system from a User-Agent header.
// Missing parts come back as "Unknown".
func Parse(userAgent string) Info {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return Info{Browser: unknown, OS: unknown}
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	info := Info{
		Browser: strings.TrimSpace(browser),
		OS:      strings.TrimSpace(ua.OS()),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
	if info.Browser == "" {
		info.Browser = unknown
	}
	if info.OS == "" {
		info.OS = strings.TrimSpace(ua.Platform())
	}
	if info.OS == "" {
		info.OS = unknown
	}
	return info
}

// ParseUserAgent returns a "Browser on OS" display name.
func ParseUserAgent(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}
	info := Parse(userAgent)
	return info.Browser + " on " + info.OS
}
