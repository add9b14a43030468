// Package installation tracks registered device installations, the unit every
// session, preference, and gating decision is scoped to.
package installation

import (
	"time"

	ua "github.com/mssola/useragent"

	"lookbook/pkg/domain"
)

// Installation is one registered device install of the client app.
type Installation struct {
	ID         domain.InstallationID
	DeviceName string // e.g. "Chrome on Mac OS X", for session management UIs
	UserAgent  string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// RecordActivity updates the last seen time if the given time is newer.
func (i *Installation) RecordActivity(at time.Time) {
	if at.After(i.LastSeenAt) {
		i.LastSeenAt = at
	}
}

// DisplayName derives a human-readable device name from a User-Agent string.
func DisplayName(userAgent string) string {
	if userAgent == "" {
		return "Unknown device"
	}
	parsed := ua.New(userAgent)
	browser, _ := parsed.Browser()
	os := parsed.OSInfo().Name
	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown device"
	}
}
