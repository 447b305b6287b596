// Package source - platform.go classifies posting hosts into known ATS
// providers and decides which providers are trackable.
package source

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformLinkedIn is a LinkedIn-hosted posting
	PlatformLinkedIn Platform = "linkedin"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com") || strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	case strings.Contains(host, "ashbyhq.com"):
		return PlatformAshby
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	default:
		return PlatformUnknown
	}
}

// IsTrackable reports whether postings from this provider get persisted and
// tracked over time. Ad-hoc and unrecognized sources are scored ephemerally
// and never written to the cache.
func IsTrackable(provider string) bool {
	switch Platform(strings.ToLower(provider)) {
	case PlatformGreenhouse, PlatformLever, PlatformWorkday, PlatformAshby:
		return true
	default:
		return false
	}
}

// PostingKey derives the composite key parts from a trackable provider's
// URL structure. ok is false when the URL does not follow a recognized
// trackable layout; such postings are handled ephemerally.
func PostingKey(urlStr string) (provider, tenant, externalID string, ok bool) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", "", "", false
	}
	segments := splitPath(parsed.Path)

	switch DetectPlatform(urlStr) {
	case PlatformGreenhouse:
		// boards.greenhouse.io/<tenant>/jobs/<id>
		for i, seg := range segments {
			if seg == "jobs" && i >= 1 && i+1 < len(segments) {
				return string(PlatformGreenhouse), segments[i-1], segments[i+1], true
			}
		}
	case PlatformLever:
		// jobs.lever.co/<tenant>/<posting-id>
		if len(segments) >= 2 {
			return string(PlatformLever), segments[0], segments[1], true
		}
	case PlatformAshby:
		// jobs.ashbyhq.com/<tenant>/<posting-id>
		if len(segments) >= 2 {
			return string(PlatformAshby), segments[0], segments[1], true
		}
	case PlatformWorkday:
		// <tenant>.wd5.myworkdayjobs.com/.../job/<slug>/<id> or .../<req-id>
		host := strings.ToLower(parsed.Host)
		tenant := strings.SplitN(host, ".", 2)[0]
		if len(segments) > 0 {
			return string(PlatformWorkday), tenant, segments[len(segments)-1], true
		}
	}
	return "", "", "", false
}

func splitPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// CredibleHost reports whether the provider belongs to the known-ATS
// allowlist used by source-credibility scoring. LinkedIn postings are
// recognizable but carry less provenance than a company-run ATS board.
func CredibleHost(provider string) bool {
	switch Platform(strings.ToLower(provider)) {
	case PlatformGreenhouse, PlatformLever, PlatformWorkday, PlatformAshby:
		return true
	default:
		return false
	}
}
