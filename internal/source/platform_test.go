package source

import "testing"

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Platform
	}{
		{"greenhouse board", "https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"lever", "https://jobs.lever.co/acme/abc-def", PlatformLever},
		{"workday", "https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"ashby", "https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"linkedin", "https://www.linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"company site", "https://acme.com/careers/123", PlatformUnknown},
		{"garbage", "://not-a-url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPlatform(tt.url); got != tt.expected {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestPostingKey(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		provider   string
		tenant     string
		externalID string
		ok         bool
	}{
		{"greenhouse", "https://boards.greenhouse.io/acme/jobs/4412", "greenhouse", "acme", "4412", true},
		{"lever", "https://jobs.lever.co/acme/abc-def-123", "lever", "acme", "abc-def-123", true},
		{"ashby", "https://jobs.ashbyhq.com/acme/99f1", "ashby", "acme", "99f1", true},
		{"workday", "https://acme.wd5.myworkdayjobs.com/en-US/careers/job/NYC/Engineer_R-1234", "workday", "acme", "Engineer_R-1234", true},
		{"company site", "https://acme.com/careers/123", "", "", "", false},
		{"greenhouse without id", "https://boards.greenhouse.io/acme", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, tenant, externalID, ok := PostingKey(tt.url)
			if ok != tt.ok {
				t.Fatalf("PostingKey(%q) ok = %v, want %v", tt.url, ok, tt.ok)
			}
			if provider != tt.provider || tenant != tt.tenant || externalID != tt.externalID {
				t.Errorf("PostingKey(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.url, provider, tenant, externalID, tt.provider, tt.tenant, tt.externalID)
			}
		})
	}
}

func TestIsTrackable(t *testing.T) {
	tests := []struct {
		provider string
		expected bool
	}{
		{"greenhouse", true},
		{"Lever", true},
		{"workday", true},
		{"ashby", true},
		{"linkedin", false},
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := IsTrackable(tt.provider); got != tt.expected {
				t.Errorf("IsTrackable(%q) = %v, want %v", tt.provider, got, tt.expected)
			}
		})
	}
}
