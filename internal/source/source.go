// Package source defines the contract with the external scraper/adapter and
// classifies where a posting is hosted. Actual HTML fetching and
// normalization live behind the Fetcher interface and are supplied by the
// caller.
package source

import (
	"context"
	"errors"
	"time"
)

// ErrBlocked signals the page exists but could not be retrieved, typically
// because the site blocks automation.
var ErrBlocked = errors.New("source refused the request; the site may block automation")

// ErrInvalidURL signals the URL could not be parsed or does not point at a
// retrievable page.
var ErrInvalidURL = errors.New("the URL is not a valid job posting address")

// StructuredFeatures carries the adapter's normalized attributes.
type StructuredFeatures struct {
	SalaryMin        *float64 `json:"salary_min,omitempty"`
	SalaryMax        *float64 `json:"salary_max,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	TimeType         string   `json:"time_type,omitempty"`
	Department       string   `json:"department,omitempty"`
	SalaryProvenance string   `json:"salary_provenance,omitempty"`
}

// AdapterJob is everything the adapter could extract from a posting page.
type AdapterJob struct {
	Provider       string              `json:"provider"`
	Tenant         string              `json:"tenant"`
	ExternalID     string              `json:"external_id"`
	Title          string              `json:"title"`
	Company        string              `json:"company"`
	Location       string              `json:"location"`
	URL            string              `json:"url"`
	FirstPublished *time.Time          `json:"first_published,omitempty"`
	UpdatedAt      *time.Time          `json:"updated_at,omitempty"`
	Content        string              `json:"content"`
	RawPayload     []byte              `json:"raw_payload,omitempty"`
	Features       *StructuredFeatures `json:"structured_features,omitempty"`
	LinkResolved   bool                `json:"link_resolved"`
	RedirectLoop   bool                `json:"redirect_loop"`
	RequisitionID  string              `json:"requisition_id,omitempty"`
}

// Fetcher retrieves a posting from its source. nil, nil means the page was
// reachable but no job could be parsed from it; callers treat that as the
// posting having gone away. Fetch is single-shot: retries, if any, belong
// to the implementation, never to the core.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*AdapterJob, error)
}
