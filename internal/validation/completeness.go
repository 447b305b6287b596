// Package validation decides whether fetched content actually looks like a
// job posting before it is scored or persisted.
package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/ghostwatch/internal/source"
)

// MinCompleteness is the floor below which fetched content is rejected as
// not-a-job-posting.
const MinCompleteness = 0.30

// Field presence weights. Title is additionally mandatory: without it the
// check fails regardless of the score.
const (
	weightTitle      = 0.30
	weightLocation   = 0.20
	weightSalary     = 0.20
	weightTimeType   = 0.10
	weightCurrency   = 0.10
	weightDepartment = 0.10
)

// RejectionError reports content that failed the completeness check, with
// the fields that were missing. It surfaces as a specific user-facing
// message rather than a silently low score.
type RejectionError struct {
	Score   float64
	Missing []string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("content does not look like a job posting (completeness %.0f%%, missing: %s)",
		e.Score*100, strings.Join(e.Missing, ", "))
}

// Completeness holds the outcome of the heuristic.
type Completeness struct {
	Score   float64
	Missing []string
}

// CheckPosting scores how complete a fetched posting is and rejects it when
// the title is absent or the weighted score falls under MinCompleteness.
func CheckPosting(job *source.AdapterJob) (*Completeness, error) {
	result := scorePosting(job)

	if strings.TrimSpace(job.Title) == "" {
		return result, &RejectionError{Score: result.Score, Missing: result.Missing}
	}
	if result.Score < MinCompleteness {
		return result, &RejectionError{Score: result.Score, Missing: result.Missing}
	}
	return result, nil
}

func scorePosting(job *source.AdapterJob) *Completeness {
	var score float64
	var missing []string

	if strings.TrimSpace(job.Title) != "" {
		score += weightTitle
	} else {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(job.Location) != "" {
		score += weightLocation
	} else {
		missing = append(missing, "location")
	}

	features := job.Features
	if features != nil && (features.SalaryMin != nil || features.SalaryMax != nil) {
		score += weightSalary
	} else {
		missing = append(missing, "salary")
	}
	if features != nil && strings.TrimSpace(features.TimeType) != "" {
		score += weightTimeType
	} else {
		missing = append(missing, "time type")
	}
	if features != nil && strings.TrimSpace(features.Currency) != "" {
		score += weightCurrency
	} else {
		missing = append(missing, "currency")
	}
	if features != nil && strings.TrimSpace(features.Department) != "" {
		score += weightDepartment
	} else {
		missing = append(missing, "department")
	}

	return &Completeness{Score: score, Missing: missing}
}
