// Package pipeline orchestrates one analysis request end to end: admission,
// cache lookup or re-ingest, signal extraction, and scoring. Steps run
// sequentially within a request; the core imposes no timeout and never
// retries a collaborator.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/ghostwatch/internal/admission"
	"github.com/jonathan/ghostwatch/internal/cache"
	"github.com/jonathan/ghostwatch/internal/cadence"
	"github.com/jonathan/ghostwatch/internal/db"
	"github.com/jonathan/ghostwatch/internal/nlp"
	"github.com/jonathan/ghostwatch/internal/scoring"
	"github.com/jonathan/ghostwatch/internal/snapshot"
	"github.com/jonathan/ghostwatch/internal/source"
)

// Request is one analysis of a posting URL on behalf of a user.
type Request struct {
	UserID string
	URL    string
}

// Report is the pipeline's output.
type Report struct {
	// Record is nil when the posting came from an untrackable source and
	// was scored ephemerally.
	Record          *db.JobRecord   `json:"record,omitempty"`
	CacheHit        bool            `json:"cache_hit"`
	Tracked         bool            `json:"tracked"`
	TokensRemaining int             `json:"tokens_remaining"`
	Result          *scoring.Result `json:"result"`
}

// Pipeline wires the five core components together.
type Pipeline struct {
	admission *admission.Controller
	cache     *cache.Layer
	snapshots *snapshot.Engine
	analyzer  nlp.Analyzer // nil disables NLP-derived signals
	threshold int
}

// New creates a pipeline. analyzer may be nil; NLP-derived signals then
// stay absent rather than defaulting.
func New(ctrl *admission.Controller, layer *cache.Layer, snapshots *snapshot.Engine, analyzer nlp.Analyzer, significanceThreshold int) *Pipeline {
	if significanceThreshold <= 0 {
		significanceThreshold = snapshot.DefaultSignificanceThreshold
	}
	return &Pipeline{
		admission: ctrl,
		cache:     layer,
		snapshots: snapshots,
		analyzer:  analyzer,
		threshold: significanceThreshold,
	}
}

// Analyze runs one request to completion. The admission token is released
// on every exit path once granted; release failures are logged only.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*Report, error) {
	decision, err := p.admission.Acquire(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("admission check failed: %w", err)
	}
	if !decision.Granted {
		return nil, &AdmissionDeniedError{TokensRemaining: decision.TokensRemaining}
	}
	defer p.admission.Release(ctx, req.UserID)

	provider, tenant, externalID, trackable := source.PostingKey(req.URL)
	if !trackable {
		return p.analyzeEphemeral(ctx, req, decision.TokensRemaining)
	}

	key := db.CompositeKey{Provider: provider, TenantSlug: tenant, ExternalJobID: externalID}
	result, err := p.cache.LookupOrRefresh(ctx, key, req.URL)
	if err != nil {
		return nil, err
	}

	input := scoring.Input{
		FirstPublished:        result.Record.FirstPublished,
		Provider:              result.Record.Provider,
		SignificanceThreshold: p.threshold,
	}
	if features := result.Features; features != nil {
		input.SalaryMin = features.SalaryMin
		input.SalaryMax = features.SalaryMax
		input.SalaryProvenance = features.SalaryProvenance
	}

	if result.CacheHit {
		// The record was verified within the freshness window; the link is
		// as good as the last successful ingest.
		input.LinkResolved = true
	} else {
		input.LinkResolved = result.Job.LinkResolved
		input.RedirectLoop = result.Job.RedirectLoop
		if err := p.applyAnalysis(ctx, &input, result.Job); err != nil {
			return nil, err
		}
	}

	history, err := p.cache.UpdateHistory(ctx, result.Record.ID)
	if err != nil {
		log.Printf("[pipeline] failed to load update history for job %s: %v", result.Record.ID, err)
	} else {
		score := cadence.Analyze(history)
		input.Cadence = &score
	}

	snapshots, err := p.snapshots.All(ctx, result.Record.ID)
	if err != nil {
		log.Printf("[pipeline] failed to load snapshots for job %s: %v", result.Record.ID, err)
	} else {
		input.Snapshots = snapshots
	}

	return &Report{
		Record:          result.Record,
		CacheHit:        result.CacheHit,
		Tracked:         true,
		TokensRemaining: decision.TokensRemaining,
		Result:          scoring.Compute(input),
	}, nil
}

// analyzeEphemeral scores a posting from an untrackable source without
// persisting anything. There is no history, so cadence and change quality
// stay absent and source credibility lands low on the allowlist blend.
func (p *Pipeline) analyzeEphemeral(ctx context.Context, req Request, tokensRemaining int) (*Report, error) {
	job, err := p.cache.FetchEphemeral(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	provider := job.Provider
	if provider == "" {
		provider = string(source.DetectPlatform(req.URL))
	}

	input := scoring.Input{
		FirstPublished:        job.FirstPublished,
		LinkResolved:          job.LinkResolved,
		RedirectLoop:          job.RedirectLoop,
		Provider:              provider,
		SignificanceThreshold: p.threshold,
	}
	if features := job.Features; features != nil {
		input.SalaryMin = features.SalaryMin
		input.SalaryMax = features.SalaryMax
		input.SalaryProvenance = features.SalaryProvenance
	}
	if err := p.applyAnalysis(ctx, &input, job); err != nil {
		return nil, err
	}

	return &Report{
		Tracked:         false,
		TokensRemaining: tokensRemaining,
		Result:          scoring.Compute(input),
	}, nil
}

// applyAnalysis runs the NLP collaborator over the posting text, truncated
// to the input cap, and folds the derived signals into the scoring input.
// A collaborator failure surfaces; it is never retried here.
func (p *Pipeline) applyAnalysis(ctx context.Context, input *scoring.Input, job *source.AdapterJob) error {
	if p.analyzer == nil || job.Content == "" {
		return nil
	}

	analysis, err := p.analyzer.Analyze(ctx, nlp.Truncate(job.Content), nlp.Metadata{
		Title:   job.Title,
		Company: job.Company,
	})
	if err != nil {
		return fmt.Errorf("text analysis failed: %w", err)
	}

	skillCount := len(analysis.Skills)
	buzzwordCount := analysis.Buzzwords.Count
	compPeriod := analysis.CompPeriodDetected
	input.SkillCount = &skillCount
	input.BuzzwordCount = &buzzwordCount
	input.CompPeriodDetected = &compPeriod
	return nil
}
