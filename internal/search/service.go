// Package search implements the conversational call-intelligence pipeline:
// scope resolution, CRM matching, filtering, stratified call selection,
// prompt assembly, and answer synthesis.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/calls"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/crm"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/metrics"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// noEvidenceAnswer is returned when the filters leave nothing to analyze.
// No LLM call happens in that case.
const noEvidenceAnswer = "No calls matched this search in the selected time window. " +
	"Try widening the time range or removing filters."

// Completer generates a grounded answer from an assembled prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Service runs search requests. Each request is stateless and shares
// nothing with concurrent requests.
type Service struct {
	provider calls.Provider
	crm      crm.Client // optional; nil disables CRM-dependent behavior
	model    Completer
	metrics  *metrics.Collector
	logger   *slog.Logger

	maxAnswerTokens int
	now             func() time.Time
}

// NewService creates a search service. crmClient may be nil: the
// opportunity-type filter and CRM grounding are then skipped, not errored.
// collector may be nil to disable metrics.
func NewService(provider calls.Provider, crmClient crm.Client, model Completer, collector *metrics.Collector, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider:        provider,
		crm:             crmClient,
		model:           model,
		metrics:         collector,
		logger:          logger,
		maxAnswerTokens: 2048,
		now:             time.Now,
	}
}

// SetMaxAnswerTokens overrides the synthesis token budget.
func (s *Service) SetMaxAnswerTokens(n int) {
	if n > 0 {
		s.maxAnswerTokens = n
	}
}

// Search runs the full pipeline for one request.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	days, err := LookbackDays(req.Scope, req.Filters.TimeRange)
	if err != nil {
		return nil, err
	}
	from, to := window(s.now(), days)

	s.logger.Debug("search window resolved",
		"scope", req.Scope, "lookback_days", days, "query", req.Query)

	// Independent retrieval runs concurrently: call listing, email
	// activity, CRM grounding. Only the call listing is load-bearing.
	var (
		wg sync.WaitGroup

		candidates []models.CallRecord
		listErr    error

		emails    []models.EmailActivityRecord
		hasEmails bool

		entityCtx *crm.EntityContext
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()
		candidates, listErr = s.provider.ListCalls(ctx, from, to)
		s.metrics.RecordTiming(metrics.OpCallList, time.Since(start))
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()
		fetched, emailErr := s.provider.FetchEmailActivity(ctx, from, to)
		s.metrics.RecordTiming(metrics.OpEmailFetch, time.Since(start))
		if emailErr != nil {
			// Supplementary evidence: degrade, never fail the request.
			s.logger.Warn("email activity unavailable", "error", emailErr)
			return
		}
		emails = fetched
		hasEmails = true
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		entityCtx = s.fetchCRMContext(ctx, req)
	}()

	wg.Wait()

	if listErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, listErr)
	}

	extensiveOnce := s.extensiveLoader(ctx, from, to)

	candidates, err = s.matchScope(req, candidates, extensiveOnce)
	if err != nil {
		return nil, err
	}
	candidates, err = s.applyParticipantFilter(req, candidates, extensiveOnce)
	if err != nil {
		return nil, err
	}
	candidates = s.applyOpportunityTypeFilter(ctx, req, candidates)

	generated := s.now()
	engagement := models.SummarizeEmailActivity(emails)

	if len(candidates) == 0 {
		s.logger.Info("no evidence found", "scope", req.Scope, "query", req.Query)
		return &models.SearchResult{
			Answer:  noEvidenceAnswer,
			Sources: []models.CallRecord{},
			Metadata: models.SearchMetadata{
				EmailsAnalyzed: engagement.Total,
				GeneratedAt:    generated,
			},
		}, nil
	}

	selected := SelectCalls(candidates, req.Query, from, s.now())

	selectedIDs := make([]string, len(selected))
	for i, c := range selected {
		selectedIDs[i] = c.ID
	}

	start := time.Now()
	transcripts, err := s.provider.FetchTranscripts(ctx, selectedIDs)
	s.metrics.RecordTiming(metrics.OpTranscriptFetch, time.Since(start))
	if err != nil {
		// The answer would be ungrounded without the evidence it was
		// built for.
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	// Sources are exactly the selected calls we actually hold transcripts
	// for.
	sources := make([]models.CallRecord, 0, len(selected))
	for _, c := range selected {
		if _, ok := transcripts[c.ID]; ok {
			sources = append(sources, c)
		}
	}

	prompt := BuildPrompt(PromptData{
		Request:     req,
		Candidates:  candidates,
		Selected:    selected,
		Transcripts: transcripts,
		Emails:      engagement,
		HasEmails:   hasEmails,
		CRM:         entityCtx,
	})

	llmStart := time.Now()
	answer, err := s.model.Complete(ctx, prompt, s.maxAnswerTokens)
	s.metrics.RecordLLMUsage(time.Since(llmStart), int64(len(prompt)), int64(len(answer)))
	if err != nil {
		return nil, fmt.Errorf("synthesize answer: %w", err)
	}

	s.logger.Info("search completed",
		"scope", req.Scope,
		"calls_analyzed", len(candidates),
		"transcripts_fetched", len(transcripts),
		"emails_analyzed", engagement.Total,
	)

	return &models.SearchResult{
		Answer:  answer,
		Sources: sources,
		Metadata: models.SearchMetadata{
			CallsAnalyzed:      len(candidates),
			TranscriptsFetched: len(transcripts),
			EmailsAnalyzed:     engagement.Total,
			GeneratedAt:        generated,
		},
	}, nil
}

// CandidateList is the post-filter candidate set, before relevance
// sampling. Calls come back most recent first.
type CandidateList struct {
	Calls []models.CallRecord `json:"calls"`
	From  time.Time           `json:"from"`
	To    time.Time           `json:"to"`
}

// Candidates runs the retrieval and filtering stages only: the calls that
// a search with the same scope and filters would analyze, without
// transcripts or synthesis.
func (s *Service) Candidates(ctx context.Context, req models.SearchRequest) (*CandidateList, error) {
	if err := req.ValidateScope(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	days, err := LookbackDays(req.Scope, req.Filters.TimeRange)
	if err != nil {
		return nil, err
	}
	from, to := window(s.now(), days)

	start := time.Now()
	candidates, err := s.provider.ListCalls(ctx, from, to)
	s.metrics.RecordTiming(metrics.OpCallList, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	extensiveOnce := s.extensiveLoader(ctx, from, to)

	candidates, err = s.matchScope(req, candidates, extensiveOnce)
	if err != nil {
		return nil, err
	}
	candidates, err = s.applyParticipantFilter(req, candidates, extensiveOnce)
	if err != nil {
		return nil, err
	}
	candidates = s.applyOpportunityTypeFilter(ctx, req, candidates)

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Started.Equal(candidates[j].Started) {
			return candidates[i].Started.After(candidates[j].Started)
		}
		return candidates[i].ID < candidates[j].ID
	})

	return &CandidateList{Calls: candidates, From: from, To: to}, nil
}

// extensiveLoader returns a memoized fetch of the extensive listing. It
// serves both fallback matching and participant enrichment, so a request
// hits the endpoint at most once.
func (s *Service) extensiveLoader(ctx context.Context, from, to time.Time) func() ([]models.CallRecord, error) {
	var extensive []models.CallRecord
	return func() ([]models.CallRecord, error) {
		if extensive != nil {
			return extensive, nil
		}
		start := time.Now()
		full, err := s.provider.ListCallsExtensive(ctx, from, to)
		s.metrics.RecordTiming(metrics.OpCallList, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		extensive = full
		return extensive, nil
	}
}

// matchScope narrows candidates to the requested CRM entity. Global scope
// keeps everything in the window. When association linking finds nothing,
// fall back to name matching over the extensive listing.
func (s *Service) matchScope(req models.SearchRequest, candidates []models.CallRecord, extensiveOnce func() ([]models.CallRecord, error)) ([]models.CallRecord, error) {
	if req.Scope == models.ScopeGlobal {
		return candidates, nil
	}

	targetID, targetName := req.AccountID, req.AccountName
	if req.Scope == models.ScopeOpportunity {
		targetID, targetName = req.OpportunityID, req.OpportunityName
	}

	matched := matchByAssociation(candidates, req.Scope, targetID)
	if len(matched) > 0 {
		return matched, nil
	}

	// Call-to-CRM linking is incomplete upstream; name matching trades
	// precision for recall.
	if targetName == "" {
		return nil, nil
	}
	s.logger.Debug("no association matches, falling back to name matching",
		"scope", req.Scope, "name", targetName)
	full, err := extensiveOnce()
	if err != nil {
		return nil, err
	}
	return matchByName(full, targetName), nil
}

// applyParticipantFilter applies the participant-composition filter,
// enriching partial participant payloads from the extensive listing first
// when needed.
func (s *Service) applyParticipantFilter(req models.SearchRequest, candidates []models.CallRecord, extensiveOnce func() ([]models.CallRecord, error)) ([]models.CallRecord, error) {
	pt := req.Filters.ParticipantType
	if pt == models.ParticipantAny || len(candidates) == 0 {
		return candidates, nil
	}

	if needsParticipantEnrichment(candidates) {
		full, err := extensiveOnce()
		if err != nil {
			return nil, err
		}
		candidates = enrichParticipants(candidates, full)
	}
	return filterByParticipants(candidates, pt), nil
}

// applyOpportunityTypeFilter restricts candidates by CRM deal type.
// Query failure fails open (filter skipped); a pool with no opportunity
// associations at all fails closed (nothing to evaluate means nothing
// matches).
func (s *Service) applyOpportunityTypeFilter(ctx context.Context, req models.SearchRequest, candidates []models.CallRecord) []models.CallRecord {
	wanted := req.Filters.OpportunityTypes
	if len(wanted) == 0 || len(candidates) == 0 {
		return candidates
	}

	if s.crm == nil {
		s.logger.Warn("opportunity-type filter skipped: no CRM client configured")
		return candidates
	}

	oppIDs := unionOpportunityIDs(candidates)
	if len(oppIDs) == 0 {
		s.logger.Info("opportunity-type filter matched nothing: candidates carry no opportunity associations")
		return nil
	}

	start := time.Now()
	typesByID, err := crm.FetchOpportunityTypes(ctx, s.crm, oppIDs)
	s.metrics.RecordTiming(metrics.OpCRMQuery, time.Since(start))
	if err != nil {
		s.logger.Warn("opportunity-type filter failed open", "error", err)
		return candidates
	}

	return filterByOpportunityTypes(candidates, typesByID, wanted)
}

// fetchCRMContext pulls grounding records for scoped searches. Failure is
// non-fatal: the search proceeds without CRM grounding.
func (s *Service) fetchCRMContext(ctx context.Context, req models.SearchRequest) *crm.EntityContext {
	if s.crm == nil {
		return nil
	}

	start := time.Now()
	defer func() {
		s.metrics.RecordTiming(metrics.OpCRMQuery, time.Since(start))
	}()

	switch req.Scope {
	case models.ScopeOpportunity:
		if req.OpportunityID == "" {
			return nil
		}
		ec, err := crm.FetchOpportunityContext(ctx, s.crm, req.OpportunityID)
		if err != nil {
			s.logger.Warn("opportunity context unavailable", "opportunity", req.OpportunityID, "error", err)
			return nil
		}
		return ec

	case models.ScopeAccount:
		if req.AccountID == "" {
			return nil
		}
		account, err := crm.FetchAccountContext(ctx, s.crm, req.AccountID)
		if err != nil {
			s.logger.Warn("account context unavailable", "account", req.AccountID, "error", err)
			return nil
		}
		return &crm.EntityContext{Account: account}
	}

	return nil
}
