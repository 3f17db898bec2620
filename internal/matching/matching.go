// Package matching issues scoped match requests and rankings fetches.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/logger"
	"github.com/spigell/screener/internal/screening"
)

// Scorer is the part of the backend client the orchestrator needs.
type Scorer interface {
	Match(ctx context.Context, req screening.MatchRequest) (*screening.MatchResult, error)
	Rankings(ctx context.Context, jobID screening.ID) (*screening.MatchResult, error)
}

// BusyFunc is told when a match starts and when the last one finishes.
type BusyFunc func(busy bool)

type Orchestrator struct {
	scorer Scorer
	logger *zap.Logger

	mu       sync.Mutex
	inFlight int
	onBusy   BusyFunc
}

func New(scorer Scorer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		scorer: scorer,
		logger: logger,
	}
}

// OnBusy registers the busy indicator. A second match while busy is not
// refused here; callers suppress their own triggers.
func (o *Orchestrator) OnBusy(fn BusyFunc) {
	o.mu.Lock()
	o.onBusy = fn
	o.mu.Unlock()
}

func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight > 0
}

// RunMatch scores resumes against the job. A nil resumeIDs matches the whole
// collection server-side; an empty non-nil subset is refused before sending.
func (o *Orchestrator) RunMatch(ctx context.Context, jobID screening.ID, resumeIDs []screening.ID) (*screening.MatchResult, error) {
	req := screening.MatchRequest{JobID: jobID, ResumeIDs: resumeIDs}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := logger.WithFields(o.logger, logger.JobID(jobID.String()))
	if resumeIDs == nil {
		log = log.With(zap.String("scope", "all"))
	} else {
		log = log.With(zap.Int("scope", len(resumeIDs)))
	}

	o.begin()
	defer o.end()

	log.Info("matching candidates")

	result, err := o.scorer.Match(ctx, req)
	if err != nil {
		log.Warn("matching failed", zap.Error(err))
		return nil, fmt.Errorf("matching job %s: %w", jobID, err)
	}

	if err := o.check(result, jobID, log); err != nil {
		return nil, err
	}

	log.Info("candidates matched", zap.Int("matched", result.Len()))

	return result, nil
}

// FetchRankings returns the ranking computed by the last match for the job.
// It never triggers scoring.
func (o *Orchestrator) FetchRankings(ctx context.Context, jobID screening.ID) (*screening.MatchResult, error) {
	log := logger.WithFields(o.logger, logger.JobID(jobID.String()))

	result, err := o.scorer.Rankings(ctx, jobID)
	if err != nil {
		log.Warn("fetching rankings failed", zap.Error(err))
		return nil, fmt.Errorf("fetching rankings for job %s: %w", jobID, err)
	}

	if err := o.check(result, jobID, log); err != nil {
		return nil, err
	}

	log.Debug("rankings fetched", zap.Int("matched", result.Len()))

	return result, nil
}

// check refuses a result for another job and logs, without re-sorting, a
// ranking that breaks the server ordering contract.
func (o *Orchestrator) check(result *screening.MatchResult, jobID screening.ID, log *zap.Logger) error {
	if result == nil {
		return errors.New("empty match result")
	}
	if !result.JobID.Equal(jobID) {
		return fmt.Errorf("result is for job %s, requested %s", result.JobID, jobID)
	}
	if err := result.CheckRanking(); err != nil {
		log.Warn("server ranking out of order", zap.Error(err))
	}
	return nil
}

func (o *Orchestrator) begin() {
	o.mu.Lock()
	o.inFlight++
	fn, first := o.onBusy, o.inFlight == 1
	o.mu.Unlock()

	if first && fn != nil {
		fn(true)
	}
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.inFlight--
	fn, last := o.onBusy, o.inFlight == 0
	o.mu.Unlock()

	if last && fn != nil {
		fn(false)
	}
}
