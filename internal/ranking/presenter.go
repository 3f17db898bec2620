// Package ranking holds and renders the displayed match result. The presenter
// is the only writer of that result and keeps the job selection in step with it.
package ranking

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/logger"
	"github.com/spigell/screener/internal/screening"
)

const (
	MessageNeverMatched = "No results to display. Match candidates with a job to see results."
	MessageNoMatches    = "No matches found."
	MessageNoJobs       = "No job postings created yet. Create a job posting to get started."
	MessageLoadFailed   = "Could not load rankings for the selected job. Select it again to retry."
)

// Fetcher loads a previously computed ranking.
type Fetcher interface {
	FetchRankings(ctx context.Context, jobID screening.ID) (*screening.MatchResult, error)
}

// Ticket identifies one request for the displayed result. Only the newest
// ticket may replace it.
type Ticket uint64

type Presenter struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu       sync.RWMutex
	result   *screening.MatchResult
	selected screening.ID
	loading  bool
	failed   bool // the rankings fetch for selected did not resolve
	gen      Ticket
}

func New(fetcher Fetcher, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presenter{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Begin invalidates every earlier ticket. Use it before a request whose result
// is going to be shown.
func (p *Presenter) Begin() Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	return p.gen
}

// ShowFrom displays result unless a newer ticket has been issued since t.
func (p *Presenter) ShowFrom(t Ticket, result *screening.MatchResult) bool {
	if result == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if t != p.gen {
		p.logger.Debug("discarding stale result",
			logger.JobID(result.JobID.String()),
			zap.Uint64("ticket", uint64(t)),
			zap.Uint64("current", uint64(p.gen)),
		)
		return false
	}

	p.result = result
	p.selected = result.JobID
	p.loading = false
	p.failed = false
	return true
}

// Show replaces the displayed result and moves the selection to its job.
func (p *Presenter) Show(result *screening.MatchResult) {
	p.ShowFrom(p.Begin(), result)
}

// SelectJob switches the viewed job and fetches its ranking. Until the fetch
// resolves nothing is displayed, so entries of the previous job never show
// under the new selection. A zero id clears the selection.
func (p *Presenter) SelectJob(ctx context.Context, jobID screening.ID) (*screening.MatchResult, error) {
	if jobID.IsZero() {
		p.Clear()
		return nil, nil
	}

	p.mu.Lock()
	p.gen++
	t := p.gen
	p.selected = jobID
	p.result = nil
	p.loading = true
	p.failed = false
	p.mu.Unlock()

	result, err := p.fetcher.FetchRankings(ctx, jobID)
	if err != nil {
		p.mu.Lock()
		if t == p.gen {
			p.loading = false
			p.failed = true
		}
		p.mu.Unlock()
		return nil, err
	}

	if !p.ShowFrom(t, result) {
		return nil, nil
	}
	return result, nil
}

// Clear drops the displayed result and the selection.
func (p *Presenter) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.result = nil
	p.selected = ""
	p.loading = false
	p.failed = false
}

// ClearIfJob clears the presenter when it shows or has selected jobID.
func (p *Presenter) ClearIfJob(jobID screening.ID) bool {
	p.mu.RLock()
	hit := (!p.selected.IsZero() && p.selected.Equal(jobID)) || (p.result != nil && p.result.JobID.Equal(jobID))
	p.mu.RUnlock()

	if !hit {
		return false
	}

	p.Clear()
	p.logger.Debug("displayed result cleared", logger.JobID(jobID.String()))
	return true
}

// Result is the displayed result, nil when there is none.
func (p *Presenter) Result() *screening.MatchResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result
}

func (p *Presenter) Selected() screening.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

func (p *Presenter) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Failed reports that the rankings of the selected job could not be loaded.
func (p *Presenter) Failed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failed
}

// EmptyMessage explains why no entries are shown, or returns "" when there
// are entries.
func (p *Presenter) EmptyMessage() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	switch {
	case p.failed:
		return MessageLoadFailed
	case p.result == nil:
		return MessageNeverMatched
	case p.result.Empty():
		return MessageNoMatches
	default:
		return ""
	}
}
