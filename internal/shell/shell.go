// Package shell coordinates the stores, the match orchestrator and the
// ranking presenter behind the three views of the interactive client.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/forms"
	"github.com/spigell/screener/internal/logger"
	"github.com/spigell/screener/internal/matching"
	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/store"
)

const (
	MessageResumeUploaded = "Resume uploaded and processed successfully!"
	MessageJobCreated     = "Job posting created successfully!"
	MessageResumeDeleted  = "Resume deleted"
	MessageJobDeleted     = "Job posting deleted"

	MessageUploadFailed       = "Error uploading resume"
	MessageCreateJobFailed    = "Error creating job posting"
	MessageDeleteResumeFailed = "Error deleting resume"
	MessageDeleteJobFailed    = "Error deleting job posting"
	MessageMatchFailed        = "Error matching candidates. Please try again."
	MessageRankingsFailed     = "Error loading rankings"

	MessageNoResumes      = "Please upload resumes first"
	MessageNoJobs         = "Please create a job posting first"
	MessageSelectJob      = "Please select a job posting to match against"
	MessageMatchInFlight  = "Matching is already in progress"
	MessageSessionExpired = "Session ended, please log in again"

	MessageEmptyResumes = "No resumes uploaded yet. Upload a resume to get started."
	MessageEmptyJobs    = "No job postings created yet. Create a job posting to get started."
)

var (
	ErrNoJobs         = errors.New("no job postings")
	ErrNoResumes      = errors.New("no resumes")
	ErrJobNotSelected = errors.New("no job selected")
	ErrBusy           = errors.New("match already in progress")
)

// Backend is the mutating half of the backend client.
type Backend interface {
	UploadResume(ctx context.Context, filename string, content io.Reader) (*screening.Resume, error)
	DeleteResume(ctx context.Context, id screening.ID) error
	CreateJob(ctx context.Context, job screening.NewJob) (*screening.Job, error)
	DeleteJob(ctx context.Context, id screening.ID) error
}

type Deps struct {
	Backend   Backend
	Resumes   *store.Resumes
	Jobs      *store.Jobs
	Matcher   *matching.Orchestrator
	Presenter *ranking.Presenter
	Notifier  Notifier
	Logger    *zap.Logger
}

type Shell struct {
	backend   Backend
	resumes   *store.Resumes
	jobs      *store.Jobs
	matcher   *matching.Orchestrator
	presenter *ranking.Presenter
	notifier  Notifier
	logger    *zap.Logger

	mu   sync.RWMutex
	view View
	busy bool
}

func New(deps Deps) *Shell {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: log}
	}

	s := &Shell{
		backend:   deps.Backend,
		resumes:   deps.Resumes,
		jobs:      deps.Jobs,
		matcher:   deps.Matcher,
		presenter: deps.Presenter,
		notifier:  notifier,
		logger:    log,
		view:      ViewResumes,
	}

	s.matcher.OnBusy(s.setBusy)

	return s
}

// Start loads both collections. A failed load keeps whatever the store held
// and the shell stays usable.
func (s *Shell) Start(ctx context.Context) error {
	return errors.Join(s.refreshResumes(ctx), s.refreshJobs(ctx))
}

func (s *Shell) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SelectView switches the current view. It has no other effect.
func (s *Shell) SelectView(v View) error {
	if !v.Valid() {
		return fmt.Errorf("invalid view %s", v)
	}

	s.mu.Lock()
	s.view = v
	s.mu.Unlock()

	s.logger.Debug("view selected", logger.View(v.String()))
	return nil
}

// Busy reports an in-flight match. Match triggers should be hidden while it
// is set.
func (s *Shell) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

func (s *Shell) setBusy(busy bool) {
	s.mu.Lock()
	s.busy = busy
	s.mu.Unlock()
}

func (s *Shell) Resumes() []screening.Resume { return s.resumes.Items() }

func (s *Shell) Jobs() []screening.Job { return s.jobs.Items() }

func (s *Shell) Presenter() *ranking.Presenter { return s.presenter }

// UploadResume validates the document locally, uploads it and reloads the
// resume collection once the upload has succeeded.
func (s *Shell) UploadResume(ctx context.Context, filename string, size int64, content io.Reader) (*screening.Resume, error) {
	if err := forms.ValidateResumeFile(filename, size); err != nil {
		s.Notify(LevelError, err.Error())
		return nil, err
	}

	resume, err := s.backend.UploadResume(ctx, filename, content)
	if err != nil {
		s.fail(err, MessageUploadFailed)
		return nil, err
	}

	s.Notify(LevelSuccess, MessageResumeUploaded)
	s.report(s.resumes.AfterCreate(ctx, *resume))

	return resume, nil
}

// CreateJob validates the form, creates the posting and reloads the job
// collection once the create has succeeded.
func (s *Shell) CreateJob(ctx context.Context, input forms.JobInput) (*screening.Job, error) {
	payload, err := input.Job()
	if err != nil {
		s.Notify(LevelError, err.Error())
		return nil, err
	}

	job, err := s.backend.CreateJob(ctx, payload)
	if err != nil {
		s.fail(err, MessageCreateJobFailed)
		return nil, err
	}

	s.Notify(LevelSuccess, MessageJobCreated)
	s.report(s.jobs.AfterCreate(ctx, *job))

	return job, nil
}

func (s *Shell) DeleteResume(ctx context.Context, id screening.ID) error {
	if err := s.backend.DeleteResume(ctx, id); err != nil {
		s.fail(err, MessageDeleteResumeFailed)
		return err
	}

	s.logger.Info("resume deleted", logger.ResumeID(id.String()))
	s.Notify(LevelInfo, MessageResumeDeleted)
	s.report(s.resumes.AfterDelete(ctx, id))

	return nil
}

// DeleteJob deletes the posting and drops any displayed ranking of it before
// the job collection is reloaded.
func (s *Shell) DeleteJob(ctx context.Context, id screening.ID) error {
	if err := s.backend.DeleteJob(ctx, id); err != nil {
		s.fail(err, MessageDeleteJobFailed)
		return err
	}

	s.logger.Info("job deleted", logger.JobID(id.String()))
	s.presenter.ClearIfJob(id)
	s.Notify(LevelInfo, MessageJobDeleted)
	s.report(s.jobs.AfterDelete(ctx, id))

	return nil
}

// MatchResume scores a single resume against an explicitly chosen job.
func (s *Shell) MatchResume(ctx context.Context, resumeID, jobID screening.ID) (*screening.MatchResult, error) {
	result, err := s.MatchResumes(ctx, jobID, []screening.ID{resumeID})
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(s.logger, logger.JobID(jobID.String()), logger.ResumeID(resumeID.String()))
	if m := result.FindByResumeID(resumeID); m != nil {
		log.Info("resume scored", zap.Int("rank", m.Rank), zap.Float64("overall_score", m.OverallScore))
	} else {
		log.Info("resume was not ranked for the job")
	}

	return result, nil
}

// MatchResumes scores the given resumes against an explicitly chosen job.
func (s *Shell) MatchResumes(ctx context.Context, jobID screening.ID, resumeIDs []screening.ID) (*screening.MatchResult, error) {
	if s.jobs.Len() == 0 {
		s.Notify(LevelError, MessageNoJobs)
		return nil, ErrNoJobs
	}
	if jobID.IsZero() {
		s.Notify(LevelError, MessageSelectJob)
		return nil, ErrJobNotSelected
	}
	if len(resumeIDs) == 0 {
		s.Notify(LevelError, MessageNoResumes)
		return nil, ErrNoResumes
	}

	return s.match(ctx, jobID, resumeIDs)
}

// MatchJob scores every resume against the job.
func (s *Shell) MatchJob(ctx context.Context, jobID screening.ID) (*screening.MatchResult, error) {
	if s.resumes.Len() == 0 {
		s.Notify(LevelError, MessageNoResumes)
		return nil, ErrNoResumes
	}
	if jobID.IsZero() {
		s.Notify(LevelError, MessageSelectJob)
		return nil, ErrJobNotSelected
	}

	return s.match(ctx, jobID, nil)
}

// SelectJob switches the job viewed in the results view.
func (s *Shell) SelectJob(ctx context.Context, jobID screening.ID) (*screening.MatchResult, error) {
	result, err := s.presenter.SelectJob(ctx, jobID)
	if err != nil {
		s.fail(err, MessageRankingsFailed)
		return nil, err
	}
	return result, nil
}

// EndSession forgets everything tied to the ended session. It is registered
// as a session dependent.
func (s *Shell) EndSession(reason string) {
	s.presenter.Clear()
	s.resumes.Reset()
	s.jobs.Reset()

	s.mu.Lock()
	s.view = ViewResumes
	s.mu.Unlock()

	s.logger.Info("shell state reset", zap.String("reason", reason))
}

func (s *Shell) match(ctx context.Context, jobID screening.ID, resumeIDs []screening.ID) (*screening.MatchResult, error) {
	if s.Busy() {
		s.Notify(LevelInfo, MessageMatchInFlight)
		return nil, ErrBusy
	}

	ticket := s.presenter.Begin()

	result, err := s.matcher.RunMatch(ctx, jobID, resumeIDs)
	if err != nil {
		s.fail(err, MessageMatchFailed)
		return nil, err
	}

	if !s.presenter.ShowFrom(ticket, result) {
		s.logger.Debug("match result superseded", logger.JobID(jobID.String()))
		return result, nil
	}

	s.mu.Lock()
	s.view = ViewResults
	s.mu.Unlock()

	return result, nil
}

func (s *Shell) refreshResumes(ctx context.Context) error {
	_, err := s.resumes.LoadAll(ctx)
	return err
}

func (s *Shell) refreshJobs(ctx context.Context) error {
	_, err := s.jobs.LoadAll(ctx)
	return err
}

// report logs a failed refresh. The store has already kept its previous data.
func (s *Shell) report(err error) {
	if err != nil && !errors.Is(err, screening.ErrUnauthorized) {
		s.logger.Warn("refresh after mutation failed", zap.Error(err))
	}
}

// fail notifies about a backend failure. Authorization failures are handled by
// the transport and not repeated here.
func (s *Shell) fail(err error, fallback string) {
	if errors.Is(err, screening.ErrUnauthorized) {
		return
	}
	s.Notify(LevelError, screening.Detail(err, fallback))
}

// Notify passes a message to the notifier the shell was built with.
func (s *Shell) Notify(level Level, message string) {
	s.notifier.Notify(Notification{Level: level, Message: message})
}
