package shell

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/screener/internal/forms"
	"github.com/spigell/screener/internal/matching"
	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/store"
)

// fakeAPI emulates the screening backend in memory.
type fakeAPI struct {
	mu       sync.Mutex
	resumes  []screening.Resume
	jobs     []screening.Job
	rankings map[screening.ID]*screening.MatchResult
	calls    map[string]int
	nextID   int
	failWith int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		rankings: map[screening.ID]*screening.MatchResult{},
		calls:    map[string]int{},
		nextID:   100,
	}
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	key := r.Method + " /" + parts[0]
	if len(parts) > 2 {
		key += "/" + parts[2]
	}
	f.calls[key]++

	if f.failWith != 0 {
		w.WriteHeader(f.failWith)
		_, _ = w.Write([]byte(`{"detail": "backend says no"}`))
		return
	}

	write := func(v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/resumes":
		write(f.resumes)
	case r.Method == http.MethodGet && r.URL.Path == "/jobs":
		write(f.jobs)
	case r.Method == http.MethodPost && r.URL.Path == "/resumes/upload":
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = file.Close()
		f.nextID++
		resume := screening.Resume{ID: screening.ID(strconv.Itoa(f.nextID)), Filename: header.Filename, Skills: []string{}}
		f.resumes = append(f.resumes, resume)
		write(resume)
	case r.Method == http.MethodPost && r.URL.Path == "/jobs":
		var job screening.Job
		_ = json.NewDecoder(r.Body).Decode(&job)
		f.nextID++
		job.ID = screening.ID("j" + strconv.Itoa(f.nextID))
		f.jobs = append(f.jobs, job)
		write(job)
	case r.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "jobs":
		id := screening.ID(parts[1])
		for i, j := range f.jobs {
			if j.ID == id {
				f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
				break
			}
		}
		delete(f.rankings, id)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "resumes":
		id := screening.ID(parts[1])
		for i, res := range f.resumes {
			if res.ID == id {
				f.resumes = append(f.resumes[:i], f.resumes[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "match":
		id := screening.ID(parts[1])
		result := f.score(id)
		f.rankings[id] = result
		write(result)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "rankings":
		id := screening.ID(parts[1])
		result, ok := f.rankings[id]
		if !ok {
			result = &screening.MatchResult{JobID: id, Matches: []screening.Match{}}
		}
		write(result)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// score ranks r1 above r2 and any other resume below them.
func (f *fakeAPI) score(jobID screening.ID) *screening.MatchResult {
	scores := map[screening.ID]float64{"r1": 0.82, "r2": 0.41}
	result := &screening.MatchResult{JobID: jobID, JobTitle: "Job " + jobID.String(), Matches: []screening.Match{}}
	for i, res := range f.resumes {
		score, ok := scores[res.ID]
		if !ok {
			score = 0.1
		}
		result.Matches = append(result.Matches, screening.Match{
			ResumeID:     res.ID,
			Filename:     res.Filename,
			Rank:         i + 1,
			OverallScore: score,
		})
	}
	result.TotalMatched = len(result.Matches)
	return result
}

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

type fixture struct {
	api       *fakeAPI
	shell     *Shell
	notes     *recorder
	resumes   *store.Resumes
	jobs      *store.Jobs
	presenter *ranking.Presenter
}

func newFixture(t *testing.T, api *fakeAPI) *fixture {
	t.Helper()
	return newLoggedFixture(t, api, zap.NewNop())
}

func newLoggedFixture(t *testing.T, api *fakeAPI, log *zap.Logger) *fixture {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := screening.New(srv.URL, nil, log)
	orchestrator := matching.New(client, log)

	f := &fixture{
		api:       api,
		notes:     &recorder{},
		resumes:   store.NewResumes(client, log),
		jobs:      store.NewJobs(client, log),
		presenter: ranking.New(orchestrator, log),
	}

	f.shell = New(Deps{
		Backend:   client,
		Resumes:   f.resumes,
		Jobs:      f.jobs,
		Matcher:   orchestrator,
		Presenter: f.presenter,
		Notifier:  f.notes,
		Logger:    log,
	})

	return f
}

func scenarioAPI() *fakeAPI {
	api := newFakeAPI()
	api.resumes = []screening.Resume{{ID: "r1", Filename: "r1.pdf"}, {ID: "r2", Filename: "r2.pdf"}}
	api.jobs = []screening.Job{{ID: "j1", Title: "Backend Engineer"}}
	return api
}

func TestNotifyReachesNotifier(t *testing.T) {
	f := newFixture(t, newFakeAPI())

	f.shell.Notify(LevelInfo, MessageEmptyJobs)
	assert.Equal(t, Notification{Level: LevelInfo, Message: MessageEmptyJobs}, f.notes.last())
}

func TestInitialView(t *testing.T) {
	f := newFixture(t, newFakeAPI())
	assert.Equal(t, ViewResumes, f.shell.View())
}

func TestSelectView(t *testing.T) {
	f := newFixture(t, newFakeAPI())

	require.NoError(t, f.shell.SelectView(ViewJobs))
	assert.Equal(t, ViewJobs, f.shell.View())

	assert.Error(t, f.shell.SelectView(View(7)))
	assert.Equal(t, ViewJobs, f.shell.View())
	assert.Zero(t, f.api.total())
}

func TestScenarioMatchThenRefetch(t *testing.T) {
	api := scenarioAPI()
	f := newFixture(t, api)
	ctx := context.Background()

	require.NoError(t, f.shell.Start(ctx))
	require.NoError(t, f.shell.SelectView(ViewJobs))

	result, err := f.shell.MatchJob(ctx, "j1")
	require.NoError(t, err)

	assert.Equal(t, ViewResults, f.shell.View())
	assert.Equal(t, screening.ID("j1"), result.JobID)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, screening.ID("r1"), result.Matches[0].ResumeID)
	assert.Equal(t, 0.82, result.Matches[0].OverallScore)
	assert.Equal(t, screening.ID("r2"), result.Matches[1].ResumeID)
	assert.Equal(t, 0.41, result.Matches[1].OverallScore)

	again, err := f.shell.SelectJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, result.Matches, again.Matches)
	assert.Equal(t, 1, api.count("POST /jobs/match"))
	assert.Equal(t, 1, api.count("GET /jobs/rankings"))
	assert.Equal(t, screening.ID("j1"), f.presenter.Selected())
}

func TestMatchFromResumeViewWithoutJobs(t *testing.T) {
	api := newFakeAPI()
	api.resumes = []screening.Resume{{ID: "r1"}}
	f := newFixture(t, api)
	ctx := context.Background()

	require.NoError(t, f.shell.Start(ctx))
	before := api.total()

	_, err := f.shell.MatchResume(ctx, "r1", "j1")
	require.ErrorIs(t, err, ErrNoJobs)

	assert.Equal(t, before, api.total())
	assert.Equal(t, Notification{Level: LevelError, Message: MessageNoJobs}, f.notes.last())
	assert.Equal(t, ViewResumes, f.shell.View())
}

func TestMatchFromResumeViewRequiresJob(t *testing.T) {
	api := scenarioAPI()
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	_, err := f.shell.MatchResume(ctx, "r1", "")
	require.ErrorIs(t, err, ErrJobNotSelected)
	assert.Zero(t, api.count("POST /jobs/match"))

	result, err := f.shell.MatchResume(ctx, "r1", "j1")
	require.NoError(t, err)
	assert.Equal(t, screening.ID("j1"), result.JobID)
	assert.Equal(t, ViewResults, f.shell.View())
}

func TestMatchResumeLogsItsEntry(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	api := scenarioAPI()
	f := newLoggedFixture(t, api, zap.New(core))
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	_, err := f.shell.MatchResume(ctx, "r2", "j1")
	require.NoError(t, err)

	entries := observed.FilterMessage("resume scored").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "r2", fields["resume_id"])
	assert.Equal(t, "j1", fields["job_id"])
	assert.Equal(t, int64(2), fields["rank"])
	assert.Equal(t, 0.41, fields["overall_score"])
}

func TestMatchFromJobViewWithoutResumes(t *testing.T) {
	api := newFakeAPI()
	api.jobs = []screening.Job{{ID: "j1"}}
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))
	require.NoError(t, f.shell.SelectView(ViewJobs))

	_, err := f.shell.MatchJob(ctx, "j1")
	require.ErrorIs(t, err, ErrNoResumes)

	assert.Zero(t, api.count("POST /jobs/match"))
	assert.Equal(t, MessageNoResumes, f.notes.last().Message)
	assert.Equal(t, ViewJobs, f.shell.View())
}

func TestMatchFailureKeepsView(t *testing.T) {
	api := scenarioAPI()
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))
	require.NoError(t, f.shell.SelectView(ViewJobs))

	api.mu.Lock()
	api.failWith = http.StatusInternalServerError
	api.mu.Unlock()

	_, err := f.shell.MatchJob(ctx, "j1")
	require.Error(t, err)

	assert.Equal(t, ViewJobs, f.shell.View())
	assert.Equal(t, Notification{Level: LevelError, Message: "backend says no"}, f.notes.last())
	assert.Equal(t, 1, api.count("POST /jobs/match"))
	assert.False(t, f.shell.Busy())
}

func TestDeleteDisplayedJobClearsResult(t *testing.T) {
	api := scenarioAPI()
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	_, err := f.shell.MatchJob(ctx, "j1")
	require.NoError(t, err)
	require.NotNil(t, f.presenter.Result())

	require.NoError(t, f.shell.DeleteJob(ctx, "j1"))

	assert.Nil(t, f.presenter.Result())
	assert.True(t, f.presenter.Selected().IsZero())
	assert.Equal(t, ranking.MessageNeverMatched, f.presenter.EmptyMessage())
	assert.Zero(t, f.jobs.Len())
}

func TestDeleteOtherJobKeepsResult(t *testing.T) {
	api := scenarioAPI()
	api.jobs = append(api.jobs, screening.Job{ID: "j2"})
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	_, err := f.shell.MatchJob(ctx, "j1")
	require.NoError(t, err)

	require.NoError(t, f.shell.DeleteJob(ctx, "j2"))
	require.NotNil(t, f.presenter.Result())
	assert.Equal(t, screening.ID("j1"), f.presenter.Result().JobID)
}

func TestSelectingOtherJobNeverShowsPreviousEntries(t *testing.T) {
	api := scenarioAPI()
	api.jobs = append(api.jobs, screening.Job{ID: "j2"})
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	_, err := f.shell.MatchJob(ctx, "j1")
	require.NoError(t, err)

	result, err := f.shell.SelectJob(ctx, "j2")
	require.NoError(t, err)

	assert.Equal(t, screening.ID("j2"), result.JobID)
	assert.Empty(t, result.Matches)
	assert.Equal(t, screening.ID("j2"), f.presenter.Result().JobID)
	assert.Equal(t, ranking.MessageNoMatches, f.presenter.EmptyMessage())
}

func TestUploadRefreshesAfterSuccess(t *testing.T) {
	api := newFakeAPI()
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	content := "%PDF-1.4"
	_, err := f.shell.UploadResume(ctx, "alice.pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 1, api.count("POST /resumes"))
	assert.Equal(t, 2, api.count("GET /resumes"))
	assert.Equal(t, 1, f.resumes.Len())
	assert.Equal(t, Notification{Level: LevelSuccess, Message: MessageResumeUploaded}, f.notes.last())
}

func TestUploadRefusesWrongExtension(t *testing.T) {
	api := newFakeAPI()
	f := newFixture(t, api)

	_, err := f.shell.UploadResume(context.Background(), "alice.txt", 10, strings.NewReader("x"))

	var vErr *forms.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Zero(t, api.total())
	assert.Equal(t, LevelError, f.notes.last().Level)
}

func TestCreateJob(t *testing.T) {
	api := newFakeAPI()
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	_, err := f.shell.CreateJob(ctx, forms.JobInput{Title: " ", Description: "d"})
	require.Error(t, err)
	assert.Zero(t, api.count("POST /jobs"))

	job, err := f.shell.CreateJob(ctx, forms.JobInput{
		Title:          "Backend Engineer",
		Description:    "Build APIs",
		RequiredSkills: "Go, SQL ,",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, job.RequiredSkills)
	assert.Equal(t, []string{}, job.PreferredSkills)
	assert.Equal(t, 1, f.jobs.Len())
	assert.Equal(t, MessageJobCreated, f.notes.last().Message)
}

func TestFailedMutationDoesNotRefresh(t *testing.T) {
	api := scenarioAPI()
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	api.mu.Lock()
	api.failWith = http.StatusNotFound
	api.mu.Unlock()

	require.Error(t, f.shell.DeleteResume(ctx, "r1"))

	assert.Equal(t, 1, api.count("GET /resumes"))
	assert.Equal(t, 2, f.resumes.Len())
	assert.Equal(t, LevelError, f.notes.last().Level)
}

func TestStartKeepsGoingWhenOneStoreFails(t *testing.T) {
	api := scenarioAPI()
	api.failWith = http.StatusBadGateway
	f := newFixture(t, api)

	err := f.shell.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, api.count("GET /resumes"))
	assert.Equal(t, 1, api.count("GET /jobs"))
}

func TestBusyDuringMatch(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/resumes":
			_, _ = io.WriteString(w, `[{"id": "r1"}]`)
		case "/jobs":
			_, _ = io.WriteString(w, `[{"id": "j1"}]`)
		case "/jobs/j1/match":
			close(entered)
			<-release
			_, _ = io.WriteString(w, `{"job_id": "j1", "matches": []}`)
		}
	}))
	defer srv.Close()

	client := screening.New(srv.URL, nil, nil)
	orchestrator := matching.New(client, nil)
	notes := &recorder{}
	s := New(Deps{
		Backend:   client,
		Resumes:   store.NewResumes(client, nil),
		Jobs:      store.NewJobs(client, nil),
		Matcher:   orchestrator,
		Presenter: ranking.New(orchestrator, nil),
		Notifier:  notes,
	})

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	done := make(chan error, 1)
	go func() {
		_, err := s.MatchJob(ctx, "j1")
		done <- err
	}()

	<-entered
	assert.True(t, s.Busy())

	_, err := s.MatchJob(ctx, "j1")
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
	assert.Equal(t, ViewResults, s.View())
}

func TestEndSessionResetsState(t *testing.T) {
	api := scenarioAPI()
	f := newFixture(t, api)
	ctx := context.Background()
	require.NoError(t, f.shell.Start(ctx))

	_, err := f.shell.MatchJob(ctx, "j1")
	require.NoError(t, err)

	f.shell.EndSession("logout")

	assert.Equal(t, ViewResumes, f.shell.View())
	assert.Nil(t, f.presenter.Result())
	assert.Zero(t, f.resumes.Len())
	assert.Zero(t, f.jobs.Len())
	assert.False(t, f.jobs.Loaded())
}

func TestParseView(t *testing.T) {
	for _, v := range Views {
		parsed, err := ParseView(strings.ToUpper(v.String()))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
		assert.True(t, v.Valid())
	}

	_, err := ParseView("settings")
	assert.Error(t, err)
	assert.False(t, View(-1).Valid())
}
