package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/logger"
	"github.com/spigell/screener/internal/matching"
	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/session"
	"github.com/spigell/screener/internal/shell"
	"github.com/spigell/screener/internal/store"
)

var errNotLoggedIn = errors.New("not logged in: run `screener login` first")

// runtime is everything a command needs, built once per invocation.
type runtime struct {
	config  *Config
	logger  *zap.Logger
	session *session.Session
	client  *screening.Client
	shell   *shell.Shell
	format  ranking.Format
}

func setup(notifier shell.Notifier) (*runtime, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	format, err := ranking.ParseFormat(config.Output)
	if err != nil {
		return nil, err
	}

	sess := session.New(config.TokenFile, log)
	if err := sess.Init(); err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	client := screening.New(config.APIURL, sess, log,
		screening.WithTimeout(config.Timeout),
		screening.WithUserAgent(config.UserAgent),
		screening.WithLoginRequired(func() {
			log.Warn("session expired", zap.String("hint", "run `screener login` to sign in again"))
		}),
	)

	opt := store.WithOptimisticPatch(config.Store.Optimistic)
	orchestrator := matching.New(client, log)

	if notifier == nil {
		notifier = shell.LogNotifier{Logger: log}
	}

	sh := shell.New(shell.Deps{
		Backend:   client,
		Resumes:   store.NewResumes(client, log, opt),
		Jobs:      store.NewJobs(client, log, opt),
		Matcher:   orchestrator,
		Presenter: ranking.New(orchestrator, log),
		Notifier:  notifier,
		Logger:    log,
	})

	sess.OnClear(sh.EndSession)

	return &runtime{
		config:  config,
		logger:  log,
		session: sess,
		client:  client,
		shell:   sh,
		format:  format,
	}, nil
}

// authenticated builds the runtime and refuses to continue without a
// credential.
func authenticated() (*runtime, error) {
	rt, err := setup(nil)
	if err != nil {
		return nil, err
	}
	if !rt.session.Authenticated() {
		return nil, errNotLoggedIn
	}
	return rt, nil
}

// load fills both collections, which the shell checks before matching.
func (rt *runtime) load(ctx context.Context) error {
	if err := rt.shell.Start(ctx); err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}
	return nil
}

func (rt *runtime) render(fn func() error) error {
	if err := fn(); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	return nil
}

func (rt *runtime) colored() bool {
	if rt.format != ranking.FormatTable {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
