package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/forms"
	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/shell"
)

const (
	PromptUpload       = "Upload resume"
	PromptMatchResume  = "Match resume with a job posting"
	PromptDeleteResume = "Delete resume"
	PromptCreateJob    = "Create job posting"
	PromptMatchJob     = "Match all resumes with a job posting"
	PromptDeleteJob    = "Delete job posting"
	PromptSelectResult = "Show rankings of a job posting"
	PromptRefresh      = "Refresh"
	PromptLogout       = "Logout"
	PromptQuit         = "Quit"

	promptSwitchPrefix = "Go to "
)

var errQuit = errors.New("quit requested")

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, err := shell.ParseView(viper.GetString("view"))
		if err != nil {
			return err
		}
		return interactive(cmd.Context(), start)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().String("view", shell.ViewResumes.String(), "view to open after login: resumes, jobs or results")
	viper.BindPFlag("view", shellCmd.Flags().Lookup("view"))
}

// interactive is the main loop of the shell. It signs in whenever the
// session is gone and otherwise shows the current view with its actions.
func interactive(ctx context.Context, start shell.View) error {
	notes := printNotifier{w: os.Stderr}

	rt, err := setup(notes)
	if err != nil {
		return err
	}

	var expired atomic.Bool
	rt.client.SetLoginRequired(func() { expired.Store(true) })

	ready := false
	for {
		if !rt.session.Authenticated() {
			if expired.Swap(false) {
				notes.Notify(shell.Notification{Level: shell.LevelError, Message: shell.MessageSessionExpired})
			}

			if err := login(ctx, rt, viper.GetString("username"), ""); err != nil {
				if finished(err) {
					return nil
				}
				notes.Notify(shell.Notification{Level: shell.LevelError, Message: err.Error()})
				// a wrong password from the environment would fail forever
				if viper.GetString("password") != "" {
					return err
				}
				continue
			}
			ready = false
		}

		if !ready {
			if err := rt.load(ctx); err != nil {
				rt.logger.Warn("starting with incomplete collections", zap.Error(err))
			}
			if err := rt.shell.SelectView(start); err != nil {
				return err
			}
			ready = true
		}

		if err := showView(rt); err != nil {
			return err
		}

		err := step(ctx, rt)
		switch {
		case errors.Is(err, errQuit), finished(err):
			return nil
		case err != nil && !errors.Is(err, errBack):
			rt.logger.Debug("action failed", zap.Error(err))
		}
	}
}

func showView(rt *runtime) error {
	view := rt.shell.View()

	fmt.Println()
	fmt.Println(tabs(view))
	fmt.Println()

	switch view {
	case shell.ViewResumes:
		return shell.RenderResumes(os.Stdout, rt.shell.Resumes(), ranking.FormatTable)
	case shell.ViewJobs:
		return shell.RenderJobs(os.Stdout, rt.shell.Jobs(), ranking.FormatTable)
	default:
		return rt.shell.Presenter().Render(os.Stdout, len(rt.shell.Jobs()), ranking.RenderOptions{
			Format: ranking.FormatTable,
			Color:  rt.colored(),
		})
	}
}

// tabs renders the view bar with the current view highlighted.
func tabs(current shell.View) string {
	active := promptui.Styler(promptui.FGBold, promptui.FGUnderline)

	titles := make([]string, 0, len(shell.Views))
	for _, v := range shell.Views {
		if v == current {
			titles = append(titles, active(v.Title()))
			continue
		}
		titles = append(titles, v.Title())
	}
	return strings.Join(titles, " | ")
}

// step asks for one action in the current view and runs it.
func step(ctx context.Context, rt *runtime) error {
	view := rt.shell.View()

	var items []string
	switch view {
	case shell.ViewResumes:
		items = []string{PromptUpload}
		if !rt.shell.Busy() {
			items = append(items, PromptMatchResume)
		}
		items = append(items, PromptDeleteResume)
	case shell.ViewJobs:
		items = []string{PromptCreateJob}
		if !rt.shell.Busy() {
			items = append(items, PromptMatchJob)
		}
		items = append(items, PromptDeleteJob)
	case shell.ViewResults:
		items = []string{PromptSelectResult}
	}

	for _, v := range shell.Views {
		if v != view {
			items = append(items, promptSwitchPrefix+v.Title())
		}
	}
	items = append(items, PromptRefresh, PromptLogout, PromptQuit)

	prompt := promptui.Select{
		Label: view.Title(),
		Items: items,
		Size:  len(items),
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return err
	}

	switch selected {
	case PromptUpload:
		return uploadInteractive(ctx, rt)
	case PromptMatchResume:
		return matchResumeInteractive(ctx, rt)
	case PromptDeleteResume:
		return deleteResumeInteractive(ctx, rt)
	case PromptCreateJob:
		input, err := askJobForm(forms.JobInput{})
		if err != nil {
			return err
		}
		_, err = rt.shell.CreateJob(ctx, input)
		return err
	case PromptMatchJob:
		jobID, err := pickJob(rt)
		if err != nil {
			return err
		}
		_, err = rt.shell.MatchJob(ctx, jobID)
		return err
	case PromptDeleteJob:
		jobID, err := pickJob(rt)
		if err != nil {
			return err
		}
		if !confirm("Are you sure you want to delete this job posting") {
			return errBack
		}
		return rt.shell.DeleteJob(ctx, jobID)
	case PromptSelectResult:
		jobID, err := pickJob(rt)
		if err != nil {
			return err
		}
		_, err = rt.shell.SelectJob(ctx, jobID)
		return err
	case PromptRefresh:
		return rt.load(ctx)
	case PromptLogout:
		return rt.session.Logout()
	case PromptQuit:
		return errQuit
	}

	if title, ok := strings.CutPrefix(selected, promptSwitchPrefix); ok {
		for _, v := range shell.Views {
			if v.Title() == title {
				return rt.shell.SelectView(v)
			}
		}
	}

	return fmt.Errorf("unknown action %q", selected)
}

func uploadInteractive(ctx context.Context, rt *runtime) error {
	prompt := promptui.Prompt{
		Label: "Path to a PDF or DOCX file",
	}
	path, err := prompt.Run()
	if err != nil {
		return err
	}

	path = strings.TrimSpace(path)
	if err := forms.ValidateResumeFile(path, -1); err != nil {
		rt.shell.Notify(shell.LevelError, err.Error())
		return errBack
	}

	return uploadFile(ctx, rt, path)
}

// matchResumeInteractive scores one resume. The job is always chosen
// explicitly; with no jobs the shell refuses before asking.
func matchResumeInteractive(ctx context.Context, rt *runtime) error {
	resumes := rt.shell.Resumes()
	if len(resumes) == 0 {
		rt.shell.Notify(shell.LevelError, shell.MessageNoResumes)
		return errBack
	}

	resumeID, err := selectResume(resumes)
	if err != nil {
		return err
	}

	var jobID screening.ID
	if jobs := rt.shell.Jobs(); len(jobs) > 0 {
		if jobID, err = selectJob(jobs); err != nil {
			return err
		}
	}

	_, err = rt.shell.MatchResume(ctx, resumeID, jobID)
	return err
}

func deleteResumeInteractive(ctx context.Context, rt *runtime) error {
	resumes := rt.shell.Resumes()
	if len(resumes) == 0 {
		rt.shell.Notify(shell.LevelInfo, shell.MessageEmptyResumes)
		return errBack
	}

	resumeID, err := selectResume(resumes)
	if err != nil {
		return err
	}
	if !confirm("Are you sure you want to delete this resume") {
		return errBack
	}
	return rt.shell.DeleteResume(ctx, resumeID)
}

func pickJob(rt *runtime) (screening.ID, error) {
	jobs := rt.shell.Jobs()
	if len(jobs) == 0 {
		rt.shell.Notify(shell.LevelInfo, shell.MessageEmptyJobs)
		return "", errBack
	}
	return selectJob(jobs)
}

// finished reports whether the user asked to leave with ^C or ^D.
func finished(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}
