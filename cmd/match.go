package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/logger"
	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
)

var matchCmd = &cobra.Command{
	Use:   "match JOB_ID",
	Short: "Score resumes against a job posting and show the ranking",
	Long: `Score resumes against a job posting. Without --resume every uploaded
resume is scored; with it only the given ones are.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}
		// the shell checks both collections before anything is scored
		if err := rt.load(cmd.Context()); err != nil {
			return err
		}

		jobID := screening.ParseID(args[0])
		resumes, _ := cmd.Flags().GetStringSlice("resume")

		var result *screening.MatchResult
		if len(resumes) == 0 {
			result, err = rt.shell.MatchJob(cmd.Context(), jobID)
		} else {
			result, err = rt.shell.MatchResumes(cmd.Context(), jobID, screening.IDs(resumes...))
		}
		if err != nil {
			return err
		}

		rt.logger.Debug("match finished", logger.JobID(jobID.String()), zap.Int("matched", result.Len()))

		return rt.render(func() error {
			return ranking.RenderResult(os.Stdout, result, len(rt.shell.Jobs()), ranking.RenderOptions{
				Format: rt.format,
				Color:  rt.colored(),
			})
		})
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings JOB_ID",
	Short: "Show the stored ranking of a job posting without rescoring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}

		if _, err := rt.shell.SelectJob(cmd.Context(), screening.ParseID(args[0])); err != nil {
			return err
		}

		return rt.render(func() error {
			// the job exists, so the empty state is about matches only
			return rt.shell.Presenter().Render(os.Stdout, 1, ranking.RenderOptions{
				Format: rt.format,
				Color:  rt.colored(),
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(matchCmd, rankingsCmd)

	matchCmd.Flags().StringSliceP("resume", "r", nil, "resume id to score, repeatable; all resumes when omitted")
}
