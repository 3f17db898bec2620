package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/screener/internal/forms"
	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/shell"
)

var jobsCmd = &cobra.Command{
	Use:     "jobs",
	Aliases: []string{"job"},
	Short:   "Manage job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job postings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}
		if err := rt.load(cmd.Context()); err != nil {
			return err
		}
		return rt.render(func() error {
			return shell.RenderJobs(os.Stdout, rt.shell.Jobs(), rt.format)
		})
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}

		job, err := rt.client.GetJob(cmd.Context(), screening.ParseID(args[0]))
		if err != nil {
			return err
		}

		return rt.render(func() error {
			if rt.format == ranking.FormatJSON {
				return encode(os.Stdout, job)
			}
			return shell.RenderJob(os.Stdout, job)
		})
	},
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job posting",
	Long: `Create a job posting. Skills are comma separated, e.g.
  screener jobs create --title "Backend Engineer" --description "..." --required-skills "Go, SQL"
Without any flag the form is prompted for.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}

		input, err := jobInputFromFlags(cmd)
		if err != nil {
			return err
		}

		if input.Empty() {
			if input, err = askJobForm(input); err != nil {
				return err
			}
		}

		job, err := rt.shell.CreateJob(cmd.Context(), input)
		if err != nil {
			return err
		}

		return rt.render(func() error {
			if rt.format == ranking.FormatJSON {
				return encode(os.Stdout, job)
			}
			return shell.RenderJob(os.Stdout, job)
		})
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a job posting and its rankings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Are you sure you want to delete this job posting") {
			return nil
		}

		return rt.shell.DeleteJob(cmd.Context(), screening.ParseID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd, jobsCreateCmd, jobsDeleteCmd)

	addJobFlags(jobsCreateCmd)
	jobsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func addJobFlags(c *cobra.Command) {
	for _, field := range jobFormFields {
		c.Flags().String(field.flag, "", field.usage)
	}
}

// jobInputFromFlags decodes the create flags. Unset flags stay empty and are
// reported by the form validation, not prompted for.
func jobInputFromFlags(c *cobra.Command) (forms.JobInput, error) {
	answers := make(map[string]any, len(jobFormFields))
	for _, field := range jobFormFields {
		value, err := c.Flags().GetString(field.flag)
		if err != nil {
			return forms.JobInput{}, err
		}
		answers[field.key] = value
	}
	return forms.DecodeJobInput(answers)
}
