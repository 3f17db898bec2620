package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/ranking"
	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/shell"
)

var resumesCmd = &cobra.Command{
	Use:     "resumes",
	Aliases: []string{"resume"},
	Short:   "Manage uploaded resumes",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded resumes",
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
			return shell.RenderResumes(os.Stdout, rt.shell.Resumes(), rt.format)
		})
	},
}

var resumesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a resume with every extracted field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}

		resume, err := rt.client.GetResume(cmd.Context(), screening.ParseID(args[0]))
		if err != nil {
			return err
		}

		return rt.render(func() error {
			if rt.format == ranking.FormatJSON {
				return encode(os.Stdout, resume)
			}
			return shell.RenderResume(os.Stdout, resume)
		})
	},
}

var resumesUploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload PDF or DOCX resumes for processing",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}

		failed := 0
		for _, path := range args {
			if err := uploadFile(cmd.Context(), rt, path); err != nil {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d uploads failed", failed, len(args))
		}
		return nil
	},
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := authenticated()
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Are you sure you want to delete this resume") {
			return nil
		}

		return rt.shell.DeleteResume(cmd.Context(), screening.ParseID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(resumesCmd)
	resumesCmd.AddCommand(resumesListCmd, resumesShowCmd, resumesUploadCmd, resumesDeleteCmd)

	resumesDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

// uploadFile sends one document. The shell validates the name and size
// before anything goes over the network.
func uploadFile(ctx context.Context, rt *runtime, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		rt.logger.Error("reading resume file", zap.String("path", path), zap.Error(err))
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		rt.logger.Error("opening resume file", zap.String("path", path), zap.Error(err))
		return err
	}
	defer f.Close()

	_, err = rt.shell.UploadResume(ctx, filepath.Base(path), info.Size(), f)
	return err
}
