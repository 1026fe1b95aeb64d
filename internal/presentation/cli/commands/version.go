package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/spork-cli/spork/internal/presentation/cli/output"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(output.WithWriter(cmd.OutOrStdout()))
			if short {
				formatter.Println("%s", Version)
				return nil
			}
			formatter.Println("spork %s", Version)
			formatter.Println("  commit:     %s", GitCommit)
			formatter.Println("  built:      %s", BuildDate)
			formatter.Println("  go version: %s", runtime.Version())
			formatter.Println("  platform:   %s/%s", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}
