package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/organvm/fmlint/internal/build"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for fmlint",
	Example: `  # Show version info
  fmlint version

  # Plain output (for scripts)
  fmlint version --plain`,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		printVersion(cmd.OutOrStdout(), plain)
	},
}

func init() {
	versionCmd.GroupID = GroupInfo
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}

func printVersion(out io.Writer, plain bool) {
	if plain {
		fmt.Fprintf(out, "fmlint %s\n", build.Version)
		fmt.Fprintf(out, "commit: %s\n", build.Commit)
		fmt.Fprintf(out, "built: %s\n", build.BuildDate)
		fmt.Fprintf(out, "go: %s\n", runtime.Version())
		fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan("fmlint"), build.Version)
	if build.IsDevBuild() {
		fmt.Fprintf(out, "  %s\n", dim("development build"))
	}
	fmt.Fprintf(out, "  Commit:   %s\n", truncateCommit(build.Commit))
	fmt.Fprintf(out, "  Built:    %s\n", build.BuildDate)
	fmt.Fprintf(out, "  Go:       %s\n", runtime.Version())
	fmt.Fprintf(out, "  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// truncateCommit shortens a full commit hash for display.
func truncateCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
