package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crawford/tailor/internal/config"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Lint pull requests against a repository's policy file",
	Long: `tailor listens for GitHub pull-request webhooks, fetches each pull
request's commits, comments, and tailor.yaml policy, evaluates the policy's
rules against it, and posts the outcome back as a commit status.

Examples:
	# Show available commands and global flags
	tailor --help

	# Run the webhook server
	tailor serve --server-address https://tailor.example.com --token ...

	# Print build info
	tailor version`,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&cfg.Verbosity, "verbose", "v", "Increase logging verbosity (repeatable)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
