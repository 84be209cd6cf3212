package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/app"
	"github.com/abhisek/kotoba/internal/selfupdate"
)

// updateCheckTimeout bounds the release lookup done before the TUI starts.
const updateCheckTimeout = 2 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz app without the splash screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

func init() {
	rootCmd.Flags().Bool("no-update-check", false, "Skip the new release check on startup")
	playCmd.Flags().Bool("no-update-check", false, "Skip the new release check on startup")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, skipSplash bool) error {
	d, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := app.Options{SkipSplash: skipSplash}
	if skip, _ := cmd.Flags().GetBool("no-update-check"); !skip && !selfupdate.IsDevBuild(version) {
		opts.UpdateVersion = latestRelease(cmd.Context(), d.log)
	}
	return app.Run(d.services, opts)
}

// latestRelease returns a newer release tag, or "" when none is found or
// the lookup fails.
func latestRelease(ctx context.Context, log *zap.Logger) string {
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	checker := newReleaseChecker(updateCheckTimeout)
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		log.Debug("update check failed", zap.Error(err))
		return ""
	}
	if !res.UpdateAvailable {
		return ""
	}
	return res.Latest.Tag
}
