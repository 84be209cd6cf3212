package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/selfupdate"
)

const updateTimeout = 2 * time.Minute

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Install the latest kotoba release",
	Long: `Download the kotoba release for this platform, verify it against the
release checksums and replace the running binary.

Use --check to only report whether a newer release exists, or --to to
install a specific release tag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		target, _ := cmd.Flags().GetString("to")

		ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
		defer cancel()
		checker := newReleaseChecker(updateTimeout)

		if checkOnly {
			return reportLatest(ctx, checker)
		}

		rel, err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.Progress) {
			fmt.Printf("[%s] %s\n", p.Stage, p.Message)
		})
		switch {
		case err == nil:
			fmt.Println("Release notes:", rel.URL)
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Printf("kotoba %s is a development build and cannot update itself.\n", version)
			fmt.Println("Install a release from https://github.com/abhisek/kotoba/releases first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Printf("kotoba %s is already installed.\n", version)
			return nil
		case errors.Is(err, selfupdate.ErrUnsupportedPlatform):
			return fmt.Errorf("%w\n\nBuild from source with: go install github.com/abhisek/kotoba@latest", err)
		case errors.Is(err, os.ErrPermission):
			return fmt.Errorf("%w\n\nTry running: sudo kotoba update", err)
		}
		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	updateCmd.Flags().String("to", "", "Install this release tag instead of the latest (e.g. v1.2.0)")
}

// newReleaseChecker is shared by the startup check and the update command.
func newReleaseChecker(timeout time.Duration) *selfupdate.Checker {
	return selfupdate.NewChecker(selfupdate.WithTimeout(timeout))
}

func reportLatest(ctx context.Context, checker *selfupdate.Checker) error {
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	fmt.Printf("Installed: %s\n", version)
	fmt.Printf("Latest:    %s (%s)\n", res.Latest.Tag, res.Latest.URL)
	switch {
	case res.UpdateAvailable:
		fmt.Println("Run `kotoba update` to install it.")
	case selfupdate.IsDevBuild(version):
		fmt.Println("Development builds are not compared against releases.")
	default:
		fmt.Println("You are up to date.")
	}
	return nil
}
