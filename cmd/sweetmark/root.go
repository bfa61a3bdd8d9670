package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/steipete/sweetmark"
)

var rootCmd = &cobra.Command{
	Use:   "sweetmark",
	Short: "Validate and prune dead Firefox bookmarks",
	Long: `sweetmark reads the bookmarks of a local Firefox profile, probes every
HTTP(S) URL, and lists the ones that no longer resolve. Dead bookmarks can then
be deleted from the profile (Firefox must be closed; a backup of places.sqlite
is written first) or exported to a text file.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringP("profile", "p", "", "Path to a Firefox profile directory (skips the profile picker)")
	rootCmd.Flags().DurationP("timeout", "t", sweetmark.DefaultTimeout, "Timeout per probe attempt")
	rootCmd.Flags().DurationP("delay", "d", sweetmark.MinProbeDelay, "Minimum delay between probes")
	rootCmd.Flags().String("user-agent", "", "Override the User-Agent header sent with probes")
	rootCmd.Flags().StringP("export", "e", "", "Write invalid bookmarks to this file")
	rootCmd.Flags().BoolP("yes", "y", false, "Non-interactive: validate (and export if requested) without menus")
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	profilePath, _ := cmd.Flags().GetString("profile")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	delay, _ := cmd.Flags().GetDuration("delay")
	userAgent, _ := cmd.Flags().GetString("user-agent")
	exportPath, _ := cmd.Flags().GetString("export")
	nonInteractive, _ := cmd.Flags().GetBool("yes")

	if profilePath == "" {
		var err error
		profilePath, err = pickProfile(nonInteractive)
		if err != nil {
			return err
		}
	}
	log.Info("Using profile", "path", profilePath)

	ext := sweetmark.Extract(ctx, profilePath)
	for _, w := range ext.Warnings {
		log.Debug(w)
	}
	if len(ext.Bookmarks) == 0 {
		log.Warn("No bookmarks found or unable to read bookmarks")
		for _, w := range ext.Warnings {
			log.Warn(w)
		}
		return nil
	}
	if ext.Store == sweetmark.StoreBackup {
		log.Warn("Bookmarks were read from a backup snapshot; deletion is unavailable")
	}
	log.Info("Starting validation", "bookmarks", len(ext.Bookmarks))

	checker := &sweetmark.Checker{
		Client:    &http.Client{},
		Timeout:   timeout,
		UserAgent: userAgent,
	}
	val, err := sweetmark.Validate(ctx, ext.Bookmarks, sweetmark.ValidateOptions{
		Checker:  checker,
		Delay:    delay,
		Progress: printProgress,
	})
	if err != nil {
		return err
	}
	for _, w := range val.Warnings {
		log.Debug(w)
	}
	log.Info("Validation complete", "processed", val.Processed, "invalid", len(val.Invalid))

	if len(val.Invalid) == 0 {
		fmt.Println("All bookmarks are valid! No issues found.")
		return nil
	}
	printInvalid(val.Invalid)

	if exportPath != "" {
		if err := sweetmark.Export(exportPath, val.Invalid); err != nil {
			return err
		}
		log.Info("Results saved", "file", exportPath)
	}
	if nonInteractive {
		return nil
	}
	return runMenu(ctx, profilePath, ext.Store, val.Invalid)
}

func printProgress(i, total int, r sweetmark.CheckResult) {
	title := r.Bookmark.Title
	if len(title) > 50 {
		title = title[:50]
	}
	pct := float64(i) / float64(total) * 100
	if r.OK() {
		fmt.Printf("[%d/%d] (%.1f%%) %s... OK (200)\n", i, total, pct, title)
		return
	}
	fmt.Printf("[%d/%d] (%.1f%%) %s... FAILED (%s)\n", i, total, pct, title, r.StatusString())
}

func printInvalid(invalid []sweetmark.CheckResult) {
	fmt.Printf("\nFound %d invalid bookmarks:\n", len(invalid))
	for i, r := range invalid {
		fmt.Printf("%d. Title: %s\n", i+1, r.Bookmark.Title)
		fmt.Printf("   URL: %s\n", r.Bookmark.URL)
		fmt.Printf("   Status: %s\n", r.StatusString())
	}
	fmt.Println()
}

func deleteBookmarks(ctx context.Context, profilePath string, deletions []sweetmark.Deletion) error {
	res, err := sweetmark.Delete(ctx, profilePath, deletions, sweetmark.DeleteOptions{})
	for _, w := range res.Warnings {
		log.Warn(w)
	}
	if err != nil {
		return err
	}
	log.Info("Created backup", "file", res.BackupPath)
	if res.Failed > 0 {
		log.Warn("Some rows could not be deleted", "deleted", res.Deleted, "failed", res.Failed)
		return nil
	}
	log.Info("Successfully deleted bookmarks", "count", res.Deleted)
	return nil
}
