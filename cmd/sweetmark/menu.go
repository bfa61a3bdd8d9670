package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/steipete/sweetmark"
)

const (
	actionDeleteAll    = "delete-all"
	actionDeleteSome   = "delete-some"
	actionInstructions = "instructions"
	actionExport       = "export"
	actionQuit         = "quit"
)

func pickProfile(nonInteractive bool) (string, error) {
	profiles := sweetmark.Profiles()
	if len(profiles) == 0 {
		return "", errors.New("no Firefox profiles found; check that Firefox is installed, or pass --profile")
	}
	if len(profiles) == 1 || nonInteractive {
		return profiles[0].Path, nil
	}

	options := make([]huh.Option[string], 0, len(profiles))
	for _, p := range profiles {
		options = append(options, huh.NewOption(p.Name, p.Path))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a Firefox profile").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("profile selection cancelled: %w", err)
	}
	return selected, nil
}

func runMenu(ctx context.Context, profilePath string, store sweetmark.Store, invalid []sweetmark.CheckResult) error {
	canDelete := store == sweetmark.StorePlaces

	options := []huh.Option[string]{}
	if canDelete {
		options = append(options,
			huh.NewOption("Delete all invalid bookmarks (requires Firefox to be closed)", actionDeleteAll),
			huh.NewOption("Delete specific invalid bookmarks", actionDeleteSome),
		)
	} else {
		options = append(options, huh.NewOption("Show how to remove bookmarks manually", actionInstructions))
	}
	options = append(options,
		huh.NewOption("Export list of invalid bookmarks to a file", actionExport),
		huh.NewOption("Exit without further action", actionQuit),
	)

	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(options...).
				Value(&action),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("menu cancelled: %w", err)
	}

	switch action {
	case actionDeleteAll:
		return confirmAndDelete(ctx, profilePath, sweetmark.DeletionsFrom(invalid), len(invalid))
	case actionDeleteSome:
		return deleteSelected(ctx, profilePath, invalid)
	case actionInstructions:
		printManualInstructions()
		return nil
	case actionExport:
		return exportPrompt(invalid)
	default:
		return nil
	}
}

func deleteSelected(ctx context.Context, profilePath string, invalid []sweetmark.CheckResult) error {
	options := make([]huh.Option[int], 0, len(invalid))
	for i, r := range invalid {
		label := fmt.Sprintf("%d. %s (%s, %s)", i+1, r.Bookmark.Title, r.Bookmark.URL, r.StatusString())
		options = append(options, huh.NewOption(label, i))
	}

	var picked []int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Select bookmarks to delete").
				Options(options...).
				Value(&picked),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}
	if len(picked) == 0 {
		log.Info("Nothing selected")
		return nil
	}

	subset := make([]sweetmark.CheckResult, 0, len(picked))
	for _, i := range picked {
		subset = append(subset, invalid[i])
	}
	return confirmAndDelete(ctx, profilePath, sweetmark.DeletionsFrom(subset), len(subset))
}

func confirmAndDelete(ctx context.Context, profilePath string, deletions []sweetmark.Deletion, selected int) error {
	if len(deletions) == 0 {
		log.Warn("No deletable bookmarks in the selection")
		return nil
	}
	if len(deletions) < selected {
		log.Warn("Some selected bookmarks carry no store identity and will be skipped",
			"skipped", selected-len(deletions))
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d bookmarks from places.sqlite?", len(deletions))).
				Description("Firefox must be closed. A backup is written first.").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("confirmation cancelled: %w", err)
	}
	if !confirmed {
		return nil
	}
	return deleteBookmarks(ctx, profilePath, deletions)
}

func exportPrompt(invalid []sweetmark.CheckResult) error {
	filename := "invalid_bookmarks.txt"
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Filename to save results").
				Value(&filename),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("export cancelled: %w", err)
	}
	if filename == "" {
		filename = "invalid_bookmarks.txt"
	}
	if err := sweetmark.Export(filename, invalid); err != nil {
		return err
	}
	log.Info("Results saved", "file", filename)
	return nil
}

func printManualInstructions() {
	fmt.Println("\nTo remove bookmarks in Firefox:")
	fmt.Println("1. Open Firefox")
	fmt.Println("2. Press Ctrl+Shift+B (Cmd+Shift+B on macOS) to open the Library window")
	fmt.Println("3. Right-click each bookmark you want to delete")
	fmt.Println("4. Select 'Delete' and confirm if prompted")
}
