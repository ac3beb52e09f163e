package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"a68/internal/driver"
	"a68/internal/ui"
)

type checkOutcome struct {
	results []driver.FileResult
	stats   driver.BatchStats
	err     error
}

// runCheckWithUI runs the batch in the background and renders its progress
// until every file is done.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.BatchOptions) ([]driver.FileResult, driver.BatchStats, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = func(ev driver.ProgressEvent) {
			events <- ev
		}
		results, stats, err := driver.CheckFiles(ctx, files, opts)
		outcomeCh <- checkOutcome{results: results, stats: stats, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// модель могла выйти раньше (ctrl+c): дочитываем канал
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.stats, uiErr
	}
	return outcome.results, outcome.stats, outcome.err
}
