package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qstack/internal/encode"
	"qstack/internal/runner"
	"qstack/internal/ui"
)

type runOutcome struct {
	result *runner.Result
	err    error
}

// runWithUI executes shots in the background while a Bubble Tea view
// follows the progress events.
func runWithUI(ctx context.Context, title, detail string, c *encode.Compiled, b runner.Backend, opts runner.Options) (*runner.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan runner.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		o := opts
		o.Events = events
		res, err := runner.Run(ctx, c, b, o)
		outcomeCh <- runOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, detail, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// The view only exits early on interrupt; stop the shots too.
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
