package cli

import (
	"context"
	"time"

	"github.com/pterm/pterm"

	"worklog/internal/errors"
)

// CurrentCommand shows one local draft backup in full
type CurrentCommand struct {
	app *App
}

// NewCurrentCommand creates a new current command handler
func NewCurrentCommand(app *App) *CurrentCommand {
	return &CurrentCommand{app: app}
}

// Execute runs the current command
func (c *CurrentCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "show", "usage: wl drafts show <project-id>")
	}

	snapshot, ok := c.app.drafts.Load(args[0])
	if !ok {
		pterm.Info.WithWriter(c.app.out).Printfln("No unsaved draft for project %s", args[0])
		return nil
	}

	breakTime := time.Duration(snapshot.BreakSeconds) * time.Second
	elapsed := "-"
	if snapshot.StartTime != nil {
		elapsed = c.app.timeService.CalculateDuration(*snapshot.StartTime, snapshot.EndTime)
	}

	printTable(c.app.out, [][]string{
		{"FIELD", "VALUE"},
		{"project", snapshot.ProjectID},
		{"work log", snapshot.WorkLogID},
		{"start", formatTime(snapshot.StartTime)},
		{"end", formatTime(snapshot.EndTime)},
		{"elapsed", elapsed},
		{"break", c.app.timeService.FormatDuration(breakTime)},
		{"memo", snapshot.Memo},
		{"edited", formatTime(&snapshot.LastModifiedLocally)},
		{"written", formatTime(&snapshot.LastModified)},
	})
	return nil
}
