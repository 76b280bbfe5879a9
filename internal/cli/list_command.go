package cli

import (
	"context"
	"time"

	"github.com/pterm/pterm"

	"worklog/internal/domain"
	"worklog/internal/errors"
)

// ListCommand lists the local draft backups
type ListCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the list command. An optional time shorthand limits the
// list to drafts written within that window.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	var window time.Duration
	if len(args) > 0 {
		d, err := parseTimeShorthand(args[0])
		if err != nil {
			return errors.NewInvalidInputError("time_shorthand", args[0], "use e.g. 30m, 2h, 1d or 1w")
		}
		window = d
	}

	snapshots, err := c.app.drafts.List()
	if err != nil {
		return c.errorHandler.Handle("list drafts", err)
	}

	if window > 0 {
		since := timeNow().Add(-window)
		filtered := snapshots[:0]
		for _, s := range snapshots {
			if s.LastModified.After(since) {
				filtered = append(filtered, s)
			}
		}
		snapshots = filtered
	}

	if len(snapshots) == 0 {
		pterm.Info.WithWriter(c.app.out).Println("No unsaved drafts")
		return nil
	}

	c.printSnapshots(snapshots)
	return nil
}

func (c *ListCommand) printSnapshots(snapshots []domain.DraftSnapshot) {
	data := [][]string{{"PROJECT", "WORK LOG", "START", "END", "MEMO", "WRITTEN", "STATUS"}}
	for _, s := range snapshots {
		workLog := s.WorkLogID
		if workLog == "" {
			workLog = "(not created)"
		}

		status := "recoverable"
		if c.app.drafts.IsStale(s, c.app.config.Local.RecoveryTTL) {
			status = "stale"
		}

		data = append(data, []string{
			s.ProjectID,
			workLog,
			formatTime(s.StartTime),
			formatTime(s.EndTime),
			truncate(s.Memo, 30),
			formatTime(&s.LastModified),
			status,
		})
	}
	printTable(c.app.out, data)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
