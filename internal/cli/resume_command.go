package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"worklog/internal/errors"
)

// ResumeCommand picks a project with an unsaved draft and opens a session
// for it, which offers the draft for recovery. Stale drafts are listed too.
type ResumeCommand struct {
	app          *App
	errorHandler *ErrorHandler
	session      *SessionCommand
}

// NewResumeCommand creates a new resume command handler
func NewResumeCommand(app *App) *ResumeCommand {
	return &ResumeCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
		session:      NewSessionCommand(app),
	}
}

// Execute runs the resume command
func (c *ResumeCommand) Execute(ctx context.Context, args []string) error {
	snapshots, err := c.app.drafts.List()
	if err != nil {
		return c.errorHandler.Handle("list drafts", err)
	}

	if len(snapshots) == 0 {
		pterm.Info.WithWriter(c.app.out).Println("No drafts to resume.")
		return nil
	}

	c.app.printf("Select a draft to resume:\n")
	for i, s := range snapshots {
		memo := s.Memo
		if memo == "" {
			memo = "(no memo)"
		}
		edited := formatTime(&s.LastModified)
		if c.app.timeService.IsToday(s.LastModified) {
			edited = "today " + s.LastModified.Format("15:04")
		}
		marker := ""
		if c.app.drafts.IsStale(s, c.app.config.Local.RecoveryTTL) {
			marker = " [stale]"
		}
		c.app.printf("%d. %s: %s (edited %s)%s\n", i+1, s.ProjectID, truncate(memo, 40), edited, marker)
	}
	c.app.printf("Enter number to resume, or 'q' to quit: ")

	input, err := c.app.readLine()
	if err != nil {
		return fmt.Errorf("failed to read selection: %w", err)
	}
	input = strings.TrimSpace(input)
	if input == "q" || input == "Q" {
		c.app.printf("Resume cancelled.\n")
		return nil
	}

	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(snapshots) {
		return errors.NewInvalidInputError("selection", input, "invalid selection")
	}

	return c.session.Execute(ctx, []string{snapshots[idx-1].ProjectID})
}
