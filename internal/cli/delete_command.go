package cli

import (
	"context"
	"strings"

	"github.com/pterm/pterm"

	"worklog/internal/errors"
)

// DeleteCommand removes a local draft backup
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute runs the delete command. Without --yes it asks for confirmation.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	var projectID string
	confirmed := false
	for _, arg := range args {
		switch arg {
		case "-y", "--yes":
			confirmed = true
		default:
			projectID = arg
		}
	}
	if projectID == "" {
		return errors.NewInvalidInputError("command", "clear", "usage: wl drafts clear <project-id> [--yes]")
	}

	if _, ok := c.app.drafts.Load(projectID); !ok {
		pterm.Info.WithWriter(c.app.out).Printfln("No unsaved draft for project %s", projectID)
		return nil
	}

	if !confirmed {
		warning := pterm.Warning.Sprintf("The unsaved draft for project %s will be lost. Continue? [y/N]: ", projectID)
		c.app.printf("%s", warning)

		answer, err := c.app.readLine()
		if err != nil || !strings.EqualFold(strings.TrimSpace(answer), "y") {
			c.app.printf("Clear cancelled.\n")
			return nil
		}
	}

	c.app.drafts.Clear(projectID)
	pterm.Success.WithWriter(c.app.out).Printfln("Cleared draft for project %s", projectID)
	return nil
}
