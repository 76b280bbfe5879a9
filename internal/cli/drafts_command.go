package cli

import (
	"context"

	"worklog/internal/errors"
)

var draftsSubcommands = []string{"list", "show", "clear", "export"}

// DraftsCommand dispatches the drafts subcommands over the local backups
type DraftsCommand struct {
	subcommands map[string]Command
}

// NewDraftsCommand creates a new drafts command handler
func NewDraftsCommand(app *App) *DraftsCommand {
	return &DraftsCommand{
		subcommands: map[string]Command{
			"list":   NewListCommand(app),
			"show":   NewCurrentCommand(app),
			"clear":  NewDeleteCommand(app),
			"export": NewOutputCommand(app),
		},
	}
}

// Execute runs the drafts command. With no subcommand it lists drafts.
func (c *DraftsCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.subcommands["list"].Execute(ctx, nil)
	}

	sub, ok := c.subcommands[args[0]]
	if !ok {
		return errors.NewInvalidInputError("command", args[0], "unknown drafts command")
	}
	return sub.Execute(ctx, args[1:])
}
