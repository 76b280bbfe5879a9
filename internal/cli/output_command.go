package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"worklog/internal/domain"
	"worklog/internal/errors"
)

// OutputCommand exports the local draft backups
type OutputCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewOutputCommand creates a new output command handler
func NewOutputCommand(app *App) *OutputCommand {
	return &OutputCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the output command
func (c *OutputCommand) Execute(ctx context.Context, args []string) error {
	format := "format=json"
	if len(args) > 0 {
		format = args[0]
	}

	if !strings.HasPrefix(format, "format=") {
		return errors.NewInvalidInputError("format", format, "usage: wl drafts export format=json|csv")
	}

	snapshots, err := c.app.drafts.List()
	if err != nil {
		return c.errorHandler.Handle("export drafts", err)
	}

	format = strings.TrimPrefix(format, "format=")
	switch format {
	case "json":
		return c.outputJSON(snapshots)
	case "csv":
		return c.outputCSV(snapshots)
	default:
		return errors.NewInvalidInputError("format", format, "unsupported format")
	}
}

func (c *OutputCommand) outputJSON(snapshots []domain.DraftSnapshot) error {
	encoder := json.NewEncoder(c.app.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshots); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func (c *OutputCommand) outputCSV(snapshots []domain.DraftSnapshot) error {
	writer := csv.NewWriter(c.app.out)
	defer writer.Flush()

	header := []string{"Project ID", "Work Log ID", "Start Time", "End Time", "Break (minutes)", "Memo", "Last Modified"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range snapshots {
		row := []string{
			s.ProjectID,
			s.WorkLogID,
			formatRFC3339(s.StartTime),
			formatRFC3339(s.EndTime),
			strconv.FormatInt(s.BreakSeconds/60, 10),
			s.Memo,
			s.LastModified.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatRFC3339(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
