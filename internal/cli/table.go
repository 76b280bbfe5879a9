package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
)

const timeLayout = "2006-01-02 15:04"

func printTable(w io.Writer, data [][]string) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		fmt.Fprintf(w, "failed to render table: %v\n", err)
		return
	}

	fmt.Fprintln(w, str)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}
