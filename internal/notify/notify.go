// Package notify delivers short user-facing notices about save outcomes.
package notify

import (
	"io"
	"log/slog"
	"os"

	"github.com/gen2brain/beeep"
	"github.com/pterm/pterm"

	"worklog/internal/logging"
)

// Variant selects how a notification is styled.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Notification is a fire-and-forget notice.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier delivers notifications. Notify must not block for long and must
// not fail the caller.
type Notifier interface {
	Notify(n Notification)
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(Notification) {}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// ConsoleNotifier prints notifications to a terminal.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier prints to out, or stderr when out is nil.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleNotifier{out: out}
}

func (c *ConsoleNotifier) Notify(n Notification) {
	var printer *pterm.PrefixPrinter
	switch n.Variant {
	case VariantSuccess:
		printer = pterm.Success.WithWriter(c.out)
	case VariantDestructive:
		printer = pterm.Error.WithWriter(c.out)
	default:
		printer = pterm.Info.WithWriter(c.out)
	}

	if n.Description == "" {
		printer.Println(n.Title)
		return
	}
	printer.Printfln("%s: %s", n.Title, n.Description)
}

// DesktopNotifier raises an OS notification.
type DesktopNotifier struct {
	icon   string
	send   func(title, message, icon string) error
	logger *slog.Logger
}

// NewDesktopNotifier creates a desktop notifier. icon may be empty.
func NewDesktopNotifier(icon string, logger *slog.Logger) *DesktopNotifier {
	return &DesktopNotifier{
		icon:   icon,
		send:   func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		logger: logging.OrDiscard(logger),
	}
}

func (d *DesktopNotifier) Notify(n Notification) {
	if err := d.send(n.Title, n.Description, d.icon); err != nil {
		d.logger.Warn("desktop notification failed", "title", n.Title, "error", err)
	}
}
