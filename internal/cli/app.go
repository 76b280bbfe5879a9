package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"worklog/internal/config"
	"worklog/internal/drafts"
	"worklog/internal/logging"
	"worklog/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the main CLI application
type App struct {
	sessions    *services.SessionManager
	timeService services.TimeService
	drafts      *drafts.Store
	config      *config.Config
	logger      *slog.Logger

	in       *bufio.Reader
	out      io.Writer
	registry *CommandRegistry

	// lines is fed by a single reader goroutine so a blocked read can be
	// abandoned when the context ends.
	lines    chan inputLine
	readOnce sync.Once
}

type inputLine struct {
	text string
	err  error
}

// AppOption customizes an App
type AppOption func(*App)

// WithIO replaces stdin and stdout, mainly for tests
func WithIO(in io.Reader, out io.Writer) AppOption {
	return func(a *App) {
		a.in = bufio.NewReader(in)
		a.out = out
	}
}

// WithLogger sets the application logger
func WithLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(container *services.ServiceContainer, store *drafts.Store, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		sessions:    container.Sessions,
		timeService: container.TimeService,
		drafts:      store,
		config:      cfg,
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	app.logger = logging.OrDiscard(app.logger)
	app.registry = NewCommandRegistry(app)
	return app
}

// Run executes the CLI application with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}

	commandName := args[0]
	commandArgs := args[1:]

	return a.registry.Execute(ctx, commandName, commandArgs)
}

// Shutdown flushes every open session
func (a *App) Shutdown(ctx context.Context) error {
	return a.sessions.Shutdown(ctx)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// readLine reads one line of input without the trailing newline. io.EOF is
// returned only when nothing was read.
func (a *App) readLine() (string, error) {
	return a.readLineContext(context.Background())
}

// readLineContext is readLine that gives up when ctx is done. The pending
// line, if any, is kept for the next read.
func (a *App) readLineContext(ctx context.Context) (string, error) {
	a.readOnce.Do(func() {
		a.lines = make(chan inputLine)
		go a.readLoop()
	})

	select {
	case l, ok := <-a.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (a *App) readLoop() {
	defer close(a.lines)
	for {
		line, err := a.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			a.lines <- inputLine{err: err}
			return
		}
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		a.lines <- inputLine{text: line}
	}
}

// parseTimeShorthand parses time shorthand like "30m", "2h", "1d", etc.
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	re := regexp.MustCompile(`^(\d+)(m|h|d|w)$`)
	matches := re.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	unit := matches[2]
	var duration time.Duration

	switch unit {
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "w":
		duration = time.Duration(value) * 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid time unit: %s", unit)
	}

	return duration, nil
}
