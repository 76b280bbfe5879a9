package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"worklog/internal/errors"
	"worklog/internal/services"
)

const sessionHelp = `Commands:
  start                  start work now
  pause | resume         pause or resume; paused time is added to the break
  end                    end work now
  memo <text>            set the memo
  break <duration>       set the break, e.g. 15 or 1h30m
  edit start|end <time>  correct a time, e.g. "edit start 9:15" or "edit end 10 minutes ago"
  status                 show the draft and save status
  retry                  retry a failed save
  close [memo]           save and close, optionally setting the final memo
  discard                close without saving and drop the local backup
  quit                   leave; pending changes are flushed and kept locally on failure
  help                   show this help`

// sessionAction handles one REPL command. It returns true to leave the loop.
type sessionAction func(ctx context.Context, s services.SessionController, arg string) (bool, error)

// SessionCommand runs an interactive work-log session for one project
type SessionCommand struct {
	app          *App
	errorHandler *ErrorHandler
	actions      map[string]sessionAction
}

// NewSessionCommand creates a new session command handler
func NewSessionCommand(app *App) *SessionCommand {
	c := &SessionCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
	c.actions = map[string]sessionAction{
		"start":   c.start,
		"pause":   c.pause,
		"resume":  c.resume,
		"end":     c.end,
		"memo":    c.memo,
		"break":   c.setBreak,
		"edit":    c.edit,
		"status":  c.status,
		"retry":   c.retry,
		"close":   c.close,
		"discard": c.discard,
		"quit":    c.quit,
		"exit":    c.quit,
		"help":    c.help,
	}
	return c
}

// Execute runs the session command
func (c *SessionCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "session", "usage: wl session <project-id>")
	}

	session, recovery, err := c.app.sessions.Open(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("open session", err)
	}

	if recovery != nil {
		if err := c.offerRecovery(recovery); err != nil {
			c.printError(err)
		}
	}

	return c.Run(ctx, session)
}

// Run reads commands for an open session until it is closed or input ends
func (c *SessionCommand) Run(ctx context.Context, s services.SessionController) error {
	pterm.Info.WithWriter(c.app.out).Printfln("Session for %s. Type 'help' for commands.", s.Project().DisplayName())

	// Stop waiting for input once the session is closed elsewhere.
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.Done():
			cancel()
		case <-readCtx.Done():
		}
	}()

	for {
		fmt.Fprint(c.app.out, "wl> ")
		line, err := c.app.readLineContext(readCtx)
		if err == io.EOF {
			fmt.Fprintln(c.app.out)
			return nil
		}
		if err != nil {
			select {
			case <-s.Done():
				fmt.Fprintln(c.app.out)
				return nil
			default:
			}
			if err == context.Canceled {
				// Interrupted: open sessions are flushed on shutdown.
				fmt.Fprintln(c.app.out)
				return nil
			}
			return err
		}

		verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		if verb == "" {
			continue
		}

		action, ok := c.actions[strings.ToLower(verb)]
		if !ok {
			c.printError(errors.NewInvalidInputError("command", verb, "unknown command, type 'help'"))
			continue
		}

		done, err := action(ctx, s, strings.TrimSpace(arg))
		if err != nil {
			c.printError(err)
			continue
		}
		if done {
			return nil
		}
	}
}

func (c *SessionCommand) offerRecovery(r *services.Recovery) error {
	d := r.Draft
	pterm.Warning.WithWriter(c.app.out).Printfln("Unsaved changes from %s were found.", d.LastModifiedLocally.Format(timeLayout))
	if r.Stale {
		pterm.Warning.WithWriter(c.app.out).Println("They are older than the recovery window. Discarding deletes them for good.")
	}
	printTable(c.app.out, [][]string{
		{"START", "END", "BREAK", "MEMO"},
		{
			formatTime(d.StartTime),
			formatTime(d.EndTime),
			c.app.timeService.FormatDuration(d.BreakTime),
			d.Memo,
		},
	})
	fmt.Fprint(c.app.out, "Restore them? [y/N]: ")

	answer, err := c.app.readLine()
	if err != nil && err != io.EOF {
		return err
	}

	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		if err := r.Accept(); err != nil {
			return err
		}
		pterm.Success.WithWriter(c.app.out).Println("Restored unsaved changes")
		return nil
	}

	r.Discard()
	pterm.Info.WithWriter(c.app.out).Println("Discarded unsaved changes")
	return nil
}

func (c *SessionCommand) start(ctx context.Context, s services.SessionController, _ string) (bool, error) {
	if err := s.Start(ctx); err != nil {
		return false, err
	}
	c.app.printf("Started at %s\n", s.Draft().StartTime.Format(timeLayout))
	return false, nil
}

func (c *SessionCommand) pause(_ context.Context, s services.SessionController, _ string) (bool, error) {
	if err := s.Pause(); err != nil {
		return false, err
	}
	c.app.printf("Paused\n")
	return false, nil
}

func (c *SessionCommand) resume(_ context.Context, s services.SessionController, _ string) (bool, error) {
	if err := s.Resume(); err != nil {
		return false, err
	}
	c.app.printf("Resumed, break is now %s\n", c.app.timeService.FormatDuration(s.Draft().BreakTime))
	return false, nil
}

func (c *SessionCommand) end(ctx context.Context, s services.SessionController, _ string) (bool, error) {
	if err := s.End(ctx); err != nil {
		return false, err
	}
	c.app.printf("Ended at %s\n", s.Draft().EndTime.Format(timeLayout))
	return false, nil
}

func (c *SessionCommand) memo(_ context.Context, s services.SessionController, arg string) (bool, error) {
	return false, s.EditMemo(arg)
}

func (c *SessionCommand) setBreak(_ context.Context, s services.SessionController, arg string) (bool, error) {
	d, err := c.app.timeService.ParseBreak(arg)
	if err != nil {
		return false, err
	}
	return false, s.EditBreak(d)
}

func (c *SessionCommand) edit(_ context.Context, s services.SessionController, arg string) (bool, error) {
	field, expr, _ := strings.Cut(arg, " ")
	if field != string(services.FieldStart) && field != string(services.FieldEnd) {
		return false, errors.NewInvalidInputError("field", field, "usage: edit start|end <time>")
	}

	at, err := c.app.timeService.ParseTime(strings.TrimSpace(expr), timeNow())
	if err != nil {
		return false, err
	}
	if err := s.EditTime(services.TimeField(field), at); err != nil {
		return false, err
	}
	c.app.printf("%s set to %s\n", field, at.Format(timeLayout))
	return false, nil
}

func (c *SessionCommand) status(_ context.Context, s services.SessionController, _ string) (bool, error) {
	draft := s.Draft()
	summary := c.app.timeService.SummarizeDraft(draft, s.IsPaused(), timeNow())
	status := s.Status()

	state := "not started"
	switch {
	case summary.Paused:
		state = "paused"
	case summary.Running:
		state = "running"
	case draft.IsEnded():
		state = "ended"
	}

	saved := "saved"
	switch {
	case status.IsSaving:
		saved = "saving..."
	case status.LastError != nil:
		saved = "failed: " + c.errorHandler.Message(status.LastError)
	case status.IsDirty:
		saved = "unsaved changes"
	}

	printTable(c.app.out, [][]string{
		{"FIELD", "VALUE"},
		{"project", s.Project().DisplayName()},
		{"state", state},
		{"start", formatTime(draft.StartTime)},
		{"end", formatTime(draft.EndTime)},
		{"elapsed", summary.Elapsed},
		{"break", summary.Break},
		{"net", summary.Net},
		{"memo", draft.Memo},
		{"save", saved},
		{"last saved", formatTime(&status.LastAutoSave)},
	})
	return false, nil
}

func (c *SessionCommand) retry(_ context.Context, s services.SessionController, _ string) (bool, error) {
	s.Retry()
	return false, nil
}

func (c *SessionCommand) close(ctx context.Context, s services.SessionController, arg string) (bool, error) {
	memo := arg
	if memo == "" {
		memo = s.Draft().Memo
	}
	if err := s.SubmitMemoAndClose(ctx, memo); err != nil {
		return false, err
	}
	pterm.Success.WithWriter(c.app.out).Println("Work log submitted")
	return true, nil
}

func (c *SessionCommand) discard(_ context.Context, s services.SessionController, _ string) (bool, error) {
	if err := s.Discard(); err != nil {
		return false, err
	}
	pterm.Info.WithWriter(c.app.out).Println("Session discarded")
	return true, nil
}

func (c *SessionCommand) quit(_ context.Context, _ services.SessionController, _ string) (bool, error) {
	return true, nil
}

func (c *SessionCommand) help(_ context.Context, _ services.SessionController, _ string) (bool, error) {
	fmt.Fprintln(c.app.out, sessionHelp)
	return false, nil
}

func (c *SessionCommand) printError(err error) {
	if errors.ShouldLogError(err) {
		c.app.logger.Warn("session command failed", "error", err, "code", c.errorHandler.GetErrorCode(err))
	}
	pterm.Error.WithWriter(c.app.out).Println(c.errorHandler.Message(err))
}
