package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"

	"worklog/internal/domain"
	"worklog/internal/errors"
)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	now func() time.Time
}

// NewTimeService creates a new TimeService instance
func NewTimeService() TimeService {
	return &timeServiceImpl{now: time.Now}
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04pm", "3:04PM", "3pm", "3PM"}

// ParseTime turns user input into a time relative to ref. Bare clock times
// ("09:30", "5pm") land on ref's day; anything else ("2 hours ago",
// "yesterday at 6pm", RFC 3339) is parsed as a past expression.
func (t *timeServiceImpl) ParseTime(input string, ref time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, errors.NewInvalidInputError("time", input, "time cannot be empty")
	}

	if ts, err := time.Parse(time.RFC3339, input); err == nil {
		return ts, nil
	}

	for _, layout := range clockLayouts {
		if clock, err := time.ParseInLocation(layout, input, ref.Location()); err == nil {
			return time.Date(ref.Year(), ref.Month(), ref.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, ref.Location()), nil
		}
	}

	parsed, err := naturaldate.Parse(input, ref, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError("time", input, "unrecognised time expression")
	}
	if parsed.Equal(ref) && !strings.EqualFold(input, "now") {
		// naturaldate returns ref unchanged when nothing matched
		return time.Time{}, errors.NewInvalidInputError("time", input, "unrecognised time expression")
	}

	return parsed, nil
}

// ParseBreak accepts whole minutes ("15") or a Go duration ("1h30m")
func (t *timeServiceImpl) ParseBreak(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if minutes, err := strconv.Atoi(input); err == nil {
		return time.Duration(minutes) * time.Minute, nil
	}
	if d, err := time.ParseDuration(input); err == nil {
		return d, nil
	}
	return 0, errors.NewInvalidInputError("break", input, "expected minutes or a duration like 1h30m")
}

// CalculateDuration calculates human-readable duration between two times
func (t *timeServiceImpl) CalculateDuration(start time.Time, end *time.Time) string {
	if end == nil {
		return fmt.Sprintf("running for %s", t.FormatDuration(t.now().Sub(start)))
	}
	return t.FormatDuration(end.Sub(start))
}

// FormatDuration formats a duration into human-readable string
func (t *timeServiceImpl) FormatDuration(duration time.Duration) string {
	if duration < 0 {
		return "0m"
	}

	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// SummarizeDraft formats elapsed, break and net work time
func (t *timeServiceImpl) SummarizeDraft(draft domain.WorkLogDraft, paused bool, now time.Time) *DraftSummary {
	return &DraftSummary{
		Elapsed: t.FormatDuration(draft.Elapsed(now)),
		Break:   t.FormatDuration(draft.BreakTime),
		Net:     t.FormatDuration(draft.NetWorkTime(now)),
		Running: draft.IsRunning(),
		Paused:  paused,
	}
}

// IsToday checks if a given time is within today's date range
func (t *timeServiceImpl) IsToday(timeValue time.Time) bool {
	now := t.now()
	year1, month1, day1 := timeValue.Date()
	year2, month2, day2 := now.In(timeValue.Location()).Date()
	return year1 == year2 && month1 == month2 && day1 == day2
}
