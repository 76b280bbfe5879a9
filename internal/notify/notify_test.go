package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got []Notification
}

func (r *recorder) Notify(n Notification) {
	r.got = append(r.got, n)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	n := Notification{Title: "Saved", Variant: VariantSuccess}

	Multi{a, Noop{}, b}.Notify(n)

	assert.Equal(t, []Notification{n}, a.got)
	assert.Equal(t, []Notification{n}, b.got)
}

func TestConsoleNotifier(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	tests := []struct {
		name     string
		n        Notification
		contains []string
	}{
		{"success", Notification{Title: "Saved", Variant: VariantSuccess}, []string{"Saved"}},
		{"failure with description", Notification{Title: "Save failed", Description: "server unavailable", Variant: VariantDestructive}, []string{"Save failed", "server unavailable"}},
		{"default", Notification{Title: "Recovered draft"}, []string{"Recovered draft"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsoleNotifier(&buf).Notify(tt.n)

			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestDesktopNotifier(t *testing.T) {
	var title, message string
	d := NewDesktopNotifier("", nil)
	d.send = func(t, m, _ string) error {
		title, message = t, m
		return nil
	}

	d.Notify(Notification{Title: "Saved", Description: "Work log saved"})
	assert.Equal(t, "Saved", title)
	assert.Equal(t, "Work log saved", message)
}

func TestDesktopNotifier_ErrorsAreSwallowed(t *testing.T) {
	d := NewDesktopNotifier("", nil)
	d.send = func(string, string, string) error { return errors.New("no dbus") }

	assert.NotPanics(t, func() {
		d.Notify(Notification{Title: "Saved"})
	})
}
