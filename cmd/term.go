package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"likedposts/app/models"

	"github.com/briandowns/spinner"
	"github.com/eiannone/keyboard"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// keySource yields single key presses.
type keySource interface {
	GetKey() (rune, keyboard.Key, error)
	Close() error
}

type terminalKeys struct{}

func (terminalKeys) GetKey() (rune, keyboard.Key, error) {
	return keyboard.GetKey()
}

func (terminalKeys) Close() error {
	return keyboard.Close()
}

// openKeys puts the terminal in raw mode. Tests swap it for a scripted source.
var openKeys = func() (keySource, error) {
	if err := keyboard.Open(); err != nil {
		return nil, errors.Wrap(err, "failed to open keyboard")
	}
	return terminalKeys{}, nil
}

var promptColor = color.New(color.FgHiMagenta, color.Bold)

// confirmYesNo asks a y/n question until it gets one of the two. Ctrl+C and
// Esc count as no.
func confirmYesNo(w io.Writer, keys keySource, format string, args ...interface{}) (bool, error) {
	for {
		promptColor.Fprintf(w, format+" (y)es | (n)o> ", args...)
		char, key, err := keys.GetKey()
		if err != nil {
			return false, errors.Wrap(err, "failed to read keypress")
		}
		fmt.Fprintln(w, string(char))

		switch {
		case char == 'y' || char == 'Y':
			return true, nil
		case char == 'n' || char == 'N' || key == keyboard.KeyCtrlC || key == keyboard.KeyEsc:
			return false, nil
		}
		errorColor.Fprint(w, "Invalid input.\nEnter 'y' for yes or 'n' for no.\n\n")
	}
}

// confirmUnlike is the confirmation used by both unlike and browse.
func confirmUnlike(w io.Writer, keys keySource) func(models.Post) bool {
	return func(post models.Post) bool {
		ok, err := confirmYesNo(w, keys, "Unlike %s?", describePost(post))
		return err == nil && ok
	}
}

func describePost(post models.Post) string {
	text := strings.Join(strings.Fields(post.Text), " ")
	if text == "" {
		return "post " + post.ID
	}
	if r := []rune(text); len(r) > 40 {
		text = string(r[:39]) + "…"
	}
	return fmt.Sprintf("%q by %s", text, post.User.DisplayName())
}

// startSpinner shows msg with a spinner on w until the returned func is
// called. Nothing is drawn when w is not a terminal.
func startSpinner(w io.Writer, msg string) func() {
	s := spinner.New(spinner.CharSets[33], 100*time.Millisecond, spinner.WithWriter(w))
	s.Prefix = msg + " "
	s.Start()
	return s.Stop
}
