package timer

import (
	"fmt"
	"os/exec"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"

	"github.com/focushub/focushub/internal/models"
)

// Notifier surfaces session completions outside the terminal: a desktop
// notification, an optional sound, and an optional user-defined command.
type Notifier struct {
	Enabled    bool
	Sound      string
	SessionCmd string
	IconPath   string
}

// SessionEnded announces the end of a session. Notification failures are
// reported but never block the next session.
func (n Notifier) SessionEnded(sess models.SessionRecord) {
	if n.Enabled {
		title := "Work session is finished"
		msg := "Time for a break!"

		if sess.SessionType == models.Break {
			title = "Break is over"
			msg = "Time to get back to work"
		}

		err := beeep.Notify(title, msg, n.IconPath)
		if err != nil {
			pterm.Error.Printfln("unable to display notification: %v", err)
		}
	}

	if n.Sound != "off" && n.Sound != "" {
		err := playSound(n.Sound)
		if err != nil {
			pterm.Error.Printfln("unable to play sound: %v", err)
		}
	}

	err := n.runSessionCmd()
	if err != nil {
		pterm.Error.Printfln("session command failed: %v", err)
	}
}

// runSessionCmd executes the user-defined command after a session ends.
func (n Notifier) runSessionCmd() error {
	if n.SessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(n.SessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse session_cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.Command(name, args...)

	return cmd.Run()
}
