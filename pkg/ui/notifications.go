package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// commandSender runs an external notification tool
type commandSender struct {
	build func(title, message string) *exec.Cmd
}

func (c commandSender) Send(title, message string) error {
	return c.build(title, message).Run()
}

// platformSenders maps GOOS to the tool used for notifications
var platformSenders = map[string]commandSender{
	"linux": {func(title, message string) *exec.Cmd {
		return exec.Command("notify-send", "--app-name=lensdl", title, message)
	}},
	"darwin": {func(title, message string) *exec.Cmd {
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		return exec.Command("osascript", "-e", script)
	}},
	"windows": {func(title, message string) *exec.Cmd {
		script := fmt.Sprintf(`Add-Type -AssemblyName System.Windows.Forms
$n = New-Object System.Windows.Forms.NotifyIcon
$n.Icon = [System.Drawing.SystemIcons]::Information
$n.Visible = $true
$n.ShowBalloonTip(5000, '%s', '%s', 'Info')`, psQuote(title), psQuote(message))
		return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	}},
}

func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Notifier echoes a message to the console and, where the platform has a
// notification tool, to the desktop
type Notifier struct {
	sender NotificationSender
}

// NewNotifier creates a Notifier for the current platform
func NewNotifier() *Notifier {
	n := &Notifier{}
	if s, ok := platformSenders[runtime.GOOS]; ok {
		n.sender = s
	}
	return n
}

func (n *Notifier) send(title, message string) {
	if n.sender != nil {
		_ = n.sender.Send(title, message)
	}
}

// SendNotification sends a neutral notification
func (n *Notifier) SendNotification(title, message string) {
	printf(false, "\n%s: %s\n", Cyan(title), Yellow(message))
	n.send(title, message)
}

// SendError sends a failure notification. The console line is printed even
// in quiet mode.
func (n *Notifier) SendError(title, message string) {
	printf(true, "\n%s: %s\n", Red(title), Red(message))
	n.send(title, message)
}

// SendSuccess sends a success notification
func (n *Notifier) SendSuccess(title, message string) {
	printf(false, "\n%s: %s\n", Green(title), Green(message))
	n.send(title, message)
}
