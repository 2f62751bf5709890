package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// DesktopNotifier shows a native desktop notification by spawning the OS
// notifier command: osascript on macOS, notify-send on Linux, a PowerShell
// toast on Windows.
type DesktopNotifier struct {
	goos string
}

// NewDesktopNotifier creates a desktop notifier for the current OS.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{goos: runtime.GOOS}
}

func (d *DesktopNotifier) Name() string { return "desktop" }

func (d *DesktopNotifier) Send(ctx context.Context, alert Alert) error {
	name, args, err := d.command(alert)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run %s: %w: %s", name, err, out)
	}
	return nil
}

// command builds the notifier invocation for the configured OS. Split out so
// tests can check the arguments without spawning anything.
func (d *DesktopNotifier) command(alert Alert) (string, []string, error) {
	switch d.goos {
	case "darwin":
		script := fmt.Sprintf(
			"display notification %q with title %q subtitle %q sound name \"default\"",
			alert.Body, alert.Title, alert.Subtitle,
		)
		return "osascript", []string{"-e", script}, nil
	case "linux":
		return "notify-send", []string{
			"--app-name", "usagewatch",
			alert.Title,
			alert.Subtitle + "\n" + alert.Body,
		}, nil
	case "windows":
		script := fmt.Sprintf(
			"New-BurntToastNotification -Text %q, %q", alert.Title, alert.Subtitle+" "+alert.Body,
		)
		return "powershell", []string{"-NoProfile", "-Command", script}, nil
	default:
		return "", nil, fmt.Errorf("no desktop notifier for %s", d.goos)
	}
}
