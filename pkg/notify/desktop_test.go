package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopNotifier_CommandDarwin(t *testing.T) {
	n := &DesktopNotifier{goos: "darwin"}
	alert := NewThresholdAlert("five_hour", 75, 80)

	name, args, err := n.command(alert)
	require.NoError(t, err)
	assert.Equal(t, "osascript", name)
	require.Len(t, args, 2)
	assert.Equal(t, "-e", args[0])
	assert.Contains(t, args[1], "display notification")
	assert.Contains(t, args[1], "Claude Usage Alert")
	assert.Contains(t, args[1], "Usage reached 80%")
}

func TestDesktopNotifier_CommandLinux(t *testing.T) {
	n := &DesktopNotifier{goos: "linux"}
	alert := NewThresholdAlert("seven_day", 25, 30)

	name, args, err := n.command(alert)
	require.NoError(t, err)
	assert.Equal(t, "notify-send", name)
	assert.Contains(t, args, "Claude Usage Alert")
}

func TestDesktopNotifier_CommandWindows(t *testing.T) {
	n := &DesktopNotifier{goos: "windows"}
	alert := NewThresholdAlert("five_hour", 90, 95)

	name, args, err := n.command(alert)
	require.NoError(t, err)
	assert.Equal(t, "powershell", name)
	assert.Contains(t, args[len(args)-1], "Claude Usage Alert")
}

func TestDesktopNotifier_UnsupportedOS(t *testing.T) {
	n := &DesktopNotifier{goos: "plan9"}
	_, _, err := n.command(NewThresholdAlert("five_hour", 25, 30))
	assert.Error(t, err)
}
