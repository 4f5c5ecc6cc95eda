package ui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Icon names follow the freedesktop icon naming spec:
// https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogInfo  = "dialog-information"
	IconDialogWarn  = "dialog-warning"

	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"

	appName = "eggbot"
)

var command = exec.Command

func NotifyInfo(title, text string) {
	NotifySend(UrgencyLow, title, text, IconDialogInfo)
}

func NotifyWarn(title, text string) {
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// NotifySend shows a desktop notification to the user owning the current
// X display. The daemon usually runs as root, so notify-send is invoked
// on behalf of that user and its session bus.
func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Cannot send notification, missing env variable 'DISPLAY'")
		return
	}

	user, uid, err := sessionUser(display)
	if err != nil {
		Warning("Cannot send notification: %v", err)
		return
	}

	err = command("sudo", notifySendArgs(user, uid, display, urgency, title, text, icon)...).Run()
	if err != nil {
		Error("Error sending notification: %v", err)
	}
}

func sessionUser(display string) (user string, uid string, err error) {
	output, err := command("who").Output()
	if err != nil {
		return "", "", fmt.Errorf("unable to list login sessions: %w", err)
	}
	user = findDisplayUser(string(output), display)
	if len(user) <= 0 {
		return "", "", errors.New("unable to detect user of display " + display)
	}

	output, err = command("id", "-u", user).Output()
	uid = strings.TrimSpace(string(output))
	if len(uid) <= 0 {
		return "", "", fmt.Errorf("unable to detect user id of %s: %v", user, err)
	}
	return user, uid, nil
}

// findDisplayUser returns the user of the `who` line whose host column
// is the given display, e.g. "alice tty7 2026-10-19 08:00 (:0)".
func findDisplayUser(who string, display string) string {
	for _, line := range strings.Split(who, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[len(fields)-1] == "("+display+")" {
			return fields[0]
		}
	}
	return ""
}

func notifySendArgs(user, uid, display, urgency, title, text, icon string) []string {
	return []string{
		"-u", user,
		"DISPLAY=" + display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/" + uid + "/bus",
		"notify-send",
		"-a", appName,
		"-u", urgency,
		"-i", icon,
		title, text,
	}
}
