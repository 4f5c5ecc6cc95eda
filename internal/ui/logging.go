package ui

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

var exit = os.Exit

func SetDebugEnabled(enabled bool) {
	pterm.PrintDebugMessages = enabled
}

func Printf(format string, a ...interface{}) {
	pterm.Printf(format, a...)
}

func Printfln(format string, a ...interface{}) {
	pterm.Printfln(format, a...)
}

func Debug(format string, a ...interface{}) {
	pterm.Debug.Printfln(format, a...)
}

func Info(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

func Success(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

func Warning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// InfoAndNotify logs an info message and forwards it as a desktop notification
func InfoAndNotify(title, format string, a ...interface{}) {
	Info(format, a...)
	NotifyInfo(title, fmt.Sprintf(format, a...))
}

// WarningAndNotify logs a warning and forwards it as a desktop notification
func WarningAndNotify(title, format string, a ...interface{}) {
	Warning(format, a...)
	NotifyWarn(title, fmt.Sprintf(format, a...))
}

func Error(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// ErrorAndNotify logs an error and forwards it as a desktop notification
func ErrorAndNotify(title, format string, a ...interface{}) {
	Error(format, a...)
	NotifyError(title, fmt.Sprintf(format, a...))
}

func Fatal(format string, a ...interface{}) {
	pterm.Fatal.Printfln(format, a...)
}

// FatalWithoutStacktrace prints the message and exits with code 1
func FatalWithoutStacktrace(format string, a ...interface{}) {
	pterm.Fatal.WithFatal(false).Printfln(format, a...)
	exit(1)
}
