package eqareport

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnLabel    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// printSuccess writes a green "ok" line.
func printSuccess(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", successLabel("ok"), fmt.Sprintf(format, args...))
}

// printWarn writes a yellow "warn" line.
func printWarn(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", warnLabel("warn"), fmt.Sprintf(format, args...))
}
