package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"

	apperrors "retailkpi/pkg/errors"
)

var (
	// Output receives all user-facing messages.
	Output io.Writer = os.Stdout

	// Check if output supports colors
	supportsColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// Color functions
	ColorSuccess  = colorFunc(ansi.Green)
	ColorError    = colorFunc(ansi.Red)
	ColorWarning  = colorFunc(ansi.Yellow)
	ColorInfo     = colorFunc(ansi.Cyan)
	ColorProgress = colorFunc(ansi.Blue)
	ColorBold     = colorFunc("default+b")
	ColorDim      = colorFunc("default+h")
)

// SetColor overrides terminal detection.
func SetColor(enabled bool) {
	supportsColor = enabled
}

// ColorEnabled reports whether messages are colored.
func ColorEnabled() bool {
	return supportsColor
}

// colorFunc returns a function that colors text if supported
func colorFunc(color string) func(string) string {
	return func(text string) string {
		if supportsColor {
			return ansi.Color(text, color)
		}
		return text
	}
}

// ShowHeader displays a formatted header
func ShowHeader(title string) {
	width := 50
	if len(title)+4 > width {
		width = len(title) + 4
	}
	padding := (width - len(title) - 2) / 2

	fmt.Fprintln(Output, "\n+"+strings.Repeat("-", width-2)+"+")
	fmt.Fprintf(Output, "|%s%s%s|\n",
		strings.Repeat(" ", padding),
		ColorBold(title),
		strings.Repeat(" ", width-2-padding-len(title)),
	)
	fmt.Fprintln(Output, "+"+strings.Repeat("-", width-2)+"+")
}

// ShowError displays a formatted error message. Application errors show
// their code, context and suggestions.
func ShowError(err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		fmt.Fprintf(Output, "\n%s %s\n", ColorError("ERROR:"), err.Error())
		return
	}

	fmt.Fprintf(Output, "\n%s %s %s\n", ColorError("ERROR:"), ColorDim("["+string(appErr.Code)+"]"), appErr.Message)
	if appErr.Cause != nil {
		for _, line := range strings.Split(rootCause(appErr.Cause), "\n") {
			fmt.Fprintf(Output, "  %s\n", ColorDim(line))
		}
	}
	for _, k := range sortedKeys(appErr.Context) {
		fmt.Fprintf(Output, "  %s %v\n", ColorDim(k+":"), appErr.Context[k])
	}
	for _, s := range appErr.Suggestions {
		fmt.Fprintf(Output, "\n  %s %s", ColorInfo("TIP:"), ColorInfo(s))
	}
	if len(appErr.Suggestions) > 0 {
		fmt.Fprintln(Output)
	}
}

// rootCause returns the message of the innermost error, skipping the
// formatting AppError adds to its own message.
func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	fmt.Fprintf(Output, "%s %s\n", ColorSuccess("SUCCESS:"), message)
}

// ShowWarning displays a warning message
func ShowWarning(message string) {
	fmt.Fprintf(Output, "%s %s\n", ColorWarning("WARNING:"), ColorWarning(message))
}

// ShowInfo displays an info message
func ShowInfo(message string) {
	fmt.Fprintf(Output, "%s %s\n", ColorInfo("INFO:"), message)
}

// FormatScore colors a similarity score against the match threshold.
func FormatScore(score, threshold float64) string {
	s := fmt.Sprintf("%.2f", score)
	switch {
	case score > threshold:
		return ColorSuccess(s)
	case score > threshold/2:
		return ColorWarning(s)
	default:
		return ColorError(s)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
