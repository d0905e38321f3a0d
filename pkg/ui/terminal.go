package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logo printed by the CLI on interactive runs
const Logo = `
 ┃ ┏━╸┏┓╻┏━┓╺┳┓╻
 ┃ ┣╸ ┃┗┫┗━┓ ┃┃┃
 ┗━╸┗━╸╹ ╹┗━┛╺┻┛┗━╸  lensdump downloader
`

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonRed     = lipgloss.Color("#FF3131")
	dimWhite    = lipgloss.Color("#B0B0B0")
)

var (
	mu      sync.RWMutex
	out     io.Writer = os.Stdout
	quiet   bool
	noColor bool

	renderer = lipgloss.NewRenderer(os.Stdout)

	cyanStyle    = renderer.NewStyle().Foreground(neonCyan)
	yellowStyle  = renderer.NewStyle().Foreground(neonYellow)
	redStyle     = renderer.NewStyle().Foreground(neonRed).Bold(true)
	greenStyle   = renderer.NewStyle().Foreground(neonGreen).Bold(true)
	magentaStyle = renderer.NewStyle().Foreground(neonMagenta).Bold(true)
	dimStyle     = renderer.NewStyle().Foreground(dimWhite).Faint(true)
)

// SetOutput redirects console output
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

func IsQuietMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// SetNoColor disables styling
func SetNoColor(n bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = n
}

func style(s lipgloss.Style) func(string) string {
	return func(text string) string {
		mu.RLock()
		plain := noColor
		mu.RUnlock()
		if plain {
			return text
		}
		return s.Render(text)
	}
}

// Color functions for terminal output
var (
	Cyan    = style(cyanStyle)
	Yellow  = style(yellowStyle)
	Red     = style(redStyle)
	Green   = style(greenStyle)
	Magenta = style(magentaStyle)
	Dim     = style(dimStyle)
)

func printf(force bool, format string, args ...interface{}) {
	mu.RLock()
	w, q := out, quiet
	mu.RUnlock()
	if q && !force {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// PrintLogo prints the logo
func PrintLogo() {
	printf(false, "%s\n", Cyan(Logo))
}

// PrintError prints an error message, optionally followed by a detail
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf("%s: %v", msg, args[0])
	}
	printf(true, "%s\n", Red(msg))
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	printf(false, "%s\n", Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	printf(false, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message, optionally followed by a detail
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf("%s: %v", msg, args[0])
	}
	printf(false, "%s\n", Yellow(msg))
}

// PrintHighlight prints a highlighted message
func PrintHighlight(msg string) {
	printf(false, "%s\n", Magenta(msg))
}
