package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// Styles holds the lipgloss styles for output formatting.
type Styles struct {
	Source    lipgloss.Style
	Offset    lipgloss.Style
	Separator lipgloss.Style
	Pass      lipgloss.Style
	Fail      lipgloss.Style
}

// NewStyles creates the default color styles.
func NewStyles() Styles {
	return Styles{
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("5")), // magenta
		Offset:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		Pass:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Fail:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// IsTerminal checks if the given file descriptor is a terminal using ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal returns true if stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}
