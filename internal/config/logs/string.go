package logs

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/atlanticdynamic/scriptsvc/internal/fancy"
)

// String returns a string representation of the log configuration
func (lc *Config) String() string {
	return fmt.Sprintf("Log Config: format=%s, level=%s, output=%s", lc.Format, lc.Level, lc.Output)
}

// ToTree returns a tree visualization of the log configuration
func (lc *Config) ToTree() *tree.Tree {
	t := fancy.BranchNode("Logging", "")
	t.Child(fmt.Sprintf("Format: %s", lc.Format))
	t.Child(fmt.Sprintf("Level: %s", lc.Level))
	t.Child(fmt.Sprintf("Output: %s", fancy.PathText(lc.Output)))
	return t
}
