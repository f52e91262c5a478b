package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/tgienger/tick/internal/ui/styles"
)

// helpBar renders bindings as a single line of "key desc" pairs
func helpBar(s *styles.Styles, bindings ...key.Binding) string {
	h := help.New()
	h.ShortSeparator = " • "
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.HelpDesc
	h.Styles.ShortSeparator = s.HelpDesc
	return s.Help.Render(h.ShortHelpView(bindings))
}

// helpLines renders one binding per line, keys aligned
func helpLines(s *styles.Styles, bindings ...key.Binding) []string {
	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, s.HelpKey.Render(fmt.Sprintf("%-6s", h.Key))+" "+s.HelpDesc.Render(h.Desc))
	}
	return lines
}

// relabel returns a copy of b with help text for one screen
func relabel(b key.Binding, keyLabel, desc string) key.Binding {
	b.SetHelp(keyLabel, desc)
	return b
}
