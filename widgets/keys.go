package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-notefall/theme"
)

// RenderSwatch renders a single colored block
func RenderSwatch(color theme.RGB) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex()))
	return style.Render("■")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color theme.RGB, name, desc string) string {
	if desc == "" {
		return fmt.Sprintf("  %s %s", RenderSwatch(color), name)
	}
	return fmt.Sprintf("  %s %s - %s", RenderSwatch(color), name, desc)
}

// RenderTrackLegend renders one legend line per track, in track colors
func RenderTrackLegend(th *theme.Theme, names []string, counts []int) string {
	var lines []string
	for i, name := range names {
		desc := ""
		if i < len(counts) {
			desc = fmt.Sprintf("%d notes", counts[i])
		}
		lines = append(lines, RenderLegendItem(th.TrackRGB(i, len(names)), name, desc))
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyLine formats key bindings on one line: "space:play  q:quit"
func RenderKeyLine(keys []KeyBinding) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.Key + ":" + k.Desc
	}
	return strings.Join(parts, "  ")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
