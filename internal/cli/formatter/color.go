package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// LeadStatusPill returns a colored marketplace status such as "● For sale".
func LeadStatusPill(status domain.LeadStatus) string {
	switch status {
	case domain.LeadAvailable:
		return StyleGreen.Render("● For sale")
	case domain.LeadPurchased:
		return StyleBlue.Render("◆ Purchased")
	case domain.LeadArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

func PackageStatusPill(status domain.PackageStatus) string {
	switch status {
	case domain.PackageStatusActive:
		return StyleGreen.Render("● Active")
	case domain.PackageStatusInactive:
		return StyleDim.Render("○ Inactive")
	default:
		return StyleDim.Render(string(status))
	}
}

func DraftStatusPill(status domain.DraftStatus) string {
	switch status {
	case domain.DraftOpen:
		return StyleYellow.Render("✎ Draft")
	case domain.DraftFinalized:
		return StyleGreen.Render("✔ Finalized")
	default:
		return StyleDim.Render(string(status))
	}
}

// TypeBadge renders a package or activity type in purple, e.g. "Land package".
func TypeBadge(t string) string {
	if t == "" {
		return StyleDim.Render("--")
	}
	label := strings.ToLower(strings.ReplaceAll(t, "_", " "))
	return StylePurple.Render(strings.ToUpper(label[:1]) + label[1:])
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
