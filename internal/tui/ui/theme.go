package ui

import (
	"sort"

	tint "github.com/lrstanley/bubbletint"

	"github.com/xolan/punch/internal/config"
)

// ThemeProvider holds the bubbletint registry the TUI styles are built from
type ThemeProvider struct {
	registry *tint.Registry
}

// NewThemeProvider creates a ThemeProvider starting at initialTheme.
// An empty or unknown id falls back to config.DefaultTheme.
func NewThemeProvider(initialTheme string) *ThemeProvider {
	allTints := tint.DefaultTints()

	var fallback tint.Tint
	for _, t := range allTints {
		if t.ID() == config.DefaultTheme {
			fallback = t
			break
		}
	}
	if fallback == nil && len(allTints) > 0 {
		fallback = allTints[0]
	}

	registry := tint.NewRegistry(fallback, allTints...)
	if initialTheme != "" {
		registry.SetTintID(initialTheme)
	}

	return &ThemeProvider{registry: registry}
}

// SetTheme switches to the theme with the given id.
// Returns false when no such theme exists.
func (tp *ThemeProvider) SetTheme(id string) bool {
	return tp.registry.SetTintID(id)
}

// NextTheme cycles forward and returns the new theme id
func (tp *ThemeProvider) NextTheme() string {
	tp.registry.NextTint()
	return tp.registry.ID()
}

// PreviousTheme cycles backward and returns the new theme id
func (tp *ThemeProvider) PreviousTheme() string {
	tp.registry.PreviousTint()
	return tp.registry.ID()
}

// CurrentName returns the id of the current theme
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// AvailableThemes returns every theme id, sorted
func (tp *ThemeProvider) AvailableThemes() []string {
	ids := tp.registry.TintIDs()
	sort.Strings(ids)
	return ids
}

// Styles builds the styles for the current theme
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
