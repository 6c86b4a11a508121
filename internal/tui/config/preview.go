package config

import (
	"fmt"

	"github.com/Digital-Shane/reelshelf/internal/config"
)

type preview struct {
	icon    string
	label   string
	preview string
}

// sampleRange is the series used to preview range templates.
var sampleRange = []config.RangeContext{
	{Name: "Breaking Bad", Season: 1},
	{Name: "Breaking Bad", Season: 2},
}

func buildPreviews(section Section, state *ConfigState, icons map[string]string, resolver *config.TemplateResolver) []preview {
	switch section {
	case SectionLogging:
		status := "Disabled"
		if state.Logging.Enabled {
			status = "Enabled"
		}
		retention := state.Logging.Retention.Value()
		if retention == "" {
			retention = "Default"
		}
		return []preview{
			{icons["success"], "Logging", status},
			{icons["calendar"], "Retention", fmt.Sprintf("%s days", retention)},
			{icons["stats"], "Level", state.Logging.Level},
			{icons["history"], "Log Location", "~/.reelshelf/logs/"},
		}

	case SectionLibrary:
		path := state.Library.Path.Value()
		if path == "" {
			path = "~/.reelshelf/reelshelf.db"
		}
		if state.Library.Backend == config.BackendMemory {
			path = "in memory"
		}
		return []preview{
			{icons["season"], "Catalog", path},
			{icons["episode"], "New series", fmt.Sprintf("%s episodes", state.Library.Episodes.Value())},
			{icons["search"], "Preview", fmt.Sprintf("%s rows, cached %ss", state.Library.PreviewLimit.Value(), state.Library.CacheTTL.Value())},
		}
	}

	tmpl := state.Templates.For(section)
	if tmpl == nil {
		return nil
	}
	value := tmpl.Input.Value()
	if err := config.ValidateTemplate(value); err != nil {
		return []preview{{icons["warning"], "Invalid", err.Error()}}
	}

	previews := make([]preview, 0, len(sampleRange))
	for _, ctx := range sampleRange {
		previews = append(previews, preview{
			icon:    icons["season"],
			label:   fmt.Sprintf("Season %d", ctx.Season),
			preview: resolver.Resolve(value, ctx),
		})
	}
	return previews
}
