package config

import (
	"github.com/Digital-Shane/reelshelf/internal/config"
)

type variable struct {
	name        string
	description string
	example     string
}

func buildVariables(section Section) []variable {
	switch section {
	case SectionLogging:
		return []variable{
			{"Space/Enter", "Toggle logging or cycle the level", ""},
			{"↑/↓ arrows", "Move between fields", ""},
			{"Retention", "Auto-cleanup old session logs", "Days to keep log files"},
		}
	case SectionLibrary:
		return []variable{
			{"Space/Enter", "Switch between sqlite and memory", ""},
			{"↑/↓ arrows", "Move between fields", ""},
			{"Default Episodes", "Used when the add form count is blank", "10"},
			{"Preview Rows", "Episodes listed in the add preview", "5"},
		}
	}

	vars := make([]variable, 0, len(config.RangeVariables))
	for _, v := range config.RangeVariables {
		vars = append(vars, variable{name: "{" + v.Name + "}", description: v.Description, example: v.Example})
	}
	return vars
}
