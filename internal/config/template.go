package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// RangeContext holds the values available to range naming templates.
type RangeContext struct {
	Name   string
	Season int
}

// TemplateVariable documents one variable usable in naming templates.
type TemplateVariable struct {
	Name        string
	Description string
	Example     string
}

// RangeVariables lists the variables understood by range naming templates.
var RangeVariables = []TemplateVariable{
	{Name: "name", Description: "Series name", Example: "Breaking Bad"},
	{Name: "season", Description: "Season number", Example: "2"},
	{Name: "season:02d", Description: "Season number padded to two digits", Example: "02"},
}

var resolver = NewTemplateResolver()

// TemplateResolver handles template variable resolution
type TemplateResolver struct {
	variablePattern *regexp.Regexp
	spacePattern    *regexp.Regexp
}

// NewTemplateResolver creates a new template resolver
func NewTemplateResolver() *TemplateResolver {
	return &TemplateResolver{
		variablePattern: regexp.MustCompile(`\{([^}]+)\}`),
		spacePattern:    regexp.MustCompile(`\s+`),
	}
}

// Resolve replaces every variable in template. Unknown variables resolve to
// an empty string and the result is whitespace-normalized.
func (r *TemplateResolver) Resolve(template string, ctx RangeContext) string {
	result := r.variablePattern.ReplaceAllStringFunc(template, func(placeholder string) string {
		return r.resolveVariable(placeholder[1:len(placeholder)-1], ctx)
	})
	return strings.TrimSpace(r.spacePattern.ReplaceAllString(result, " "))
}

func (r *TemplateResolver) resolveVariable(varName string, ctx RangeContext) string {
	switch varName {
	case "name":
		return ctx.Name
	case "season":
		return strconv.Itoa(ctx.Season)
	case "season:02d":
		return fmt.Sprintf("%02d", ctx.Season)
	default:
		return ""
	}
}

// Variables returns the names found in template, in order of appearance.
func (r *TemplateResolver) Variables(template string) []string {
	var names []string
	for _, m := range r.variablePattern.FindAllStringSubmatch(template, -1) {
		names = append(names, m[1])
	}
	return names
}

// ValidateTemplate rejects templates that reference unknown variables.
func ValidateTemplate(template string) error {
	for _, name := range resolver.Variables(template) {
		known := lo.ContainsBy(RangeVariables, func(v TemplateVariable) bool { return v.Name == name })
		if !known {
			return fmt.Errorf("unknown template variable {%s}", name)
		}
	}
	return nil
}
