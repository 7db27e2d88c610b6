package command

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sandevgo/briefbot/internal/plan"
)

type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("⚙️️ **%s**\n\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func (f *ResponseFormatter) Warning(message string) string {
	return fmt.Sprintf("⚠️ **%s**\n", message)
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) Usage(command string) string {
	return fmt.Sprintf("**Usage**:\n```%s```\n", command)
}

func (f *ResponseFormatter) Examples(examples []string) string {
	var sb strings.Builder
	sb.WriteString("**Examples**:\n")
	for _, ex := range examples {
		sb.WriteString(fmt.Sprintf("`%s`\n", ex))
	}
	return sb.String()
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("› %s\n", item))
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}

// renderBrief prints the artifact in schema order as chat-friendly markdown.
// Sections the artifact happens to miss are skipped rather than rendered
// empty; the generation pipeline guarantees completeness anyway.
func renderBrief(artifact map[string]any) string {
	var sb strings.Builder
	for _, section := range plan.CampaignSchema().Sections {
		value, ok := artifact[section.Name]
		if !ok {
			continue
		}

		fmt.Fprintf(&sb, "**%s**\n", humanize(section.Name))
		switch section.Kind {
		case plan.KindObject:
			fields, _ := value.(map[string]any)
			for _, field := range section.Fields {
				writeBriefField(&sb, field, fields[field.Name])
			}
		case plan.KindList:
			writeBriefItems(&sb, value)
		case plan.KindString:
			if s, _ := value.(string); s != "" {
				sb.WriteString(s + "\n")
			}
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeBriefField(sb *strings.Builder, field plan.Field, value any) {
	switch field.Kind {
	case plan.KindString:
		if s, _ := value.(string); s != "" {
			fmt.Fprintf(sb, "_%s_: %s\n", humanize(field.Name), s)
		}
	case plan.KindList:
		items, _ := value.([]any)
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(sb, "_%s_:\n", humanize(field.Name))
		writeBriefItems(sb, value)
	}
}

func writeBriefItems(sb *strings.Builder, value any) {
	items, _ := value.([]any)
	for _, item := range items {
		fmt.Fprintf(sb, "› %v\n", item)
	}
}

var irregularTitles = map[string]string{
	"kpis": "KPIs",
}

// humanize turns a camelCase name into a title: "targetAudience" becomes
// "Target Audience".
func humanize(name string) string {
	if title, ok := irregularTitles[name]; ok {
		return title
	}

	var sb strings.Builder
	for i, r := range name {
		if i == 0 {
			sb.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
