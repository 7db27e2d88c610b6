package plan

// Kind tags the shape a schema field requires.
type Kind int

const (
	KindString Kind = iota
	KindList
	KindObject
)

// Field describes one named slot of the brief shape. Object fields carry
// their nested fields; list fields hold plain strings.
type Field struct {
	Name   string
	Kind   Kind
	Fields []Field
}

// Schema is the required shape of a generated brief, walked generically by
// repair and fallback synthesis.
type Schema struct {
	Sections []Field
}

// campaignSchema is the single source of truth for what a complete brief
// contains. Declared once; never derived from input.
var campaignSchema = Schema{
	Sections: []Field{
		{Name: "campaignSummary", Kind: KindObject, Fields: []Field{
			{Name: "overview", Kind: KindString},
			{Name: "objectives", Kind: KindList},
			{Name: "targetAudience", Kind: KindString},
		}},
		{Name: "strategy", Kind: KindObject, Fields: []Field{
			{Name: "positioning", Kind: KindString},
			{Name: "channels", Kind: KindList},
			{Name: "keyMessages", Kind: KindList},
		}},
		{Name: "contentPlan", Kind: KindObject, Fields: []Field{
			{Name: "themes", Kind: KindList},
			{Name: "formats", Kind: KindList},
			{Name: "cadence", Kind: KindString},
		}},
		{Name: "timeline", Kind: KindObject, Fields: []Field{
			{Name: "phases", Kind: KindList},
			{Name: "launchWindow", Kind: KindString},
		}},
		{Name: "budget", Kind: KindObject, Fields: []Field{
			{Name: "breakdown", Kind: KindList},
			{Name: "estimatedTotal", Kind: KindString},
		}},
		{Name: "kpis", Kind: KindObject, Fields: []Field{
			{Name: "primary", Kind: KindList},
			{Name: "successDefinition", Kind: KindString},
		}},
		{Name: "nextSteps", Kind: KindList},
	},
}

// CampaignSchema returns the brief shape.
func CampaignSchema() Schema {
	return campaignSchema
}

// SectionNames lists the top-level sections in declaration order.
func (s Schema) SectionNames() []string {
	names := make([]string, 0, len(s.Sections))
	for _, f := range s.Sections {
		names = append(names, f.Name)
	}
	return names
}

// ListPaths enumerates every list-typed field as a dotted path, e.g.
// "strategy.channels". Top-level lists appear under their bare name.
func (s Schema) ListPaths() []string {
	var paths []string
	for _, f := range s.Sections {
		collectListPaths(f, "", &paths)
	}
	return paths
}

func collectListPaths(f Field, prefix string, out *[]string) {
	path := f.Name
	if prefix != "" {
		path = prefix + "." + f.Name
	}

	switch f.Kind {
	case KindList:
		*out = append(*out, path)
	case KindObject:
		for _, child := range f.Fields {
			collectListPaths(child, path, out)
		}
	}
}
