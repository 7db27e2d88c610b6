package plan

import "strings"

// Repair forces value into full conformance with schema and returns it. The
// input map is modified in place. Total: it never fails, whatever shape the
// input arrived in, including nil.
//
// Top-level sections that are absent, or not an object where the schema
// declares one, are replaced with the corresponding section of one artifact
// produced by fallback. After that, every list-typed path that does not hold
// an actual list is reset to an empty list; malformed list data is
// discarded, not coerced.
func Repair(value map[string]any, schema Schema, fallback func() map[string]any) map[string]any {
	if value == nil {
		value = map[string]any{}
	}

	var donor map[string]any
	sectionFrom := func(name string) any {
		if donor == nil {
			donor = fallback()
		}
		return donor[name]
	}

	for _, section := range schema.Sections {
		current, present := value[section.Name]
		if !present {
			value[section.Name] = sectionFrom(section.Name)
			continue
		}
		if section.Kind == KindObject {
			if _, ok := current.(map[string]any); !ok {
				value[section.Name] = sectionFrom(section.Name)
			}
		}
	}

	// List shape is enforced after section replacement so donor content is
	// normalized the same way as model content.
	for _, path := range schema.ListPaths() {
		ensureList(value, strings.Split(path, "."))
	}

	return value
}

func ensureList(value map[string]any, path []string) {
	node := value
	for i := 0; i < len(path)-1; i++ {
		next, ok := node[path[i]].(map[string]any)
		if !ok {
			return
		}
		node = next
	}

	leaf := path[len(path)-1]
	if _, ok := node[leaf].([]any); !ok {
		node[leaf] = []any{}
	}
}
