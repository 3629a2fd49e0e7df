package annotate

import (
	"sort"
	"strings"
)

// UnknownPart is returned for labels without a mapping.
const UnknownPart = "unknown"

var defaultPlantParts = map[string]string{
	"powdery_mildew": "leaf",
	"blight":         "leaf",
	"rust":           "stem",
}

// PlantParts maps disease labels to the part of the plant they affect.
// Lookups are case-insensitive. The zero value maps every label to UnknownPart.
type PlantParts struct {
	parts map[string]string
}

// DefaultPlantParts returns the built-in mapping.
func DefaultPlantParts() PlantParts {
	return NewPlantParts(nil)
}

// NewPlantParts returns the built-in mapping extended by extra.
// Entries in extra override built-in ones; keys are lowercased.
func NewPlantParts(extra map[string]string) PlantParts {
	parts := make(map[string]string, len(defaultPlantParts)+len(extra))
	for k, v := range defaultPlantParts {
		parts[k] = v
	}
	for k, v := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || v == "" {
			continue
		}
		parts[k] = v
	}
	return PlantParts{parts: parts}
}

// Lookup returns the plant part for label, or UnknownPart.
func (p PlantParts) Lookup(label string) string {
	if part, ok := p.parts[strings.ToLower(label)]; ok {
		return part
	}
	return UnknownPart
}

// Len returns the number of mapped labels.
func (p PlantParts) Len() int {
	return len(p.parts)
}

// Labels returns the mapped labels in lowercase, sorted.
func (p PlantParts) Labels() []string {
	labels := make([]string, 0, len(p.parts))
	for k := range p.parts {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}
