package annotate

import "testing"

func TestPlantParts_Lookup(t *testing.T) {
	parts := DefaultPlantParts()

	tests := []struct {
		label string
		want  string
	}{
		{"powdery_mildew", "leaf"},
		{"blight", "leaf"},
		{"Blight", "leaf"},
		{"RUST", "stem"},
		{"unknown_disease", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		if got := parts.Lookup(tt.label); got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestNewPlantParts_Extends(t *testing.T) {
	parts := NewPlantParts(map[string]string{
		"Leaf_Mold": "leaf",
		"rust":      "leaf",
		"  ":        "stem",
	})

	if got := parts.Lookup("leaf_mold"); got != "leaf" {
		t.Errorf("expected configured label to map to leaf, got %q", got)
	}
	if got := parts.Lookup("rust"); got != "leaf" {
		t.Errorf("configured entries should override defaults, got %q", got)
	}
	if parts.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", parts.Len())
	}
}

func TestPlantParts_ZeroValue(t *testing.T) {
	var parts PlantParts

	if got := parts.Lookup("blight"); got != UnknownPart {
		t.Errorf("zero value should map everything to unknown, got %q", got)
	}
}

func TestPlantParts_Labels(t *testing.T) {
	parts := NewPlantParts(map[string]string{"Leaf_Mold": "leaf"})

	got := parts.Labels()
	want := []string{"blight", "leaf_mold", "powdery_mildew", "rust"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if labels := (PlantParts{}).Labels(); len(labels) != 0 {
		t.Errorf("zero value should have no labels, got %v", labels)
	}
}
