package glauber

import "testing"

func TestTypeNames(t *testing.T) {
	names := TypeNames()
	if len(names) != 12 {
		t.Fatalf("expected 12 types, got %d", len(names))
	}
	if names[0] != "default" || names[11] != "highrw" {
		t.Errorf("unexpected order %v", names)
	}
	for _, name := range names {
		if !ValidType(name) {
			t.Errorf("%s should be valid", name)
		}
		if TypeDescription(name) == "" {
			t.Errorf("%s has no description", name)
		}
	}
}

func TestUnknownType(t *testing.T) {
	if ValidType("gray") {
		t.Errorf("gray should not be valid")
	}
	if d := TypeDescription("gray"); d != "" {
		t.Errorf("expected empty description, got %q", d)
	}
}
