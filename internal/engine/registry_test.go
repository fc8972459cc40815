package engine

import (
	"testing"

	"tiendazo/internal/models"
)

func TestRegistryReusesInstances(t *testing.T) {
	r := NewRegistry(Options{})

	a := r.Template(models.TemplateModern)
	b := r.Template(models.TemplateModern)
	if a != b {
		t.Error("expected the same Modern instance on repeated calls")
	}

	e := r.Template(models.TemplateElegant)
	if a == e {
		t.Error("Modern and Elegant should be different instances")
	}
	if e.Kind() != models.TemplateElegant {
		t.Errorf("Kind: got %q, want ELEGANT", e.Kind())
	}
}

func TestRegistryUnknownKindFallsBackToModern(t *testing.T) {
	r := NewRegistry(Options{})

	got := r.Template("BRUTALIST")
	if got.Kind() != models.TemplateModern {
		t.Errorf("Kind: got %q, want MODERN", got.Kind())
	}
	if got != r.Template(models.TemplateModern) {
		t.Error("fallback should share the Modern instance")
	}
	if r.Template("") != got {
		t.Error("empty kind should share the Modern instance")
	}
}

func TestRegistryAcceptsLowercaseKind(t *testing.T) {
	r := NewRegistry(Options{})

	if r.Template("minimalist") != r.Template(models.TemplateMinimalist) {
		t.Error("lowercase kind should resolve to the cached Minimalist instance")
	}
}

func TestRegistryAll(t *testing.T) {
	r := NewRegistry(Options{})

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("All: got %d strategies, want 3", len(all))
	}
	want := []models.TemplateKind{models.TemplateModern, models.TemplateMinimalist, models.TemplateElegant}
	for i, s := range all {
		if s.Kind() != want[i] {
			t.Errorf("All()[%d]: got %q, want %q", i, s.Kind(), want[i])
		}
		if s != r.Template(want[i]) {
			t.Errorf("All()[%d] should be the cached instance", i)
		}
		if s.Name() == "" || s.Description() == "" {
			t.Errorf("All()[%d] is missing a name or description", i)
		}
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry(Options{})

	before := r.Template(models.TemplateModern)
	r.Clear()
	after := r.Template(models.TemplateModern)

	if before == after {
		t.Error("expected a new instance after Clear")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(Options{})

	done := make(chan Strategy, 20)
	for i := 0; i < 20; i++ {
		go func() { done <- r.Template(models.TemplateElegant) }()
	}

	first := <-done
	for i := 1; i < 20; i++ {
		if s := <-done; s != first {
			t.Fatal("concurrent callers received different instances")
		}
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry(Options{})

	d := Describe(r.Template(models.TemplateMinimalist))
	if d.Kind != models.TemplateMinimalist || d.Name != "Minimalista" {
		t.Errorf("Describe: got %+v", d)
	}
}
