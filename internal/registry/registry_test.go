package registry

import "testing"

func TestAddModuleIsIdempotentForSameSource(t *testing.T) {
	r := New(".", nil)
	m1, err := r.AddModule([]string{"A", "B"}, "a/b.src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := r.AddModule([]string{"A", "B"}, "a/b.src")
	if err != nil {
		t.Fatalf("unexpected error on re-registration from the same source: %v", err)
	}
	if m1 != m2 {
		t.Error("expected the same Module record back for an identical source")
	}
}

func TestAddModuleCollisionFromDifferentSource(t *testing.T) {
	r := New(".", nil)
	if _, err := r.AddModule([]string{"A", "B"}, "first.src"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := r.AddModule([]string{"A", "B"}, "second.src")
	if err == nil {
		t.Fatal("expected a name-collision error for a second distinct source")
	}
}

func TestQualifiedNameAndImportPath(t *testing.T) {
	r := New(".", nil)
	m, _ := r.AddModule([]string{"Hello", "World"}, "x.src")
	if got, want := m.QualifiedName(), "Hello.World"; got != want {
		t.Errorf("QualifiedName() = %q, want %q", got, want)
	}
	if got, want := m.ImportPath(), "hello/world"; got != want {
		t.Errorf("ImportPath() = %q, want %q", got, want)
	}
}

func TestAddAliasAgainstUnregisteredModuleIsSilentlyIgnored(t *testing.T) {
	r := New(".", nil)
	r.AddAlias("Unregistered", "X", "A.X") // must not panic

	if _, ok := r.GetModule("Unregistered"); ok {
		t.Error("AddAlias must not implicitly register a module")
	}
}

func TestAddAliasReplacesExistingBinding(t *testing.T) {
	r := New(".", nil)
	r.AddModule([]string{"M"}, "m.src")
	r.AddAlias("M", "X", "A.X")
	r.AddAlias("M", "X", "B.X")

	m, _ := r.GetModule("M")
	if len(m.Aliases) != 1 {
		t.Fatalf("expected exactly one alias binding for X, got %d", len(m.Aliases))
	}
	if m.Aliases[0].CanonicalName != "B.X" {
		t.Errorf("re-aliasing X = %q, want replacement to B.X", m.Aliases[0].CanonicalName)
	}
}

func TestAddProtocolImplCreatesRecordWithNullSpec(t *testing.T) {
	r := New(".", nil)
	r.AddProtocolImpl("Showable", "Integer", nil)

	p, ok := r.GetProtocol("Showable")
	if !ok {
		t.Fatal("expected AddProtocolImpl to create a protocol record")
	}
	if p.Spec != nil {
		t.Error("expected a null spec for a protocol never seen via defprotocol")
	}
	if _, ok := p.Impls["Integer"]; !ok {
		t.Error("expected the Integer implementation to be recorded")
	}
}

func TestAddProtocolThenImplReusesRecord(t *testing.T) {
	r := New(".", nil)
	r.AddProtocol("Showable", nil)
	r.AddProtocolImpl("Showable", "Integer", nil)

	p, _ := r.GetProtocol("Showable")
	if len(p.Impls) != 1 {
		t.Errorf("expected one impl recorded, got %d", len(p.Impls))
	}
}

func TestModuleOrderReflectsRegistrationOrder(t *testing.T) {
	r := New(".", nil)
	r.AddModule([]string{"C"}, "c.src")
	r.AddModule([]string{"A"}, "a.src")
	r.AddModule([]string{"B"}, "b.src")

	order := r.ModuleOrder()
	want := []string{"C", "A", "B"}
	if len(order) != len(want) {
		t.Fatalf("ModuleOrder() = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("ModuleOrder()[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestDeleteModuleRemovesFromOrderAndLookup(t *testing.T) {
	r := New(".", nil)
	r.AddModule([]string{"A"}, "a.src")
	r.AddModule([]string{"B"}, "b.src")

	r.DeleteModule([]string{"A"})

	if r.ModuleListed("A") {
		t.Error("expected A to be removed from the Registry")
	}
	order := r.ModuleOrder()
	if len(order) != 1 || order[0] != "B" {
		t.Errorf("ModuleOrder() after delete = %v, want [B]", order)
	}
}

func TestStoppedRegistryRejectsAddModule(t *testing.T) {
	r := New(".", nil)
	r.Stop()

	_, err := r.AddModule([]string{"A"}, "a.src")
	if err == nil {
		t.Fatal("expected an error adding a module to a stopped registry")
	}
}
