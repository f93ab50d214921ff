package synth

import "testing"

func TestIDGenerator_SequentialPerType(t *testing.T) {
	g := NewIDGenerator(NewRNG(42))

	if id := g.Sequential("Patient"); id != "Patient-1" {
		t.Errorf("expected Patient-1, got %s", id)
	}
	if id := g.Sequential("Patient"); id != "Patient-2" {
		t.Errorf("expected Patient-2, got %s", id)
	}
	// Counters are independent per type.
	if id := g.Sequential("Encounter"); id != "Encounter-1" {
		t.Errorf("expected Encounter-1, got %s", id)
	}
	if id := g.Sequential("Patient"); id != "Patient-3" {
		t.Errorf("expected Patient-3, got %s", id)
	}
}

func TestIDGenerator_NamespacedCountsIndependently(t *testing.T) {
	g := NewIDGenerator(NewRNG(42))

	if id := g.Namespaced("Patient", "baylor"); id != "baylor-Patient-1" {
		t.Errorf("expected baylor-Patient-1, got %s", id)
	}
	if id := g.Namespaced("Patient", "sutter"); id != "sutter-Patient-1" {
		t.Errorf("expected sutter-Patient-1, got %s", id)
	}
	if id := g.Namespaced("Patient", "baylor"); id != "baylor-Patient-2" {
		t.Errorf("expected baylor-Patient-2, got %s", id)
	}
	// Namespaced counters do not touch the plain sequential counter.
	if id := g.Sequential("Patient"); id != "Patient-1" {
		t.Errorf("expected Patient-1, got %s", id)
	}
}

func TestIDGenerator_NoSharedState(t *testing.T) {
	a := NewIDGenerator(NewRNG(1))
	b := NewIDGenerator(NewRNG(1))
	a.Sequential("Patient")
	a.Sequential("Patient")
	if id := b.Sequential("Patient"); id != "Patient-1" {
		t.Errorf("generators share state: got %s", id)
	}
}

func TestIDGenerator_UUIDDeterministic(t *testing.T) {
	a := NewIDGenerator(NewRNG(42))
	b := NewIDGenerator(NewRNG(42))
	for i := 0; i < 10; i++ {
		ua, ub := a.UUID(), b.UUID()
		if ua != ub {
			t.Fatalf("uuid streams diverged at %d: %s vs %s", i, ua, ub)
		}
		if len(ua) != 36 {
			t.Fatalf("unexpected uuid shape: %s", ua)
		}
	}
}
