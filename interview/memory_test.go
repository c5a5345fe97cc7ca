package interview

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func evasiveOn(topic string, wc int, at time.Time) PlayerResponse {
	r := NewResponse("q", nwords(wc), ToneEvasive, at)
	r.Topic = topic
	return r
}

func TestStatementOverwriteAndContradictionLog(t *testing.T) {
	m := NewMemoryStore()
	at := frozenClock()()

	first := NewResponse("q1", "we will never cut the health budget under my watch", ToneConfident, at)
	first.Topic = "health"
	m.Record(first, 1)

	stmt, ok := m.Statement("health")
	if !ok || stmt != first.Text {
		t.Fatalf("statement = %q, %v", stmt, ok)
	}

	second := NewResponse("q2", "some reduction in the health budget is simply unavoidable", ToneDefensive, at)
	second.Topic = "health"
	second.ContradictsPrevious = true
	m.Record(second, 2)

	stmt, _ = m.Statement("health")
	if stmt != second.Text {
		t.Fatalf("statement not overwritten: %q", stmt)
	}

	c, ok := m.ContradictionFor("health")
	if !ok {
		t.Fatal("contradiction not logged")
	}
	if c.Prior != first.Text || c.Current != second.Text || c.Turn != 2 {
		t.Fatalf("contradiction = %+v", c)
	}
}

func TestEvasionRingEviction(t *testing.T) {
	m := NewMemoryStore()
	at := frozenClock()()
	for i := 0; i < 7; i++ {
		topic := "later"
		if i == 0 {
			topic = "first"
		}
		m.Record(evasiveOn(topic, 3, at), i+1)
	}
	if got := m.Stats().Evasions; got != momentBufferSize {
		t.Fatalf("evasions retained = %d, want %d", got, momentBufferSize)
	}
	if m.EvasionCountFor("first") != 0 {
		t.Fatal("oldest evasion not evicted")
	}
}

func TestGenerateReferencePrefersStoredStatement(t *testing.T) {
	m := NewMemoryStore()
	rng := rand.New(rand.NewSource(1))
	at := frozenClock()()

	prior := NewResponse("q1", "the tax plan is fully funded and independently audited", ToneConfident, at)
	prior.Topic = "tax"
	m.Record(prior, 1)

	current := NewResponse("q2", "well the funding situation is complicated", ToneDefensive, at)
	current.Topic = "tax"

	ref := m.GenerateReference(current, rng)
	if !strings.Contains(ref, "fully funded") {
		t.Fatalf("reference does not quote the prior statement: %q", ref)
	}
}

func TestGenerateReferenceFallsBackToContradiction(t *testing.T) {
	m := NewMemoryStore()
	rng := rand.New(rand.NewSource(1))
	at := frozenClock()()

	first := NewResponse("q1", "I have always supported the pipeline without reservation", ToneConfident, at)
	first.Topic = "energy"
	m.Record(first, 1)

	second := NewResponse("q2", "I have consistently opposed the pipeline from day one", ToneConfident, at)
	second.Topic = "energy"
	second.ContradictsPrevious = true
	m.Record(second, 2)

	// Same text as the stored statement: the quote branch must step aside and
	// the logged contradiction gets quoted instead.
	ref := m.GenerateReference(second, rng)
	if !strings.Contains(ref, "always supported") || !strings.Contains(ref, "consistently opposed") {
		t.Fatalf("reference = %q", ref)
	}
}

func TestGenerateReferenceEvasionPattern(t *testing.T) {
	m := NewMemoryStore()
	rng := rand.New(rand.NewSource(1))
	at := frozenClock()()

	// Short evasions: nothing quotable is stored, only the dodges.
	m.Record(evasiveOn("donors", 3, at), 1)
	m.Record(evasiveOn("donors", 3, at), 2)

	ref := m.GenerateReference(evasiveOn("donors", 3, at), rng)
	if !strings.Contains(ref, "donors") {
		t.Fatalf("reference = %q, want the topic named", ref)
	}
}

func TestGenerateReferenceEmptyStore(t *testing.T) {
	m := NewMemoryStore()
	rng := rand.New(rand.NewSource(1))
	if ref := m.GenerateReference(NewResponse("q", nwords(10), ToneConfident, time.Now()), rng); ref != "" {
		t.Fatalf("reference from empty store = %q", ref)
	}
}

func TestMemoryStats(t *testing.T) {
	m := NewMemoryStore()
	at := frozenClock()()

	strong := NewResponse("q1", nwords(30), ToneConfident, at)
	strong.Topic = "record"
	m.Record(strong, 1)

	m.Record(evasiveOn("record", 3, at), 2)

	stats := m.Stats()
	if stats.TopicsTracked != 1 || stats.Quotes != 1 || stats.StrongMoments != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Evasions != 1 || stats.WeakMoments != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if m.problemCount() != 2 {
		t.Fatalf("problem count = %d, want 2", m.problemCount())
	}
}
