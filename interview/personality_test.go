package interview

import (
	"strings"
	"testing"
)

// The topic callback must quote what the player said on an earlier turn; the
// memory store has already been overwritten with the current answer by the
// time the pipeline asks for a reference.
func TestTopicMemoryReferenceQuotesEarlierStatement(t *testing.T) {
	ps := testPersonality(3)
	at := frozenClock()()

	first := NewResponse("q1", "we fully funded the flood defense program last year", ToneConfident, at)
	first.Topic = "climate"
	ps.ProcessResponse(first)

	// Nothing earlier to recall on the topic yet.
	for i := 0; i < 50; i++ {
		if msg := ps.TopicMemoryReference("climate"); msg != "" {
			t.Fatalf("reference with no earlier statement: %q", msg)
		}
	}

	second := NewResponse("q2", "people raise the flooding with me all the time and I hear them", ToneDefensive, at)
	second.Topic = "climate"
	ps.ProcessResponse(second)

	var msg string
	for i := 0; i < 100 && msg == ""; i++ {
		msg = ps.TopicMemoryReference("climate")
	}
	if msg == "" {
		t.Fatal("reference never produced")
	}
	if !strings.Contains(msg, first.Text) {
		t.Fatalf("reference does not quote the earlier statement: %q", msg)
	}
	if strings.Contains(msg, second.Text) {
		t.Fatalf("reference quotes the answer just given: %q", msg)
	}

	if off := ps.TopicMemoryReference("economy"); off != "" {
		t.Fatalf("reference for an off-turn topic: %q", off)
	}
}
