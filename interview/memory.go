package interview

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	quoteBufferSize  = 10
	momentBufferSize = 5

	// Statements shorter than this are not worth remembering.
	minStatementWords = 5

	quoteDisplayChars = 90
)

// Quote is a memorable line the interviewer may replay later.
type Quote struct {
	Topic string
	Text  string
	Tone  Tone
	Turn  int
}

// EvasionNote logs one dodged question.
type EvasionNote struct {
	Topic string
	Turn  int
	At    time.Time
}

// MomentNote tags an unusually strong or weak answer.
type MomentNote struct {
	Topic string
	Text  string
	Turn  int
}

// Contradiction pairs a new statement with the prior statement it undercuts.
type Contradiction struct {
	Topic   string
	Prior   string
	Current string
	Turn    int
}

// MemoryStore is the interviewer's per-interview recollection. Pure data
// plus accessors; PersonalityState is its only writer.
type MemoryStore struct {
	statements map[string]string // topic -> latest statement
	quotes     []Quote           // ring, newest evicts oldest beyond cap
	evasions   []EvasionNote     // ring
	strong     []MomentNote      // ring
	weak       []MomentNote      // ring
	contras    []Contradiction   // unbounded append log
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statements: make(map[string]string),
	}
}

// Record folds one response into memory. Called exactly once per turn.
func (m *MemoryStore) Record(r PlayerResponse, turn int) {
	if r.Topic != "" && r.WordCount >= minStatementWords {
		prior := m.statements[r.Topic]
		m.statements[r.Topic] = r.Text

		if r.ContradictsPrevious && prior != "" {
			m.contras = append(m.contras, Contradiction{
				Topic:   r.Topic,
				Prior:   prior,
				Current: r.Text,
				Turn:    turn,
			})
		}
	} else if r.ContradictsPrevious && r.Topic != "" {
		if prior, ok := m.statements[r.Topic]; ok {
			m.contras = append(m.contras, Contradiction{
				Topic:   r.Topic,
				Prior:   prior,
				Current: r.Text,
				Turn:    turn,
			})
		}
	}

	if (r.Tone == ToneConfident || r.Tone == ToneConfrontational) && r.isSubstantial() {
		m.quotes = appendRing(m.quotes, Quote{Topic: r.Topic, Text: r.Text, Tone: r.Tone, Turn: turn}, quoteBufferSize)
	}

	if r.Tone == ToneEvasive {
		m.evasions = appendRing(m.evasions, EvasionNote{Topic: r.Topic, Turn: turn, At: r.Timestamp}, momentBufferSize)
	}

	switch {
	case r.WordCount >= 25 && (r.Tone == ToneConfident || r.Tone == ToneDiplomatic):
		m.strong = appendRing(m.strong, MomentNote{Topic: r.Topic, Text: r.Text, Turn: turn}, momentBufferSize)
	case r.WordCount < shortResponseWords || r.Tone == ToneEvasive:
		m.weak = appendRing(m.weak, MomentNote{Topic: r.Topic, Text: r.Text, Turn: turn}, momentBufferSize)
	}
}

func appendRing[T any](buf []T, v T, limit int) []T {
	buf = append(buf, v)
	if len(buf) > limit {
		buf = buf[1:]
	}
	return buf
}

// Statement returns the latest remembered statement for a topic.
func (m *MemoryStore) Statement(topic string) (string, bool) {
	s, ok := m.statements[topic]
	return s, ok
}

func (m *MemoryStore) ContradictionFor(topic string) (Contradiction, bool) {
	for i := len(m.contras) - 1; i >= 0; i-- {
		if m.contras[i].Topic == topic {
			return m.contras[i], true
		}
	}
	return Contradiction{}, false
}

func (m *MemoryStore) EvasionCountFor(topic string) int {
	n := 0
	for _, e := range m.evasions {
		if e.Topic == topic {
			n++
		}
	}
	return n
}

func (m *MemoryStore) Contradictions() []Contradiction {
	out := make([]Contradiction, len(m.contras))
	copy(out, m.contras)
	return out
}

func (m *MemoryStore) problemCount() int {
	return len(m.contras) + len(m.evasions) + len(m.weak)
}

// MemoryStats is a read-only summary for the query surface.
type MemoryStats struct {
	TopicsTracked  int
	Quotes         int
	Evasions       int
	StrongMoments  int
	WeakMoments    int
	Contradictions int
}

func (m *MemoryStore) Stats() MemoryStats {
	return MemoryStats{
		TopicsTracked:  len(m.statements),
		Quotes:         len(m.quotes),
		Evasions:       len(m.evasions),
		StrongMoments:  len(m.strong),
		WeakMoments:    len(m.weak),
		Contradictions: len(m.contras),
	}
}

const randomQuoteReferenceChance = 0.30

// GenerateReference builds a memory-grounded confrontation line for the
// current response. First applicable source wins; returns "" when the
// interviewer has nothing to pull from.
func (m *MemoryStore) GenerateReference(r PlayerResponse, rng *rand.Rand) string {
	if r.Topic != "" {
		if prior, ok := m.statements[r.Topic]; ok && prior != r.Text {
			return fmt.Sprintf("Earlier you told me %q. How does that square with what you're saying now?",
				truncateQuote(prior, quoteDisplayChars))
		}
		if c, ok := m.ContradictionFor(r.Topic); ok {
			return fmt.Sprintf("You said %q, and then you said %q. Which position is the real one?",
				truncateQuote(c.Prior, quoteDisplayChars), truncateQuote(c.Current, quoteDisplayChars))
		}
		if m.EvasionCountFor(r.Topic) >= 2 {
			return fmt.Sprintf("Every time %s comes up, you change the subject. Our viewers have noticed the pattern.", r.Topic)
		}
	}
	if len(m.quotes) > 0 && rng.Float64() < randomQuoteReferenceChance {
		q := m.quotes[rng.Intn(len(m.quotes))]
		return fmt.Sprintf("You were very sure of yourself when you said %q. What changed?",
			truncateQuote(q.Text, quoteDisplayChars))
	}
	return ""
}
