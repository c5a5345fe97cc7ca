package interview

// Snapshot is a read-only view of the engine's internal state, safe to hand
// across goroutines. Every slice and map is a defensive copy.
type Snapshot struct {
	Turn        int
	Concluded   bool
	Frustration int
	Approval    int

	Mood        MoodState
	MoodHistory []MoodChange

	EvasionCounter int
	EvasionStreak  int
	EvasionByTopic map[string]int

	Interruptions []InterruptionRecord
	PendingFollow int

	RapidFire RapidFireStatus
	Gotchas   []GotchaMoment
	Memory    MemoryStats
}

func (o *Orchestrator) Snapshot() Snapshot {
	ev := o.evasion.stats()

	interruptions := make([]InterruptionRecord, len(o.interruptions))
	copy(interruptions, o.interruptions)

	return Snapshot{
		Turn:           o.personality.Turn(),
		Concluded:      o.concluded,
		Frustration:    o.personality.Frustration(),
		Approval:       o.personality.Approval(),
		Mood:           o.personality.MoodState(),
		MoodHistory:    o.personality.MoodHistory(),
		EvasionCounter: ev.Counter,
		EvasionStreak:  ev.Streak,
		EvasionByTopic: ev.TopicCounts,
		Interruptions:  interruptions,
		PendingFollow:  len(o.followQueue),
		RapidFire:      o.rapid.Status(),
		Gotchas:        o.gotcha.History(),
		Memory:         o.personality.Memory().Stats(),
	}
}

// Concluded reports whether a conclusion action has been issued.
func (o *Orchestrator) Concluded() bool { return o.concluded }

// Personality exposes the interviewer state for read-only inspection.
func (o *Orchestrator) Personality() *PersonalityState { return o.personality }
