// Package codec defines the JSON wire envelopes exchanged over the
// websocket and the conversions from engine types into client-safe views.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"spinroom/interview"
)

// Client message types.
const (
	ClientStart  = "start"
	ClientAnswer = "answer"
	ClientLeave  = "leave"
)

// Server message types.
const (
	ServerAction    = "action"
	ServerSnapshot  = "snapshot"
	ServerScorecard = "scorecard"
	ServerError     = "error"
)

// ClientEnvelope is one inbound websocket message.
type ClientEnvelope struct {
	Type string `json:"type"`

	// start fields
	Scenario string `json:"scenario,omitempty"`
	Profile  string `json:"profile,omitempty"`

	// answer fields
	Answer *AnswerPayload `json:"answer,omitempty"`
}

// AnswerPayload carries one player response. Tone is a label from the
// engine's tone dictionary; the server never infers it from the text.
type AnswerPayload struct {
	Text        string `json:"text"`
	Tone        string `json:"tone"`
	Topic       string `json:"topic,omitempty"`
	Contradicts bool   `json:"contradicts,omitempty"`
}

// ServerEnvelope is one outbound websocket message.
type ServerEnvelope struct {
	Type    string `json:"type"`
	BoothID string `json:"booth_id,omitempty"`
	Seq     uint64 `json:"seq"`
	TsMs    int64  `json:"ts_ms"`

	Action    *ActionView    `json:"action,omitempty"`
	Snapshot  *SnapshotView  `json:"snapshot,omitempty"`
	Scorecard *ScorecardView `json:"scorecard,omitempty"`
	Error     *ErrorView     `json:"error,omitempty"`
}

// ActionView is the client-facing form of one engine action.
type ActionView struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`

	QuestionID string `json:"question_id,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Trigger    string `json:"trigger,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Mood       string `json:"mood,omitempty"`
	Reason     string `json:"reason,omitempty"`

	RapidFire   bool   `json:"rapid_fire,omitempty"`
	Escalation  int    `json:"escalation,omitempty"`
	Remaining   int    `json:"remaining,omitempty"`
	TimeLimitMs int64  `json:"time_limit_ms,omitempty"`
	Expected    string `json:"expected,omitempty"`

	GotchaType   string `json:"gotcha_type,omitempty"`
	Level        string `json:"level,omitempty"`
	VisualEffect string `json:"visual_effect,omitempty"`
}

// SnapshotView is the per-turn state digest pushed after each action. It
// deliberately hides the interviewer's memory internals.
type SnapshotView struct {
	Turn          int         `json:"turn"`
	Mood          string      `json:"mood"`
	MoodIntensity int         `json:"mood_intensity"`
	Frustration   int         `json:"frustration"`
	Approval      int         `json:"approval"`
	EvasionStreak int         `json:"evasion_streak"`
	Interruptions int         `json:"interruptions"`
	Gotchas       int         `json:"gotchas"`
	RapidFire     bool        `json:"rapid_fire"`
	Metrics       MetricsView `json:"metrics"`
}

type MetricsView struct {
	Confidence   int `json:"confidence"`
	Consistency  int `json:"consistency"`
	Authenticity int `json:"authenticity"`
	Engagement   int `json:"engagement"`
	Overall      int `json:"overall"`
}

// ScorecardView is the end-of-interview performance card.
type ScorecardView struct {
	InterviewID string      `json:"interview_id"`
	Scenario    string      `json:"scenario"`
	Turns       int         `json:"turns"`
	Conclusion  string      `json:"conclusion"`
	Metrics     MetricsView `json:"metrics"`
	Grade       string      `json:"grade"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeClient parses one inbound message, rejecting unknown fields.
func DecodeClient(data []byte) (ClientEnvelope, error) {
	var env ClientEnvelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return ClientEnvelope{}, fmt.Errorf("decode client envelope: %w", err)
	}
	if env.Type == "" {
		return ClientEnvelope{}, fmt.Errorf("decode client envelope: missing type")
	}
	return env, nil
}

// Encode serializes an outbound envelope, stamping the send time.
func Encode(env ServerEnvelope) ([]byte, error) {
	if env.TsMs == 0 {
		env.TsMs = time.Now().UnixMilli()
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode server envelope: %w", err)
	}
	return data, nil
}

// ActionToView flattens the engine's tagged action into wire form.
func ActionToView(a interview.Action) ActionView {
	v := ActionView{
		Kind:    interview.ActionKindDictionary[a.Kind],
		Content: a.Content,
	}
	switch {
	case a.Question != nil:
		q := a.Question
		v.QuestionID = q.QuestionID
		v.Topic = q.Topic
		v.RapidFire = q.RapidFire
		v.Trigger = q.Trigger
		v.Escalation = q.Escalation
		v.Remaining = q.Remaining
		v.Expected = q.Expected
		v.TimeLimitMs = q.TimeLimit.Milliseconds()
	case a.FollowUp != nil:
		f := a.FollowUp
		v.QuestionID = f.QuestionID
		v.Trigger = f.Trigger
		if f.GotchaID != "" {
			v.GotchaType = interview.GotchaTypeDictionary[f.GotchaType]
			v.Severity = interview.SeverityDictionary[f.Severity]
			v.Level = interview.ConfrontationLevelDictionary[f.Level]
			v.VisualEffect = f.VisualEffect
		}
	case a.Interruption != nil:
		v.Trigger = a.Interruption.Trigger
		v.Severity = a.Interruption.Severity
		v.Mood = interview.MoodDictionary[a.Interruption.Mood]
	case a.Contradiction != nil:
		v.Topic = a.Contradiction.Topic
	case a.Conclusion != nil:
		v.Reason = a.Conclusion.Reason
		v.Mood = interview.MoodDictionary[a.Conclusion.Mood]
	}
	return v
}

// SnapshotToView digests the engine snapshot plus the scorer's metrics.
func SnapshotToView(snap interview.Snapshot, m interview.Metrics) SnapshotView {
	return SnapshotView{
		Turn:          snap.Turn,
		Mood:          interview.MoodDictionary[snap.Mood.Mood],
		MoodIntensity: snap.Mood.Intensity,
		Frustration:   snap.Frustration,
		Approval:      snap.Approval,
		EvasionStreak: snap.EvasionStreak,
		Interruptions: len(snap.Interruptions),
		Gotchas:       len(snap.Gotchas),
		RapidFire:     snap.RapidFire.Active,
		Metrics:       MetricsToView(m),
	}
}

func MetricsToView(m interview.Metrics) MetricsView {
	return MetricsView{
		Confidence:   m.Confidence,
		Consistency:  m.Consistency,
		Authenticity: m.Authenticity,
		Engagement:   m.Engagement,
		Overall:      m.Overall,
	}
}

// ParseAnswer converts an answer payload into an engine response bound to
// the question currently on the table.
func ParseAnswer(questionID string, p AnswerPayload, at time.Time) (interview.PlayerResponse, error) {
	tone, ok := interview.ParseTone(p.Tone)
	if !ok {
		return interview.PlayerResponse{}, fmt.Errorf("unknown tone %q", p.Tone)
	}
	r := interview.NewResponse(questionID, p.Text, tone, at)
	r.Topic = p.Topic
	r.ContradictsPrevious = p.Contradicts
	return r, nil
}
