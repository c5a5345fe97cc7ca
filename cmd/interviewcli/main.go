// Command interviewcli runs a single interview in the terminal: the engine
// asks, you type answers, and the scorecard prints at the end. Prefix an
// answer with a tone label ("defensive: that's not what I said") to set the
// tone; it defaults to diplomatic.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"spinroom/arc"
	"spinroom/interview"
	"spinroom/score"
	"spinroom/transcript"
)

func main() {
	scenario := flag.String("scenario", "scandal", "interview scenario: scandal, policy-launch, investigative, late-campaign")
	profile := flag.String("profile", "broadsheet", "interviewer profile: tabloid, broadsheet, public-broadcaster, investigative")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	out := flag.String("out", "", "write the interview tape JSON to this file")
	flag.Parse()

	a := arc.ByKind(arc.ScenarioKind(*scenario))
	if a == nil {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *scenario)
		os.Exit(1)
	}
	p, ok := interview.DefaultProfiles()[strings.ToLower(*profile)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown profile %q\n", *profile)
		os.Exit(1)
	}

	orch, err := interview.NewOrchestrator(a, interview.Config{Profile: p, Seed: *seed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "start interview: %v\n", err)
		os.Exit(1)
	}

	state := interview.NewConversationState()
	tracker := score.NewTracker()
	tape := transcript.NewTape(fmt.Sprintf("cli_%d", time.Now().Unix()), *scenario, time.Now().UTC())

	fmt.Printf("=== %s interview with %s ===\n", *scenario, p.Name)
	fmt.Println("(answer each question; prefix with a tone like \"confident:\" or \"evasive:\"; ctrl-D to walk out)")
	fmt.Println()

	action := orch.Opening()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	questionID := ""
	turn := 1

	for {
		printAction(action)
		recordAction(tape, turn, action)
		if action.Kind == interview.ActionConclusion {
			break
		}
		if action.Question != nil {
			questionID = action.Question.QuestionID
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println("\n[you walk off the set]")
			break
		}
		text, tone := splitTone(scanner.Text())
		r := interview.NewResponse(questionID, text, tone, time.Now())

		action, err = orch.Decide(r, state)
		if err != nil {
			fmt.Fprintf(os.Stderr, "engine error: %v\n", err)
			os.Exit(1)
		}
		snap := orch.Snapshot()
		turn = snap.Turn
		state.Metrics = tracker.Observe(r, snap)
		tape.Record(snap.Turn, transcript.EventResponse, transcript.ActorPlayer, text,
			map[string]string{"tone": interview.ToneDictionary[tone]}, time.Now().UTC())
		fmt.Printf("  [mood: %s  frustration: %d  approval: %d]\n\n",
			interview.MoodDictionary[snap.Mood.Mood], snap.Frustration, snap.Approval)
	}

	printScorecard(tape, tracker)

	if *out != "" {
		data, err := tape.Encode()
		if err == nil {
			err = os.WriteFile(*out, data, 0o644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "write tape: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("tape written to %s\n", *out)
	}
}

func splitTone(line string) (string, interview.Tone) {
	line = strings.TrimSpace(line)
	if i := strings.Index(line, ":"); i > 0 {
		if tone, ok := interview.ParseTone(strings.TrimSpace(line[:i])); ok {
			return strings.TrimSpace(line[i+1:]), tone
		}
	}
	return line, interview.ToneDiplomatic
}

func printAction(a interview.Action) {
	switch a.Kind {
	case interview.ActionQuestion:
		q := a.Question
		if q != nil && q.RapidFire {
			fmt.Printf("INTERVIEWER (rapid-fire, %d left): %s\n", q.Remaining, a.Content)
			return
		}
		fmt.Printf("INTERVIEWER: %s\n", a.Content)
	case interview.ActionFollowUp:
		fmt.Printf("INTERVIEWER (pressing): %s\n", a.Content)
	case interview.ActionInterruption:
		fmt.Printf("INTERVIEWER (cutting in): %s\n", a.Content)
	case interview.ActionContradiction:
		fmt.Printf("INTERVIEWER (challenging): %s\n", a.Content)
	case interview.ActionConclusion:
		fmt.Printf("INTERVIEWER (wrapping up): %s\n", a.Content)
	}
}

func recordAction(tape *transcript.Tape, turn int, a interview.Action) {
	kind := transcript.EventKind(interview.ActionKindDictionary[a.Kind])
	var tags map[string]string
	if a.Conclusion != nil {
		tags = map[string]string{"reason": a.Conclusion.Reason}
	}
	tape.Record(turn, kind, transcript.ActorInterviewer, a.Content, tags, time.Now().UTC())
}

func printScorecard(tape *transcript.Tape, tracker *score.Tracker) {
	m := tracker.Metrics()
	sum := tape.Summarize(m.Overall, score.Grade(m.Overall))

	fmt.Println()
	fmt.Println("=== scorecard ===")
	fmt.Printf("turns:        %d\n", sum.Turns)
	if sum.Conclusion != "" {
		fmt.Printf("ended:        %s\n", sum.Conclusion)
	}
	fmt.Printf("confidence:   %d\n", m.Confidence)
	fmt.Printf("consistency:  %d\n", m.Consistency)
	fmt.Printf("authenticity: %d\n", m.Authenticity)
	fmt.Printf("engagement:   %d\n", m.Engagement)
	fmt.Printf("overall:      %d (%s)\n", m.Overall, sum.Grade)
}
