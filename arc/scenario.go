package arc

// Built-in scenario arcs. These are content defaults; productions normally
// ship their own packs through the Registry.

// Scandal is the built-in arc for a breaking-scandal interview.
func Scandal() *Arc {
	return New(ScenarioScandal, []Question{
		{
			ID: "scandal_open", Topic: "scandal", Type: QuestionOpening,
			Text: "Thank you for coming in. Let's not waste time: when did you first learn about the payments?",
			Interruptions: []InterruptionTrigger{
				{Condition: "word_count>80", Message: "This was a yes-or-no kind of question.", Probability: 0.8, Action: "press_for_detail"},
			},
			FollowUps: []FollowUpRule{
				{Condition: "evasion", Action: "press_for_detail", Probability: 0.9},
				{Condition: "tone:confident", TargetID: "scandal_records", Probability: 0.5},
			},
		},
		{
			ID: "scandal_records", Topic: "records", Type: QuestionChallenge, Expertise: true,
			Text: "The ledger shows three transfers signed with your initials. Who authorized them?",
			FollowUps: []FollowUpRule{
				{Condition: "contradicts:previous", Action: "challenge_claim", Probability: 1.0},
				{Condition: "word_count<10", Action: "press_for_detail", Probability: 0.8},
			},
		},
		{
			ID: "scandal_staff", Topic: "personal-conduct", Type: QuestionPersonal,
			Text: "Two former staffers say you told them to, quote, keep it off the books. Are they lying?",
			Interruptions: []InterruptionTrigger{
				{Condition: "evasion", Message: "They went on the record. You're not answering.", Probability: 0.9, Action: "pivot_back"},
			},
		},
		{
			ID: "scandal_accountability", Topic: "accountability", Type: QuestionChallenge,
			Text: "If an inquiry finds wrongdoing in your office, will you resign?",
			FollowUps: []FollowUpRule{
				{Condition: "high_frustration", Action: "personal_question", Probability: 0.6},
			},
		},
		{
			ID: "scandal_close", Topic: "scandal", Type: QuestionClosing,
			Text: "Last question. What do you say to the people who trusted you with their votes?",
		},
	})
}

// PolicyLaunch covers a policy announcement interview.
func PolicyLaunch() *Arc {
	return New(ScenarioPolicyLaunch, []Question{
		{
			ID: "policy_open", Topic: "policy", Type: QuestionOpening,
			Text: "You're calling this the biggest reform in a generation. What does it actually change on day one?",
		},
		{
			ID: "policy_cost", Topic: "economy", Type: QuestionChallenge, Expertise: true,
			Text: "Your own costing has a four billion gap in year three. Where does that money come from?",
			Interruptions: []InterruptionTrigger{
				{Condition: "word_count>80", Message: "That's a lot of words and no number.", Probability: 0.7, Action: "press_for_detail"},
			},
			FollowUps: []FollowUpRule{
				{Condition: "low_confidence", Action: "challenge_claim", Probability: 0.7},
				{Condition: "evasion", Action: "press_for_detail", Probability: 0.9},
			},
		},
		{
			ID: "policy_record", Topic: "record", Type: QuestionChallenge,
			Text: "You voted against a nearly identical measure six years ago. What changed, the evidence or the polling?",
			FollowUps: []FollowUpRule{
				{Condition: "contradicts:previous", Action: "challenge_claim", Probability: 1.0},
			},
		},
		{
			ID: "policy_losers", Topic: "policy", Type: QuestionPersonal,
			Text: "Every reform has losers. Name the group that's worse off under your plan.",
		},
		{
			ID: "policy_close", Topic: "policy", Type: QuestionClosing,
			Text: "If this passes and the numbers don't materialize, do you own that failure personally?",
		},
	})
}

// Investigative covers a document-driven investigative sit-down.
func Investigative() *Arc {
	return New(ScenarioInvestigative, []Question{
		{
			ID: "invest_open", Topic: "donors", Type: QuestionOpening,
			Text: "We've spent four months on this story. Let's start simple: do you know a man named Viktor Hale?",
			FollowUps: []FollowUpRule{
				{Condition: "word_count<10", TargetID: "invest_meetings", Probability: 0.8},
			},
		},
		{
			ID: "invest_meetings", Topic: "timeline", Type: QuestionChallenge, Expertise: true,
			Text: "Visitor logs show eleven meetings in fourteen months. What were they about?",
			Interruptions: []InterruptionTrigger{
				{Condition: "repeated_evasion", Message: "The logs are public. Not answering won't make them go away.", Probability: 0.9, Action: "pivot_back"},
			},
		},
		{
			ID: "invest_money", Topic: "donors", Type: QuestionChallenge,
			Text: "His foundation donated to your campaign nine days before the contract award. Coincidence?",
			FollowUps: []FollowUpRule{
				{Condition: "contradicts:previous", Action: "challenge_claim", Probability: 1.0},
				{Condition: "tone:aggressive", Action: "pivot_back", Probability: 0.6},
			},
		},
		{
			ID: "invest_ethics", Topic: "ethics", Type: QuestionPersonal,
			Text: "You've said, repeatedly, that public office is a public trust. Does this meet that standard?",
		},
		{
			ID: "invest_close", Topic: "accountability", Type: QuestionClosing,
			Text: "We'll publish everything tomorrow. Anything you want to correct before we do?",
		},
	})
}

// LateCampaign covers the final-week pressure interview.
func LateCampaign() *Arc {
	return New(ScenarioLateCampaign, []Question{
		{
			ID: "late_open", Topic: "polls", Type: QuestionOpening,
			Text: "Six days out and you're down eight points. What's going wrong?",
		},
		{
			ID: "late_base", Topic: "record", Type: QuestionChallenge,
			Text: "Your own base calls the record thin. Name your three concrete wins this term.",
			Interruptions: []InterruptionTrigger{
				{Condition: "word_count>80", Message: "Three wins. I counted a speech, not a list.", Probability: 0.8, Action: "press_for_detail"},
			},
			FollowUps: []FollowUpRule{
				{Condition: "evasion", Action: "press_for_detail", Probability: 0.9},
			},
		},
		{
			ID: "late_flip", Topic: "policy", Type: QuestionChallenge, Expertise: true,
			Text: "On the border measure you've held four positions in two years. What is it today?",
			FollowUps: []FollowUpRule{
				{Condition: "contradicts:previous", Action: "challenge_claim", Probability: 1.0},
				{Condition: "high_consistency", TargetID: "late_unity", Probability: 0.5},
			},
		},
		{
			ID: "late_unity", Topic: "party", Type: QuestionPersonal,
			Text: "Two of your senior colleagues refused to endorse you this week. Why?",
		},
		{
			ID: "late_close", Topic: "polls", Type: QuestionClosing,
			Text: "If you lose on Tuesday, whose fault is that?",
		},
	})
}

// ByKind returns the built-in arc for a scenario kind.
func ByKind(kind ScenarioKind) *Arc {
	switch kind {
	case ScenarioScandal:
		return Scandal()
	case ScenarioPolicyLaunch:
		return PolicyLaunch()
	case ScenarioInvestigative:
		return Investigative()
	case ScenarioLateCampaign:
		return LateCampaign()
	default:
		return nil
	}
}
