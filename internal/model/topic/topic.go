package topic

// Topic captures one coaching category exposed to the frontend.
type Topic struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Focus       string   `json:"focus"`
	PromptHint  string   `json:"promptHint"`
	OpeningLine string   `json:"openingLine"`
	Skills      []string `json:"skills,omitempty"`
}

// Seed provides the default coaching topics required by the product spec.
func Seed() []Topic {
	return []Topic{
		{
			ID:          "growth-profile",
			Name:        "Growth Profile",
			Focus:       "Self-assessment of leadership strengths and growth edges",
			PromptHint:  "Ask reflective questions before offering frameworks; anchor advice in the leader's own examples.",
			OpeningLine: "Let's take stock of where you are as a leader today. What's on your mind?",
			Skills:      []string{"self-awareness", "strengths assessment", "development planning"},
		},
		{
			ID:          "difficult-conversations",
			Name:        "Difficult Conversations",
			Focus:       "Preparing for and navigating high-stakes workplace conversations",
			PromptHint:  "Help the leader separate observations from judgments and rehearse openings out loud.",
			OpeningLine: "Tough conversations get easier with preparation. Tell me about the one you're facing.",
			Skills:      []string{"feedback delivery", "conflict resolution", "active listening"},
		},
		{
			ID:          "team-motivation",
			Name:        "Team Motivation",
			Focus:       "Building engagement and sustained momentum across a team",
			PromptHint:  "Probe for what each team member values; steer away from one-size-fits-all incentives.",
			OpeningLine: "Every team runs on different fuel. What does yours look like right now?",
			Skills:      []string{"engagement", "recognition", "delegation"},
		},
		{
			ID:          "executive-presence",
			Name:        "Executive Presence",
			Focus:       "Communicating with clarity and confidence at senior levels",
			PromptHint:  "Focus on concrete upcoming moments (board meetings, town halls) rather than abstract charisma.",
			OpeningLine: "Presence is a practice, not a personality trait. Where do you want to show up differently?",
			Skills:      []string{"communication", "influence", "storytelling"},
		},
		{
			ID:          "feedback-culture",
			Name:        "Feedback Culture",
			Focus:       "Making candid, frequent feedback the norm on the leader's team",
			PromptHint:  "Have the leader model receiving feedback before coaching them on giving it.",
			OpeningLine: "Feedback flows downhill from how you receive it. How does feedback work on your team today?",
			Skills:      []string{"psychological safety", "coaching", "accountability"},
		},
	}
}
