package main

import "github.com/kittclouds/storyweave/pkg/grammar"

// fixedGrammar is a small, hard-coded emotional grammar standing in for
// the "callers refer to grammars by id" capability spec §6 leaves
// external; the demo scene's characters all share it via
// EmotionalGrammarID.
type fixedGrammar struct {
	id        string
	primaries []grammar.Primary
}

// newDemoGrammar returns the four-primary grammar the scripted scene's
// characters are authored against.
func newDemoGrammar() fixedGrammar {
	return fixedGrammar{
		id: "demo-core-four",
		primaries: []grammar.Primary{
			{ID: "joy", Opposite: "grief", LowLabel: "flat", HighLabel: "elated"},
			{ID: "grief", Opposite: "joy", LowLabel: "untouched", HighLabel: "devastated"},
			{ID: "fear", Opposite: "anger", LowLabel: "unguarded", HighLabel: "frozen"},
			{ID: "anger", Opposite: "fear", LowLabel: "settled", HighLabel: "seething"},
		},
	}
}

func (g fixedGrammar) ID() string                       { return g.id }
func (g fixedGrammar) Primaries() []grammar.Primary     { return g.primaries }
func (g fixedGrammar) IntensityRange() (lo, hi float64) { return 0, 1 }

// ValidateState flags any primary id the grammar does not recognise and
// any intensity outside [0, 1].
func (g fixedGrammar) ValidateState(state map[string]float64) []string {
	known := make(map[string]bool, len(g.primaries))
	for _, p := range g.primaries {
		known[p.ID] = true
	}

	var problems []string
	for primaryID, intensity := range state {
		if !known[primaryID] {
			problems = append(problems, "unknown primary: "+primaryID)
			continue
		}
		if intensity < 0 || intensity > 1 {
			problems = append(problems, "intensity out of range: "+primaryID)
		}
	}
	return problems
}
