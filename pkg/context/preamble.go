package context

import (
	"strings"

	"github.com/kittclouds/storyweave/pkg/scene"
	"github.com/kittclouds/storyweave/pkg/tokens"
)

// CastDescription is one cast member's Tier-1 summary: name plus voice
// notes for the narrator.
type CastDescription struct {
	Name      string
	VoiceNotes string
}

// Preamble is the narrator's Tier-1 context: identity, anti-patterns,
// setting, cast, and hard boundaries. Never trimmed.
type Preamble struct {
	NarratorVoice     string
	AntiPatterns      []string
	Setting           string
	CastDescriptions  []CastDescription
	HardBoundaries    []string
}

// BuildPreamble deterministically derives the preamble from scene and
// character data.
func BuildPreamble(sceneData scene.Data, characters []*scene.CharacterSheet) Preamble {
	p := Preamble{
		Setting: strings.TrimSpace(sceneData.Setting + " " + sceneData.AestheticDetail),
	}

	for _, c := range characters {
		p.CastDescriptions = append(p.CastDescriptions, CastDescription{
			Name:       c.Name,
			VoiceNotes: c.Voice,
		})
	}

	for _, c := range sceneData.Constraints {
		if c.Kind == scene.ConstraintHard {
			p.HardBoundaries = append(p.HardBoundaries, c.Text)
		}
	}

	p.NarratorVoice = sceneData.SceneType
	return p
}

// Render produces the Tier-1 narrator-facing text: scene type and
// setting, cast voices, and hard boundaries stated as non-negotiable.
func (p Preamble) Render() string {
	var b strings.Builder
	if p.NarratorVoice != "" {
		b.WriteString("Scene type: ")
		b.WriteString(p.NarratorVoice)
		b.WriteString("\n")
	}
	if p.Setting != "" {
		b.WriteString("Setting: ")
		b.WriteString(p.Setting)
		b.WriteString("\n")
	}
	if len(p.CastDescriptions) > 0 {
		b.WriteString("Cast:\n")
		for _, c := range p.CastDescriptions {
			b.WriteString("- ")
			b.WriteString(c.Name)
			if c.VoiceNotes != "" {
				b.WriteString(": ")
				b.WriteString(c.VoiceNotes)
			}
			b.WriteString("\n")
		}
	}
	if len(p.HardBoundaries) > 0 {
		b.WriteString("Hard boundaries (never violate):\n")
		for _, h := range p.HardBoundaries {
			b.WriteString("- ")
			b.WriteString(h)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// EstimatePreambleTokens estimates the token cost of rendering p.
func EstimatePreambleTokens(p Preamble) uint32 {
	var b strings.Builder
	b.WriteString(p.NarratorVoice)
	b.WriteString(" ")
	b.WriteString(p.Setting)
	for _, a := range p.AntiPatterns {
		b.WriteString(" ")
		b.WriteString(a)
	}
	for _, c := range p.CastDescriptions {
		b.WriteString(" ")
		b.WriteString(c.Name)
		b.WriteString(" ")
		b.WriteString(c.VoiceNotes)
	}
	for _, h := range p.HardBoundaries {
		b.WriteString(" ")
		b.WriteString(h)
	}
	return tokens.Estimate(b.String())
}
