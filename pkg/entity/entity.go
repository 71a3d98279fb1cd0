// Package entity defines the narrative engine's Entity type and its
// promotion tier ordering.
package entity

import "github.com/kittclouds/storyweave/pkg/id"

// Tier is the total ordering of entity promotion classes:
// Unmentioned < Mentioned < Referenced < Tracked < Persistent.
type Tier int

const (
	TierUnmentioned Tier = iota
	TierMentioned
	TierReferenced
	TierTracked
	TierPersistent
)

func (t Tier) String() string {
	switch t {
	case TierUnmentioned:
		return "Unmentioned"
	case TierMentioned:
		return "Mentioned"
	case TierReferenced:
		return "Referenced"
	case TierTracked:
		return "Tracked"
	case TierPersistent:
		return "Persistent"
	default:
		return "Unknown"
	}
}

// Max returns the greater of two tiers under the total ordering.
func Max(a, b Tier) Tier {
	if a > b {
		return a
	}
	return b
}

// Origin records how an entity came to exist.
type Origin int

const (
	OriginAuthored Origin = iota
	OriginPromoted
	OriginGenerated
)

// Persistence records whether an entity survives scene boundaries.
type Persistence int

const (
	PersistencePermanent Persistence = iota
	PersistenceSceneLocal
	PersistenceEphemeral
)

// Entity represents any referable thing: a character, object, location,
// or abstraction. Created on first crossing into TierMentioned from a
// committed event; mutated only by the promoter; never deleted, only
// demoted.
type Entity struct {
	ID             id.ID
	CanonicalName  string
	Descriptors    []string
	Possessor      *id.ID
	CurrentScene   *id.ID
	Tier           Tier
	AuthoredFloor  Tier // defaults to TierUnmentioned when scene data is silent.
	AccumulatedWeight float64
	Origin         Origin
	Persistence    Persistence
}

// New constructs an entity at TierMentioned with an Unmentioned authored
// floor, the safe default per the engine's open-question decision on
// floor provenance.
func New(canonicalName string) *Entity {
	return &Entity{
		ID:            id.New(),
		CanonicalName: canonicalName,
		Tier:          TierMentioned,
		AuthoredFloor: TierUnmentioned,
		Origin:        OriginPromoted,
	}
}
