// Package reference implements the three-variant Reference value carried
// inside event atoms. References are a tagged union, not an inheritance
// hierarchy: equality is variant-specific and mixed variants never
// compare equal.
package reference

import (
	"encoding/json"

	"github.com/kittclouds/storyweave/pkg/id"
)

// Variant tags which of the three forms a Reference holds.
type Variant int

const (
	VariantResolved Variant = iota
	VariantUnresolved
	VariantImplicit
)

// Context carries the referential detail attached to an Unresolved
// mention: descriptor list, spatial hint, possessor reference, prior
// mentions, and where it was first mentioned.
type Context struct {
	Descriptors          []string
	SpatialHint          string
	Possessor            *Reference // nil, or a Resolved reference to the possessor entity.
	PriorMentionEventIDs []id.ID
	Scene                id.ID
	Turn                 uint32
}

// Reference is a tagged union of Resolved / Unresolved / Implicit.
type Reference struct {
	variant Variant

	// Resolved
	entityID id.ID

	// Unresolved
	mention string
	context Context

	// Implicit
	impliedNoun       string
	implicationSource string
}

// Resolved constructs a Resolved reference carrying an entity identifier.
func Resolved(entityID id.ID) Reference {
	return Reference{variant: VariantResolved, entityID: entityID}
}

// Unresolved constructs an Unresolved reference carrying a mention string
// and its referential context.
func Unresolved(mention string, ctx Context) Reference {
	return Reference{variant: VariantUnresolved, mention: mention, context: ctx}
}

// Implicit constructs an Implicit reference: something the narration
// implies exists but was never named.
func Implicit(impliedNoun, implicationSource string) Reference {
	return Reference{
		variant:           VariantImplicit,
		impliedNoun:       impliedNoun,
		implicationSource: implicationSource,
	}
}

// Variant reports which form this reference holds.
func (r Reference) Variant() Variant { return r.variant }

// EntityID returns the resolved entity id and true iff this is a
// Resolved reference.
func (r Reference) EntityID() (id.ID, bool) {
	if r.variant != VariantResolved {
		return id.Nil, false
	}
	return r.entityID, true
}

// Mention returns the mention text and referential context, and true iff
// this is an Unresolved reference.
func (r Reference) Mention() (string, Context, bool) {
	if r.variant != VariantUnresolved {
		return "", Context{}, false
	}
	return r.mention, r.context, true
}

// Implied returns the implied noun and implication-source phrase, and
// true iff this is an Implicit reference.
func (r Reference) Implied() (noun, source string, ok bool) {
	if r.variant != VariantImplicit {
		return "", "", false
	}
	return r.impliedNoun, r.implicationSource, true
}

// Equal reports variant-specific equality. Mixed variants never compare
// equal.
func (r Reference) Equal(other Reference) bool {
	if r.variant != other.variant {
		return false
	}
	switch r.variant {
	case VariantResolved:
		return r.entityID == other.entityID
	case VariantUnresolved:
		return r.mention == other.mention
	case VariantImplicit:
		return r.impliedNoun == other.impliedNoun && r.implicationSource == other.implicationSource
	default:
		return false
	}
}

// wireReference is Reference's serialized form, used by pkg/store to
// persist atoms without exposing the tagged union's private fields.
type wireReference struct {
	Variant           string   `json:"variant"`
	EntityID          *id.ID   `json:"entityId,omitempty"`
	Mention           string   `json:"mention,omitempty"`
	Context           *Context `json:"context,omitempty"`
	ImpliedNoun       string   `json:"impliedNoun,omitempty"`
	ImplicationSource string   `json:"implicationSource,omitempty"`
}

// MarshalJSON implements json.Marshaler so a Reference can cross a
// storage boundary without losing its variant.
func (r Reference) MarshalJSON() ([]byte, error) {
	switch r.variant {
	case VariantResolved:
		return json.Marshal(wireReference{Variant: "resolved", EntityID: &r.entityID})
	case VariantUnresolved:
		ctx := r.context
		return json.Marshal(wireReference{Variant: "unresolved", Mention: r.mention, Context: &ctx})
	case VariantImplicit:
		return json.Marshal(wireReference{
			Variant: "implicit", ImpliedNoun: r.impliedNoun, ImplicationSource: r.implicationSource,
		})
	default:
		return json.Marshal(wireReference{Variant: "unresolved"})
	}
}

// UnmarshalJSON implements json.Unmarshaler, the inverse of MarshalJSON.
func (r *Reference) UnmarshalJSON(data []byte) error {
	var w wireReference
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Variant {
	case "resolved":
		if w.EntityID != nil {
			*r = Resolved(*w.EntityID)
		}
	case "implicit":
		*r = Implicit(w.ImpliedNoun, w.ImplicationSource)
	default:
		ctx := Context{}
		if w.Context != nil {
			ctx = *w.Context
		}
		*r = Unresolved(w.Mention, ctx)
	}
	return nil
}
