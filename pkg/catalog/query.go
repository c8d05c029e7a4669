package catalog

// Family names a visual-property family.
type Family string

const (
	FamilyFill    Family = "fill"
	FamilyStroke  Family = "stroke"
	FamilyEffects Family = "effects"
	FamilyText    Family = "text"
	FamilyRadius  Family = "radius"
	FamilyGap     Family = "gap"
	FamilyPadding Family = "padding"
)

// FillSuggestions returns every approved paint style, in library order.
func (idx *Index) FillSuggestions() []Suggestion { return clone(idx.fills) }

// StrokeSuggestions returns stroke candidates. Libraries publish no stroke
// partition, so these are the fill styles.
func (idx *Index) StrokeSuggestions() []Suggestion { return clone(idx.fills) }

// EffectSuggestions returns every approved effect style.
func (idx *Index) EffectSuggestions() []Suggestion { return clone(idx.effects) }

// TextSuggestions returns every approved text style.
func (idx *Index) TextSuggestions() []Suggestion { return clone(idx.text) }

// RadiusSuggestions returns radius variables marked as variable-backed.
func (idx *Index) RadiusSuggestions() []Suggestion { return clone(idx.radius) }

// GapSuggestions returns gap variables marked as variable-backed.
func (idx *Index) GapSuggestions() []Suggestion { return clone(idx.gaps) }

// Suggestions dispatches on family. Unknown families and padding return an empty list.
func (idx *Index) Suggestions(f Family) []Suggestion {
	switch f {
	case FamilyFill:
		return idx.FillSuggestions()
	case FamilyStroke:
		return idx.StrokeSuggestions()
	case FamilyEffects:
		return idx.EffectSuggestions()
	case FamilyText:
		return idx.TextSuggestions()
	case FamilyRadius:
		return idx.RadiusSuggestions()
	case FamilyGap:
		return idx.GapSuggestions()
	default:
		return []Suggestion{}
	}
}

// ParseFamily maps a family name, reporting false for unknown names.
func ParseFamily(name string) (Family, bool) {
	switch f := Family(name); f {
	case FamilyFill, FamilyStroke, FamilyEffects, FamilyText, FamilyRadius, FamilyGap, FamilyPadding:
		return f, true
	}
	return "", false
}

// Each finding owns its suggestion slice.
func clone(list []Suggestion) []Suggestion {
	out := make([]Suggestion, len(list))
	copy(out, list)
	return out
}
