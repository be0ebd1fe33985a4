package dashboard

// DefaultUIState returns the state every session starts from: all sections
// visible, light theme, edit mode off.
func DefaultUIState() UIState {
	return UIState{ActiveSections: AllSections()}
}

// CloseSection returns a state with the section removed from the active set.
// Removing an absent or unknown section is a no-op, not an error.
func CloseSection(state UIState, section Section) UIState {
	next := state
	next.ActiveSections = make([]Section, 0, len(state.ActiveSections))
	for _, active := range state.ActiveSections {
		if active != section {
			next.ActiveSections = append(next.ActiveSections, active)
		}
	}
	return next
}

// ToggleTheme flips the dark-mode flag.
func ToggleTheme(state UIState) UIState {
	state.DarkMode = !state.DarkMode
	return state
}

// ToggleEditMode flips the edit-mode flag.
func ToggleEditMode(state UIState) UIState {
	state.EditMode = !state.EditMode
	return state
}

// NormalizeSections reduces an arbitrary section list to a subset of the
// universe in canonical order with duplicates removed. Unknown identifiers
// are dropped.
func NormalizeSections(sections []Section) []Section {
	requested := make(map[Section]bool, len(sections))
	for _, s := range sections {
		requested[s] = true
	}
	out := make([]Section, 0, len(sectionUniverse))
	for _, s := range sectionUniverse {
		if requested[s] {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeUIState applies NormalizeSections to the active set, restoring the
// subset/order/no-duplicates invariant after external input.
func NormalizeUIState(state UIState) UIState {
	state.ActiveSections = NormalizeSections(state.ActiveSections)
	return state
}

// SectionActive reports whether the section is in the state's active set.
func SectionActive(state UIState, section Section) bool {
	for _, active := range state.ActiveSections {
		if active == section {
			return true
		}
	}
	return false
}
