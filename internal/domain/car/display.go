package car

// displayNames keeps human-readable labels out of the state machine itself.
var displayNames = map[State]string{
	StateForSale:    "For sale",
	StateSold:       "Sold",
	StateNotSale:    "Not for sale",
	StateForService: "In service",
}

// DisplayName returns the catalog label for a state. Unknown states fall back
// to the raw value.
func DisplayName(s State) string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}
