package car

import "fmt"

// State is the lifecycle tag of a car. It is only ever changed by the dealer
// service; presentation text lives in display.go.
type State string

const (
	StateForSale    State = "FOR_SALE"
	StateSold       State = "SOLD"
	StateNotSale    State = "NOT_SALE"
	StateForService State = "FOR_SERVICE"
)

// States lists every valid state, in catalog order.
func States() []State {
	return []State{StateForSale, StateSold, StateNotSale, StateForService}
}

func (s State) Valid() bool {
	switch s {
	case StateForSale, StateSold, StateNotSale, StateForService:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// ParseState converts a wire value into a State.
func ParseState(raw string) (State, error) {
	s := State(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, raw)
	}
	return s, nil
}
