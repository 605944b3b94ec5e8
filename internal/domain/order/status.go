package order

import "fmt"

// Status is the lifecycle tag of an order. COMPLETE and CANCEL are terminal.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusComplete   Status = "COMPLETE"
	StatusCancel     Status = "CANCEL"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusComplete, StatusCancel:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}
