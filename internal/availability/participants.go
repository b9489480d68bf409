package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNoAdults         = errors.New("at least one adult is required")
	ErrNegativeChildren = errors.New("children cannot be negative")
	ErrPartyTooLarge    = errors.New("party exceeds the maximum number of participants")
)

// MaxCapacity parses a service's numberOfPeople ("8" or a range like "2-12")
// into its upper bound, falling back to DefaultMaxCapacity.
func MaxCapacity(numberOfPeople string) int {
	v := strings.TrimSpace(numberOfPeople)
	if i := strings.LastIndex(v, "-"); i >= 0 {
		v = strings.TrimSpace(v[i+1:])
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return DefaultMaxCapacity
	}
	return n
}

// Party is a validated participant selection. Every mutation returns a new
// Party, and an error leaves the receiver untouched.
type Party struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

func NewParty(adults, children, maxParticipants int) (Party, error) {
	p := Party{Adults: adults, Children: children}
	if err := p.Validate(maxParticipants); err != nil {
		return Party{}, err
	}
	return p, nil
}

func (p Party) Total() int {
	return p.Adults + p.Children
}

func (p Party) Validate(maxParticipants int) error {
	if p.Adults < 1 {
		return ErrNoAdults
	}
	if p.Children < 0 {
		return ErrNegativeChildren
	}
	if p.Total() > maxParticipants {
		return fmt.Errorf("%w (%d)", ErrPartyTooLarge, maxParticipants)
	}
	return nil
}

func (p Party) AddAdult(maxParticipants int) (Party, error) {
	return p.apply(Party{Adults: p.Adults + 1, Children: p.Children}, maxParticipants)
}

func (p Party) RemoveAdult(maxParticipants int) (Party, error) {
	return p.apply(Party{Adults: p.Adults - 1, Children: p.Children}, maxParticipants)
}

func (p Party) AddChild(maxParticipants int) (Party, error) {
	return p.apply(Party{Adults: p.Adults, Children: p.Children + 1}, maxParticipants)
}

func (p Party) RemoveChild(maxParticipants int) (Party, error) {
	return p.apply(Party{Adults: p.Adults, Children: p.Children - 1}, maxParticipants)
}

func (p Party) apply(next Party, maxParticipants int) (Party, error) {
	if err := next.Validate(maxParticipants); err != nil {
		return p, err
	}
	return next, nil
}
