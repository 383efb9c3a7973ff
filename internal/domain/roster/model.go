package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTeam   = errors.New("unknown team")
	ErrDuplicateTeam = errors.New("duplicate team name")
	ErrEmptyRoster   = errors.New("roster has no teams")
)

// Team is one participant of the tournament. Name identifies the team,
// Sponsor is display metadata only.
type Team struct {
	Sponsor string
	Name    string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Label is the "sponsor-name" form used by selectors and match details.
func (t Team) Label() string {
	if t.Sponsor == "" {
		return t.Name
	}
	return t.Sponsor + "-" + t.Name
}

// Roster is the fixed, ordered set of teams. It is immutable after New.
type Roster struct {
	teams []Team
	index map[string]int
}

func New(teams []Team) (*Roster, error) {
	if len(teams) == 0 {
		return nil, ErrEmptyRoster
	}

	out := make([]Team, 0, len(teams))
	index := make(map[string]int, len(teams))
	for _, item := range teams {
		item.Name = strings.TrimSpace(item.Name)
		item.Sponsor = strings.TrimSpace(item.Sponsor)
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, exists := index[item.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, item.Name)
		}
		index[item.Name] = len(out)
		out = append(out, item)
	}

	return &Roster{teams: out, index: index}, nil
}

// Teams returns a copy of the roster in its declared order.
func (r *Roster) Teams() []Team {
	out := make([]Team, len(r.teams))
	copy(out, r.teams)
	return out
}

func (r *Roster) Len() int {
	return len(r.teams)
}

func (r *Roster) Lookup(name string) (Team, bool) {
	idx, ok := r.index[name]
	if !ok {
		return Team{}, false
	}
	return r.teams[idx], true
}

func (r *Roster) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Position reports the declared order of a team, or -1 when it is not a member.
func (r *Roster) Position(name string) int {
	idx, ok := r.index[name]
	if !ok {
		return -1
	}
	return idx
}

// Parse reads "sponsor:name" items separated by commas. An item without a
// colon is a team with no sponsor.
func Parse(raw string) ([]Team, error) {
	parts := strings.Split(raw, ",")
	out := make([]Team, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		team := Team{Name: item}
		if sponsor, name, ok := strings.Cut(item, ":"); ok {
			team = Team{Sponsor: strings.TrimSpace(sponsor), Name: strings.TrimSpace(name)}
		}
		if err := team.Validate(); err != nil {
			return nil, fmt.Errorf("invalid roster item %q: %w", item, err)
		}
		out = append(out, team)
	}

	return out, nil
}
