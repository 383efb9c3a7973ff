package match

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
)

// Membership answers whether a team name belongs to the tournament.
// *roster.Roster satisfies it.
type Membership interface {
	Contains(name string) bool
}

// Rejection is a stored record that Replace refused to install.
type Rejection struct {
	Record Record
	Reason error
}

// Log is the authoritative, insertion-ordered match log. It enforces the
// self-match and single-pairing rules on every insertion. Log is not safe
// for concurrent use; callers serialise access.
type Log struct {
	members Membership
	records []Record
	nextID  int
}

// NewLog returns an empty log. A nil members skips the roster check.
func NewLog(members Membership) *Log {
	return &Log{members: members, nextID: 1}
}

// CanSchedule is true iff the teams differ and have not played each other yet.
func (l *Log) CanSchedule(teamA, teamB string) bool {
	if teamA == teamB {
		return false
	}
	return !l.paired(teamA, teamB)
}

func (l *Log) Add(teamA, teamB, resultCode, date string) (Record, error) {
	teamA = strings.TrimSpace(teamA)
	teamB = strings.TrimSpace(teamB)

	if teamA == teamB {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidPairing, teamA)
	}
	if err := l.checkMember(teamA); err != nil {
		return Record{}, err
	}
	if err := l.checkMember(teamB); err != nil {
		return Record{}, err
	}
	if l.paired(teamA, teamB) {
		return Record{}, fmt.Errorf("%w: %s vs %s", ErrDuplicatePairing, teamA, teamB)
	}
	result, err := ParseResult(resultCode)
	if err != nil {
		return Record{}, err
	}

	score1, score2 := result.Scores()
	record := Record{
		ID:     l.nextID,
		Team1:  teamA,
		Score1: score1,
		Team2:  teamB,
		Score2: score2,
		Date:   strings.TrimSpace(date),
		Status: StatusCompleted,
	}
	l.nextID++
	l.records = append(l.records, record)

	return record, nil
}

// Remove deletes the record with the given id. Other ids are left untouched.
func (l *Log) Remove(id int) error {
	for idx := range l.records {
		if l.records[idx].ID != id {
			continue
		}
		l.records = append(l.records[:idx], l.records[idx+1:]...)
		return nil
	}

	return fmt.Errorf("%w: id=%d", ErrNotFound, id)
}

func (l *Log) Find(id int) (Record, bool) {
	for _, item := range l.records {
		if item.ID == id {
			return item, true
		}
	}
	return Record{}, false
}

// All returns a snapshot copy in insertion order.
func (l *Log) All() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Len() int {
	return len(l.records)
}

func (l *Log) Clear() {
	l.records = nil
	l.nextID = 1
}

// Replace installs a previously stored log. Records that would break the log
// invariants (self-match, unknown team, rematch) are dropped and returned.
// Records whose id is missing or already taken get a fresh id. The id counter
// resumes after the highest id installed.
func (l *Log) Replace(records []Record) []Rejection {
	var rejected []Rejection
	kept := make([]Record, 0, len(records))
	for _, item := range records {
		switch {
		case item.Team1 == item.Team2:
			rejected = append(rejected, Rejection{Record: item, Reason: ErrInvalidPairing})
			continue
		case l.checkMember(item.Team1) != nil:
			rejected = append(rejected, Rejection{Record: item, Reason: l.checkMember(item.Team1)})
			continue
		case l.checkMember(item.Team2) != nil:
			rejected = append(rejected, Rejection{Record: item, Reason: l.checkMember(item.Team2)})
			continue
		case pairedIn(kept, item.Team1, item.Team2):
			rejected = append(rejected, Rejection{Record: item, Reason: ErrDuplicatePairing})
			continue
		}
		kept = append(kept, item)
	}

	maxID := 0
	seen := make(map[int]struct{}, len(kept))
	for _, item := range kept {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	for idx := range kept {
		id := kept[idx].ID
		if _, dup := seen[id]; id <= 0 || dup {
			maxID++
			kept[idx].ID = maxID
			id = maxID
		}
		seen[id] = struct{}{}
	}

	l.records = kept
	l.nextID = maxID + 1

	return rejected
}

func (l *Log) paired(teamA, teamB string) bool {
	return pairedIn(l.records, teamA, teamB)
}

func (l *Log) checkMember(team string) error {
	if l.members == nil || l.members.Contains(team) {
		return nil
	}
	return fmt.Errorf("%w: %s", roster.ErrUnknownTeam, team)
}

func pairedIn(records []Record, teamA, teamB string) bool {
	for _, item := range records {
		if item.Pairs(teamA, teamB) {
			return true
		}
	}
	return false
}
