package match

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPairing   = errors.New("a team cannot play itself")
	ErrDuplicatePairing = errors.New("teams have already played each other")
	ErrInvalidResult    = errors.New("invalid match result")
	ErrNotFound         = errors.New("match not found")

	// ErrStorageUnavailable marks a repository failure to reach its backend,
	// as opposed to a payload it could not decode.
	ErrStorageUnavailable = errors.New("match storage unavailable")
)

// StatusCompleted is the status text written into stored records. Logs kept
// by earlier versions of the scoreboard carry the same value.
const StatusCompleted = "已完成"

// Result is one of the three recognized score pairs. A match is played as two
// games, so the only complete outcomes are 2:0, 1:1 and 0:2.
type Result string

const (
	ResultTeam1Win Result = "2:0"
	ResultDraw     Result = "1:1"
	ResultTeam2Win Result = "0:2"
)

func ParseResult(raw string) (Result, error) {
	switch Result(strings.TrimSpace(raw)) {
	case ResultTeam1Win:
		return ResultTeam1Win, nil
	case ResultDraw:
		return ResultDraw, nil
	case ResultTeam2Win:
		return ResultTeam2Win, nil
	default:
		return "", fmt.Errorf("%w: %q (expected 2:0, 1:1 or 0:2)", ErrInvalidResult, raw)
	}
}

func (r Result) Scores() (score1, score2 int) {
	switch r {
	case ResultTeam1Win:
		return 2, 0
	case ResultDraw:
		return 1, 1
	case ResultTeam2Win:
		return 0, 2
	default:
		return 0, 0
	}
}

// Record is a stored match outcome. Field names and JSON tags are the
// persisted format.
type Record struct {
	ID     int    `json:"id"`
	Team1  string `json:"team1"`
	Score1 int    `json:"score1"`
	Team2  string `json:"team2"`
	Score2 int    `json:"score2"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// Result reports the recognized score pair of the record. ok is false for
// unscored records, which can only come from storage.
func (r Record) Result() (Result, bool) {
	switch {
	case r.Score1 == 2 && r.Score2 == 0:
		return ResultTeam1Win, true
	case r.Score1 == 1 && r.Score2 == 1:
		return ResultDraw, true
	case r.Score1 == 0 && r.Score2 == 2:
		return ResultTeam2Win, true
	default:
		return "", false
	}
}

func (r Record) Involves(team string) bool {
	return r.Team1 == team || r.Team2 == team
}

// Pairs is symmetric: Pairs(a, b) == Pairs(b, a).
func (r Record) Pairs(teamA, teamB string) bool {
	return (r.Team1 == teamA && r.Team2 == teamB) || (r.Team1 == teamB && r.Team2 == teamA)
}

// Perspective returns the opponent and both scores seen from team's side.
func (r Record) Perspective(team string) (opponent string, own, against int) {
	if r.Team1 == team {
		return r.Team2, r.Score1, r.Score2
	}
	return r.Team1, r.Score2, r.Score1
}
