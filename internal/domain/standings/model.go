package standings

import (
	"fmt"

	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
)

const (
	PointsWin  = 3
	PointsDraw = 1
	PodiumSize = 3
)

// TeamStats is the derived aggregate for one team. It is never stored.
type TeamStats struct {
	Sponsor       string
	MatchesPlayed int
	Wins          int
	Losses        int
	Points        int
}

// WinRate is wins over matches played, 0 when nothing has been played.
func (s TeamStats) WinRate() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.MatchesPlayed)
}

// FormatWinRate renders a 0..1 rate as a percentage with one decimal.
func FormatWinRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Table maps team name to its stats.
type Table map[string]TeamStats

// Row is one line of the ranking view.
type Row struct {
	Rank    int
	Team    roster.Team
	Stats   TeamStats
	WinRate float64
	Podium  bool
}

func (r Row) WinRateText() string {
	return FormatWinRate(r.WinRate)
}

type Outcome string

const (
	OutcomeWin      Outcome = "win"
	OutcomeLoss     Outcome = "loss"
	OutcomeDraw     Outcome = "draw"
	OutcomeUnscored Outcome = "unscored"
)

// TeamMatch is one record seen from a single team's side.
type TeamMatch struct {
	Record        match.Record
	Opponent      roster.Team
	OwnScore      int
	OpponentScore int
	Outcome       Outcome
}

// TeamDetail is the detail projection of one team.
type TeamDetail struct {
	Team    roster.Team
	Stats   TeamStats
	Matches []TeamMatch
}
