package standings

import (
	"fmt"
	"sort"

	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
)

// Compute rebuilds every team's stats from scratch. The result does not
// depend on record order. Records naming a team outside the roster are
// skipped; Log.Replace already drops them on load.
func Compute(r *roster.Roster, records []match.Record) Table {
	table := make(Table, r.Len())
	for _, team := range r.Teams() {
		table[team.Name] = TeamStats{Sponsor: team.Sponsor}
	}

	for _, rec := range records {
		home, okHome := table[rec.Team1]
		away, okAway := table[rec.Team2]
		if !okHome || !okAway {
			continue
		}

		home.MatchesPlayed++
		away.MatchesPlayed++

		if result, ok := rec.Result(); ok {
			switch result {
			case match.ResultTeam1Win:
				home.Wins++
				home.Points += PointsWin
				away.Losses++
			case match.ResultTeam2Win:
				away.Wins++
				away.Points += PointsWin
				home.Losses++
			case match.ResultDraw:
				home.Points += PointsDraw
				away.Points += PointsDraw
			}
		}

		table[rec.Team1] = home
		table[rec.Team2] = away
	}

	return table
}

// Rank orders the table by points, then wins, then fewer losses, then
// roster order.
func Rank(r *roster.Roster, table Table) []Row {
	rows := make([]Row, 0, r.Len())
	for _, team := range r.Teams() {
		stats := table[team.Name]
		rows = append(rows, Row{
			Team:    team,
			Stats:   stats,
			WinRate: stats.WinRate(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Stats, rows[j].Stats
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		return r.Position(rows[i].Team.Name) < r.Position(rows[j].Team.Name)
	})

	for idx := range rows {
		rows[idx].Rank = idx + 1
		rows[idx].Podium = idx < PodiumSize
	}

	return rows
}

// Detail projects the log onto one team.
func Detail(r *roster.Roster, records []match.Record, teamName string) (TeamDetail, error) {
	team, ok := r.Lookup(teamName)
	if !ok {
		return TeamDetail{}, fmt.Errorf("%w: %s", roster.ErrUnknownTeam, teamName)
	}

	table := Compute(r, records)
	out := TeamDetail{
		Team:    team,
		Stats:   table[team.Name],
		Matches: make([]TeamMatch, 0),
	}
	for _, rec := range records {
		if !rec.Involves(team.Name) {
			continue
		}

		opponentName, own, against := rec.Perspective(team.Name)
		opponent, found := r.Lookup(opponentName)
		if !found {
			opponent = roster.Team{Name: opponentName}
		}

		out.Matches = append(out.Matches, TeamMatch{
			Record:        rec,
			Opponent:      opponent,
			OwnScore:      own,
			OpponentScore: against,
			Outcome:       outcomeOf(rec, own, against),
		})
	}

	return out, nil
}

// outcomeOf compares the scores directly. An equal pair other than 1:1 is
// reported as unscored rather than a draw.
func outcomeOf(rec match.Record, own, against int) Outcome {
	switch {
	case own > against:
		return OutcomeWin
	case own < against:
		return OutcomeLoss
	}
	if result, ok := rec.Result(); ok && result == match.ResultDraw {
		return OutcomeDraw
	}
	return OutcomeUnscored
}
