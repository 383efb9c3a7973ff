package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
	"github.com/riskibarqy/league-scoreboard/internal/domain/standings"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

func renderTeams(w io.Writer, teams []roster.Team) error {
	t := newTable("#", "Sponsor", "Team")
	for i, team := range teams {
		t.add(strconv.Itoa(i+1), team.Sponsor, team.Name)
	}
	return t.render(w)
}

func renderMatches(w io.Writer, views []usecase.MatchView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "no matches recorded")
		return err
	}

	t := newTable("#", "ID", "Sponsor", "Team 1", "Score", "Team 2", "Sponsor", "Date", "Status")
	for _, v := range views {
		rec := v.Record
		t.add(
			strconv.Itoa(v.Index),
			strconv.Itoa(rec.ID),
			v.Team1Sponsor,
			rec.Team1,
			fmt.Sprintf("%d:%d", rec.Score1, rec.Score2),
			rec.Team2,
			v.Team2Sponsor,
			rec.Date,
			rec.Status,
		)
	}
	return t.render(w)
}

func renderStandings(w io.Writer, rows []standings.Row) error {
	t := newTable("Rank", "Sponsor", "Team", "Played", "Wins", "Losses", "Win%", "Points")
	for _, row := range rows {
		rank := strconv.Itoa(row.Rank)
		if row.Podium {
			rank += " *"
		}
		t.add(
			rank,
			row.Team.Sponsor,
			row.Team.Name,
			strconv.Itoa(row.Stats.MatchesPlayed),
			strconv.Itoa(row.Stats.Wins),
			strconv.Itoa(row.Stats.Losses),
			row.WinRateText(),
			strconv.Itoa(row.Stats.Points),
		)
	}
	return t.render(w)
}

func renderTeamDetail(w io.Writer, detail standings.TeamDetail) error {
	s := detail.Stats
	if _, err := fmt.Fprintf(w, "%s\nplayed %d, wins %d, losses %d, win rate %s, points %d\n\n",
		detail.Team.Label(), s.MatchesPlayed, s.Wins, s.Losses, standings.FormatWinRate(s.WinRate()), s.Points); err != nil {
		return err
	}
	if len(detail.Matches) == 0 {
		_, err := fmt.Fprintln(w, "no matches played")
		return err
	}

	t := newTable("ID", "Date", "Opponent", "Score", "Outcome")
	for _, m := range detail.Matches {
		t.add(
			strconv.Itoa(m.Record.ID),
			m.Record.Date,
			m.Opponent.Label(),
			fmt.Sprintf("%d:%d", m.OwnScore, m.OpponentScore),
			string(m.Outcome),
		)
	}
	return t.render(w)
}
