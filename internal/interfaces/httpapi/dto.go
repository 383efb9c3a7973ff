package httpapi

import (
	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
	"github.com/riskibarqy/league-scoreboard/internal/domain/standings"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

type listDTO[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type teamDTO struct {
	Name    string `json:"name"`
	Sponsor string `json:"sponsor"`
	Label   string `json:"label"`
}

type matchDTO struct {
	Index        int    `json:"index,omitempty"`
	ID           int    `json:"id"`
	Team1        string `json:"team1"`
	Team1Sponsor string `json:"team1Sponsor,omitempty"`
	Score1       int    `json:"score1"`
	Team2        string `json:"team2"`
	Team2Sponsor string `json:"team2Sponsor,omitempty"`
	Score2       int    `json:"score2"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

type pairingDTO struct {
	Team1       string `json:"team1"`
	Team2       string `json:"team2"`
	CanSchedule bool   `json:"canSchedule"`
}

type teamStatsDTO struct {
	MatchesPlayed int     `json:"matchesPlayed"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Points        int     `json:"points"`
	WinRate       float64 `json:"winRate"`
	WinRateText   string  `json:"winRateText"`
}

type standingDTO struct {
	Rank   int          `json:"rank"`
	Team   teamDTO      `json:"team"`
	Stats  teamStatsDTO `json:"stats"`
	Podium bool         `json:"podium"`
}

type teamMatchDTO struct {
	ID            int     `json:"id"`
	Date          string  `json:"date"`
	Opponent      teamDTO `json:"opponent"`
	OwnScore      int     `json:"ownScore"`
	OpponentScore int     `json:"opponentScore"`
	Outcome       string  `json:"outcome"`
}

type teamDetailDTO struct {
	Team    teamDTO        `json:"team"`
	Stats   teamStatsDTO   `json:"stats"`
	Matches []teamMatchDTO `json:"matches"`
}

func teamToDTO(t roster.Team) teamDTO {
	return teamDTO{Name: t.Name, Sponsor: t.Sponsor, Label: t.Label()}
}

func teamsToDTO(teams []roster.Team) []teamDTO {
	out := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamToDTO(t))
	}
	return out
}

func recordToDTO(rec match.Record) matchDTO {
	return matchDTO{
		ID:     rec.ID,
		Team1:  rec.Team1,
		Score1: rec.Score1,
		Team2:  rec.Team2,
		Score2: rec.Score2,
		Date:   rec.Date,
		Status: rec.Status,
	}
}

func matchViewToDTO(view usecase.MatchView) matchDTO {
	out := recordToDTO(view.Record)
	out.Index = view.Index
	out.Team1Sponsor = view.Team1Sponsor
	out.Team2Sponsor = view.Team2Sponsor
	return out
}

func statsToDTO(s standings.TeamStats) teamStatsDTO {
	rate := s.WinRate()
	return teamStatsDTO{
		MatchesPlayed: s.MatchesPlayed,
		Wins:          s.Wins,
		Losses:        s.Losses,
		Points:        s.Points,
		WinRate:       rate,
		WinRateText:   standings.FormatWinRate(rate),
	}
}

func standingToDTO(row standings.Row) standingDTO {
	return standingDTO{
		Rank:   row.Rank,
		Team:   teamToDTO(row.Team),
		Stats:  statsToDTO(row.Stats),
		Podium: row.Podium,
	}
}

func teamDetailToDTO(detail standings.TeamDetail) teamDetailDTO {
	matches := make([]teamMatchDTO, 0, len(detail.Matches))
	for _, m := range detail.Matches {
		matches = append(matches, teamMatchDTO{
			ID:            m.Record.ID,
			Date:          m.Record.Date,
			Opponent:      teamToDTO(m.Opponent),
			OwnScore:      m.OwnScore,
			OpponentScore: m.OpponentScore,
			Outcome:       string(m.Outcome),
		})
	}

	return teamDetailDTO{
		Team:    teamToDTO(detail.Team),
		Stats:   statsToDTO(detail.Stats),
		Matches: matches,
	}
}
