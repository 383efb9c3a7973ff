package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
	"github.com/riskibarqy/league-scoreboard/internal/domain/standings"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const matchDateLayout = "2006-01-02"

type AddMatchInput struct {
	Team1  string
	Team2  string
	Result string
	Date   string
}

// MatchView is a log entry as shown in the match list.
type MatchView struct {
	Index        int
	Record       match.Record
	Team1Sponsor string
	Team2Sponsor string
}

// ScoreboardService owns the match log for one tournament and keeps the
// configured repository in sync with it. All operations are serialised.
type ScoreboardService struct {
	mu     sync.Mutex
	roster *roster.Roster
	log    *match.Log
	repo   match.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewScoreboardService(r *roster.Roster, repo match.Repository, logger *logging.Logger) *ScoreboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreboardService{
		roster: r,
		log:    match.NewLog(r),
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Load replaces the in-memory log with the stored one. A failed or malformed
// load leaves an empty log; the failure is logged, not returned.
func (s *ScoreboardService) Load(ctx context.Context) int {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.Load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load match log failed, starting empty", "error", err)
		records = nil
	}

	rejected := s.log.Replace(records)
	for _, item := range rejected {
		s.logger.WarnContext(ctx, "dropped stored match",
			"match_id", item.Record.ID,
			"team1", item.Record.Team1,
			"team2", item.Record.Team2,
			"reason", item.Reason,
		)
	}
	s.logger.InfoContext(ctx, "match log loaded", "matches", s.log.Len(), "dropped", len(rejected))

	return s.log.Len()
}

func (s *ScoreboardService) Teams(ctx context.Context) []roster.Team {
	return s.roster.Teams()
}

func (s *ScoreboardService) CanSchedule(ctx context.Context, team1, team2 string) (bool, error) {
	team1 = strings.TrimSpace(team1)
	team2 = strings.TrimSpace(team2)
	if team1 == "" || team2 == "" {
		return false, fmt.Errorf("%w: both teams are required", ErrInvalidInput)
	}
	for _, name := range []string{team1, team2} {
		if !s.roster.Contains(name) {
			return false, fmt.Errorf("%w: %w: %s", ErrInvalidInput, roster.ErrUnknownTeam, name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.log.CanSchedule(team1, team2), nil
}

func (s *ScoreboardService) AddMatch(ctx context.Context, input AddMatchInput) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.AddMatch",
		attribute.String("team1", input.Team1),
		attribute.String("team2", input.Team2),
	)

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = s.now().Format(matchDateLayout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.log.Add(input.Team1, input.Team2, input.Result, date)
	if err != nil {
		err = classifyAddError(err)
		endSpan(span, err)
		return match.Record{}, err
	}
	defer span.End()

	s.persist(ctx)
	s.logger.InfoContext(ctx, "match recorded",
		"match_id", record.ID,
		"team1", record.Team1,
		"team2", record.Team2,
		"score", fmt.Sprintf("%d:%d", record.Score1, record.Score2),
	)

	return record, nil
}

func (s *ScoreboardService) DeleteMatch(ctx context.Context, id int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.DeleteMatch", attribute.Int("match_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.log.Remove(id); err != nil {
		err = fmt.Errorf("%w: %w", ErrNotFound, err)
		endSpan(span, err)
		return err
	}
	defer span.End()

	s.persist(ctx)
	s.logger.InfoContext(ctx, "match deleted", "match_id", id)

	return nil
}

func (s *ScoreboardService) ClearMatches(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.ClearMatches")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Clear()
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "clear stored match log failed", "error", classifyStorageError(err))
	}
	s.logger.InfoContext(ctx, "match log cleared")
}

// ListMatches returns the log newest first, numbered from 1.
func (s *ScoreboardService) ListMatches(ctx context.Context) []MatchView {
	s.mu.Lock()
	records := s.log.All()
	s.mu.Unlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})

	out := make([]MatchView, 0, len(records))
	for idx, item := range records {
		out = append(out, MatchView{
			Index:        idx + 1,
			Record:       item,
			Team1Sponsor: s.sponsorOf(item.Team1),
			Team2Sponsor: s.sponsorOf(item.Team2),
		})
	}

	return out
}

func (s *ScoreboardService) Standings(ctx context.Context) []standings.Row {
	_, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.Standings")
	defer span.End()

	s.mu.Lock()
	records := s.log.All()
	s.mu.Unlock()

	return standings.Rank(s.roster, standings.Compute(s.roster, records))
}

func (s *ScoreboardService) TeamDetail(ctx context.Context, teamName string) (standings.TeamDetail, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return standings.TeamDetail{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	s.mu.Lock()
	records := s.log.All()
	s.mu.Unlock()

	detail, err := standings.Detail(s.roster, records, teamName)
	if err != nil {
		return standings.TeamDetail{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return detail, nil
}

// AvailableOpponents lists roster teams the given team has not played yet,
// in roster order.
func (s *ScoreboardService) AvailableOpponents(ctx context.Context, teamName string) ([]roster.Team, error) {
	teamName = strings.TrimSpace(teamName)
	if !s.roster.Contains(teamName) {
		return nil, fmt.Errorf("%w: %w: %s", ErrNotFound, roster.ErrUnknownTeam, teamName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]roster.Team, 0, s.roster.Len())
	for _, item := range s.roster.Teams() {
		if s.log.CanSchedule(teamName, item.Name) {
			out = append(out, item)
		}
	}

	return out, nil
}

// persist writes the whole log. Callers hold s.mu. A failed save keeps the
// in-memory mutation.
func (s *ScoreboardService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.log.All()); err != nil {
		s.logger.ErrorContext(ctx, "save match log failed", "error", classifyStorageError(err))
	}
}

// Ready reports whether the match storage backend can be read. A stored
// payload that fails to decode still counts as ready.
func (s *ScoreboardService) Ready(ctx context.Context) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.Ready")
	defer func() { endSpan(span, err) }()

	if _, loadErr := s.repo.Load(ctx); loadErr != nil {
		if errors.Is(loadErr, match.ErrStorageUnavailable) {
			return classifyStorageError(loadErr)
		}
		s.logger.WarnContext(ctx, "stored match log is unreadable", "error", loadErr)
	}
	return nil
}

func classifyStorageError(err error) error {
	if errors.Is(err, match.ErrStorageUnavailable) {
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
}

func (s *ScoreboardService) sponsorOf(name string) string {
	team, ok := s.roster.Lookup(name)
	if !ok {
		return ""
	}
	return team.Sponsor
}

func classifyAddError(err error) error {
	switch {
	case errors.Is(err, match.ErrDuplicatePairing):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, match.ErrInvalidPairing),
		errors.Is(err, match.ErrInvalidResult),
		errors.Is(err, roster.ErrUnknownTeam):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
