package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

var ErrUsage = errors.New("usage error")

const usageText = `commands:
  teams                                 list the roster
  matches                               list recorded matches, newest first
  standings                             show the ranking table
  team <name>                           show one team's record
  opponents <name>                      list teams <name> has not played yet
  check <team1> <team2>                 report whether the pair can still play
  add <team1> <team2> <2:0|1:1|0:2> [date]
                                        record a match
  delete <id>                           delete a match
  clear                                 delete every match
`

type Options struct {
	In  io.Reader
	Out io.Writer
	// AssumeYes skips confirmation prompts for delete and clear.
	AssumeYes bool
}

type CLI struct {
	scoreboard *usecase.ScoreboardService
	in         *bufio.Reader
	out        io.Writer
	assumeYes  bool
}

func New(scoreboard *usecase.ScoreboardService, opts Options) *CLI {
	in := opts.In
	if in == nil {
		in = strings.NewReader("")
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &CLI{
		scoreboard: scoreboard,
		in:         bufio.NewReader(in),
		out:        out,
		assumeYes:  opts.AssumeYes,
	}
}

func Usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// Run executes one command. Errors wrapping ErrUsage mean the arguments were
// malformed; everything else comes from the scoreboard service.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "teams":
		return c.teams(ctx, rest)
	case "matches":
		return c.matches(ctx, rest)
	case "standings":
		return c.standings(ctx, rest)
	case "team":
		return c.team(ctx, rest)
	case "opponents":
		return c.opponents(ctx, rest)
	case "check":
		return c.check(ctx, rest)
	case "add":
		return c.add(ctx, rest)
	case "delete":
		return c.delete(ctx, rest)
	case "clear":
		return c.clear(ctx, rest)
	case "help":
		Usage(c.out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (c *CLI) teams(ctx context.Context, args []string) error {
	if err := expectArgs("teams", args, 0, 0); err != nil {
		return err
	}
	return renderTeams(c.out, c.scoreboard.Teams(ctx))
}

func (c *CLI) matches(ctx context.Context, args []string) error {
	if err := expectArgs("matches", args, 0, 0); err != nil {
		return err
	}
	return renderMatches(c.out, c.scoreboard.ListMatches(ctx))
}

func (c *CLI) standings(ctx context.Context, args []string) error {
	if err := expectArgs("standings", args, 0, 0); err != nil {
		return err
	}
	return renderStandings(c.out, c.scoreboard.Standings(ctx))
}

func (c *CLI) team(ctx context.Context, args []string) error {
	if err := expectArgs("team", args, 1, 1); err != nil {
		return err
	}

	detail, err := c.scoreboard.TeamDetail(ctx, args[0])
	if err != nil {
		return err
	}
	return renderTeamDetail(c.out, detail)
}

func (c *CLI) opponents(ctx context.Context, args []string) error {
	if err := expectArgs("opponents", args, 1, 1); err != nil {
		return err
	}

	teams, err := c.scoreboard.AvailableOpponents(ctx, args[0])
	if err != nil {
		return err
	}
	if len(teams) == 0 {
		_, err := fmt.Fprintf(c.out, "%s has played every team\n", args[0])
		return err
	}
	return renderTeams(c.out, teams)
}

func (c *CLI) check(ctx context.Context, args []string) error {
	if err := expectArgs("check", args, 2, 2); err != nil {
		return err
	}

	ok, err := c.scoreboard.CanSchedule(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	verdict := "can be scheduled"
	if !ok {
		verdict = "cannot be scheduled"
	}
	_, err = fmt.Fprintf(c.out, "%s vs %s: %s\n", args[0], args[1], verdict)
	return err
}

func (c *CLI) add(ctx context.Context, args []string) error {
	if err := expectArgs("add", args, 3, 4); err != nil {
		return err
	}

	input := usecase.AddMatchInput{Team1: args[0], Team2: args[1], Result: args[2]}
	if len(args) == 4 {
		input.Date = args[3]
	}

	rec, err := c.scoreboard.AddMatch(ctx, input)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "recorded match %d: %s %d:%d %s (%s)\n",
		rec.ID, rec.Team1, rec.Score1, rec.Score2, rec.Team2, rec.Date)
	return err
}

func (c *CLI) delete(ctx context.Context, args []string) error {
	if err := expectArgs("delete", args, 1, 1); err != nil {
		return err
	}

	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: match id must be a positive integer, got %q", ErrUsage, args[0])
	}

	if !c.confirm(fmt.Sprintf("delete match %d?", id)) {
		_, err := fmt.Fprintln(c.out, "aborted")
		return err
	}
	if err := c.scoreboard.DeleteMatch(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "deleted match %d\n", id)
	return err
}

func (c *CLI) clear(ctx context.Context, args []string) error {
	if err := expectArgs("clear", args, 0, 0); err != nil {
		return err
	}

	if !c.confirm("delete every recorded match? this cannot be undone") {
		_, err := fmt.Fprintln(c.out, "aborted")
		return err
	}
	c.scoreboard.ClearMatches(ctx)
	_, err := fmt.Fprintln(c.out, "all matches cleared")
	return err
}

func (c *CLI) confirm(question string) bool {
	if c.assumeYes {
		return true
	}

	fmt.Fprintf(c.out, "%s [y/N] ", question)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func expectArgs(cmd string, args []string, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return fmt.Errorf("%w: %s takes %s", ErrUsage, cmd, argCount(lo, hi))
	}
	return nil
}

func argCount(lo, hi int) string {
	switch {
	case hi == 0:
		return "no arguments"
	case lo == hi && lo == 1:
		return "1 argument"
	case lo == hi:
		return fmt.Sprintf("%d arguments", lo)
	default:
		return fmt.Sprintf("%d to %d arguments", lo, hi)
	}
}
