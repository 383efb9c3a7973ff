package roster

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		teams     []Team
		targetErr error
		wantErr   bool
	}{
		{
			name:  "valid roster",
			teams: []Team{{Sponsor: "S1", Name: "A"}, {Sponsor: "S2", Name: "B"}},
		},
		{
			name:      "empty roster",
			teams:     nil,
			targetErr: ErrEmptyRoster,
			wantErr:   true,
		},
		{
			name:      "duplicate name",
			teams:     []Team{{Sponsor: "S1", Name: "A"}, {Sponsor: "S2", Name: " A "}},
			targetErr: ErrDuplicateTeam,
			wantErr:   true,
		},
		{
			name:    "blank name",
			teams:   []Team{{Sponsor: "S1", Name: "  "}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.teams)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.targetErr != nil && !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestRoster_LookupAndPosition(t *testing.T) {
	r, err := New([]Team{{Sponsor: "S1", Name: "A"}, {Sponsor: "S2", Name: "B"}})
	if err != nil {
		t.Fatalf("new roster: %v", err)
	}

	team, ok := r.Lookup("B")
	if !ok || team.Sponsor != "S2" {
		t.Fatalf("unexpected lookup result: %+v ok=%v", team, ok)
	}
	if got := r.Position("B"); got != 1 {
		t.Fatalf("expected position 1, got %d", got)
	}
	if got := r.Position("Z"); got != -1 {
		t.Fatalf("expected position -1 for unknown team, got %d", got)
	}
	if r.Contains("Z") {
		t.Fatalf("did not expect Z to be a member")
	}
	if got := team.Label(); got != "S2-B" {
		t.Fatalf("unexpected label: %s", got)
	}
}

func TestParse(t *testing.T) {
	teams, err := Parse("OMG:弑神, Solo ,,Eyebre:荒年")
	if err != nil {
		t.Fatalf("parse roster: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(teams))
	}
	if teams[0].Sponsor != "OMG" || teams[0].Name != "弑神" {
		t.Fatalf("unexpected first team: %+v", teams[0])
	}
	if teams[1].Sponsor != "" || teams[1].Name != "Solo" {
		t.Fatalf("unexpected second team: %+v", teams[1])
	}

	if _, err := Parse("Sponsor:"); err == nil {
		t.Fatalf("expected error for empty team name")
	}
}

func TestDefault(t *testing.T) {
	r := Default()
	if r.Len() != 11 {
		t.Fatalf("expected 11 default teams, got %d", r.Len())
	}
}
