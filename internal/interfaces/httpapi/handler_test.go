package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/domain/roster"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/kv"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithStore(t, memory.NewStore())
}

func newTestRouterWithStore(t *testing.T, store kv.Store) http.Handler {
	t.Helper()

	r, err := roster.New([]roster.Team{
		{Sponsor: "Acme", Name: "Lions"},
		{Sponsor: "Globex", Name: "Tigers"},
		{Sponsor: "Initech", Name: "Bears"},
	})
	require.NoError(t, err)

	repo := kv.NewMatchRepository(store, "")
	svc := usecase.NewScoreboardService(r, repo, logging.NewNop())
	svc.Load(context.Background())

	return NewRouter(NewHandler(svc, logging.NewNop()), logging.NewNop(), RouterOptions{CORSAllowedOrigins: []string{"*"}})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), "body=%s", rec.Body.String())
	return out
}

func TestHandler_Healthz(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type unreachableStore struct{}

func (unreachableStore) Name() string { return "redis" }

func (unreachableStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func (unreachableStore) Set(context.Context, string, []byte) error {
	return errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func (unreachableStore) Delete(context.Context, string) error {
	return errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func TestHandler_Readyz(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, newTestRouterWithStore(t, unreachableStore{}), http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	body := decodeEnvelope[any](t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAVAILABLE", body.Error.Status)
	assert.Equal(t, http.StatusServiceUnavailable, body.Error.Code)
}

func TestHandler_WritesSurviveUnreachableStore(t *testing.T) {
	router := newTestRouterWithStore(t, unreachableStore{})

	rec := doRequest(t, router, http.MethodPost, "/v1/matches", `{"team1":"Lions","team2":"Bears","result":"0:2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/v1/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeEnvelope[listDTO[matchDTO]](t, rec).Data.Total)
}

func TestHandler_ListTeams(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/v1/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope[listDTO[teamDTO]](t, rec)
	require.Equal(t, 3, body.Data.Total)
	assert.Equal(t, "Lions", body.Data.Items[0].Name)
	assert.Equal(t, "Acme-Lions", body.Data.Items[0].Label)
}

func TestHandler_AddMatchFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/matches", `{"team1":"Lions","team2":"Tigers","result":"2:0","date":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeEnvelope[matchDTO](t, rec)
	assert.Equal(t, 1, created.Data.ID)
	assert.Equal(t, 2, created.Data.Score1)
	assert.Equal(t, match.StatusCompleted, created.Data.Status)

	rec = doRequest(t, router, http.MethodPost, "/v1/matches", `{"team1":"Tigers","team2":"Lions","result":"1:1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeEnvelope[any](t, rec).Error.Status)

	rec = doRequest(t, router, http.MethodGet, "/v1/matches/check?team1=Tigers&team2=Lions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeEnvelope[pairingDTO](t, rec).Data.CanSchedule)

	rec = doRequest(t, router, http.MethodGet, "/v1/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	table := decodeEnvelope[listDTO[standingDTO]](t, rec)
	require.Len(t, table.Data.Items, 3)
	assert.Equal(t, "Lions", table.Data.Items[0].Team.Name)
	assert.Equal(t, 3, table.Data.Items[0].Stats.Points)
	assert.Equal(t, "100.0%", table.Data.Items[0].Stats.WinRateText)
	assert.True(t, table.Data.Items[0].Podium)

	rec = doRequest(t, router, http.MethodGet, "/v1/teams/Tigers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeEnvelope[teamDetailDTO](t, rec)
	require.Len(t, detail.Data.Matches, 1)
	assert.Equal(t, "loss", detail.Data.Matches[0].Outcome)
	assert.Equal(t, "Lions", detail.Data.Matches[0].Opponent.Name)

	rec = doRequest(t, router, http.MethodGet, "/v1/teams/Lions/opponents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	opponents := decodeEnvelope[listDTO[teamDTO]](t, rec)
	require.Len(t, opponents.Data.Items, 1)
	assert.Equal(t, "Bears", opponents.Data.Items[0].Name)

	rec = doRequest(t, router, http.MethodDelete, "/v1/matches/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, router, http.MethodDelete, "/v1/matches/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_AddMatchValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"team1":`},
		{name: "unknown field", body: `{"team1":"Lions","team2":"Tigers","result":"2:0","venue":"x"}`},
		{name: "missing team", body: `{"team1":"Lions","result":"2:0"}`},
		{name: "bad result", body: `{"team1":"Lions","team2":"Tigers","result":"3:1"}`},
		{name: "self match", body: `{"team1":"Lions","team2":"Lions","result":"1:1"}`},
		{name: "unknown team", body: `{"team1":"Lions","team2":"Wolves","result":"0:2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/v1/matches", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_ListAndClearMatches(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{
		`{"team1":"Lions","team2":"Tigers","result":"2:0"}`,
		`{"team1":"Bears","team2":"Tigers","result":"0:2"}`,
	} {
		rec := doRequest(t, router, http.MethodPost, "/v1/matches", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doRequest(t, router, http.MethodGet, "/v1/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeEnvelope[listDTO[matchDTO]](t, rec)
	require.Equal(t, 2, list.Data.Total)
	assert.Equal(t, 2, list.Data.Items[0].ID)
	assert.Equal(t, 1, list.Data.Items[0].Index)
	assert.Equal(t, "Initech", list.Data.Items[0].Team1Sponsor)

	rec = doRequest(t, router, http.MethodDelete, "/v1/matches", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/matches", "")
	assert.Equal(t, 0, decodeEnvelope[listDTO[matchDTO]](t, rec).Data.Total)
}

func TestHandler_PathValidation(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodDelete, "/v1/matches/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodDelete, "/v1/matches/0", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/v1/teams/Wolves", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/v1/teams/Wolves/opponents", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodGet, "/v1/matches/check?team1=Lions", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodGet, "/v1/matches/check?team1=Lions&team2=Wolves", "").Code)
}

func TestRecoverPanic(t *testing.T) {
	h := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/standings", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewValidator_ScoreResultRule(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = newValidator() })

	valid := addMatchRequest{Team1: "Lions", Team2: "Tigers", Result: "1:1"}
	require.NoError(t, v.Struct(valid))

	invalid := valid
	invalid.Result = "3:1"
	require.Error(t, v.Struct(invalid))
}
