package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/config"
	"github.com/mauv0809/polo-stats/internal/database"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/notifier"
	slacknotifier "github.com/mauv0809/polo-stats/internal/notifier/slack"
	"github.com/mauv0809/polo-stats/internal/processor"
	"github.com/mauv0809/polo-stats/internal/pubsub"
	"github.com/mauv0809/polo-stats/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	metrics *metrics.Service
	pubsub  *pubsub.MockPubSubClient
}

// setupTestServer initializes a new server with a test database and mock clients.
// A nil matches store uses the database.
func setupTestServer(t *testing.T, notif notifier.Notifier, matches match.Store) (*testServer, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	players := club.New(db)
	if matches == nil {
		matches = match.New(db)
	}
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: testSlackSigningSecret}}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	counters := metrics.NewCounterStore(db)
	ps := pubsub.NewMock()
	proc := processor.New(matches, players, notif, metricsSvc, counters, ps)
	server := NewServer(players, matches, session.NewManager(12), metricsSvc, counters, metricsHandler, cfg, notif, proc, ps)

	require.NoError(t, players.AddPlayer(club.PlayerInfo{ID: "p1", Number: 1, Name: "Keeper", IsGoalkeeper: true}))
	require.NoError(t, players.AddPlayer(club.PlayerInfo{ID: "p4", Number: 4, Name: "Four"}))
	require.NoError(t, players.AddPlayer(club.PlayerInfo{ID: "p9", Number: 9, Name: "Nine"}))

	return &testServer{Server: server, metrics: metricsSvc, pubsub: ps}, dbTeardown
}

// do sends a JSON request through the router.
func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// openSession creates a session against CN Rival with p4 called up.
func (s *testServer) openSession(t *testing.T) string {
	t.Helper()
	rr := s.do(t, "POST", "/sessions", map[string]any{"opponent": "CN Rival", "match_date": "2025-02-08", "is_home": true})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := decode[session.View](t, rr).SessionID
	rr = s.do(t, "POST", "/sessions/"+id+"/roster", map[string]string{"player_id": "p4"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return id
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req, err := http.NewRequest("POST", targetURL, bytes.NewReader(bodyBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), nil)
	defer teardown()

	rr := server.do(t, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestListPlayersHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), nil)
	defer teardown()

	rr := server.do(t, "GET", "/players", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	players := decode[[]club.PlayerInfo](t, rr)
	assert.Len(t, players, 3)
	assert.Contains(t, rr.Body.String(), "Keeper")
}

func TestSessionLifecycle(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), nil)
	defer teardown()

	id := server.openSession(t)

	rr := server.do(t, "POST", "/sessions/"+id+"/stats", map[string]any{"player_id": "p4", "field": "goles_boya_jugada", "value": 2})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	view := decode[session.View](t, rr)
	assert.Equal(t, 2, view.Score.Home)
	assert.Equal(t, 2, view.Quarters[0].Home, "the open first quarter absorbs the goals")
	require.Len(t, view.Players, 1)
	assert.Equal(t, 2, view.Players[0].Stats["goles_totales"])
	assert.Equal(t, 100, view.Players[0].Stats["tiros_eficiencia"])

	rr = server.do(t, "POST", "/sessions/"+id+"/quarters/1/close", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decode[session.View](t, rr).Quarters[0].Closed)

	rr = server.do(t, "POST", "/sessions/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	saved := decode[match.Match](t, rr)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, 2, saved.HomeScore)
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.MatchesSaved))
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.StatEdits))

	rr = server.do(t, "GET", "/matches/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"goles_boya_jugada":2`)

	// Saving again updates the same match.
	rr = server.do(t, "POST", "/sessions/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, saved.ID, decode[match.Match](t, rr).ID)

	rr = server.do(t, "GET", "/usage", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	usage := decode[map[string]int](t, rr)
	assert.Equal(t, 1, usage[metrics.CounterMatchesCreated])
	assert.Equal(t, 1, usage[metrics.CounterMatchesUpdated])

	rr = server.do(t, "DELETE", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = server.do(t, "GET", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Resume the saved match in a new session.
	rr = server.do(t, "POST", "/sessions/load?matchID="+saved.ID, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	loaded := decode[session.View](t, rr)
	assert.Equal(t, saved.ID, loaded.MatchID)
	assert.Equal(t, "CN Rival", loaded.Info.Opponent)
	assert.Equal(t, 2, loaded.Score.Home)
	assert.True(t, loaded.Quarters[0].Closed)
	assert.Equal(t, 2.0, testutil.ToFloat64(server.metrics.SessionsOpened))
}

func TestSessionErrors(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), nil)
	defer teardown()
	id := server.openSession(t)

	t.Run("unknown session", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/nope/stats", map[string]any{"player_id": "p4", "field": "tiros_fuera", "value": 1})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/"+id+"/stats", map[string]any{"player_id": "p4", "field": "nope", "value": 1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("derived field", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/"+id+"/stats", map[string]any{"player_id": "p4", "field": "goles_totales", "value": 1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown squad member", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/"+id+"/roster", map[string]string{"player_id": "ghost"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("duplicate call-up", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/"+id+"/roster", map[string]string{"player_id": "p4"})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("removing a player with stats", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/"+id+"/stats", map[string]any{"player_id": "p4", "field": "tiros_fuera", "value": 1})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = server.do(t, "DELETE", "/sessions/"+id+"/roster/p4", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
		rr = server.do(t, "POST", "/sessions/"+id+"/substitutions", map[string]string{"out": "p4", "in": "p9"})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("invalid quarter", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/"+id+"/quarters/5/close", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("keeper shot for a field player", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions/"+id+"/keeper-shots", map[string]any{"goalkeeper_id": "p4", "result": "save", "x": 0.5, "y": 0.5})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/sessions/"+id+"/stats", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSaveSessionHandler_Validation(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), nil)
	defer teardown()

	t.Run("missing opponent", func(t *testing.T) {
		rr := server.do(t, "POST", "/sessions", nil)
		require.Equal(t, http.StatusCreated, rr.Code)
		id := decode[session.View](t, rr).SessionID

		rr = server.do(t, "POST", "/sessions/"+id+"/save", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, session.ErrOpponentRequired.Error(), decode[map[string]string](t, rr)["error"])
	})

	t.Run("tied match without shootout", func(t *testing.T) {
		id := server.openSession(t)

		rr := server.do(t, "POST", "/sessions/"+id+"/save", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, decode[map[string]string](t, rr)["error"], "penalty")
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(server.metrics.ValidationRejections))
	rr := server.do(t, "GET", "/matches", nil)
	assert.Equal(t, "[]\n", rr.Body.String(), "nothing is written for a rejected save")
}

func TestSaveSessionHandler_Shootout(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), nil)
	defer teardown()
	id := server.openSession(t)

	steps := []struct {
		method, path string
		body         any
	}{
		{"POST", "/roster", map[string]string{"player_id": "p1"}},
		{"POST", "/shootout/shooters", map[string]any{"player_id": "p4", "scored": true}},
		{"POST", "/shootout/rivals", map[string]any{"result": "saved", "goalkeeper_id": "p1"}},
		{"POST", "/shootout/scores", map[string]any{"home": 1, "away": 0}},
	}
	for _, step := range steps {
		rr := server.do(t, step.method, "/sessions/"+id+step.path, step.body)
		require.Equal(t, http.StatusOK, rr.Code, "%s %s: %s", step.method, step.path, rr.Body.String())
	}

	rr := server.do(t, "POST", "/sessions/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	saved := decode[match.Match](t, rr)
	require.NotNil(t, saved.PenaltyHome)
	assert.Equal(t, 1, *saved.PenaltyHome)

	rr = server.do(t, "GET", "/matches/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"portero_paradas_penalti_parado":1`)
	assert.Contains(t, rr.Body.String(), `"shot_order":2`)
}

func TestSaveSessionHandler_StoreFailure(t *testing.T) {
	matches := match.NewMock()
	matches.InsertStatsFunc = func(rows []match.StatRow) error { return errors.New("disk full") }
	server, teardown := setupTestServer(t, notifier.NewMock(), matches)
	defer teardown()
	id := server.openSession(t)
	rr := server.do(t, "POST", "/sessions/"+id+"/stats", map[string]any{"player_id": "p4", "field": "goles_boya_jugada", "value": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = server.do(t, "POST", "/sessions/"+id+"/save", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "failed to save match", decode[map[string]string](t, rr)["error"])
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.SaveFailures))
	assert.Equal(t, []string{"UpsertMatch", "DeleteStats", "InsertStats"}, matches.Calls)
}

func TestProcessMatchesHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, teardown := setupTestServer(t, notif, nil)
	defer teardown()
	id := server.openSession(t)
	rr := server.do(t, "POST", "/sessions/"+id+"/stats", map[string]any{"player_id": "p4", "field": "goles_boya_jugada", "value": 1})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = server.do(t, "POST", "/sessions/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	saved := decode[match.Match](t, rr)

	t.Run("dry run leaves the match untouched", func(t *testing.T) {
		rr := server.do(t, "POST", "/process?dry_run=true", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		m, err := server.Matches.GetMatch(t.Context(), saved.ID)
		require.NoError(t, err)
		assert.Equal(t, match.StatusSaved, m.ProcessingStatus)
		assert.Empty(t, server.pubsub.SendMessageCalls)
	})

	t.Run("completes saved matches", func(t *testing.T) {
		notif.Reset()
		rr := server.do(t, "POST", "/process", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, notif.SendResultNotificationCalls, 1)
		assert.Equal(t, "Four", notif.SendResultNotificationCalls[0].Scorers[0].Name)
		require.Len(t, server.pubsub.SendMessageCalls, 1)
		m, err := server.Matches.GetMatch(t.Context(), saved.ID)
		require.NoError(t, err)
		assert.Equal(t, match.StatusCompleted, m.ProcessingStatus)
	})
}

func TestMatchSavedEventHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), nil)
	defer teardown()

	payload, err := msgpack.Marshal(pubsub.MatchSavedEvent{MatchID: "m1", Opponent: "CN Rival"})
	require.NoError(t, err)
	body := map[string]any{
		"subscription": "projects/p/subscriptions/match-saved",
		"message":      map[string]any{"data": payload}, // []byte marshals as base64
	}

	rr := server.do(t, "POST", "/events/match-saved", body)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, server.pubsub.ProcessMessageCalls, 1)

	rr = server.do(t, "POST", "/events/match-saved", map[string]any{"message": map[string]string{"data": "%%%"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMatchCommandHandler(t *testing.T) {
	slackNotifier := slacknotifier.NewNotifierWithAPI(nil, "C123", "CN Polo", metrics.NewMock())
	server, teardown := setupTestServer(t, slackNotifier, nil)
	defer teardown()
	id := server.openSession(t)
	rr := server.do(t, "POST", "/sessions/"+id+"/stats", map[string]any{"player_id": "p4", "field": "goles_boya_jugada", "value": 1})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = server.do(t, "POST", "/sessions/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	t.Run("lists latest results", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/match", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Latest results")
		assert.Contains(t, rr.Body.String(), "CN Polo 1 - 0 CN Rival")
	})

	t.Run("shows a match by opponent", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "rival")
		req := createSlackCommandRequest(t, "/slack/command/match", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "#4 Four: 1/1")
	})

	t.Run("handles not found match", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Unknown")
		req := createSlackCommandRequest(t, "/slack/command/match", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "couldn't find a match")
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/match", url.Values{}, testSlackSigningSecret)
		// Tamper with the signature to make it invalid
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/match", url.Values{}, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/match", url.Values{}, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
