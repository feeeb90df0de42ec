package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/engine"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

var testHome = world.HexCoord{Q: -2, R: 0}

func testServer(t *testing.T) (*Server, *engine.Session) {
	t.Helper()

	m := world.NewMap(3)
	for _, c := range world.CoordsInRange(world.HexCoord{}, 3) {
		m.Set(&world.Hex{Coord: c, Terrain: world.TerrainPlains})
	}
	st := &game.GameState{
		Seed: 99,
		Turn: 4,
		Map:  m,
		Tribes: []*game.Tribe{{
			ID:       "alpha",
			Name:     "Alpha",
			HomeBase: testHome,
			Global:   game.Resources{Food: 100, Scrap: 50, Morale: 50},
			Garrisons: map[string]*game.Garrison{
				testHome.Key(): {Troops: 10, Weapons: 2},
			},
			Diplomacy:     map[string]game.DiplomaticRelation{},
			ExploredHexes: map[string]bool{testHome.Key(): true},
		}},
	}
	session := engine.NewSession(st, &engine.Env{Catalogs: catalog.Default()})
	srv := &Server{
		Session:  session,
		Catalogs: catalog.Default(),
		AdminKey: "secret",
	}
	return srv, session
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Turn   int `json:"turn"`
		Tribes int `json:"tribes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Turn != 4 || resp.Tribes != 1 {
		t.Fatalf("status body = %+v", resp)
	}
}

func TestSubmitActionsAcceptsValidQueue(t *testing.T) {
	srv, session := testServer(t)
	body := fmt.Sprintf(
		`{"tribe_id":"alpha","actions":[{"type":"recruit","recruit":{"location":%q,"troops":2}}]}`,
		testHome.Key(),
	)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !session.HasSubmitted("alpha") {
		t.Fatal("submission did not reach the session")
	}
}

func TestSubmitActionsRejectsBadSchema(t *testing.T) {
	srv, session := testServer(t)
	for name, body := range map[string]string{
		"unknown type":   `{"tribe_id":"alpha","actions":[{"type":"summon_dragon"}]}`,
		"missing tribe":  `{"actions":[]}`,
		"bad coordinate": `{"tribe_id":"alpha","actions":[{"type":"recruit","recruit":{"location":"nope","troops":1}}]}`,
		"zero troops":    `{"tribe_id":"alpha","actions":[{"type":"recruit","recruit":{"location":"048.050","troops":0}}]}`,
		"not json":       `{{{`,
	} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
	if session.HasSubmitted("alpha") {
		t.Fatal("rejected submission reached the session")
	}
}

func TestSubmitActionsUnknownTribe(t *testing.T) {
	srv, _ := testServer(t)
	body := `{"tribe_id":"ghost","actions":[]}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTurnRequiresBearerToken(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/turn", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/turn", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", rec.Code)
	}

	srv.AdminKey = ""
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/turn", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("disabled admin: status = %d, want 403", rec.Code)
	}
}

func TestTurnResolvesWithAuth(t *testing.T) {
	srv, session := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/turn", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if session.Turn() != 5 {
		t.Fatalf("turn = %d, want 5", session.Turn())
	}
}

func TestTribeDetailHidesQueuedActions(t *testing.T) {
	srv, session := testServer(t)
	if err := session.SubmitActions("alpha", []game.GameAction{{Type: game.ActionRecruit}}); err != nil {
		t.Fatalf("SubmitActions: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tribe/alpha", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Tribe struct {
			ID      string            `json:"id"`
			Actions []game.GameAction `json:"actions"`
		} `json:"tribe"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Tribe.ID != "alpha" {
		t.Fatalf("tribe = %q", resp.Tribe.ID)
	}
	if len(resp.Tribe.Actions) != 0 {
		t.Fatal("queued actions leaked through the tribe detail view")
	}
}
