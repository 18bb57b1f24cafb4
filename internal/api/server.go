package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"battlesim/internal/battle"
	"battlesim/internal/content"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server exposes battles over HTTP. It holds no combat logic: every
// rule lives in the battle package, the server only routes and tracks
// instances.
type Server struct {
	store *content.Store
	log   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
	nextID   int
}

type session struct {
	mu       sync.Mutex
	battle   *battle.Battle
	watchers map[*websocket.Conn]bool
}

func NewServer(store *content.Store, log *zap.Logger) *Server {
	return &Server{
		store:    store,
		log:      log,
		sessions: make(map[string]*session),
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/battles", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/battles/{id}/actions", s.handleLegalActions).Methods(http.MethodGet)
	r.HandleFunc("/api/battles/{id}/actions", s.handleExecute).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/end-turn", s.handleEndTurn).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/surrender", s.handleSurrender).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/waves", s.handleSpawnWave).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}/watch", s.handleWatch).Methods(http.MethodGet)
	return r
}

func (s *Server) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := battle.Options{
		Seed:          req.Seed,
		Deterministic: req.Deterministic,
		EnvMods:       req.envMods(),
	}

	var b *battle.Battle
	var err error
	if req.EncounterID > 0 {
		ids := make([]int, len(req.Player))
		ranks := make([]int, len(req.Player))
		for i, p := range req.Player {
			ids[i] = p.UnitID
			ranks[i] = p.Rank
		}
		b, err = battle.NewFromEncounter(s.store, req.EncounterID, ids, ranks, opts)
	} else {
		b, err = battle.New(s.store, req.LayoutID, req.Player, req.Enemy, opts)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("b%d", s.nextID)
	s.sessions[id] = &session{battle: b, watchers: make(map[*websocket.Conn]bool)}
	s.mu.Unlock()

	s.log.Info("battle created", zap.String("id", id), zap.Int64("seed", req.Seed))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(mux.Vars(r)["id"])
	if sess == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	sess.mu.Lock()
	snap := snapshot(sess.battle)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLegalActions(w http.ResponseWriter, r *http.Request) {
	sess := s.session(mux.Vars(r)["id"])
	if sess == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	sess.mu.Lock()
	actions := sess.battle.LegalActions()
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	sess := s.session(mux.Vars(r)["id"])
	if sess == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	var action battle.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess.mu.Lock()
	result := sess.battle.ExecuteAction(action)
	sess.mu.Unlock()

	sess.broadcast(streamEvent{Type: "action", Action: &action, Result: &result})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	sess := s.session(mux.Vars(r)["id"])
	if sess == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	sess.mu.Lock()
	sess.battle.EndTurn()
	snap := snapshot(sess.battle)
	sess.mu.Unlock()

	sess.broadcast(streamEvent{Type: "turn", State: &snap})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSurrender(w http.ResponseWriter, r *http.Request) {
	sess := s.session(mux.Vars(r)["id"])
	if sess == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	sess.mu.Lock()
	sess.battle.Surrender()
	snap := snapshot(sess.battle)
	sess.mu.Unlock()

	sess.broadcast(streamEvent{Type: "surrender", State: &snap})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSpawnWave(w http.ResponseWriter, r *http.Request) {
	sess := s.session(mux.Vars(r)["id"])
	if sess == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	sess.mu.Lock()
	spawned := sess.battle.SpawnWave()
	snap := snapshot(sess.battle)
	sess.mu.Unlock()

	if spawned {
		sess.broadcast(streamEvent{Type: "wave", State: &snap})
	}
	writeJSON(w, http.StatusOK, map[string]any{"spawned": spawned, "state": snap})
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	sess := s.session(mux.Vars(r)["id"])
	if sess == nil {
		writeError(w, http.StatusNotFound, "battle not found")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sess.mu.Lock()
	sess.watchers[conn] = true
	snap := snapshot(sess.battle)
	sess.mu.Unlock()
	_ = conn.WriteJSON(streamEvent{Type: "state", State: &snap})

	// Reads are discarded; the socket exists to push events out. A read
	// error means the watcher left.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sess.mu.Lock()
				delete(sess.watchers, conn)
				sess.mu.Unlock()
				_ = conn.Close()
				return
			}
		}
	}()
}

func (sess *session) broadcast(ev streamEvent) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	for conn := range sess.watchers {
		if err := conn.WriteJSON(ev); err != nil {
			delete(sess.watchers, conn)
			_ = conn.Close()
		}
	}
}
