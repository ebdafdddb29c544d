// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's round (creates or reuses session)
//   - POST /daily/detonate    → detonate a mine in today's round
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Each player can play once per day (enforced by DB + in-memory session).
// The field is generated from a seed derived from the date + salt, so every
// player faces the same mines.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/chainreaction/internal/daily"
	"github.com/robalobadob/chainreaction/internal/round"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]string // userID|date → round ID
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/detonate", dd.handleDetonate)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the signed-in user ID or the anonymous cookie ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Round  *roundView `json:"round,omitempty"`
}

// handleNew creates or reuses today's round for the player.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory session.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	id, ok := d.sessions[key]
	d.mu.Unlock()
	if ok {
		if rd, err := d.srv.store.Get(r.Context(), id); err == nil {
			v := newRoundView(rd)
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Round: &v})
			return
		}
	}

	rd, err := round.New(d.srv.cfg.Round, daily.Seed(now, d.salt))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("new daily round")
		writeErr(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	rd.Daily = date
	if err := d.srv.store.Save(r.Context(), rd); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.mu.Lock()
	d.sessions[key] = rd.ID
	d.mu.Unlock()

	v := newRoundView(rd)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Round: &v})
}

// -----------------------------------------------------------------------------
// /daily/detonate

// handleDetonate applies the player's click to today's round and records the
// result on success.
func (d *dailyServer) handleDetonate(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var req detonateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}

	now := d.now()
	date := daily.DateKey(now)
	key := uid + "|" + date
	d.mu.Lock()
	id, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || id != req.RoundID {
		writeErr(w, http.StatusConflict, "no_session")
		return
	}

	rd, ok := d.srv.loadRound(w, r, id)
	if !ok {
		return
	}
	res, ok := d.srv.detonate(w, r, rd, req)
	if !ok {
		return
	}

	if err := d.store.InsertResult(r.Context(), daily.Result{
		UserID:    uid,
		Date:      date,
		Seed:      rd.Seed,
		Score:     res.Total,
		Detonated: res.Detonated,
		MineCount: res.MineCount,
	}); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
