// internal/httpserver/routes_round.go
//
// HTTP routes for free-play rounds:
//   - POST /round/new      → generate a field (optionally from a given seed)
//   - GET  /round/{id}     → current state of a live round
//   - POST /round/detonate → click a mine and follow the chain reaction
//
// Rounds live in the in-memory store. An owner row is written to SQLite when
// a round starts and updated when it is detonated (best effort).

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/chainreaction/internal/chain"
	"github.com/robalobadob/chainreaction/internal/field"
	"github.com/robalobadob/chainreaction/internal/geom"
	"github.com/robalobadob/chainreaction/internal/round"
	"github.com/robalobadob/chainreaction/internal/store"
)

// roundView is the JSON shape of a round.
type roundView struct {
	RoundID    string          `json:"roundId"`
	State      string          `json:"state"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	MineRadius float64         `json:"mineRadius"`
	Reach      float64         `json:"reach"`
	Delay      float64         `json:"delay"`
	Mines      []geom.Location `json:"mines"`
	Selection  *geom.Location  `json:"selection,omitempty"`
	Result     *chain.Result   `json:"result,omitempty"`
}

func newRoundView(rd *round.Round) roundView {
	v := roundView{
		RoundID:    rd.ID,
		State:      rd.State(),
		Width:      rd.Config.Gen.Width,
		Height:     rd.Config.Gen.Height,
		MineRadius: rd.Config.MineRadius,
		Reach:      rd.Config.Chain.Reach,
		Delay:      rd.Config.Chain.Delay,
		Mines:      rd.Mines(),
	}
	if sel, res, ok := rd.Outcome(); ok {
		v.Selection, v.Result = &sel, &res
	}
	return v
}

// newRoundReq is the optional payload for POST /round/new.
type newRoundReq struct {
	Seed *int64 `json:"seed"`
}

// handleNewRound creates a round, stores it, and records its owner.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}

	seed := rand.Int64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rd, err := round.New(s.cfg.Round, seed)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Int64("seed", seed).Msg("new round")
		writeErr(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save round")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordRoundStart(w, r, rd)

	writeJSON(w, http.StatusOK, newRoundView(rd))
}

// recordRoundStart writes the owner row (user_id or anonymous_id).
func (s *Server) recordRoundStart(w http.ResponseWriter, r *http.Request, rd *round.Round) {
	userID, anonID := s.owner(w, r)
	_, err := s.db.ExecContext(r.Context(),
		`INSERT INTO rounds (id, user_id, anonymous_id, seed, mine_count, status, started_at)
		 VALUES (?,?,?,?,?,?,?)`,
		rd.ID, userID, anonID, rd.Seed, len(rd.Mines()), round.StateArmed, rd.StartedAt.Format(time.RFC3339))
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("roundId", rd.ID).Msg("insert round row")
	}
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newRoundView(rd))
}

// detonateReq is the payload for POST /round/detonate and /daily/detonate.
type detonateReq struct {
	RoundID string  `json:"roundId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// detonateRes is returned after a successful detonation.
type detonateRes struct {
	RoundID     string        `json:"roundId"`
	Selection   geom.Location `json:"selection"`
	Events      []chain.Event `json:"events"`
	Total       int           `json:"total"`
	PrettyTotal string        `json:"prettyTotal"`
	Detonated   int           `json:"detonated"`
	MineCount   int           `json:"mineCount"`
}

func (s *Server) handleDetonate(w http.ResponseWriter, r *http.Request) {
	var req detonateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	rd, ok := s.loadRound(w, r, req.RoundID)
	if !ok {
		return
	}
	// Daily rounds only finish through /daily/detonate, which records the result.
	if rd.Daily != "" {
		writeErr(w, http.StatusConflict, "daily_round")
		return
	}
	res, ok := s.detonate(w, r, rd, req)
	if !ok {
		return
	}
	s.recordRoundFinish(w, r, rd, res)
	writeJSON(w, http.StatusOK, res)
}

// detonate runs the round's chain reaction and maps engine errors to HTTP.
func (s *Server) detonate(w http.ResponseWriter, r *http.Request, rd *round.Round, req detonateReq) (detonateRes, bool) {
	res, err := rd.Detonate(geom.Location{X: req.X, Y: req.Y})
	switch {
	case errors.Is(err, field.ErrNoMine):
		writeErr(w, http.StatusUnprocessableEntity, "no_mine")
		return detonateRes{}, false
	case errors.Is(err, round.ErrFinished):
		writeErr(w, http.StatusConflict, "finished")
		return detonateRes{}, false
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("roundId", rd.ID).Msg("detonate")
		writeErr(w, http.StatusInternalServerError, "detonate_failed")
		return detonateRes{}, false
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("roundId", rd.ID).Msg("save detonated round")
	}

	hlog.FromRequest(r).Info().
		Str("roundId", rd.ID).
		Int("detonated", len(res.Events)).
		Int("score", res.Total).
		Msg("chain reaction")

	return detonateRes{
		RoundID:     rd.ID,
		Selection:   res.Events[0].Location,
		Events:      res.Events,
		Total:       res.Total,
		PrettyTotal: chain.FormatScore(res.Total),
		Detonated:   len(res.Events),
		MineCount:   rd.Field().Size(),
	}, true
}

// recordRoundFinish updates the round row and, for signed-in players, their
// stats (best effort, non-fatal if it fails).
func (s *Server) recordRoundFinish(w http.ResponseWriter, r *http.Request, rd *round.Round, res detonateRes) {
	userID, anonID := s.owner(w, r)
	ownerClause, ownerArg := `anonymous_id=?`, any(anonID)
	if userID != nil {
		ownerClause, ownerArg = `user_id=?`, any(*userID)
	}

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	upd, err := tx.Exec(`UPDATE rounds SET status=?, selection_x=?, selection_y=?, detonated=?, score=?, finished_at=?
	                     WHERE id=? AND `+ownerClause,
		round.StateDetonated, res.Selection.X, res.Selection.Y, res.Detonated, res.Total,
		rd.FinishedAt().Format(time.RFC3339), rd.ID, ownerArg)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("finish round")
		return
	}
	// Stats only count rounds the caller owns.
	if n, err := upd.RowsAffected(); err != nil || n == 0 {
		return
	}
	if userID != nil {
		if err := bumpStats(tx, *userID, res.Total); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", *userID).Msg("bump stats")
			return
		}
	}
	if err := tx.Commit(); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("roundId", rd.ID).Msg("commit finished round")
	}
}

// owner returns (userID, nil) for signed-in players, (nil, anonID) otherwise.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (*string, *string) {
	if me := currentUser(r); me != nil {
		return &me.ID, nil
	}
	anon := s.ensureAnonID(w, r)
	return nil, &anon
}

// loadRound fetches a live round, answering 404/500 itself on failure.
func (s *Server) loadRound(w http.ResponseWriter, r *http.Request, id string) (*round.Round, bool) {
	rd, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found")
		return nil, false
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("roundId", id).Msg("load round")
		writeErr(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return rd, true
}
