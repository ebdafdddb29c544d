// internal/config/config.go
//
// Process configuration.
// Values come from the environment; a `.env` file in the working directory is
// loaded first (development convenience, missing file is fine).
//
// Environment variables (defaults in parentheses):
//   PORT (5175)                LOG_LEVEL (info)          DB_PATH (./data/app.db)
//   JWT_SECRET (dev secret)    JWT_EXPIRES_DAYS (14)     COOKIE_NAME (chainreaction_token)
//   CLIENT_ORIGIN (http://localhost:5173)                NODE_ENV ("")
//   DAILY_SALT (local_dev_salt)
//   FIELD_WIDTH (10)  FIELD_HEIGHT (6)  MIN_MINES (150)  MAX_MINES (200)
//   MIN_SEPARATION (0.15)  REACH_RADIUS (0.45)  DETONATION_DELAY (1.0)
//   SCORING (wave)  SCORE_BASE (100)

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/chainreaction/internal/round"
)

// Config is the resolved process configuration.
type Config struct {
	Port     string
	LogLevel zerolog.Level
	DBPath   string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
	DailySalt      string

	Round round.Config
}

// Load reads `.env` (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv resolves a Config from a lookup function (os.Getenv in production).
func FromEnv(getenv func(string) string) (Config, error) {
	e := env{get: getenv}

	lvl, err := zerolog.ParseLevel(e.str("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	rc := round.DefaultConfig()
	rc.Gen.Width = e.floatVal("FIELD_WIDTH", rc.Gen.Width)
	rc.Gen.Height = e.floatVal("FIELD_HEIGHT", rc.Gen.Height)
	rc.Gen.MinMines = e.intVal("MIN_MINES", rc.Gen.MinMines)
	rc.Gen.MaxMines = e.intVal("MAX_MINES", rc.Gen.MaxMines)
	rc.Gen.MinSeparation = e.floatVal("MIN_SEPARATION", rc.Gen.MinSeparation)
	rc.MineRadius = rc.Gen.MinSeparation / 3
	rc.Chain.Reach = e.floatVal("REACH_RADIUS", rc.Chain.Reach)
	rc.Chain.Delay = e.floatVal("DETONATION_DELAY", rc.Chain.Delay)
	rc.Scoring = e.str("SCORING", rc.Scoring)
	rc.ScoreBase = e.intVal("SCORE_BASE", rc.ScoreBase)

	c := Config{
		Port:           e.str("PORT", "5175"),
		LogLevel:       lvl,
		DBPath:         e.str("DB_PATH", "./data/app.db"),
		JWTSecret:      e.str("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: e.intVal("JWT_EXPIRES_DAYS", 14),
		CookieName:     e.str("COOKIE_NAME", "chainreaction_token"),
		ClientOrigin:   e.str("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     e.str("NODE_ENV", "") == "production",
		DailySalt:      e.str("DAILY_SALT", "local_dev_salt"),
		Round:          rc,
	}
	if e.err != nil {
		return Config{}, e.err
	}
	if c.Round.Chain.Reach <= 0 || c.Round.Chain.Delay < 0 {
		return Config{}, fmt.Errorf("REACH_RADIUS must be > 0 and DETONATION_DELAY >= 0")
	}
	return c, nil
}

var errNotFinite = errors.New("not a finite number")

// env reads typed values and keeps the first parse error.
type env struct {
	get func(string) string
	err error
}

func (e *env) str(k, def string) string {
	if v := e.get(k); v != "" {
		return v
	}
	return def
}

func (e *env) intVal(k string, def int) int {
	v := e.get(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("%s: %w", k, err)
	}
	return n
}

func (e *env) floatVal(k string, def float64) float64 {
	v := e.get(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = errNotFinite
	}
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("%s: %w", k, err)
	}
	return f
}
