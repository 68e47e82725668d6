// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store persists the bot roster, ratings, match history and manager
// options in an embedded SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"

	"laptudirm.com/x/arena/pkg/bvb/match"
	"laptudirm.com/x/arena/pkg/bvb/rating"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a looked-up player or result does not exist.
var ErrNotFound = errors.New("store: not found")

const timeLayout = time.RFC3339

// Store is a handle to the bot database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// modernc.org/sqlite misbehaves with concurrent writers on one file.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

/*******************************
 * Player roster and ratings   *
 *******************************/

// AddPlayer registers a new bot. Names are unique.
func (s *Store) AddPlayer(ctx context.Context, name, path string) error {
	player := NewPlayer(name, path)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (name, path, rank, skill, mu, sigma, games, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		player.Name, player.Path, player.Rank, player.Skill,
		player.Mu, player.Sigma, player.Games, player.Active,
	)
	if err != nil {
		return fmt.Errorf("store: add player %q: %w", name, err)
	}
	return nil
}

// Player fetches a single bot by name.
func (s *Store) Player(ctx context.Context, name string) (*Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, path, last_seen, rank, skill, mu, sigma, games, active
		FROM players WHERE name = ?`, name)

	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: player %q: %w", name, ErrNotFound)
	}
	return player, err
}

// Players fetches every registered bot, strongest first.
func (s *Store) Players(ctx context.Context) ([]*Player, error) {
	return s.queryPlayers(ctx, `
		SELECT name, path, last_seen, rank, skill, mu, sigma, games, active
		FROM players ORDER BY skill DESC, name ASC`)
}

// ActivePlayers fetches the bots eligible for selection into rounds.
func (s *Store) ActivePlayers(ctx context.Context) ([]*Player, error) {
	return s.queryPlayers(ctx, `
		SELECT name, path, last_seen, rank, skill, mu, sigma, games, active
		FROM players WHERE active = 1 ORDER BY skill DESC, name ASC`)
}

func (s *Store) queryPlayers(ctx context.Context, query string) ([]*Player, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: query players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*Player, error) {
	var player Player
	var lastSeen string

	err := row.Scan(
		&player.Name, &player.Path, &lastSeen, &player.Rank,
		&player.Skill, &player.Mu, &player.Sigma, &player.Games,
		&player.Active,
	)
	if err != nil {
		return nil, err
	}

	if lastSeen != "" {
		player.LastSeen, _ = time.Parse(timeLayout, lastSeen)
	}
	return &player, nil
}

// SavePlayer writes back a player's rating state after a rated round and
// stamps it as seen now.
func (s *Store) SavePlayer(ctx context.Context, player *Player) error {
	player.LastSeen = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE players SET skill = ?, mu = ?, sigma = ?, games = ?, last_seen = ?
		WHERE name = ?`,
		player.Skill, player.Mu, player.Sigma, player.Games,
		player.LastSeen.Format(timeLayout), player.Name,
	)
	if err != nil {
		return fmt.Errorf("store: save player %q: %w", player.Name, err)
	}
	return ensureFound(result, player.Name)
}

// UpdateRanks recomputes every bot's leaderboard rank from its skill. The
// order is total (ties broken by name) so recomputation is idempotent.
func (s *Store) UpdateRanks(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: update ranks: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT name FROM players ORDER BY skill DESC, name ASC`)
	if err != nil {
		return fmt.Errorf("store: update ranks: %w", err)
	}

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for rank, name := range names {
		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET rank = ? WHERE name = ?`, rank+1, name); err != nil {
			return fmt.Errorf("store: update ranks: %w", err)
		}
	}

	return tx.Commit()
}

// SetActive flips a single bot's eligibility for selection.
func (s *Store) SetActive(ctx context.Context, name string, active bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE players SET active = ? WHERE name = ?`, active, name)
	if err != nil {
		return fmt.Errorf("store: set active %q: %w", name, err)
	}
	return ensureFound(result, name)
}

// SetActiveAll flips every bot's eligibility at once.
func (s *Store) SetActiveAll(ctx context.Context, active bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE players SET active = ?`, active)
	if err != nil {
		return fmt.Errorf("store: set active all: %w", err)
	}
	return nil
}

// UpdatePath points a bot at a new invocation path.
func (s *Store) UpdatePath(ctx context.Context, name, path string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE players SET path = ? WHERE name = ?`, path, name)
	if err != nil {
		return fmt.Errorf("store: update path %q: %w", name, err)
	}
	return ensureFound(result, name)
}

// ResetPlayer gives a bot a fresh rating record, keeping its name, path and
// active flag.
func (s *Store) ResetPlayer(ctx context.Context, name string) error {
	belief := rating.NewBelief()
	result, err := s.db.ExecContext(ctx, `
		UPDATE players SET rank = ?, skill = ?, mu = ?, sigma = ?, games = 0, last_seen = ''
		WHERE name = ?`,
		DefaultRank, belief.Skill(), belief.Mu, belief.Sigma, name,
	)
	if err != nil {
		return fmt.Errorf("store: reset player %q: %w", name, err)
	}
	return ensureFound(result, name)
}

// DeletePlayer removes a bot from the roster. Its match history stays.
func (s *Store) DeletePlayer(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM players WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: delete player %q: %w", name, err)
	}
	return ensureFound(result, name)
}

func ensureFound(result sql.Result, name string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("store: player %q: %w", name, ErrNotFound)
	}
	return nil
}

/*******************************
 * Match history               *
 *******************************/

// AppendMatch records one finished match, one row per contestant under a
// shared game id, and returns that game id. Terminated matches are recorded
// just like clean ones.
func (s *Store) AppendMatch(ctx context.Context, m *match.Match, runID string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: append match: %w", err)
	}
	defer tx.Rollback()

	var gameID int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(game_id), 0) + 1 FROM results`).Scan(&gameID)
	if err != nil {
		return 0, fmt.Errorf("store: append match: %w", err)
	}

	playedAt := m.PlayedAt.UTC().Format(timeLayout)
	for i, contestant := range m.Contestants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO results (
				game_id, run_id, name, finish, score, terminated,
				num_players, map_width, map_height, map_seed,
				map_generator, played_at, log_file, replay_file
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			gameID, runID, contestant.Name,
			m.Results[i].Rank, m.Results[i].Score, m.Terminated[i],
			len(m.Contestants), m.Width, m.Height, m.Seed,
			m.Generator, playedAt, m.Logs[i], m.ReplayFile,
		)
		if err != nil {
			return 0, fmt.Errorf("store: append match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: append match: %w", err)
	}
	return gameID, nil
}

// Result is one match in the history listing, its per-player rows grouped
// back together.
type Result struct {
	GameID   int64
	Names    string // comma separated, ordered by finish
	Finishes string
	Width    int
	Height   int
	Seed     int64
	PlayedAt string
	Replay   string
}

// Results pages through the match history, newest first.
func (s *Store) Results(ctx context.Context, offset, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id,
		       GROUP_CONCAT(name, ', '),
		       GROUP_CONCAT(finish, ', '),
		       map_width, map_height, map_seed, played_at, replay_file
		FROM (SELECT * FROM results ORDER BY finish ASC)
		GROUP BY game_id
		ORDER BY game_id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		err := rows.Scan(
			&r.GameID, &r.Names, &r.Finishes,
			&r.Width, &r.Height, &r.Seed, &r.PlayedAt, &r.Replay,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ReplayFilename resolves a game id to its replay file. Non-positive ids are
// relative to the latest game: 0 is the latest, -1 the one before it.
func (s *Store) ReplayFilename(ctx context.Context, id int64) (int64, string, error) {
	if id <= 0 {
		var latest int64
		err := s.db.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(game_id), 0) FROM results`).Scan(&latest)
		if err != nil {
			return 0, "", fmt.Errorf("store: replay filename: %w", err)
		}
		id += latest
	}

	var replay string
	err := s.db.QueryRowContext(ctx,
		`SELECT replay_file FROM results WHERE game_id = ? LIMIT 1`, id).Scan(&replay)
	if errors.Is(err, sql.ErrNoRows) {
		return id, "", fmt.Errorf("store: game #%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return id, "", fmt.Errorf("store: replay filename: %w", err)
	}
	return id, replay, nil
}

/*******************************
 * Manager options             *
 *******************************/

// Options are the sticky manager settings kept alongside the roster.
type Options struct {
	RecordDir  string
	EngineCmd  string
	Visualizer string
}

// Options fetches the stored manager options.
func (s *Store) Options(ctx context.Context) (Options, error) {
	var opts Options
	err := s.db.QueryRowContext(ctx,
		`SELECT record_dir, engine_cmd, visualizer_cmd FROM options WHERE id = 0`).
		Scan(&opts.RecordDir, &opts.EngineCmd, &opts.Visualizer)
	if err != nil {
		return opts, fmt.Errorf("store: query options: %w", err)
	}
	return opts, nil
}

// SetOptions writes back the manager options.
func (s *Store) SetOptions(ctx context.Context, opts Options) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE options SET record_dir = ?, engine_cmd = ?, visualizer_cmd = ?
		WHERE id = 0`,
		opts.RecordDir, opts.EngineCmd, opts.Visualizer,
	)
	if err != nil {
		return fmt.Errorf("store: set options: %w", err)
	}
	return nil
}
