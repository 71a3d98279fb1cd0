// SQLite-backed Storer, adapted from the teacher's
// internal/store/sqlite_store.go: same driver, same
// mutex-guarded-*sql.DB shape, same "indexed scalar columns plus a JSON
// body column" pattern the teacher uses for Note (indexed folder_id/
// narrative_id alongside the full row) — generalized here so the body
// column carries the full event.Atom / event.Compound / entity.Entity /
// sequencer.Output value (all now cleanly JSON-serializable since
// pkg/reference.Reference carries its own MarshalJSON/UnmarshalJSON),
// while scene_id/turn/kind/tier stay indexed scalar columns for the
// query patterns the pipeline actually needs (by scene, by turn, by
// tier).
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
	"github.com/rs/zerolog/log"

	"github.com/kittclouds/storyweave/pkg/engineerr"
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/sequencer"
)

// SQLiteStore is the SQLite-backed Storer. sqlite-vec is loaded (as the
// teacher loads it) for a future similarity-retrieval extension point on
// the atoms/entities tables; nothing in the current pipeline queries it.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS atoms (
    id TEXT PRIMARY KEY,
    scene_id TEXT NOT NULL,
    turn INTEGER NOT NULL,
    kind INTEGER NOT NULL,
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_atoms_scene ON atoms(scene_id);
CREATE INDEX IF NOT EXISTS idx_atoms_scene_turn ON atoms(scene_id, turn);

CREATE TABLE IF NOT EXISTS compounds (
    id TEXT PRIMARY KEY,
    scene_id TEXT NOT NULL,
    composition INTEGER NOT NULL,
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_compounds_scene ON compounds(scene_id);

CREATE TABLE IF NOT EXISTS entities (
    id TEXT PRIMARY KEY,
    canonical_name TEXT NOT NULL,
    tier INTEGER NOT NULL,
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_tier ON entities(tier);

CREATE TABLE IF NOT EXISTS resolutions (
    scene_id TEXT NOT NULL,
    turn INTEGER NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (scene_id, turn)
);
`

// NewSQLiteStore opens an in-memory SQLite-backed store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN opens a store against dsn (":memory:" or a file
// path).
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	log.Debug().Str("dsn", dsn).Msg("store: sqlite opened")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		log.Debug().Msg("store: sqlite closed")
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) AppendAtom(scene id.ID, atom event.Atom) error {
	body, err := json.Marshal(atom)
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "marshal atom", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO atoms (id, scene_id, turn, kind, data) VALUES (?, ?, ?, ?, ?)`,
		atom.ID.String(), scene.String(), atom.Turn, int(atom.Kind), string(body),
	)
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "insert atom", err)
	}
	return nil
}

func (s *SQLiteStore) ListAtoms(scene id.ID) ([]event.Atom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT data FROM atoms WHERE scene_id = ? ORDER BY turn, rowid`, scene.String())
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "list atoms", err)
	}
	defer rows.Close()

	var out []event.Atom
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "scan atom row", err)
		}
		var atom event.Atom
		if err := json.Unmarshal([]byte(body), &atom); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "unmarshal atom", err)
		}
		out = append(out, atom)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountAtoms(scene id.ID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM atoms WHERE scene_id = ?`, scene.String()).Scan(&n)
	if err != nil {
		return 0, engineerr.Wrap(engineerr.KindStore, "sqlite", "count atoms", err)
	}
	return n, nil
}

func (s *SQLiteStore) AppendCompound(scene id.ID, compound event.Compound) error {
	body, err := json.Marshal(compound)
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "marshal compound", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO compounds (id, scene_id, composition, data) VALUES (?, ?, ?, ?)`,
		compound.ID.String(), scene.String(), int(compound.Composition), string(body),
	)
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "insert compound", err)
	}
	return nil
}

func (s *SQLiteStore) ListCompounds(scene id.ID) ([]event.Compound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT data FROM compounds WHERE scene_id = ? ORDER BY rowid`, scene.String())
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "list compounds", err)
	}
	defer rows.Close()

	var out []event.Compound
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "scan compound row", err)
		}
		var c event.Compound
		if err := json.Unmarshal([]byte(body), &c); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "unmarshal compound", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertEntity(e entity.Entity) error {
	body, err := json.Marshal(e)
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "marshal entity", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO entities (id, canonical_name, tier, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET canonical_name = excluded.canonical_name,
			tier = excluded.tier, data = excluded.data
	`, e.ID.String(), e.CanonicalName, int(e.Tier), string(body))
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "upsert entity", err)
	}
	return nil
}

func (s *SQLiteStore) GetEntity(entityID id.ID) (*entity.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var body string
	err := s.db.QueryRow(`SELECT data FROM entities WHERE id = ?`, entityID.String()).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, engineerr.New(engineerr.KindEntityNotFound, "entity "+entityID.String()+" not found in store")
	}
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "get entity", err)
	}
	var e entity.Entity
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "unmarshal entity", err)
	}
	return &e, nil
}

func (s *SQLiteStore) ListEntities() ([]entity.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT data FROM entities ORDER BY rowid`)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "list entities", err)
	}
	defer rows.Close()

	var out []entity.Entity
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "scan entity row", err)
		}
		var e entity.Entity
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "unmarshal entity", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteEntity(entityID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM entities WHERE id = ?`, entityID.String())
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "delete entity", err)
	}
	return nil
}

func (s *SQLiteStore) CountEntities() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entities`).Scan(&n); err != nil {
		return 0, engineerr.Wrap(engineerr.KindStore, "sqlite", "count entities", err)
	}
	return n, nil
}

func (s *SQLiteStore) RecordResolution(scene id.ID, turn uint32, out sequencer.Output) error {
	body, err := json.Marshal(out)
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "marshal resolution", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO resolutions (scene_id, turn, data) VALUES (?, ?, ?)
		ON CONFLICT(scene_id, turn) DO UPDATE SET data = excluded.data
	`, scene.String(), turn, string(body))
	if err != nil {
		return engineerr.Wrap(engineerr.KindStore, "sqlite", "record resolution", err)
	}
	return nil
}

func (s *SQLiteStore) GetResolution(scene id.ID, turn uint32) (*sequencer.Output, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var body string
	err := s.db.QueryRow(
		`SELECT data FROM resolutions WHERE scene_id = ? AND turn = ?`, scene.String(), turn,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, engineerr.New(engineerr.KindStore, "no resolution recorded for that scene/turn")
	}
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "get resolution", err)
	}
	var out sequencer.Output
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "unmarshal resolution", err)
	}
	return &out, nil
}

func (s *SQLiteStore) ListResolutions(scene id.ID) ([]sequencer.Output, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT data FROM resolutions WHERE scene_id = ? ORDER BY turn`, scene.String())
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "list resolutions", err)
	}
	defer rows.Close()

	var out []sequencer.Output
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "scan resolution row", err)
		}
		var o sequencer.Output
		if err := json.Unmarshal([]byte(body), &o); err != nil {
			return nil, engineerr.Wrap(engineerr.KindStore, "sqlite", "unmarshal resolution", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
