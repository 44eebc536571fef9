// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package store persists a corpus of plugin CodeDNA fingerprints to a
// SQLite database (via modernc.org/sqlite, a pure-Go driver requiring no
// cgo) so an LSHIndex can be rebuilt from disk across process restarts
// without re-fingerprinting every artifact. The database is always the
// system of record; the in-memory LSHIndex is a derived, disposable
// structure.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	_ "modernc.org/sqlite"

	"codedna/cerrors"
	"codedna/classfile"
	"codedna/fingerprint"
)

// Store wraps a *sql.DB open against a corpus database file.
type Store struct {
	db     *sql.DB
	logger *log.Helper
}

// SetLogger attaches a logger used to report a corrupt record met while
// streaming the corpus back out (All), before All stops and returns the
// error for it.
func (s *Store) SetLogger(logger *log.Helper) {
	s.logger = logger
}

// Meta records the corpus-wide configuration an LSHIndex was (or will
// be) built with, so a later search/serve run can refuse to query a
// corpus built under an incompatible mode instead of silently mixing
// exact- and fuzzy-mode signatures.
type Meta struct {
	K         int
	B         int
	HashAlgo  string
	FuzzyMode bool
}

const schema = `
CREATE TABLE IF NOT EXISTS plugins (
	plugin_id      TEXT PRIMARY KEY,
	artifact_name  TEXT NOT NULL,
	version        TEXT,
	codedna_json   BLOB NOT NULL,
	minhash_class  BLOB,
	minhash_methods BLOB,
	minhash_api    BLOB,
	indexed_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	k           INTEGER NOT NULL,
	b           INTEGER NOT NULL,
	hash_algo   TEXT NOT NULL,
	fuzzy_mode  INTEGER NOT NULL
);
`

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// PutMeta writes the corpus-wide configuration row, replacing any prior
// value (there is ever only one).
func (s *Store) PutMeta(m Meta) error {
	_, err := s.db.Exec(
		`INSERT INTO meta (id, k, b, hash_algo, fuzzy_mode) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET k = excluded.k, b = excluded.b,
			hash_algo = excluded.hash_algo, fuzzy_mode = excluded.fuzzy_mode`,
		m.K, m.B, m.HashAlgo, boolToInt(m.FuzzyMode),
	)
	return err
}

// Meta reads the corpus-wide configuration row. Returns a SchemaError if
// no corpus has been built yet.
func (s *Store) Meta() (Meta, error) {
	var m Meta
	var fuzzy int
	err := s.db.QueryRow(`SELECT k, b, hash_algo, fuzzy_mode FROM meta WHERE id = 1`).
		Scan(&m.K, &m.B, &m.HashAlgo, &fuzzy)
	if err == sql.ErrNoRows {
		return Meta{}, cerrors.NewSchemaError("meta", "corpus has not been built yet")
	}
	if err != nil {
		return Meta{}, err
	}
	m.FuzzyMode = fuzzy != 0
	return m, nil
}

// PluginRecord is one persisted corpus entry: a fingerprint plus the
// MinHash signatures computed over its three indexed dimensions.
type PluginRecord struct {
	PluginID        string
	ArtifactName    string
	Version         string
	DNA             *fingerprint.CodeDNA
	MinHashClass    []uint64
	MinHashMethods  []uint64
	MinHashAPI      []uint64
}

// Put upserts one plugin record. mode must match the corpus-wide Meta
// this Store was (or will be) configured with.
func (s *Store) Put(rec PluginRecord, hashAlgo string, mode classfile.Mode) error {
	dnaJSON, err := fingerprint.Marshal(rec.DNA, hashAlgo, mode)
	if err != nil {
		return fmt.Errorf("store: marshaling codedna for %s: %w", rec.PluginID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO plugins (plugin_id, artifact_name, version, codedna_json,
			minhash_class, minhash_methods, minhash_api, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(plugin_id) DO UPDATE SET
			artifact_name = excluded.artifact_name,
			version = excluded.version,
			codedna_json = excluded.codedna_json,
			minhash_class = excluded.minhash_class,
			minhash_methods = excluded.minhash_methods,
			minhash_api = excluded.minhash_api,
			indexed_at = excluded.indexed_at`,
		rec.PluginID, rec.ArtifactName, rec.Version, dnaJSON,
		uint64sToBytes(rec.MinHashClass), uint64sToBytes(rec.MinHashMethods), uint64sToBytes(rec.MinHashAPI),
		time.Now().UnixMilli(),
	)
	return err
}

// All streams every persisted plugin record, in plugin_id order, calling
// fn for each. Iteration stops at the first error fn returns.
func (s *Store) All(fn func(PluginRecord) error) error {
	rows, err := s.db.Query(
		`SELECT plugin_id, artifact_name, version, codedna_json,
			minhash_class, minhash_methods, minhash_api
		 FROM plugins ORDER BY plugin_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rec PluginRecord
		var dnaJSON, classB, methodsB, apiB []byte
		if err := rows.Scan(&rec.PluginID, &rec.ArtifactName, &rec.Version, &dnaJSON,
			&classB, &methodsB, &apiB); err != nil {
			return err
		}

		dna, err := fingerprint.Unmarshal(dnaJSON)
		if err != nil {
			if s.logger != nil {
				s.logger.Errorf("store: corrupt codedna row for %s: %v", rec.PluginID, err)
			}
			return fmt.Errorf("store: unmarshaling codedna for %s: %w", rec.PluginID, err)
		}
		rec.DNA = dna
		rec.MinHashClass = bytesToUint64s(classB)
		rec.MinHashMethods = bytesToUint64s(methodsB)
		rec.MinHashAPI = bytesToUint64s(apiB)

		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Count returns the number of persisted plugin records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM plugins`).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func uint64sToBytes(vs []uint64) []byte {
	out := make([]byte, len(vs)*8)
	for i, v := range vs {
		for j := 0; j < 8; j++ {
			out[i*8+j] = byte(v >> (j * 8))
		}
	}
	return out
}

func bytesToUint64s(b []byte) []uint64 {
	if len(b) == 0 {
		return nil
	}
	out := make([]uint64, len(b)/8)
	for i := range out {
		var v uint64
		for j := 0; j < 8; j++ {
			v |= uint64(b[i*8+j]) << (j * 8)
		}
		out[i] = v
	}
	return out
}
