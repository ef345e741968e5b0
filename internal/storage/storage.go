// Package storage persists evaluation and perft results in a local
// BadgerDB so repeated runs over the same positions skip recomputation.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/nocturn9x/heimdall-sub003/internal/nnue"
)

// Key prefixes. Evaluations are keyed by position hash, perft results by
// hash and depth.
const (
	prefixEval  = "eval:"
	prefixPerft = "perft:"
)

// EvalRecord is one stored evaluation. Score is kept ply-compressed on
// disk; Get and Put translate at the caller's ply so mate distances stay
// position-relative no matter where they were found.
type EvalRecord struct {
	FEN     string    `json:"fen"`
	Score   int       `json:"score"`
	SavedAt time.Time `json:"saved_at"`
}

// PerftRecord is one stored perft result.
type PerftRecord struct {
	Nodes   uint64    `json:"nodes"`
	SavedAt time.Time `json:"saved_at"`
}

// Stats reports how many records of each kind the store holds.
type Stats struct {
	EvalEntries  int
	PerftEntries int
}

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenDefault opens the store in the platform data directory.
func OpenDefault() (*Store, error) {
	dir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func evalKey(hash uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", prefixEval, hash))
}

func perftKey(hash uint64, depth int) []byte {
	return []byte(fmt.Sprintf("%s%016x:%d", prefixPerft, hash, depth))
}

// PutEval stores an evaluation for the position with the given hash.
// score is relative to the current root; ply is the position's distance
// from it.
func (s *Store) PutEval(hash uint64, fen string, score, ply int) error {
	rec := EvalRecord{
		FEN:     fen,
		Score:   nnue.CompressMateScore(score, ply),
		SavedAt: time.Now(),
	}
	data, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(evalKey(hash), data)
	})
}

// GetEval looks up a stored evaluation. The returned score is adjusted to
// the caller's ply; ok is false on a miss.
func (s *Store) GetEval(hash uint64, ply int) (EvalRecord, bool, error) {
	var rec EvalRecord
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(evalKey(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil || !found {
		return EvalRecord{}, false, err
	}

	rec.Score = nnue.DecompressMateScore(rec.Score, ply)
	return rec, true, nil
}

// PutPerft stores a perft node count for the position with the given
// hash at the given depth.
func (s *Store) PutPerft(hash uint64, depth int, nodes uint64) error {
	rec := PerftRecord{Nodes: nodes, SavedAt: time.Now()}
	data, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(hash, depth), data)
	})
}

// GetPerft looks up a stored perft result; ok is false on a miss.
func (s *Store) GetPerft(hash uint64, depth int) (uint64, bool, error) {
	var nodes uint64
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(hash, depth))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var rec PerftRecord
			if err := json.Unmarshal(val, &rec); err != nil {
				return err
			}
			nodes = rec.Nodes
			found = true
			return nil
		})
	})
	return nodes, found, err
}

// CollectStats counts the stored records of each kind.
func (s *Store) CollectStats() (Stats, error) {
	var st Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if st.EvalEntries, err = countPrefix(txn, []byte(prefixEval)); err != nil {
			return err
		}
		st.PerftEntries, err = countPrefix(txn, []byte(prefixPerft))
		return err
	})
	return st, err
}

func countPrefix(txn *badger.Txn, prefix []byte) (int, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		n++
	}
	return n, nil
}
