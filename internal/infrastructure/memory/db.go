// Package memory backend en memoria con las mismas garantías transaccionales que el de PostgreSQL:
// las transacciones se serializan y un error descarta todo lo escrito. Se usa en pruebas y con
// STORE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

type record struct {
	seq uint64 // orden de inserción; desempate estable en los listados
	val any
}

type tableData map[string]record

// state instantánea inmutable una vez publicada. Las tablas se copian al primer cambio
// dentro de una transacción (copy-on-write).
type state struct {
	tables   map[string]tableData
	owned    map[string]bool
	counters map[string]int
	seq      uint64
}

func newState() *state {
	return &state{
		tables:   map[string]tableData{},
		owned:    map[string]bool{},
		counters: map[string]int{},
	}
}

func (s *state) fork() *state {
	next := &state{
		tables:   make(map[string]tableData, len(s.tables)),
		owned:    map[string]bool{},
		counters: make(map[string]int, len(s.counters)),
		seq:      s.seq,
	}
	for k, v := range s.tables {
		next.tables[k] = v
	}
	for k, v := range s.counters {
		next.counters[k] = v
	}
	return next
}

func (s *state) table(name string) tableData {
	return s.tables[name]
}

func (s *state) mutable(name string) tableData {
	if s.owned[name] {
		return s.tables[name]
	}
	cp := make(tableData, len(s.tables[name])+1)
	for k, v := range s.tables[name] {
		cp[k] = v
	}
	s.tables[name] = cp
	s.owned[name] = true
	return cp
}

func (s *state) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// DB almacén en memoria. Implementa el TxRunner de los casos de uso.
//
// Los escritores se serializan con txMu; los lectores fuera de transacción ven la última
// instantánea confirmada sin bloquear. txMu no es reentrante: dentro de Run solo deben usarse
// los repos recibidos por fn.
type DB struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	committed *state
}

// New crea una base vacía.
func New() *DB {
	return &DB{committed: newState()}
}

func (db *DB) snapshot() *state {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.committed
}

func (db *DB) publish(st *state) {
	db.mu.Lock()
	db.committed = st
	db.mu.Unlock()
}

// Run ejecuta fn en una transacción. Si fn devuelve error nada de lo escrito queda visible.
func (db *DB) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.txMu.Lock()
	defer db.txMu.Unlock()

	st := db.snapshot().fork()
	if err := fn(newRepos(&session{db: db, tx: st})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	db.publish(st)
	return nil
}

// Repos repositorios fuera de transacción: cada escritura se confirma por separado.
func (db *DB) Repos() repository.Repos {
	return newRepos(&session{db: db})
}

// session conexión lógica: dentro de una transacción (tx != nil) o en modo autocommit.
type session struct {
	db *DB
	tx *state
}

func (s *session) read() *state {
	if s.tx != nil {
		return s.tx
	}
	return s.db.snapshot()
}

func (s *session) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()
	st := s.db.snapshot().fork()
	if err := fn(st); err != nil {
		return err
	}
	s.db.publish(st)
	return nil
}
