package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/signadot/graft/debug"
)

// Config holds settings for a badger-backed store.
type Config struct {
	// Dir is the directory for the database files.  Ignored when
	// InMemory is set.
	Dir string

	// InMemory disables disk persistence.
	InMemory bool

	// SyncWrites makes writes durable before Put returns.
	SyncWrites bool

	// Logger receives badger's internal logging.  Nil disables it.
	Logger *slog.Logger
}

func DefaultConfig(dir string) Config {
	return Config{Dir: dir, SyncWrites: true}
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Badger persists payloads in an embedded badger database.
type Badger struct {
	db *badger.DB
}

func OpenBadger(cfg Config) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{log: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open store at %q: %w", cfg.Dir, err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Put(key string, p *Payload) error {
	d, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if debug.Store() {
		debug.Logf("store put %q: payload %s (%d items)\n", key, p.ID, len(p.Items))
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), d)
	})
}

func (b *Badger) Get(key string) (*Payload, error) {
	var p *Payload
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			p = &Payload{}
			return json.Unmarshal(val, p)
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (b *Badger) Clear(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger adapts slog to badger's Logger interface.
type badgerLogger struct {
	log *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
