package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hotsuka/todo-app/internal/logger"
	"github.com/hotsuka/todo-app/internal/model"
)

const (
	DefaultKey    = "todoApp"
	SchemaVersion = "1.0.0"
)

// probe key for IsAvailable; never holds real data
const probeKey = "__storage_probe__"

// Envelope is the single record persisted to the store. The field names
// are part of the on-disk format, do not rename them.
type Envelope struct {
	Version     string       `json:"version"`
	Todos       []model.Task `json:"todos"`
	LastUpdated string       `json:"lastUpdated"`
}

// StorageError marks a persistence failure. It is always returned, never
// panicked: a broken store must not take down the in-memory session.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Adapter reads and writes the versioned envelope under a fixed key.
// Key and schema version are explicit so tests can isolate themselves.
type Adapter struct {
	kv      KV
	key     string
	version string
}

func NewAdapter(kv KV, key, version string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if version == "" {
		version = SchemaVersion
	}
	return &Adapter{kv: kv, key: key, version: version}
}

// Load returns the stored task records. Every failure path degrades to an
// empty slice: a missing key, unreadable value, malformed JSON or a todos
// field that is not a list all mean "no tasks".
func (a *Adapter) Load() []model.Task {
	data, ok, err := a.kv.Get(a.key)
	if err != nil {
		logger.Log.Warnw("failed to read envelope, treating as empty", "key", a.key, "error", err)
		return []model.Task{}
	}
	if !ok {
		return []model.Task{}
	}

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		logger.Log.Warnw("discarding unparseable envelope", "key", a.key, "error", err)
		return []model.Task{}
	}

	if envelope.Version != a.version {
		logger.Log.Warnw("envelope schema version mismatch",
			"stored", envelope.Version, "current", a.version)
	}

	if envelope.Todos == nil {
		return []model.Task{}
	}
	return envelope.Todos
}

// Save wraps the records in a fresh envelope and overwrites the stored
// value. The returned error is always a *StorageError; callers surface it
// to the user and keep going.
func (a *Adapter) Save(records []model.Task) error {
	envelope := Envelope{
		Version:     a.version,
		Todos:       records,
		LastUpdated: time.Now().Format(time.RFC3339),
	}
	if envelope.Todos == nil {
		envelope.Todos = []model.Task{}
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		logger.Log.Errorw("failed to serialize envelope", "error", err)
		return &StorageError{Op: "save", Err: err}
	}

	if err := a.kv.Set(a.key, data); err != nil {
		logger.Log.Errorw("failed to write envelope", "key", a.key, "error", err)
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Clear removes the stored envelope entirely.
func (a *Adapter) Clear() error {
	if err := a.kv.Delete(a.key); err != nil {
		logger.Log.Errorw("failed to clear envelope", "key", a.key, "error", err)
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

// ExportRaw returns the stored envelope string verbatim, with ok=false
// when nothing has been persisted yet.
func (a *Adapter) ExportRaw() (string, bool) {
	data, ok, err := a.kv.Get(a.key)
	if err != nil || !ok {
		return "", false
	}
	return string(data), true
}

// ImportRaw validates that the given string parses and carries a todos
// list, then writes it to the store verbatim. Nothing is written on
// rejection. The envelope version is not checked here.
func (a *Adapter) ImportRaw(raw string) error {
	var envelope struct {
		Todos json.RawMessage `json:"todos"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return &StorageError{Op: "import", Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	// A missing field leaves the RawMessage nil; an explicit JSON null
	// captures the literal "null". Neither is a list.
	var todos []json.RawMessage
	if envelope.Todos == nil || string(envelope.Todos) == "null" ||
		json.Unmarshal(envelope.Todos, &todos) != nil {
		return &StorageError{Op: "import", Err: errors.New("todos field is missing or not a list")}
	}

	if err := a.kv.Set(a.key, []byte(raw)); err != nil {
		logger.Log.Errorw("failed to write imported envelope", "key", a.key, "error", err)
		return &StorageError{Op: "import", Err: err}
	}
	return nil
}

// IsAvailable probes the store with a throwaway write/delete cycle.
func (a *Adapter) IsAvailable() bool {
	if err := a.kv.Set(probeKey, []byte("probe")); err != nil {
		return false
	}
	return a.kv.Delete(probeKey) == nil
}
