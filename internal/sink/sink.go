// Package sink defines the write-only storage interface the interpreter
// uses for description-block side effects (script_oid, script_name, and
// friends), plus an in-memory implementation for tests and the CLI. The
// core never reads from a Sink.
package sink

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// FieldKind discriminates the record shapes a script can dispatch.
type FieldKind int

const (
	FieldOID FieldKind = iota
	FieldName
	FieldCategory
	FieldFamily
	FieldVersion
	FieldDependency
	FieldTag
	FieldReference
	FieldValue
)

// Field is one typed record written by a script, addressed by the
// evaluator when it runs a description block or any other sink-backed
// built-in.
type Field struct {
	Kind  FieldKind
	Key   string // tag/reference name, or the value's logical name
	Value value.Value
}

// Sink accepts Field writes keyed by the emitting script. Implementations
// must be safe for whatever concurrency level their documentation states;
// the core only ever calls Dispatch from a single goroutine per script.
type Sink interface {
	Dispatch(scriptKey string, field Field) error
}

// record is one script's accumulated fields, as built by the in-memory sink.
type record struct {
	OID          string
	Name         string
	Category     string
	Family       string
	Version      string
	Dependencies []string
	Tags         map[string]string
	References   map[string][]string
	Values       map[string]value.Value
}

func newRecord() *record {
	return &record{
		Tags:       make(map[string]string),
		References: make(map[string][]string),
		Values:     make(map[string]value.Value),
	}
}

// Memory is an in-process Sink keyed by resolved script key (OID if the
// script declared one, else the filename the caller supplied, else a
// generated run-scoped id), mirroring the original interpreter's
// resolve_key fallback.
type Memory struct {
	mu      sync.Mutex
	records map[string]*record
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*record)}
}

// ResolveKey picks the dispatch key for a script: the filename/key the
// caller provided, or a freshly generated id when that is empty so
// distinct anonymous runs never collide. A declared OID is not consulted
// here; Dispatch makes the record reachable under its OID as well.
func (m *Memory) ResolveKey(filenameOrKey string) string {
	if filenameOrKey != "" {
		return filenameOrKey
	}
	return uuid.NewString()
}

func (m *Memory) Dispatch(scriptKey string, field Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[scriptKey]
	if !ok {
		r = newRecord()
		m.records[scriptKey] = r
	}
	switch field.Kind {
	case FieldOID:
		r.OID = value.ToString(field.Value)
		// an OID write also files the record under the OID itself; it
		// stays reachable under scriptKey too.
		if r.OID != "" && r.OID != scriptKey {
			m.records[r.OID] = r
		}
	case FieldName:
		r.Name = value.ToString(field.Value)
	case FieldCategory:
		r.Category = value.ToString(field.Value)
	case FieldFamily:
		r.Family = value.ToString(field.Value)
	case FieldVersion:
		r.Version = value.ToString(field.Value)
	case FieldDependency:
		r.Dependencies = append(r.Dependencies, value.ToString(field.Value))
	case FieldTag:
		r.Tags[field.Key] = value.ToString(field.Value)
	case FieldReference:
		r.References[field.Key] = append(r.References[field.Key], value.ToString(field.Value))
	case FieldValue:
		r.Values[field.Key] = field.Value
	default:
		return fmt.Errorf("sink: unknown field kind %d", field.Kind)
	}
	return nil
}

// Record returns a snapshot of what has been dispatched for key, for
// tests and the feed transpiler.
func (m *Memory) Record(key string) (oid, name, category, family, version string, dependencies []string, tags map[string]string, references map[string][]string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, found := m.records[key]
	if !found {
		return "", "", "", "", "", nil, nil, nil, false
	}
	return r.OID, r.Name, r.Category, r.Family, r.Version, r.Dependencies, r.Tags, r.References, true
}

// Keys returns every key currently tracked by the sink (OIDs and any
// filename aliases), for drivers that enumerate everything that ran.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	return keys
}
