package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// CorruptError indicates a stored value could not be decoded or does not
// match the shape expected for its slot. Callers treat the slot as absent.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt value in slot %q: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// schemaCache caches compiled slot schemas by slot key.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Slot is a typed JSON value stored under a fixed key. When Schema is set,
// loaded values are checked against it before being decoded into T.
type Slot[T any] struct {
	Key    string
	Schema string
}

// NewSlot returns a Slot for key with the given JSON schema document.
func NewSlot[T any](key, schema string) Slot[T] {
	return Slot[T]{Key: key, Schema: schema}
}

// Load reads the slot. It returns ok=false when the key is absent and a
// *CorruptError when the stored text is not valid for the slot.
func (s Slot[T]) Load(ctx context.Context, kv KV) (T, bool, error) {
	var zero T

	raw, ok, err := kv.Get(ctx, s.Key)
	if err != nil || !ok {
		return zero, false, err
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return zero, false, &CorruptError{Key: s.Key, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if s.Schema != "" {
		compiled, err := s.compiled()
		if err != nil {
			return zero, false, fmt.Errorf("compile schema for %q: %w", s.Key, err)
		}
		if err := compiled.Validate(parsed); err != nil {
			return zero, false, &CorruptError{Key: s.Key, Err: fmt.Errorf("schema validation failed: %w", err)}
		}
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return zero, false, &CorruptError{Key: s.Key, Err: err}
	}
	return v, true, nil
}

// Save encodes v as JSON and stores it.
func (s Slot[T]) Save(ctx context.Context, kv KV, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", s.Key, err)
	}
	return kv.Set(ctx, s.Key, string(data))
}

// Delete removes the slot.
func (s Slot[T]) Delete(ctx context.Context, kv KV) error {
	return kv.Remove(ctx, s.Key)
}

func (s Slot[T]) compiled() (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var def any
	if err := json.Unmarshal([]byte(s.Schema), &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Key)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(s.Key, compiled)
	return compiled, nil
}
