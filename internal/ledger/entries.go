package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// entries is a JSON object of key -> Record that keeps its keys in
// insertion order across encode and decode.
type entries struct {
	keys  []string
	byKey map[string]Record
}

func (e *entries) get(key string) (Record, bool) {
	rec, ok := e.byKey[key]
	return rec, ok
}

func (e *entries) set(key string, rec Record) {
	if e.byKey == nil {
		e.byKey = make(map[string]Record)
	}
	if _, ok := e.byKey[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.byKey[key] = rec
}

func (e *entries) remove(key string) bool {
	if _, ok := e.byKey[key]; !ok {
		return false
	}
	delete(e.byKey, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
	return true
}

func (e entries) values() []Record {
	out := make([]Record, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, e.byKey[k])
	}
	return out
}

func (e entries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(e.byKey[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *entries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ledger: expected object, got %v", tok)
	}

	*e = entries{byKey: make(map[string]Record)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ledger: expected key, got %v", tok)
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("ledger: record %q: %w", key, err)
		}
		e.set(key, rec)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
