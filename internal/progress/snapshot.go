package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Entry is one element of an exported snapshot.
type Entry struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

// snapshotSchema describes the accepted import format: a bare array of
// objects carrying a string id. progress is deliberately unconstrained so
// that entries with a non-numeric value are dropped instead of failing the
// whole import.
var snapshotSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"id"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
		},
	},
}

const snapshotSchemaURL = "schema://kpv-progress-snapshot.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(snapshotSchemaURL, snapshotSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(snapshotSchemaURL)
	})
	return compiledSchema, compileErr
}

// ExportSnapshot serializes entries as a JSON array in the given order.
// Output is deterministic for identical input.
func ExportSnapshot(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(b, '\n'), nil
}

// ExportFilename suggests a file name for a snapshot taken at t.
func ExportFilename(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "kpv-progress-" + stamp + ".json"
}

// ImportSnapshot parses a snapshot and returns the progress values it carries
// for topics accepted by known. The result is empty, never nil, on success.
//
// A document that is not an array, or has an item without a string id,
// yields *ParseError. Items with an unknown id or a non-numeric progress are
// dropped. Numeric progress is rounded and clamped to [Min, Max]. When an id
// repeats, the last occurrence wins.
func ImportSnapshot(data []byte, known func(id string) bool) (map[string]int, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if dec.More() {
		return nil, &ParseError{Err: fmt.Errorf("invalid JSON: trailing data after snapshot")}
	}

	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	items := doc.([]any)
	result := make(map[string]int, len(items))
	for _, item := range items {
		obj := item.(map[string]any)
		id := obj["id"].(string)
		if known != nil && !known(id) {
			continue
		}
		num, ok := obj["progress"].(float64)
		if !ok || math.IsNaN(num) {
			continue
		}
		result[id] = clampFloat(num)
	}
	return result, nil
}

func clampFloat(v float64) int {
	v = math.Round(v)
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return int(v)
}
