// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records reads and writes reference lists as JSON, YAML, or
// CSL-YAML so they can be handed to the dedupe engine.
package records

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// Format names an on-disk reference list encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSL  Format = "csl"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatCSL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml, or csl)", s)
	}
}

// FormatFromPath picks the format from a file name. Files ending in
// .csl.yaml or .csl.yml are CSL; .json is JSON; .yaml and .yml are YAML.
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".csl.yaml"), strings.HasSuffix(name, ".csl.yml"):
		return FormatCSL, nil
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("cannot infer format of %s", path)
	}
}

// ReadFile loads a reference list, choosing the format from the path.
func ReadFile(path string) ([]types.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	recs, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return recs, nil
}

// Read decodes a reference list. The document must be a list of mappings;
// anything else fails with dedupe.ErrInvalidInput.
func Read(r io.Reader, format Format) ([]types.Record, error) {
	switch format {
	case FormatCSL:
		return readCSL(r)
	case FormatJSON:
		var doc any
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
		return toRecords(doc)
	case FormatYAML:
		var doc any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if err == io.EOF {
				return []types.Record{}, nil
			}
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		return toRecords(doc)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func toRecords(doc any) ([]types.Record, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: document is %T, want a list", dedupe.ErrInvalidInput, doc)
	}
	recs := make([]types.Record, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is %T, want a mapping", dedupe.ErrInvalidInput, i, item)
		}
		recs[i] = types.Record(m)
	}
	return recs, nil
}

// WriteFile saves records, choosing the format from the path.
func WriteFile(path string, recs []types.Record) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, recs, format); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Write encodes records in the given format.
func Write(w io.Writer, recs []types.Record, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatCSL:
		return writeCSL(w, recs)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// OutputPath derives the default output name for an input file:
// refs.json becomes refs.dedupe.json.
func OutputPath(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	for _, ext := range []string{".csl.yaml", ".csl.yml"} {
		if strings.HasSuffix(lower, ext) {
			stem := name[:len(name)-len(ext)]
			return filepath.Join(filepath.Dir(path), stem+".dedupe"+name[len(stem):])
		}
	}
	ext := filepath.Ext(name)
	return filepath.Join(filepath.Dir(path), strings.TrimSuffix(name, ext)+".dedupe"+ext)
}
