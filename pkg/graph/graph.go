package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Snapshot file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// FormatFromPath infers the snapshot format from a file extension.
// Unknown extensions default to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ReadSnapshotFile reads a snapshot file, choosing the decoder by extension.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f, FormatFromPath(path))
}

// ReadSnapshot decodes a snapshot in the given format from r.
func ReadSnapshot(r io.Reader, format string) (Snapshot, error) {
	var s Snapshot
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
			return Snapshot{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
			return Snapshot{}, fmt.Errorf("decode toml: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return Snapshot{}, fmt.Errorf("decode: %w", err)
		}
	default:
		return Snapshot{}, fmt.Errorf("unsupported snapshot format: %q", format)
	}
	return s, nil
}

// MarshalSnapshot encodes a snapshot as compact JSON. The output is stable
// for identical input and is used for cache keys.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// WriteSnapshot encodes a snapshot to w in the given format.
func WriteSnapshot(w io.Writer, s Snapshot, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported snapshot format: %q", format)
	}
}
