package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is the serialisation of an artifact file.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Artifact is the on-disk envelope of a trained model.
type Artifact struct {
	Type       string              `json:"type" yaml:"type"`
	Version    string              `json:"version,omitempty" yaml:"version,omitempty"`
	Columns    []string            `json:"columns" yaml:"columns"`
	Classes    []string            `json:"classes" yaml:"classes"`
	Categories map[string][]string `json:"categories" yaml:"categories"`

	// decision_tree
	Nodes []TreeNode `json:"nodes,omitempty" yaml:"nodes,omitempty"`

	// logistic_regression
	Logistic *LogisticParams `json:"logistic,omitempty" yaml:"logistic,omitempty"`
}

// FormatFromPath picks the artifact format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unrecognised artifact extension %q", filepath.Ext(path))
	}
}

// DecodeArtifact reads an artifact in the given format.
func DecodeArtifact(r io.Reader, format Format) (*Artifact, error) {
	var a Artifact
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&a); err != nil {
			return nil, fmt.Errorf("decoding json artifact: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&a); err != nil {
			return nil, fmt.Errorf("decoding yaml artifact: %w", err)
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("decoding msgpack artifact: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported artifact format %q", format)
	}
	return &a, nil
}

// EncodeArtifact writes an artifact in the given format.
func EncodeArtifact(w io.Writer, a *Artifact, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(a); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(a); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("unsupported artifact format %q", format)
	}
}

// ReadArtifact loads an artifact file from disk.
func ReadArtifact(path string) (*Artifact, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model artifact: %w", err)
	}
	defer file.Close()

	return DecodeArtifact(file, format)
}

// Load reads the artifact at path and builds the classifier it describes.
func Load(path string) (Classifier, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	c, err := New(a)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return c, nil
}
