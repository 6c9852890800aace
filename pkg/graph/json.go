package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	perrors "github.com/matzehuels/pipelayout/pkg/errors"
)

// =============================================================================
// Pipeline Serialization API
// =============================================================================

// MarshalPipeline converts a pipeline to indented JSON bytes.
// Steps are written in insertion order.
func MarshalPipeline(p *Pipeline) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePipeline(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePipeline writes a pipeline as indented JSON to w.
func WritePipeline(p *Pipeline, w io.Writer) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

// WritePipelineFile writes a pipeline to a JSON file.
// The file is created with 0644 permissions.
func WritePipelineFile(p *Pipeline, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePipeline(p, f)
}

// ReadPipeline decodes a JSON pipeline from r.
// Decoding errors are reported with code INVALID_FORMAT; duplicate or
// malformed step ids keep their own codes.
func ReadPipeline(r io.Reader) (*Pipeline, error) {
	var p Pipeline
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		if perrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode pipeline")
	}
	return &p, nil
}

// ReadPipelineFile reads a JSON file and returns the decoded pipeline.
func ReadPipelineFile(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPipeline(f)
}

// =============================================================================
// Topology
// =============================================================================

// MarshalTopology returns a canonical encoding of the parts of a pipeline
// that influence layout and sequencing: step ids in order and their incoming
// connections. Titles, parameters and positions are excluded, so the result
// is suitable as a cache key input.
func MarshalTopology(p *Pipeline) []byte {
	type entry struct {
		ID       string   `json:"id"`
		Incoming []string `json:"in"`
	}
	entries := make([]entry, len(p.steps))
	for i, s := range p.steps {
		entries[i] = entry{ID: s.UUID, Incoming: s.IncomingConnections}
	}
	data, _ := json.Marshal(entries)
	return data
}

// =============================================================================
// Internal Implementation
// =============================================================================

type pipelineJSON struct {
	UUID     string          `json:"uuid,omitempty"`
	Name     string          `json:"name,omitempty"`
	Version  string          `json:"version,omitempty"`
	Settings map[string]any  `json:"settings,omitempty"`
	Steps    json.RawMessage `json:"steps"`
}

// MarshalJSON encodes the pipeline with its steps as a JSON object keyed by
// step id, in insertion order.
func (p *Pipeline) MarshalJSON() ([]byte, error) {
	var steps bytes.Buffer
	steps.WriteByte('{')
	for i, s := range p.steps {
		if i > 0 {
			steps.WriteByte(',')
		}
		key, err := json.Marshal(s.UUID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", s.UUID, err)
		}
		steps.Write(key)
		steps.WriteByte(':')
		steps.Write(val)
	}
	steps.WriteByte('}')

	return json.Marshal(pipelineJSON{
		UUID:     p.UUID,
		Name:     p.Name,
		Version:  p.Version,
		Settings: p.Settings,
		Steps:    steps.Bytes(),
	})
}

// UnmarshalJSON decodes a pipeline, preserving the key order of the steps
// object. A step whose "uuid" field is empty takes its key as id; a step
// whose "uuid" disagrees with its key is rejected.
func (p *Pipeline) UnmarshalJSON(data []byte) error {
	var raw pipelineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Pipeline{
		UUID:     raw.UUID,
		Name:     raw.Name,
		Version:  raw.Version,
		Settings: raw.Settings,
	}
	if err := decodeSteps(raw.Steps, &out); err != nil {
		return err
	}
	*p = out
	return nil
}

func decodeSteps(data json.RawMessage, p *Pipeline) error {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return perrors.New(perrors.ErrCodeInvalidFormat, "steps must be a JSON object keyed by step id")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var s Step
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("step %s: %w", key, err)
		}
		switch {
		case s.UUID == "":
			s.UUID = key
		case s.UUID != key:
			return perrors.New(perrors.ErrCodeInvalidInput, "step keyed %q declares uuid %q", key, s.UUID)
		}
		if err := p.AddStep(s); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
