package config

import (
	"bytes"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// Serialization helpers shared by every structured record the pipeline
// writes to disk. JSON uses 2-space indentation, YAML 4-space; both formats
// carry the identical logical schema and round-trip losslessly.

// WriteJSON serializes v to path as indented JSON.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot marshal JSON").WithDetail(path)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot write JSON file").WithDetail(path)
	}
	return nil
}

// ReadJSON reads a JSON file into a fresh *T. Unknown fields are rejected so
// that typos in config files surface at load time instead of silently
// producing a half-populated record.
func ReadJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePathNotFound, "cannot read JSON file").WithDetail(path)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	out := new(T)
	if err := dec.Decode(out); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "cannot decode JSON").WithDetail(path)
	}
	return out, nil
}

// WriteYAML serializes v to path as YAML with 4-space indentation. Struct
// fields are emitted in declaration order, never alphabetized.
func WriteYAML(path string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot marshal YAML").WithDetail(path)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot finalize YAML").WithDetail(path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot write YAML file").WithDetail(path)
	}
	return nil
}

// ReadYAML reads a YAML file into a fresh *T. yaml.v3 never executes custom
// tags, so untrusted files cannot trigger arbitrary construction.
func ReadYAML[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePathNotFound, "cannot read YAML file").WithDetail(path)
	}
	out := new(T)
	if err := yaml.Unmarshal(data, out); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "cannot decode YAML").WithDetail(path)
	}
	return out, nil
}
