package manual

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FileNode is one file in a snapshot.
type FileNode struct {
	Name         string `json:"name"`
	RelativePath string `json:"relativePath"`
}

// DirectoryNode is one directory in a snapshot. RelativePath is slash-separated
// and relative to the scan root; the scan root itself is ".".
type DirectoryNode struct {
	Name         string           `json:"name"`
	RelativePath string           `json:"relativePath"`
	Directories  []*DirectoryNode `json:"directories"`
	Files        []FileNode       `json:"files"`
}

// Totals are aggregate counts over a snapshot tree.
type Totals struct {
	Directories     int `json:"directories"`
	LeafDirectories int `json:"leafDirectories"`
	Files           int `json:"files"`
}

// Schema is the snapshot handed from the mapper to the importer.
type Schema struct {
	Root   *DirectoryNode `json:"root"`
	Totals *Totals        `json:"totals,omitempty"`
}

// CountTotals walks the tree rooted at n. The root counts as a directory.
func CountTotals(n *DirectoryNode) Totals {
	t := Totals{Directories: 1, Files: len(n.Files)}
	if len(n.Directories) == 0 {
		t.LeafDirectories = 1
	}
	for _, child := range n.Directories {
		ct := CountTotals(child)
		t.Directories += ct.Directories
		t.LeafDirectories += ct.LeafDirectories
		t.Files += ct.Files
	}
	return t
}

// EncodeSchema writes s as indented JSON.
func EncodeSchema(w io.Writer, s *Schema) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	return nil
}

// DecodeSchema parses a snapshot strictly: unknown fields, trailing data,
// missing nodes and totals that disagree with the tree are all rejected.
func DecodeSchema(r io.Reader) (*Schema, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var s Schema
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after schema", ErrInvalidSchema)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks structural invariants of the snapshot.
func (s *Schema) Validate() error {
	if s.Root == nil {
		return fmt.Errorf("%w: missing root", ErrInvalidSchema)
	}
	if err := validateNode(s.Root, "root"); err != nil {
		return err
	}
	if s.Totals != nil {
		got := CountTotals(s.Root)
		if got != *s.Totals {
			return fmt.Errorf("%w: totals %+v do not match tree %+v", ErrInvalidSchema, *s.Totals, got)
		}
	}
	return nil
}

func validateNode(n *DirectoryNode, where string) error {
	if n == nil {
		return fmt.Errorf("%w: null directory under %s", ErrInvalidSchema, where)
	}
	if n.Name == "" || n.RelativePath == "" {
		return fmt.Errorf("%w: directory under %s needs name and relativePath", ErrInvalidSchema, where)
	}
	for _, f := range n.Files {
		if f.Name == "" || f.RelativePath == "" {
			return fmt.Errorf("%w: file in %s needs name and relativePath", ErrInvalidSchema, n.RelativePath)
		}
	}
	for _, child := range n.Directories {
		if err := validateNode(child, n.RelativePath); err != nil {
			return err
		}
	}
	return nil
}

// WriteSchema serializes s and stores it in the vault under key.
func WriteSchema(v Vault, key string, s *Schema) error {
	var buf bytes.Buffer
	if err := EncodeSchema(&buf, s); err != nil {
		return err
	}
	if err := v.PutSnapshot(key, &buf, int64(buf.Len())); err != nil {
		return fmt.Errorf("storing schema: %w", err)
	}
	return nil
}

// ReadSchema loads and strictly parses the snapshot stored under key.
func ReadSchema(v Vault, key string) (*Schema, error) {
	var buf bytes.Buffer
	if err := v.GetSnapshot(key, &buf); err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return DecodeSchema(&buf)
}
