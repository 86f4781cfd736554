// Package ilio is the file-based stand-in for the AST->IL boundary: it
// round-trips an il.Module to and from disk so cmd/blend65c has something
// concrete to load without a lexer/parser/semantic analyzer in scope.
package ilio

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// WriteModule gob-encodes m to path.
func WriteModule(path string, m *il.Module) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ilio: create %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("ilio: encode %s: %w", path, err)
	}
	return nil
}

// ReadModule decodes an il.Module previously written by WriteModule.
func ReadModule(path string) (*il.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ilio: open %s: %w", path, err)
	}
	defer f.Close()
	var m il.Module
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("ilio: decode %s: %w", path, err)
	}
	for _, fn := range m.Functions {
		fn.Rehydrate()
	}
	return &m, nil
}
