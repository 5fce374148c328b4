package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/csheth/paperpin/internal/item"
)

// ErrCorrupt marks a store document that is not a JSON object.
var ErrCorrupt = errors.New("corrupt store document")

// JSONFile keeps every slot in one indented JSON object keyed by slot key.
type JSONFile struct {
	path string
}

// NewJSONFile returns a gateway writing to path. The file is created on the
// first save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path reports the backing file.
func (f *JSONFile) Path() string { return f.path }

func (f *JSONFile) Load(slot Slot) ([]item.Item, error) {
	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	payload, ok := doc[slot.Key()]
	if !ok {
		return nil, nil
	}
	return decodeSlot(slot, payload)
}

func (f *JSONFile) Save(slot Slot, items []item.Item) error {
	payload, err := item.EncodeList(items)
	if err != nil {
		return err
	}
	doc, err := f.read()
	if errors.Is(err, ErrCorrupt) {
		doc, err = nil, f.moveAside()
	}
	if err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	doc[slot.Key()] = payload

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *JSONFile) Close() error { return nil }

// moveAside renames an unreadable document to <path>.corrupt so saving can
// start a fresh one.
func (f *JSONFile) moveAside() error {
	target := f.path + ".corrupt"
	if err := os.Rename(f.path, target); err != nil {
		return fmt.Errorf("move corrupt store aside: %w", err)
	}
	log.Printf("[store] %s is unreadable; moved to %s", f.path, target)
	return nil
}

func (f *JSONFile) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	return doc, nil
}
