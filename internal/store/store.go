// Package store persists the saved and builder collections. Each collection
// lives in its own slot as a JSON array of item records.
package store

import (
	"fmt"
	"log"

	"github.com/csheth/paperpin/internal/item"
)

// Slot names one persisted collection.
type Slot string

const (
	Saved   Slot = "saved"
	Builder Slot = "builder"
)

// Slots lists every slot in load order.
var Slots = []Slot{Saved, Builder}

// Key returns the storage key of the slot.
func (s Slot) Key() string {
	switch s {
	case Saved:
		return "paperPinSavedItems"
	case Builder:
		return "paperPinBuilderItems"
	default:
		return string(s)
	}
}

// Gateway loads and saves slots. Loading an absent slot returns an empty list
// and no error.
type Gateway interface {
	Load(slot Slot) ([]item.Item, error)
	Save(slot Slot, items []item.Item) error
	Close() error
}

// Backend names a Gateway implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// Open returns the gateway for backend rooted at path.
func Open(backend Backend, path string) (Gateway, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONFile(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func decodeSlot(slot Slot, payload []byte) ([]item.Item, error) {
	items, skipped, err := item.DecodeList(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", slot.Key(), err)
	}
	if skipped > 0 {
		log.Printf("[store] %s: skipped %d unreadable record(s)", slot.Key(), skipped)
	}
	return items, nil
}
