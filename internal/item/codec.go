package item

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind marks a record whose kind is neither paper nor passage.
	ErrUnknownKind = errors.New("unknown item kind")
	// ErrMalformed marks a record missing a field its kind requires.
	ErrMalformed = errors.New("malformed item record")
)

// Record is the persisted shape of an Item. Extra fields in stored data are
// ignored when decoding.
type Record struct {
	Kind        Kind   `json:"kind"`
	PaperID     string `json:"paperId"`
	PassageText string `json:"passageText,omitempty"`
}

// ToRecord converts an Item into its persisted shape.
func ToRecord(it Item) Record {
	switch v := it.(type) {
	case Paper:
		return Record{Kind: KindPaper, PaperID: v.ID}
	case Passage:
		return Record{Kind: KindPassage, PaperID: v.ID, PassageText: v.Text}
	default:
		return Record{}
	}
}

// FromRecord converts a persisted record back into an Item.
func FromRecord(rec Record) (Item, error) {
	if rec.PaperID == "" {
		return nil, fmt.Errorf("%w: empty paperId", ErrMalformed)
	}
	switch rec.Kind {
	case KindPaper:
		return NewPaper(rec.PaperID), nil
	case KindPassage:
		if rec.PassageText == "" {
			return nil, fmt.Errorf("%w: passage %s has no text", ErrMalformed, rec.PaperID)
		}
		return NewPassage(rec.PaperID, rec.PassageText), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind)
	}
}

// EncodeList serializes list as a JSON array of records.
func EncodeList(list []Item) ([]byte, error) {
	records := make([]Record, 0, len(list))
	for _, it := range list {
		records = append(records, ToRecord(it))
	}
	return json.Marshal(records)
}

// DecodeList parses a JSON array of records. Records that cannot be turned
// into an Item are skipped and counted; only an undecodable payload is an
// error. Empty input decodes to an empty list.
func DecodeList(data []byte) ([]Item, int, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, 0, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("decode item records: %w", err)
	}
	items := make([]Item, 0, len(records))
	skipped := 0
	for _, rec := range records {
		it, err := FromRecord(rec)
		if err != nil {
			skipped++
			continue
		}
		items = append(items, it)
	}
	return items, skipped, nil
}
