package store

import "github.com/csheth/paperpin/internal/item"

// Memory is an in-process gateway. Setting SaveErr or LoadErr makes the
// matching calls fail.
type Memory struct {
	slots   map[Slot][]byte
	SaveErr error
	LoadErr error
	Saves   int
}

// NewMemory returns an empty gateway.
func NewMemory() *Memory {
	return &Memory{slots: map[Slot][]byte{}}
}

func (m *Memory) Load(slot Slot) ([]item.Item, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	payload, ok := m.slots[slot]
	if !ok {
		return nil, nil
	}
	return decodeSlot(slot, payload)
}

func (m *Memory) Save(slot Slot, items []item.Item) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	payload, err := item.EncodeList(items)
	if err != nil {
		return err
	}
	if m.slots == nil {
		m.slots = map[Slot][]byte{}
	}
	m.slots[slot] = payload
	m.Saves++
	return nil
}

// Raw returns the encoded payload of slot.
func (m *Memory) Raw(slot Slot) []byte {
	return m.slots[slot]
}

// SetRaw stores payload verbatim for slot.
func (m *Memory) SetRaw(slot Slot, payload []byte) {
	if m.slots == nil {
		m.slots = map[Slot][]byte{}
	}
	m.slots[slot] = payload
}

func (m *Memory) Close() error { return nil }
