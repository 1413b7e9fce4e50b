package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Target is a terminal choice outcome naming a species, optionally with a
// reference URL pointing at external information about it.
type Target struct {
	Label   string
	InfoURL string
}

// UnmarshalJSON accepts the wire form of a target: a one or two element
// array of [label, url]. The url slot may be null.
func (t *Target) UnmarshalJSON(data []byte) error {
	var parts []*string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("target must be an array: %w", err)
	}
	if len(parts) == 0 || parts[0] == nil {
		return fmt.Errorf("target array is missing the species label")
	}
	t.Label = *parts[0]
	if len(parts) > 1 && parts[1] != nil {
		t.InfoURL = *parts[1]
	}
	return nil
}

// MarshalJSON emits the array wire form.
func (t Target) MarshalJSON() ([]byte, error) {
	if t.InfoURL == "" {
		return json.Marshal([]any{t.Label, nil})
	}
	return json.Marshal([]any{t.Label, t.InfoURL})
}

// Choice is one option offered by a characteristic. Exactly one of Next and
// Target is set, or neither (a dangling choice, rendered as unknown).
type Choice struct {
	Description string  `json:"description"`
	Next        string  `json:"next,omitempty"`
	Target      *Target `json:"target,omitempty"`
}

// IsLeaf reports whether the choice terminates at a species.
func (c Choice) IsLeaf() bool { return c.Target != nil }

// IsDangling reports whether the choice leads nowhere.
func (c Choice) IsDangling() bool { return c.Next == "" && c.Target == nil }

// Model is the immutable decision-tree definition: a start node id and an
// ordered mapping from node id to its choices. Order of both the node map
// and each choice list is significant and preserved from the source file.
type Model struct {
	Start string
	Order []string
	Nodes map[string][]Choice
}

// Choices returns the ordered choice list of a node, or nil if the id is
// not a characteristic of this model.
func (m *Model) Choices(id string) []Choice { return m.Nodes[id] }

// Has reports whether id names a characteristic of the model.
func (m *Model) Has(id string) bool {
	_, ok := m.Nodes[id]
	return ok
}

// Len returns the number of characteristics.
func (m *Model) Len() int { return len(m.Order) }

// Species returns every species label referenced by any target, in model
// order, duplicates removed.
func (m *Model) Species() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range m.Order {
		for _, c := range m.Nodes[id] {
			if c.Target == nil {
				continue
			}
			if _, ok := seen[c.Target.Label]; ok {
				continue
			}
			seen[c.Target.Label] = struct{}{}
			out = append(out, c.Target.Label)
		}
	}
	return out
}

// Validate checks the structural invariants every derived index relies on:
// the start id must name a node and every "next" must resolve. Violations
// are fatal for the whole run.
func (m *Model) Validate() error {
	if m.Start == "" {
		return fmt.Errorf("%w: missing start node id", ErrMalformedModel)
	}
	if !m.Has(m.Start) {
		return fmt.Errorf("%w: start node %q not present in data", ErrMalformedModel, m.Start)
	}
	for _, id := range m.Order {
		for i, c := range m.Nodes[id] {
			if c.Next != "" && c.Target != nil {
				return fmt.Errorf("%w: node %q choice %d sets both next and target", ErrMalformedModel, id, i)
			}
			if c.Next != "" && !m.Has(c.Next) {
				return fmt.Errorf("%w: node %q choice %d points at unknown node %q", ErrDanglingReference, id, i, c.Next)
			}
		}
	}
	return nil
}

// modelWire mirrors the file format header; the data object is decoded
// manually to preserve key order.
type modelWire struct {
	Start string          `json:"start"`
	Data  json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the model wire format. Object key order inside
// "data" is retained in Order; plain encoding/json maps would lose it.
func (m *Model) UnmarshalJSON(data []byte) error {
	var wire modelWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	if len(wire.Data) == 0 {
		return fmt.Errorf("%w: missing data section", ErrMalformedModel)
	}

	m.Start = wire.Start
	m.Order = nil
	m.Nodes = make(map[string][]Choice)

	dec := json.NewDecoder(bytes.NewReader(wire.Data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: data section must be an object", ErrMalformedModel)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedModel, err)
		}
		id, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v in data section", ErrMalformedModel, keyTok)
		}

		var choices []Choice
		if err := dec.Decode(&choices); err != nil {
			return fmt.Errorf("%w: node %q: %v", ErrMalformedModel, id, err)
		}
		if _, dup := m.Nodes[id]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrMalformedModel, id)
		}
		m.Order = append(m.Order, id)
		m.Nodes[id] = choices
	}
	return nil
}

// MarshalJSON emits the model wire format with nodes in model order.
func (m *Model) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"start":`)
	start, err := json.Marshal(m.Start)
	if err != nil {
		return nil, err
	}
	buf.Write(start)
	buf.WriteString(`,"data":{`)
	for i, id := range m.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		choices, err := json.Marshal(m.Nodes[id])
		if err != nil {
			return nil, err
		}
		buf.Write(choices)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
