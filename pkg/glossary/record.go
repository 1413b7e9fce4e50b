package glossary

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Record is one glossary source record as authored. A record bundles shared
// term values, label, case-sensitivity and description; each of its items
// may override any shared field and adds its own image and display text.
// A record without items is itself a leaf entry.
type Record struct {
	Defs          []string `mapstructure:"defs"`
	Label         string   `mapstructure:"label"`
	CaseSensitive *bool    `mapstructure:"casesensitive"`
	Description   string   `mapstructure:"description"`
	Items         []Item   `mapstructure:"items"`
}

// Item is one override block inside a Record.
type Item struct {
	Defs          []string `mapstructure:"defs"`
	Label         string   `mapstructure:"label"`
	CaseSensitive *bool    `mapstructure:"casesensitive"`
	Image         string   `mapstructure:"image"`
	Text          string   `mapstructure:"text"`
	Description   string   `mapstructure:"description"`
}

// DecodeRecords converts raw decoded JSON (a single record object or an
// array of them) into typed records. The glossary schema is heterogeneous
// at the file level only; after this point a single shape flows through.
func DecodeRecords(raw any) ([]Record, error) {
	var docs []any
	switch v := raw.(type) {
	case []any:
		docs = v
	case map[string]any:
		docs = []any{v}
	default:
		return nil, fmt.Errorf("glossary document must be an object or an array, got %T", raw)
	}

	records := make([]Record, 0, len(docs))
	for i, doc := range docs {
		var rec Record
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &rec,
			ErrorUnused: false,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("glossary record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
