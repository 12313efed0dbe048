package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/pak13/pkg/macro"
)

// MacroEntry binds a macro identifier to a transformer name.
type MacroEntry struct {
	Identifier  string
	Transformer string
}

// MacroTable is the MACROS mapping. Document order is kept because macros
// are expanded one identifier at a time, in the order they are declared.
type MacroTable []MacroEntry

// Entries converts the table for macro.Bind.
func (t MacroTable) Entries() []macro.Entry {
	entries := make([]macro.Entry, len(t))
	for i, e := range t {
		entries[i] = macro.Entry{Identifier: e.Identifier, Transformer: e.Transformer}
	}
	return entries
}

// UnmarshalYAML reads a mapping node pair by pair.
func (t *MacroTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*t = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: MACROS must be a mapping", value.Line)
	}

	table := make(MacroTable, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: MACROS.%s must be a transformer name", val.Line, key.Value)
		}
		table = append(table, MacroEntry{Identifier: key.Value, Transformer: val.Value})
	}
	*t = table
	return nil
}

// MarshalYAML writes the table as an ordered mapping.
func (t MacroTable) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range t {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Identifier},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Transformer},
		)
	}
	return node, nil
}

// UnmarshalJSON streams the object's tokens so key order survives.
func (t *MacroTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("MACROS must be an object")
	}

	var table MacroTable
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var name string
		if err := dec.Decode(&name); err != nil {
			return fmt.Errorf("MACROS.%s must be a transformer name: %w", key, err)
		}
		table = append(table, MacroEntry{Identifier: key, Transformer: name})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = table
	return nil
}

// MarshalJSON writes the table as an object in declaration order.
func (t MacroTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Identifier)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Transformer)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
