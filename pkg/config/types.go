package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the generator configuration. Field names follow the JSON file
// consumed by the dashboard tooling; YAML uses the same keys.
type Config struct {
	Counts        Counts                  `json:"counts" yaml:"counts"`
	Layers        Layers                  `json:"layers" yaml:"layers"`
	Hotspots      Hotspots                `json:"hotspots" yaml:"hotspots"`
	Sessions      Sessions                `json:"sessions" yaml:"sessions"`
	Probabilities Section                 `json:"probabilities" yaml:"probabilities"`
	LatencyMs     map[string]LatencyRange `json:"latencyMs" yaml:"latencyMs" validate:"dive,latency_range"`
	Errors        Section                 `json:"errors" yaml:"errors"`
	Constraints   Section                 `json:"constraints" yaml:"constraints"`
}

// Counts holds the asset count per tier
type Counts struct {
	Frontends int `json:"frontends" yaml:"frontends" validate:"gte=0"`
	Services  int `json:"services" yaml:"services" validate:"gte=0"`
	Databases int `json:"databases" yaml:"databases" validate:"gte=0"`
}

// Layers splits the services across the three service sub-layers.
type Layers struct {
	L1 int `json:"L1" yaml:"L1" validate:"gte=0"`
	L2 int `json:"L2" yaml:"L2" validate:"gte=0"`
	L3 int `json:"L3" yaml:"L3" validate:"gte=0"`
}

// Sizes returns the sub-layer sizes in layer order.
func (l Layers) Sizes() []int {
	return []int{l.L1, l.L2, l.L3}
}

// Total returns the number of services across all sub-layers.
func (l Layers) Total() int {
	return l.L1 + l.L2 + l.L3
}

// Hotspots configures routing bias towards a few services
type Hotspots struct {
	Count       int     `json:"count" yaml:"count" validate:"gte=0"`
	WeightBoost float64 `json:"weightBoost" yaml:"weightBoost" validate:"gte=1"`
}

// Sessions configures the session walk
type Sessions struct {
	Total           int     `json:"total" yaml:"total" validate:"gte=0"`
	Seed            int64   `json:"seed" yaml:"seed"`
	PerFrontendSkew float64 `json:"perFrontendSkew" yaml:"perFrontendSkew"`
}

// Section is a config section the generator does not read. It is kept as
// raw JSON so any value round-trips unchanged; a section present in the file
// replaces the default one whole.
type Section json.RawMessage

// MarshalJSON returns the section verbatim, or null when it is unset.
func (s Section) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// UnmarshalJSON keeps a compacted copy of data.
func (s *Section) UnmarshalJSON(data []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*s = buf.Bytes()
	return nil
}

// UnmarshalYAML stores the JSON form of any YAML value, keeping mapping key
// order.
func (s *Section) UnmarshalYAML(node *yaml.Node) error {
	var buf bytes.Buffer
	if err := writeNodeJSON(&buf, node); err != nil {
		return err
	}
	*s = buf.Bytes()
	return nil
}

// MarshalYAML returns the decoded section value.
func (s Section) MarshalYAML() (any, error) {
	return s.Value(), nil
}

// Value decodes the section, returning nil when it is unset.
func (s Section) Value() any {
	if len(s) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(s, &v); err != nil {
		return nil
	}
	return v
}

func writeNodeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNodeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeNodeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNodeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNodeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		var v any
		var data []byte
		err := n.Decode(&v)
		if err == nil {
			data, err = json.Marshal(v)
		}
		if err != nil {
			// Values JSON cannot hold (.nan, .inf) are kept as their text.
			data, err = json.Marshal(n.Value)
			if err != nil {
				return err
			}
		}
		buf.Write(data)
		return nil
	}
}

// LatencyRange is an inclusive [min, max] millisecond range, written as a
// two-element array.
type LatencyRange [2]int

// Min returns the lower bound
func (r LatencyRange) Min() int { return r[0] }

// Max returns the upper bound
func (r LatencyRange) Max() int { return r[1] }

// Hop keys of the latencyMs table.
const (
	HopFrontendToL1 = "L0_L1"
	HopL1ToL2       = "L1_L2"
	HopL2ToL3       = "L2_L3"
	HopL3ToDatabase = "L3_DB"
)

// HopKey returns the latencyMs key for a hop between two layers.
func HopKey(from, to int) string {
	if from == 3 && to == 4 {
		return HopL3ToDatabase
	}
	return fmt.Sprintf("L%d_L%d", from, to)
}
