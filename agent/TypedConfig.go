package agent

import (
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// TypedConfig wraps a Config so that it explicitly stores its Type. In
// this way, a Config can be deserialized into its concrete type without
// knowing beforehand or declaring beforehand a variable of its concrete
// type.
//
// The serialized form is
//
//	type: EGreedyQLearning-Linear
//	config:
//	  epsilon: 0.1
//	  learning_rate: 0.01
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config and returns it as a
// TypedConfig
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

type typedConfigJSON struct {
	Type   Type            `json:"type"`
	Config json.RawMessage `json:"config"`
}

type typedConfigYAML struct {
	Type   Type      `yaml:"type"`
	Config yaml.Node `yaml:"config"`
}

// MarshalJSON implements the json.Marshaler interface
func (t TypedConfig) MarshalJSON() ([]byte, error) {
	config, err := json.Marshal(t.Config)
	if err != nil {
		return nil, err
	}
	return json.Marshal(typedConfigJSON{Type: t.Type, Config: config})
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	var raw typedConfigJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	value, err := newConfig(raw.Type)
	if err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}
	if len(raw.Config) > 0 {
		if err := json.Unmarshal(raw.Config, value); err != nil {
			return fmt.Errorf("unmarshalJSON: %v", err)
		}
	}

	return t.set(raw.Type, value)
}

// MarshalYAML implements the yaml.Marshaler interface
func (t TypedConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Type   Type   `yaml:"type"`
		Config Config `yaml:"config"`
	}{t.Type, t.Config}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (t *TypedConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw typedConfigYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}

	value, err := newConfig(raw.Type)
	if err != nil {
		return fmt.Errorf("unmarshalYAML: %v", err)
	}
	if !raw.Config.IsZero() {
		if err := raw.Config.Decode(value); err != nil {
			return fmt.Errorf("unmarshalYAML: %v", err)
		}
	}

	return t.set(raw.Type, value)
}

// set stores the Config pointed to by value
func (t *TypedConfig) set(typ Type, value interface{}) error {
	config := reflect.ValueOf(value).Elem().Interface().(Config)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid %v config: %v", typ, err)
	}

	t.Type = typ
	t.Config = config
	return nil
}
