package store

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a settings tree from a YAML file.
func Load(path string) (*Node, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return fromMap(m), nil
}

// Save writes a settings tree to a YAML file.
func Save(path string, n *Node) error {
	b, err := yaml.Marshal(n.toMap())
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
