package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type HueCfg struct {
	Host     string `yaml:"host"`     // e.g. 192.168.1.2
	Username string `yaml:"username"` // bridge API key
}

type StripCfg struct {
	Port  string `yaml:"port"`  // e.g. /dev/spidev0.0
	Count int    `yaml:"count"` // LEDs on the strip
}

type PanelCfg struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type Config struct {
	Addr      string `yaml:"addr"`       // HTTP listen address
	StorePath string `yaml:"store_path"` // settings store file

	Hue    HueCfg     `yaml:"hue,omitempty"`
	Strips []StripCfg `yaml:"strips,omitempty"`
	Panels []PanelCfg `yaml:"panels,omitempty"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
