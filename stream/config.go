package stream

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Panel struct {
		Width      int     `yaml:"width"`
		Height     int     `yaml:"height"`
		Count      int     `yaml:"count"`
		Brightness float64 `yaml:"brightness"`
	} `yaml:"panel"`
	Scheduler struct {
		TickRate  float64 `yaml:"tickRate"`
		QueueSize int     `yaml:"queueSize"`
	} `yaml:"scheduler"`
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Qos      byte   `yaml:"qos"`
		Topics   struct {
			Frames  string `yaml:"frames"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	API struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
	Colours struct {
		Text   string `yaml:"text"`
		Clock  string `yaml:"clock"`
		Alert  string `yaml:"alert"`
		Banner string `yaml:"banner"`
		Board  string `yaml:"board"`
	} `yaml:"colours"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig is a chain of five 32x32 panels ticking at 60Hz with MQTT
// disabled.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Panel.Width <= 0 {
		c.Panel.Width = 32
	}
	if c.Panel.Height <= 0 {
		c.Panel.Height = 32
	}
	if c.Panel.Count <= 0 {
		c.Panel.Count = 5
	}
	if c.Panel.Brightness <= 0 || c.Panel.Brightness > 1 {
		c.Panel.Brightness = 1
	}
	if c.Scheduler.TickRate <= 0 {
		c.Scheduler.TickRate = DefaultTickRate
	}
	if c.Scheduler.QueueSize <= 0 {
		c.Scheduler.QueueSize = 256
	}
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "ledsign"
	}
	if c.Mqtt.Topics.Frames == "" {
		c.Mqtt.Topics.Frames = "ledsign/frames"
	}
	if c.Mqtt.Topics.Control == "" {
		c.Mqtt.Topics.Control = "ledsign/control"
	}
	if c.API.Listen == "" {
		c.API.Listen = ":3000"
	}
	if c.Colours.Text == "" {
		c.Colours.Text = "#ffffff"
	}
	if c.Colours.Clock == "" {
		c.Colours.Clock = "#ffaa00"
	}
	if c.Colours.Alert == "" {
		c.Colours.Alert = "#ff2020"
	}
	if c.Colours.Banner == "" {
		c.Colours.Banner = "#20a0ff"
	}
	if c.Colours.Board == "" {
		c.Colours.Board = "#ffaa00"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ScreenWidth is the width of all chained panels.
func (c *Config) ScreenWidth() int {
	return c.Panel.Width * c.Panel.Count
}

// ReadConfig decodes YAML from r. An empty document yields the defaults.
func ReadConfig(r io.Reader) (Config, error) {
	var c Config
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode config")
	}
	c.ApplyDefaults()
	return c, nil
}

// LoadConfig reads the YAML config file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()

	c, err := ReadConfig(f)
	return c, errors.Wrap(err, path)
}
