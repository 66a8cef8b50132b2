package stream

import (
	"strings"
	"testing"
)

func TestReadConfigEmptyUsesDefaults(t *testing.T) {
	c, err := ReadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if c.ScreenWidth() != 160 || c.Panel.Height != 32 {
		t.Fatalf("screen %dx%d", c.ScreenWidth(), c.Panel.Height)
	}
	if c.Scheduler.TickRate != DefaultTickRate || c.Scheduler.QueueSize != 256 {
		t.Fatalf("scheduler = %+v", c.Scheduler)
	}
	if c.Mqtt.URL != "" || c.Mqtt.Topics.Frames != "ledsign/frames" {
		t.Fatalf("mqtt = %+v", c.Mqtt)
	}
}

func TestReadConfig(t *testing.T) {
	doc := `
panel:
  width: 64
  count: 2
  brightness: 0.5
scheduler:
  tickRate: 120
mqtt:
  url: tcp://broker:1883
  topics:
    control: sign/control
colours:
  alert: "#00ff00"
log:
  level: debug
`
	c, err := ReadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if c.ScreenWidth() != 128 || c.Panel.Height != 32 || c.Panel.Brightness != 0.5 {
		t.Fatalf("panel = %+v", c.Panel)
	}
	if c.Scheduler.TickRate != 120 {
		t.Fatalf("tick rate = %v", c.Scheduler.TickRate)
	}
	if c.Mqtt.URL != "tcp://broker:1883" || c.Mqtt.Topics.Control != "sign/control" || c.Mqtt.Topics.Frames != "ledsign/frames" {
		t.Fatalf("mqtt = %+v", c.Mqtt)
	}
	if c.Colours.Alert != "#00ff00" || c.Colours.Text != "#ffffff" {
		t.Fatalf("colours = %+v", c.Colours)
	}
	if c.Log.Level != "debug" {
		t.Fatalf("log = %+v", c.Log)
	}
}

func TestReadConfigMalformed(t *testing.T) {
	if _, err := ReadConfig(strings.NewReader("panel: [")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/ledsign.yaml"); err == nil {
		t.Fatal("expected an error")
	}
}
