package api

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	logxi "github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
)

const subscribeTimeout = 5 * time.Second

// Control applies JSON commands published to an MQTT topic.
type Control struct {
	queue  Pusher
	mode   *Mode
	logger logxi.Logger
}

// NewControl creates an instance of a Control.
func NewControl(queue Pusher, mode *Mode, logger logxi.Logger) *Control {
	c := new(Control)
	c.queue = queue
	c.mode = mode
	c.logger = logger
	if c.logger == nil {
		c.logger = logxi.New("api")
	}
	return c
}

// Subscribe listens for commands on topic. It is called again from the
// client's connect handler after every reconnect.
func (c *Control) Subscribe(client mqtt.Client, topic string, qos byte) error {
	token := client.Subscribe(topic, qos, c.handleMessage)
	if !token.WaitTimeout(subscribeTimeout) {
		return errors.Errorf("subscribe to %s timed out", topic)
	}
	return errors.Wrapf(token.Error(), "subscribe to %s", topic)
}

func (c *Control) handleMessage(client mqtt.Client, msg mqtt.Message) {
	if err := c.Handle(msg.Payload()); err != nil {
		c.logger.Warn("control message rejected", "topic", msg.Topic(), "err", err.Error())
	}
}

// Handle decodes and applies one command.
func (c *Control) Handle(payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return errors.Wrap(err, "decode command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()
	if err := Apply(ctx, c.queue, c.mode, cmd); err != nil {
		return err
	}
	c.logger.Debug("control message applied", "type", cmd.Type)
	return nil
}
