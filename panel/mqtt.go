package panel

import (
	"bytes"
	"image"
	"image/color"
	"time"

	"github.com/cnf/structhash"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lucasb-eyer/go-colorful"
	logxi "github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/matt-g-everett/ledsign/stream"
)

const publishTimeout = 2 * time.Second

// Publisher is the part of an mqtt.Client the sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// payload is what gets hashed to spot repeated surfaces.
type payload struct {
	Topic string
	Data  []byte
}

// MQTT streams each presented surface as a binary frame to a panel driver
// listening on a topic.
type MQTT struct {
	client     Publisher
	topic      string
	qos        byte
	brightness float64
	logger     logxi.Logger

	surface *image.RGBA
	last    []byte
	skipped int
}

// NewMQTT creates an instance of an MQTT panel. brightness scales every pixel
// and is clamped to [0, 1].
func NewMQTT(client Publisher, topic string, qos byte, brightness float64, logger logxi.Logger) *MQTT {
	s := new(MQTT)
	s.client = client
	s.topic = topic
	s.qos = qos
	s.brightness = brightness
	if s.brightness < 0 {
		s.brightness = 0
	} else if s.brightness > 1 {
		s.brightness = 1
	}
	s.logger = logger
	if s.logger == nil {
		s.logger = logxi.New("panel")
	}
	return s
}

func (s *MQTT) CreateSurface(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.Errorf("invalid surface %dx%d", w, h)
	}
	s.surface = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

func (s *MQTT) Draw(img image.Image, x, y int) error {
	if s.surface == nil {
		return ErrNoSurface
	}
	b := img.Bounds()
	xdraw.Draw(s.surface, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, xdraw.Src)
	return nil
}

// Present publishes the surface unless it is identical to the last one sent.
func (s *MQTT) Present() error {
	if s.surface == nil {
		return ErrNoSurface
	}

	b := s.surface.Bounds()
	f := stream.NewFrame(stream.Rect{X: 0, Y: 0, W: b.Dx(), H: b.Dy()}, s.dim(s.surface))
	data, err := f.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "marshal frame")
	}

	sum := structhash.Md5(payload{Topic: s.topic, Data: data}, 1)
	if bytes.Equal(sum, s.last) {
		s.skipped++
		return nil
	}

	token := s.client.Publish(s.topic, s.qos, false, data)
	if !token.WaitTimeout(publishTimeout) {
		return errors.Errorf("publish to %s timed out", s.topic)
	}
	if err := token.Error(); err != nil {
		return errors.Wrapf(err, "publish to %s", s.topic)
	}
	s.last = sum
	return nil
}

// Skipped counts presents that were not published because nothing changed.
func (s *MQTT) Skipped() int {
	return s.skipped
}

func (s *MQTT) dim(img *image.RGBA) image.Image {
	if s.brightness >= 1 {
		return img
	}

	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(img.RGBAAt(x, y))
			if !ok {
				continue
			}
			h, cs, l := c.Hcl()
			r, g, bl := colorful.Hcl(h, cs, l*s.brightness).Clamped().RGB255()
			out.SetRGBA(x, y, color.RGBA{r, g, bl, 0xff})
		}
	}
	return out
}
