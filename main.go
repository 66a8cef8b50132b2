package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	logxi "github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/api"
	"github.com/matt-g-everett/ledsign/content"
	"github.com/matt-g-everett/ledsign/panel"
	"github.com/matt-g-everett/ledsign/stream"
)

const boardFade = 30

var (
	logger = logxi.New("ledsign")

	configPath = flag.String("config", "config.yaml", "YAML config file.")
	verbose    = flag.Bool("v", false, "Enable debug logging.")
)

// mqttLogger routes paho's internal logging through logxi.
type mqttLogger struct {
	logxi.Logger
}

func (l mqttLogger) Println(v ...interface{}) {
	l.Warn(fmt.Sprint(v...))
}

func (l mqttLogger) Printf(format string, v ...interface{}) {
	l.Warn(fmt.Sprintf(format, v...))
}

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Queue      *stream.RenderQueue
	Manager    *stream.Manager
	Compositor *stream.Compositor
	Memory     *panel.Memory
	Mode       *api.Mode
	Control    *api.Control
}

func newApp() *app {
	a := new(app)
	a.Mode = api.NewMode(api.ModeClock)
	return a
}

func (a *app) readConfig(path string) error {
	c, err := stream.LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return err
		}
		logger.Warn("config file not found, using defaults", "path", path)
		c = stream.DefaultConfig()
	}

	if v := os.Getenv("MQTT_URL"); v != "" {
		c.Mqtt.URL = v
	}
	if v := os.Getenv("MQTT_USERNAME"); v != "" {
		c.Mqtt.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		c.Mqtt.Password = v
	}

	a.Config = c
	return nil
}

func (a *app) logLevel() int {
	if *verbose {
		return logxi.LevelDebug
	}
	if level, isPresent := logxi.LevelAtoi[a.Config.Log.Level]; isPresent {
		return level
	}
	return logxi.LevelInfo
}

func (a *app) namedLogger(name string) logxi.Logger {
	l := logxi.New(name)
	l.SetLevel(a.logLevel())
	return l
}

func (a *app) handleOnConnect(client mqtt.Client) {
	logger.Info("connected to broker", "url", a.Config.Mqtt.URL)
	if err := a.Control.Subscribe(client, a.Config.Mqtt.Topics.Control, a.Config.Mqtt.Qos); err != nil {
		logger.Error("control subscription failed", "err", err.Error())
	}
}

func (a *app) connect() error {
	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "connect to %s", a.Config.Mqtt.URL)
	}
	return nil
}

func (a *app) build() error {
	a.Queue = stream.NewRenderQueue(a.Config.Scheduler.QueueSize)
	a.Manager = stream.NewManager(a.Queue, a.Config.Scheduler.TickRate, a.namedLogger("scheduler"))
	a.Control = api.NewControl(a.Queue, a.Mode, a.namedLogger("api"))
	a.Memory = panel.NewMemory()

	sinks := panel.Fanout{a.Memory}
	if a.Config.Mqtt.URL != "" {
		if err := a.connect(); err != nil {
			return err
		}
		sinks = append(sinks, panel.NewMQTT(a.Client, a.Config.Mqtt.Topics.Frames, a.Config.Mqtt.Qos,
			a.Config.Panel.Brightness, a.namedLogger("panel")))
	}

	c, err := stream.NewCompositor(sinks, a.Queue, a.Manager, a.Config.ScreenWidth(), a.Config.Panel.Height,
		a.namedLogger("compositor"))
	if err != nil {
		return err
	}
	a.Compositor = c
	content.Install(c, content.PaletteFromConfig(a.Config), boardFade)
	return nil
}

// runClock draws the time once a second while the sign is in clock mode and
// the startup animation has finished.
func (a *app) runClock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if a.Mode.Get() != api.ModeClock || a.Manager.IsRunning(content.KeyStartup) {
				continue
			}
			if err := a.Queue.Push(ctx, stream.DrawClock{Kind: stream.ClockTransit, Time: now}); err != nil {
				return
			}
		}
	}
}

func (a *app) serve(ctx context.Context) {
	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(a.Queue, a.Manager, a.Memory, a.Mode, a.namedLogger("api"))
	srv := &http.Server{Addr: a.Config.API.Listen, Handler: server.Router()}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	logger.Info("listening", "addr", a.Config.API.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("http server failed", "err", err.Error())
	}
}

func (a *app) run(ctx context.Context) error {
	go a.Compositor.Run(ctx)
	a.Manager.Start()
	defer a.Manager.Stop()

	bounds := a.Compositor.Surface().Bounds()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := content.Startup(a.Manager, bounds, rng); err != nil {
		return err
	}

	go a.runClock(ctx)
	a.serve(ctx)

	if a.Client != nil {
		a.Client.Disconnect(250)
	}
	return nil
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "err", err.Error())
	}

	a := newApp()
	if err := a.readConfig(*configPath); err != nil {
		logger.Fatal("reading config", "err", err.Error())
	}
	logger.SetLevel(a.logLevel())
	mqtt.ERROR = mqttLogger{a.namedLogger("mqtt")}
	logger.Debug("config", "config", fmt.Sprintf("%+v", a.Config))

	if err := a.build(); err != nil {
		logger.Fatal("startup failed", "err", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		logger.Fatal("run failed", "err", err.Error())
	}
	logger.Info("stopped")
}
