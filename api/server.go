package api

import (
	"context"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	logxi "github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/content"
	"github.com/matt-g-everett/ledsign/stream"
)

const enqueueTimeout = 2 * time.Second

// Registry is the part of the scheduler the API inspects.
type Registry interface {
	Keys() []string
	Stats() stream.Stats
	Remove(key string)
}

// Queue is the render queue as seen by the API.
type Queue interface {
	Pusher
	Len() int
	Capacity() int
	Dropped() uint64
}

// Preview supplies the image currently on the panel.
type Preview interface {
	Image() *image.RGBA
}

// Response is the envelope of every JSON reply.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// QueueStatus reports render queue pressure.
type QueueStatus struct {
	Len      int    `json:"len"`
	Capacity int    `json:"capacity"`
	Dropped  uint64 `json:"dropped"`
}

// Status is the body of GET /api/status.
type Status struct {
	Mode      string       `json:"mode"`
	Uptime    string       `json:"uptime"`
	Scheduler stream.Stats `json:"scheduler"`
	Queue     QueueStatus  `json:"queue"`
}

// Server is the HTTP control API.
type Server struct {
	queue    Queue
	registry Registry
	preview  Preview
	mode     *Mode
	logger   logxi.Logger
	started  time.Time
}

// NewServer creates an instance of a Server.
func NewServer(queue Queue, registry Registry, preview Preview, mode *Mode, logger logxi.Logger) *Server {
	s := new(Server)
	s.queue = queue
	s.registry = registry
	s.preview = preview
	s.mode = mode
	s.logger = logger
	if s.logger == nil {
		s.logger = logxi.New("api")
	}
	s.started = time.Now()
	return s
}

// Router builds a gin engine with CORS and every route installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	s.SetupRoutes(r)
	return r
}

func (s *Server) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/animations", s.handleAnimations)
		api.DELETE("/animations/:key", s.handleRemoveAnimation)
		api.GET("/frame.png", s.handleFrame)

		api.POST("/clear", s.command("clear"))
		api.POST("/mode", s.command("mode"))
		api.POST("/text", s.command("text"))
		api.POST("/alert", s.command(content.KindAlert))
		api.POST("/banner", s.command(content.KindBanner))
		api.POST("/board", s.command(content.KindBoard))
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data: Status{
			Mode:      s.mode.Get(),
			Uptime:    time.Since(s.started).Round(time.Second).String(),
			Scheduler: s.registry.Stats(),
			Queue: QueueStatus{
				Len:      s.queue.Len(),
				Capacity: s.queue.Capacity(),
				Dropped:  s.queue.Dropped(),
			},
		},
	})
}

func (s *Server) handleAnimations(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: s.registry.Keys()})
}

func (s *Server) handleRemoveAnimation(c *gin.Context) {
	key := c.Param("key")
	s.registry.Remove(key)
	s.logger.Info("animation removed", "key", key)
	c.JSON(http.StatusOK, Response{Status: "success", Message: key})
}

func (s *Server) handleFrame(c *gin.Context) {
	img := s.preview.Image()
	if img == nil {
		c.JSON(http.StatusServiceUnavailable, Response{Status: "error", Error: "no frame presented yet"})
		return
	}
	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := png.Encode(c.Writer, img); err != nil {
		s.logger.Warn("encode preview", "err", err.Error())
	}
}

// command binds the JSON body to a Command of the given type and applies it.
// An empty body is allowed for commands that need no fields.
func (s *Server) command(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cmd Command
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&cmd); err != nil {
				c.JSON(http.StatusBadRequest, Response{Status: "error", Error: "invalid request: " + err.Error()})
				return
			}
		}
		cmd.Type = kind

		ctx, cancel := context.WithTimeout(c.Request.Context(), enqueueTimeout)
		defer cancel()

		if err := Apply(ctx, s.queue, s.mode, cmd); err != nil {
			status := http.StatusBadRequest
			if errors.Cause(err) == context.DeadlineExceeded {
				status = http.StatusServiceUnavailable
			}
			s.logger.Warn("command rejected", "type", kind, "err", err.Error())
			c.JSON(status, Response{Status: "error", Error: err.Error()})
			return
		}

		s.logger.Debug("command accepted", "type", kind)
		c.JSON(http.StatusAccepted, Response{Status: "success", Message: kind})
	}
}
