// Package server exposes template validation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/yaklabco/rtftplint/internal/logging"
	"github.com/yaklabco/rtftplint/pkg/config"
	"github.com/yaklabco/rtftplint/pkg/navigation"
)

// HeaderRequestID carries the request ID on every response.
const HeaderRequestID = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// Options configures the HTTP service.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// BodyLimit is the maximum request body size in bytes.
	BodyLimit int

	// Navigation controls the navigation documents served by /api/navigation.
	Navigation navigation.Options

	// Logger receives request and parser logs. Nil discards them.
	Logger *log.Logger
}

// Server is the HTTP validation service.
type Server struct {
	opts Options
	app  *fiber.App
}

// New creates a server with all routes registered.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = config.DefaultServerAddr
	}
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = config.DefaultBodyLimit
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	app := fiber.New(fiber.Config{
		AppName:               "rtftplint",
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger(opts.Logger))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := &TemplateAPI{
		Router:     app.Group("/api"),
		Navigation: opts.Navigation,
	}
	api.Register()

	return &Server{opts: opts, app: app}
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", logging.FieldAddr, s.opts.Addr)
		errCh <- s.app.Listen(s.opts.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.opts.Logger.Info("shutting down")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// requestLogger assigns every request an ID, stores a logger tagged with it
// in the request context and logs the outcome.
func requestLogger(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.SetUserContext(logging.WithRequestID(logging.WithLogger(c.UserContext(), logger), id))
		c.Set(HeaderRequestID, id)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler pick the status before it is logged.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				return handlerErr
			}
		}

		logger.Debug("request",
			logging.FieldRequestID, id,
			"method", c.Method(),
			logging.FieldPath, c.Path(),
			logging.FieldStatus, c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return nil
	}
}

// requestID returns the ID assigned by requestLogger.
func requestID(c *fiber.Ctx) string {
	if id := logging.RequestID(c.UserContext()); id != "" {
		return id
	}
	return uuid.NewString()
}

// errorHandler renders fiber errors (unknown route, oversized body) as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}
	return c.Status(code).JSON(ErrorResponse{ID: requestID(c), Message: err.Error()})
}
