package sentry

import (
	"fmt"
	"sync/atomic"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// FlushTime bounds how long shutdown waits for buffered events.
var FlushTime = 2 * time.Second

const localEnv = "local"

var enabled atomic.Bool

type Options struct {
	DSN         string
	Environment string
}

// Init sets up the sentry client. Reporting stays off in the local
// environment or without a DSN; the client is still initialised so the echo
// middleware has a hub to clone.
func Init(opts Options) error {
	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	enabled.Store(opts.Environment != localEnv && opts.DSN != "")
	return nil
}

// Enabled reports whether events are sent.
func Enabled() bool {
	return enabled.Load()
}

func Flush() {
	sentrygo.Flush(FlushTime)
}

// Sentry builds a single event. Zero value is ready to use.
type Sentry struct {
	context echo.Context
	error   error
	level   sentrygo.Level
	extras  map[string]interface{}
	tags    map[string]string
}

func WithContext(c echo.Context) *Sentry {
	return new(Sentry).WithContext(c)
}

func (s *Sentry) WithContext(c echo.Context) *Sentry {
	s.context = c
	return s
}

func (s *Sentry) WithExtras(extras map[string]interface{}) *Sentry {
	s.extras = extras
	return s
}

func (s *Sentry) WithTags(tags map[string]string) *Sentry {
	s.tags = tags
	return s
}

func (s *Sentry) Error(err error) {
	s.error = err
	s.level = sentrygo.LevelError
	s.send()
}

func (s *Sentry) send() {
	if !Enabled() || s.error == nil {
		return
	}
	hub := s.getHub()
	hub.WithScope(func(scope *sentrygo.Scope) {
		s.configScope(scope)
		hub.CaptureException(s.error)
	})
}

// getHub prefers the request-scoped hub installed by sentryecho.
func (s *Sentry) getHub() *sentrygo.Hub {
	if s.context != nil {
		if hub := sentryecho.GetHubFromContext(s.context); hub != nil {
			return hub
		}
	}
	return sentrygo.CurrentHub()
}

func (s *Sentry) configScope(scope *sentrygo.Scope) {
	if s.level != "" {
		scope.SetLevel(s.level)
	}
	scope.SetExtras(s.extras)
	scope.SetTags(s.tags)
}
