// Package service exposes keyframe channels over HTTP.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/cbsinteractive/keyframes/config"
	"github.com/cbsinteractive/keyframes/db"
	"github.com/cbsinteractive/keyframes/db/redis"
	"github.com/cbsinteractive/keyframes/service/exceptions"
	"github.com/sirupsen/logrus"
	"github.com/zsiec/pkg/tracing"
)

var ErrStorage = errors.New("storage error")

// Server serves the channel API. Channels are loaded from the repository
// for every request and mutated under a single lock, since a channel is
// not safe for concurrent mutation.
type Server struct {
	Config      *config.Config
	DB          db.Repository
	logger      *logrus.Logger
	errReporter exceptions.Reporter
	tracer      tracing.Tracer
	mu          *sync.Mutex

	request
}

// NewServer creates a server storing channels in Redis, reporting
// exceptions to Sentry when a DSN is configured and logging trace segments
// when tracing is enabled.
func NewServer(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	repo, err := redis.NewRepository(cfg.Redis)
	if err != nil {
		return nil, err
	}
	var reporter exceptions.Reporter = &exceptions.NoopReporter{}
	if cfg.Sentry.DSN != "" {
		if reporter, err = exceptions.NewSentryReporter(cfg.Sentry.DSN, cfg.Sentry.Environment); err != nil {
			return nil, fmt.Errorf("initializing sentry: %w", err)
		}
	}
	var tracer tracing.Tracer = tracing.NoopTracer{}
	if cfg.EnableTracing {
		tracer = NewLogTracer(logger)
	}
	return New(cfg, repo, logger, reporter, tracer), nil
}

// New creates a server around an existing repository.
func New(cfg *config.Config, repo db.Repository, logger *logrus.Logger, r exceptions.Reporter, t tracing.Tracer) *Server {
	return &Server{
		Config:      cfg,
		DB:          repo,
		logger:      logger,
		errReporter: r,
		tracer:      t,
		mu:          &sync.Mutex{},
	}
}

// Handler returns the server wrapped in its tracer's request segment.
func (s *Server) Handler() http.Handler {
	return s.tracer.Handle(tracing.FixedNamer("keyframes"), s)
}

func (s Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.request = newRequest(rw, r, s.logger)
	defer s.request.finalize()
	s.serve()
}

func (s *Server) serve() bool {
	switch s.chop() {
	case "channels":
		return s.serveChannels()
	case "healthcheck":
		return s.writebody(map[string]bool{"ok": true})
	default:
		return s.writeerror("bad request path", http.StatusNotFound, nil)
	}
}

func (s *Server) serveChannels() bool {
	id := s.chop()
	if id == "" {
		switch s.method() {
		case http.MethodPost:
			return s.createChannel()
		case http.MethodGet:
			return s.listChannels()
		}
		return s.badMethod()
	}

	op := s.chop()
	if op == "" {
		switch s.method() {
		case http.MethodGet:
			return s.getChannel(id)
		case http.MethodDelete:
			return s.deleteChannel(id)
		}
		return s.badMethod()
	}

	switch op {
	case "keyframes":
		if s.path == "/" {
			if s.method() != http.MethodGet {
				return s.badMethod()
			}
			return s.keyframeTimes(id)
		}
		t, ok := s.chopTime()
		if !ok {
			return false
		}
		switch s.method() {
		case http.MethodPost, http.MethodPut:
			return s.insertKeyframe(id, t)
		case http.MethodDelete:
			return s.removeKeyframe(id, t)
		}
		return s.badMethod()
	case "active", "previous", "next", "span", "identical":
		if s.method() != http.MethodGet {
			return s.badMethod()
		}
		t, ok := s.chopTime()
		if !ok {
			return false
		}
		return s.query(id, op, t)
	case "xml":
		switch s.method() {
		case http.MethodGet:
			return s.getXML(id)
		case http.MethodPut, http.MethodPost:
			return s.putXML(id)
		}
		return s.badMethod()
	}
	return s.writeerror("bad request path", http.StatusNotFound, nil)
}

func (s *Server) method() string {
	return s.request.r.Method
}

func (s *Server) badMethod() bool {
	return s.writeerror("method not allowed", http.StatusMethodNotAllowed, nil)
}

// storageError answers with the status matching err, reporting unexpected
// failures.
func (s *Server) storageError(msg string, err error) bool {
	if errors.Is(err, db.ErrChannelNotFound) {
		return s.writeerror(msg, http.StatusNotFound, err)
	}
	err = fmt.Errorf("%w: %v", ErrStorage, err)
	s.errReporter.ReportException(err, map[string]string{
		"rid":  fmt.Sprint(s.rid),
		"path": s.r.URL.Path,
	})
	return s.writeerror(msg, http.StatusInternalServerError, err)
}

func (s *Server) trace(name string, err *error) func() {
	x := s.tracer.BeginSubsegment(s.request.ctx, name)
	return func() {
		if err == nil {
			x.Close(nil)
		} else {
			x.Close(*err)
		}
	}
}

// PlatformError implements a well-known error response for http clients
// encountering an error when using the service.
type PlatformError struct {
	Ok     bool   `json:"ok"`
	Status int    `json:"status"`
	Rid    uint64 `json:"rid"`
	Msg    string `json:"msg,omitempty"`
}

// String returns the json-formatted platform response
func (p PlatformError) String() string {
	data, _ := json.Marshal(p)
	return string(data)
}

func logkv(lg logrus.FieldLogger, kv ...interface{}) bool {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		v := kv[i+1]
		if v == nil {
			v = ""
		} else {
			switch v.(type) {
			case fmt.Stringer:
				v = fmt.Sprint(v)
			case error:
				v = fmt.Sprint(v)
			}
		}
		fields[fmt.Sprint(kv[i])] = v
	}
	lg.WithFields(fields).Info()
	return true
}
