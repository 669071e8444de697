package service

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zsiec/pkg/tracing"
)

// NewLogTracer returns a tracer that logs the duration of every segment.
// Successful segments are logged at debug level, failed ones at warn.
func NewLogTracer(lg logrus.FieldLogger) tracing.Tracer {
	return logTracer{lg: lg}
}

type logTracer struct {
	lg logrus.FieldLogger
}

func (logTracer) Init() error                        { return nil }
func (logTracer) Client(c *http.Client) *http.Client { return c }

func (t logTracer) Handle(n interface{ Name(host string) string }, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := t.BeginSubsegment(r.Context(), n.Name(r.Host))
		defer seg.Close(nil)
		h.ServeHTTP(w, r)
	})
}

func (t logTracer) BeginSubsegment(_ context.Context, name string) interface{ Close(error) } {
	return &logSegment{lg: t.lg, name: name, start: time.Now()}
}

type logSegment struct {
	lg    logrus.FieldLogger
	name  string
	start time.Time
}

func (s *logSegment) Close(err error) {
	e := s.lg.WithFields(logrus.Fields{
		"segment": s.name,
		"dur":     time.Since(s.start).String(),
	})
	if err != nil {
		e.WithError(err).Warn("segment failed")
		return
	}
	e.Debug("segment done")
}
