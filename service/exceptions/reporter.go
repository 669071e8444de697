// Package exceptions reports unexpected server errors.
package exceptions

import (
	"time"

	"github.com/getsentry/sentry-go"
)

const defaultFlushTimeout = time.Second * 5

// Reporter sends exceptions to an external source
type Reporter interface {
	ReportException(err error, tags map[string]string)
}

// NoopReporter is a no-op exception reporter
type NoopReporter struct{}

// ReportException does nothing
func (r *NoopReporter) ReportException(error, map[string]string) {}

// SentryReporter sends exceptions to Sentry
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter initializes the Sentry client for dsn.
func NewSentryReporter(dsn, env string) (*SentryReporter, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{Dsn: dsn, Environment: env})
	if err != nil {
		return nil, err
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// ReportException sends err with the given tags and waits for delivery.
func (r *SentryReporter) ReportException(err error, tags map[string]string) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		r.hub.CaptureException(err)
	})
	r.hub.Flush(defaultFlushTimeout)
}
