// Package client is a Go client for the keyframe channel service.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cbsinteractive/keyframes/service"
)

const (
	defaultTimeout = 30 * time.Second
	defaultBaseURL = "http://localhost:8080"
)

// Client holds the service location and exposes methods for interacting
// with channels.
type Client struct {
	Base   *url.URL
	Client *http.Client
}

// CreateChannel creates a channel with a keyframe at frame 0.
func (c *Client) CreateChannel(ctx context.Context, req service.CreateChannelRequest) (service.ChannelResponse, error) {
	c.ensure()

	var resp service.ChannelResponse
	err := c.postResource(ctx, req, &resp, "/channels")
	return resp, err
}

// GetChannel returns the channel document.
func (c *Client) GetChannel(ctx context.Context, id string) (service.ChannelResponse, error) {
	c.ensure()

	var resp service.ChannelResponse
	err := c.getResource(ctx, &resp, "/channels/"+url.PathEscape(id))
	return resp, err
}

// AddKeyframe inserts a keyframe at t. A nil req adds a default keyframe.
func (c *Client) AddKeyframe(ctx context.Context, id string, t int, req *service.KeyframeRequest) (service.ChannelResponse, error) {
	c.ensure()

	var resp service.ChannelResponse
	err := c.postResource(ctx, req, &resp, keyframePath(id, t))
	return resp, err
}

// RemoveKeyframe removes the keyframe at t.
func (c *Client) RemoveKeyframe(ctx context.Context, id string, t int) (service.ChannelResponse, error) {
	c.ensure()

	var resp service.ChannelResponse
	err := c.removeResource(ctx, &resp, keyframePath(id, t))
	return resp, err
}

// ActiveTime returns the time of the keyframe in effect at t.
func (c *Client) ActiveTime(ctx context.Context, id string, t int) (int, bool, error) {
	c.ensure()

	var resp service.TimeResponse
	err := c.getResource(ctx, &resp, queryPath(id, "active", t))
	return resp.Time, resp.OK, err
}

// AffectedSpan returns the frames invalidated by a change at t.
func (c *Client) AffectedSpan(ctx context.Context, id string, t int) (service.SpanResponse, error) {
	c.ensure()

	var resp service.SpanResponse
	err := c.getResource(ctx, &resp, queryPath(id, "span", t))
	return resp, err
}

func keyframePath(id string, t int) string {
	return queryPath(id, "keyframes", t)
}

func queryPath(id, op string, t int) string {
	return "/channels/" + url.PathEscape(id) + "/" + op + "/" + strconv.Itoa(t)
}

func (c *Client) ensure() {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: defaultTimeout}
	}

	if c.Base == nil {
		c.Base = urlMust(url.Parse(defaultBaseURL))
	}
}

func urlMust(u *url.URL, _ error) *url.URL { return u }
