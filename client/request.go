package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"reflect"
)

func (c *Client) getResource(ctx context.Context, result interface{}, path string) error {
	return c.reqWithMethodAndPayload(ctx, http.MethodGet, path, result, nil)
}

func (c *Client) postResource(ctx context.Context, resource interface{}, result interface{}, path string) error {
	return c.reqWithMethodAndPayload(ctx, http.MethodPost, path, result, resource)
}

func (c *Client) removeResource(ctx context.Context, result interface{}, path string) error {
	return c.reqWithMethodAndPayload(ctx, http.MethodDelete, path, result, nil)
}

func (c *Client) reqWithMethodAndPayload(ctx context.Context, method string, path string, result interface{}, reqBody interface{}) error {
	var body io.Reader
	if !isNil(reqBody) {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Base.String()+path, body)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		return fmt.Errorf("received a non 2xx status response, got a %s with body %q", resp.Status, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// isNil reports whether v is nil or a nil pointer, so typed nil request
// bodies are sent empty.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
