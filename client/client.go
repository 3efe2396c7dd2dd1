// Package client is a minimal client for the workflow server's REST API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Client talks to a workflow server.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// New returns a client for the server at endpoint.
func New(endpoint string) *Client {
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		HTTP:     http.DefaultClient,
	}
}

// KillAttempt asks the server to kill a running session attempt. The
// semantics of the kill are the server's concern; this only issues the call.
func (c *Client) KillAttempt(ctx context.Context, attemptID int64) error {
	url := fmt.Sprintf("%s/api/attempts/%d/kill", c.Endpoint, attemptID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return errors.Wrap(err, "build kill request")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "kill attempt")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.Errorf("kill attempt %d: unexpected status %s", attemptID, res.Status)
	}

	return nil
}
