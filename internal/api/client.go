// Package api is the HTTP-calling layer for the article resource family.
// The remote REST API plays the role a database plays elsewhere: every
// operation here is a thin request/decode cycle plus the translation of HTTP
// statuses into the domain error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-blog/inkwell/domain"
)

const (
	defaultTimeout = 15 * time.Second

	// maxErrorBody bounds how much of a failure response gets read for
	// its message.
	maxErrorBody = 1 << 16
)

type articleClient struct {
	baseURL string
	client  *http.Client
	session domain.SessionAccess
}

var _ domain.ArticleClient = (*articleClient)(nil)

// NewArticleClient will create an article client against baseURL (the
// article endpoint root, e.g. https://host/api/articles).
func NewArticleClient(baseURL string, client *http.Client, session domain.SessionAccess) *articleClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &articleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		session: session,
	}
}

// newRequest builds a request, attaching the bearer token when one exists.
func (c *articleClient) newRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request, folding transport failures into ErrNetwork and
// firing the forced-logout side effect on an authorization failure. Any
// non-2xx response comes back as a non-nil error; op-specific status mapping
// happens in the callers via mapStatus.
func (c *articleClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		logrus.Errorf("article request %s %s failed: %v", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		// Continuing with a dead token cannot succeed; destroy the
		// session before surfacing the error.
		c.session.Expire()
		return nil, domain.ErrSessionExpired
	}
	return resp, nil
}

// mapStatus translates a non-2xx response into the domain taxonomy.
// 401 never reaches here; do already handled it.
func mapStatus(resp *http.Response) error {
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusInternalServerError:
		return domain.ErrServer
	case http.StatusBadRequest:
		return &domain.ValidationError{Message: responseMessage(resp)}
	default:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrNetwork, resp.StatusCode)
	}
}

// responseMessage extracts the server-provided message from a failure body,
// falling back to the raw text.
func responseMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return resp.Status
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
		return eb.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return resp.Status
}

// decodeInto decodes a 2xx body, with decode failures treated as network
// level problems.
func decodeInto(resp *http.Response, v any) error {
	defer drain(resp)
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		logrus.Errorf("failed to decode article response: %v", err)
		return fmt.Errorf("%w: malformed response body", domain.ErrNetwork)
	}
	return nil
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
