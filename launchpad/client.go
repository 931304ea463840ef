/*
Copyright © 2025 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package launchpad drives Canonical's Launchpad build infrastructure:
// triggering Ubuntu image builds, managing snap recipes and their builds,
// registering build webhooks, and aggregating build and builder-queue
// status across hardware architectures.
//
// All operations are synchronous and issue sequential HTTP calls through a
// caller-owned session. Failed calls surface a *RemoteRequestError; retry,
// timeout, and backoff policy belong to the caller and its transport.
package launchpad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cowdogmoo/buildpad/logging"
)

// DefaultAPIRoot is the production Launchpad API endpoint.
const DefaultAPIRoot = "https://api.launchpad.net/devel/"

// Session issues HTTP requests. *http.Client satisfies it; tests and
// callers that need custom transport behavior can substitute their own.
// The client never closes or reconfigures the session.
type Session interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client holds the identity and signed authorization used for every
// outbound request, plus the session and API root they go through.
type Client struct {
	username      string
	authorization string
	apiRoot       string
	session       Session
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	apiRoot  string
	consumer string
}

// WithAPIRoot overrides the API root URL (default DefaultAPIRoot). Used to
// target staging instances and test servers.
func WithAPIRoot(root string) Option {
	return func(o *clientOptions) {
		o.apiRoot = root
	}
}

// WithConsumerKey overrides the OAuth consumer key. By default the consumer
// key is the username, but some Launchpad accounts sign with a distinct
// consumer (e.g. username "imagebuild" with consumer "image.build").
func WithConsumerKey(consumer string) Option {
	return func(o *clientOptions) {
		o.consumer = consumer
	}
}

// NewClient builds a Client signing requests as username with the given
// OAuth token and secret. The session is caller-owned; passing nil uses
// http.DefaultClient.
func NewClient(username, token, secret string, session Session, opts ...Option) *Client {
	o := clientOptions{
		apiRoot:  DefaultAPIRoot,
		consumer: username,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if session == nil {
		session = http.DefaultClient
	}

	return &Client{
		username:      username,
		authorization: oauthPlaintextHeader(o.consumer, token, secret),
		apiRoot:       strings.TrimSuffix(o.apiRoot, "/") + "/",
		session:       session,
	}
}

// Username returns the Launchpad username the client signs as.
func (c *Client) Username() string {
	return c.username
}

// oauthPlaintextHeader formats an OAuth 1.0 PLAINTEXT Authorization header.
// The signature for PLAINTEXT signing is "&<secret>": the consumer secret is
// empty for Launchpad system-wide consumers.
func oauthPlaintextHeader(consumer, token, secret string) string {
	return fmt.Sprintf(
		`OAuth oauth_version="1.0", `+
			`oauth_signature_method="PLAINTEXT", `+
			`oauth_consumer_key=%s, `+
			`oauth_token="%s", `+
			`oauth_signature="&%s"`,
		consumer, token, secret,
	)
}

// owner returns the API owner path segment, e.g. "~imagebuild".
func (c *Client) owner() string {
	return "~" + c.username
}

// livefsOwner returns the owner segment for livefs paths. Launchpad strips
// dots from usernames in livefs URLs.
func (c *Client) livefsOwner() string {
	return "~" + strings.ReplaceAll(c.username, ".", "")
}

// resolveURL joins a path with the API root. Absolute URLs (collection
// links and self links returned by the API) pass through untouched.
func (c *Client) resolveURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return c.apiRoot + strings.TrimPrefix(path, "/")
}

// do issues a single signed request and returns the response body.
// Non-2xx responses return a *RemoteRequestError carrying the status code
// and body; nothing is retried or swallowed.
func (c *Client) do(ctx context.Context, method, path string, params, form url.Values) ([]byte, error) {
	endpoint := c.resolveURL(path)
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + params.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", logging.RedactURL(endpoint), err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.authorization)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	logging.DebugContext(ctx, "%s %s %s", method, logging.RedactURL(endpoint), logging.RedactFormValues(form))

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", logging.RedactURL(endpoint), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", logging.RedactURL(endpoint), err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RemoteRequestError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	logging.DebugContext(ctx, "%s %s -> %d (%d bytes)", method, logging.RedactURL(endpoint), resp.StatusCode, len(respBody))

	return respBody, nil
}

// collectionEnvelope is the JSON wrapper Launchpad puts around collections.
type collectionEnvelope struct {
	Entries json.RawMessage `json:"entries"`
}

// collection fetches a collection and decodes its entries into out, which
// must be a pointer to a slice. A response without an "entries" field
// leaves out untouched: an empty collection is a valid result, not an
// error.
func (c *Client) collection(ctx context.Context, path string, params url.Values, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}

	var envelope collectionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode collection from %s: %w", path, err)
	}

	if len(envelope.Entries) == 0 || string(envelope.Entries) == "null" {
		return nil
	}

	if err := json.Unmarshal(envelope.Entries, out); err != nil {
		return fmt.Errorf("failed to decode collection entries from %s: %w", path, err)
	}

	return nil
}
