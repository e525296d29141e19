package gqlopgen

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/llehouerou/gqlopgen/pkg/introspection"
)

// SchemaSource yields the introspected type system a run generates from.
type SchemaSource interface {
	Introspect(ctx context.Context) (*introspection.Schema, error)
}

// This function allows you to tweak the HTTP request. It might be useful to set authentication
// headers  amongst other things
type RequestModifier func(*http.Request)

// Client fetches a schema from a live GraphQL endpoint with the standard
// introspection query.
//
// With* methods return a new Client and leave the receiver unchanged:
//
//	client = client.WithRequestModifier(modifier)  // Correct
//	client.WithRequestModifier(modifier)            // Wrong - original client unchanged
type Client struct {
	url             string // GraphQL server URL.
	httpClient      *http.Client
	requestModifier RequestModifier
}

// NewClient creates a client targeting the specified GraphQL server URL.
// If httpClient is nil, then http.DefaultClient is used.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
	}
}

// URL returns the endpoint the client introspects.
func (c *Client) URL() string {
	return c.url
}

// Introspect posts the introspection query and returns the decoded schema.
// Any transport failure, non-2xx status or GraphQL errors array yields an
// *IntrospectionError; a payload without a schema yields a *SchemaLoadError.
func (c *Client) Introspect(ctx context.Context) (*introspection.Schema, error) {
	request, err := c.BuildRequest(ctx, introspection.Query)
	if err != nil {
		return nil, &IntrospectionError{
			Endpoint: c.url,
			Err:      fmt.Errorf("problem constructing request: %w", err),
		}
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &IntrospectionError{Endpoint: c.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &IntrospectionError{
			Endpoint:   c.url,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	r, err := handleGzipResponse(resp, resp.Body)
	if err != nil {
		return nil, &IntrospectionError{Endpoint: c.url, StatusCode: resp.StatusCode, Err: err}
	}
	defer func() { _ = r.Close() }()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &IntrospectionError{Endpoint: c.url, StatusCode: resp.StatusCode, Err: err}
	}

	return decodeIntrospection(c.url, resp.StatusCode, body)
}

// BuildRequest constructs an HTTP request with JSON body for a GraphQL operation.
func (c *Client) BuildRequest(ctx context.Context, query string) (*http.Request, error) {
	in := struct {
		Query string `json:"query"`
	}{
		Query: query,
	}
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(in)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url,
		&buf,
	)
	if err != nil {
		return nil, err
	}
	request.Header.Add("Content-Type", "application/json")

	if c.requestModifier != nil {
		c.requestModifier(request)
	}

	return request, nil
}

// handleGzipResponse wraps the response body reader with a gzip decompressor
// if the Content-Encoding header indicates gzip compression.
func handleGzipResponse(
	resp *http.Response,
	bodyReader io.Reader,
) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(bodyReader)
		if err != nil {
			return nil, fmt.Errorf("problem trying to create gzip reader: %w", err)
		}
		return gr, nil
	}
	return io.NopCloser(bodyReader), nil
}

// decodeIntrospection turns a response body into a schema, surfacing a
// GraphQL errors array as an *IntrospectionError and a payload without a
// schema as a *SchemaLoadError.
func decodeIntrospection(origin string, status int, body []byte) (*introspection.Schema, error) {
	var out struct {
		Errors Errors `json:"errors"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &SchemaLoadError{Reason: "response from " + origin + " is not JSON", Err: err}
	}
	if len(out.Errors) > 0 {
		return nil, &IntrospectionError{
			Endpoint:   origin,
			StatusCode: status,
			Body:       string(body),
			Errors:     out.Errors,
		}
	}

	schema, err := introspection.ParseSchema(body)
	if err != nil {
		return nil, &SchemaLoadError{Reason: "response from " + origin, Err: err}
	}
	return schema, nil
}

// clone creates a copy of the Client with all fields preserved.
func (c *Client) clone() *Client {
	return &Client{
		url:             c.url,
		httpClient:      c.httpClient,
		requestModifier: c.requestModifier,
	}
}

// WithRequestModifier returns a new Client with the request modifier set,
// e.g. to add authentication headers.
func (c *Client) WithRequestModifier(f RequestModifier) *Client {
	clone := c.clone()
	clone.requestModifier = f
	return clone
}

// WithHeaders returns a new Client that sets the given headers on every
// request, after any previously installed modifier ran.
func (c *Client) WithHeaders(headers http.Header) *Client {
	if len(headers) == 0 {
		return c.clone()
	}
	previous := c.requestModifier
	return c.WithRequestModifier(func(r *http.Request) {
		if previous != nil {
			previous(r)
		}
		for k, values := range headers {
			r.Header.Del(k)
			for _, v := range values {
				r.Header.Add(k, v)
			}
		}
	})
}

// FileSource reads a saved introspection response from disk, in either the
// full response shape or the bare {"__schema": ...} shape.
type FileSource struct {
	Path string
}

// Introspect reads and decodes the file.
func (s FileSource) Introspect(_ context.Context) (*introspection.Schema, error) {
	body, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &IntrospectionError{Endpoint: s.Path, Err: err}
	}
	return decodeIntrospection(s.Path, 0, body)
}
