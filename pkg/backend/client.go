package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	console "github.com/goliatone/go-console/components/console"
)

// ListResult is one raw page from the admin API before typed decoding.
type ListResult struct {
	Items      json.RawMessage
	Pagination console.PaginationState
}

// envelope is the admin API's uniform response shape.
type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
	Pagination *paginationPayload `json:"pagination,omitempty"`
}

type paginationPayload struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	PageSize    int   `json:"pageSize"`
}

// HTTPClient talks to the admin REST API.
type HTTPClient struct {
	http   *resty.Client
	creds  CredentialProvider
	logger *log.Logger
}

// Option customizes the client.
type Option func(*HTTPClient)

// WithCredentials injects the credential provider.
func WithCredentials(creds CredentialProvider) Option {
	return func(c *HTTPClient) { c.creds = creds }
}

// WithLogger injects a structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *HTTPClient) { c.logger = logger }
}

// NewHTTPClient builds a client for the admin API. Auth failures are never
// retried; transient server errors are.
func NewHTTPClient(cfg Config, options ...Option) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	rc.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() >= http.StatusInternalServerError
	})
	if cfg.Debug {
		rc.SetDebug(true)
	}

	client := &HTTPClient{http: rc}
	for _, opt := range options {
		opt(client)
	}
	if client.creds == nil && cfg.Token != "" {
		client.creds = NewScreenedCredentials(NewStaticCredentials(cfg.Token))
	}
	return client, nil
}

var _ Client = (*HTTPClient)(nil)

// List fetches one page of the collection at path.
func (c *HTTPClient) List(ctx context.Context, path string, q console.Query) (ListResult, error) {
	req, err := c.request(ctx)
	if err != nil {
		return ListResult{}, err
	}
	req.SetQueryParams(listParams(q))

	resp, err := req.Get(path)
	if err != nil {
		return ListResult{}, &console.TransportError{Op: "list " + path, Err: err}
	}
	env, err := c.decode(resp, "list "+path)
	if err != nil {
		return ListResult{}, err
	}

	result := ListResult{Items: env.Data}
	if env.Pagination != nil {
		result.Pagination = console.PaginationState{
			CurrentPage: env.Pagination.CurrentPage,
			TotalPages:  env.Pagination.TotalPages,
			TotalCount:  env.Pagination.TotalCount,
			PageSize:    env.Pagination.PageSize,
		}
	}
	return result, nil
}

// Mutate issues the single outbound request for a dispatched action. The
// "{id}" (or ":id") segment of the action path is replaced with the target id.
func (c *HTTPClient) Mutate(ctx context.Context, def console.ActionDefinition, targetID string, payload map[string]any) (map[string]any, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.SetBody(payload)
	}
	path := expandActionPath(def.Path, targetID)
	method := def.Method
	if method == "" {
		method = http.MethodPatch
	}

	resp, err := req.Execute(strings.ToUpper(method), path)
	if err != nil {
		return nil, &console.TransportError{Op: def.Kind, Err: err}
	}
	env, err := c.decode(resp, def.Kind)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			// Non-object data payloads are legal; the caller gets nothing
			// to patch from and falls back to submitted values.
			data = nil
		}
	}
	return data, nil
}

// LookupProfiles resolves display profiles by id from the given source
// collection.
func (c *HTTPClient) LookupProfiles(ctx context.Context, source string, ids []string) (map[string]console.Profile, error) {
	if len(ids) == 0 {
		return map[string]console.Profile{}, nil
	}
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	req.SetQueryParam("ids", strings.Join(ids, ","))

	resp, err := req.Get("/admin/" + source)
	if err != nil {
		return nil, &console.TransportError{Op: "lookup " + source, Err: err}
	}
	env, err := c.decode(resp, "lookup "+source)
	if err != nil {
		return nil, err
	}

	var profiles []console.Profile
	if err := json.Unmarshal(env.Data, &profiles); err != nil {
		return nil, &console.TransportError{Op: "decode " + source, Err: err}
	}
	out := make(map[string]console.Profile, len(profiles))
	for _, profile := range profiles {
		if profile.ID != "" {
			out[profile.ID] = profile
		}
	}
	return out, nil
}

func (c *HTTPClient) request(ctx context.Context) (*resty.Request, error) {
	req := c.http.R().SetContext(ctx)
	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.SetAuthToken(token)
	}
	return req, nil
}

// decode maps the response envelope onto the console error taxonomy. Auth
// failures clear credentials; server messages travel up verbatim.
func (c *HTTPClient) decode(resp *resty.Response, op string) (*envelope, error) {
	status := resp.StatusCode()
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if c.creds != nil {
			c.creds.Clear()
		}
		if c.logger != nil {
			c.logger.Warn("session rejected", "op", op, "status", status)
		}
		return nil, console.ErrUnauthorized
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if status >= http.StatusBadRequest {
			return nil, &console.ServerError{Status: status, Message: strings.TrimSpace(string(resp.Body()))}
		}
		return nil, &console.TransportError{Op: op, Err: err}
	}
	if status >= http.StatusBadRequest || !env.Success {
		if status < http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		return nil, &console.ServerError{Status: status, Message: env.Message}
	}
	return &env, nil
}

func listParams(q console.Query) map[string]string {
	params := map[string]string{
		"page": strconv.Itoa(max(q.Page, 1)),
	}
	if q.PageSize > 0 {
		params["limit"] = strconv.Itoa(q.PageSize)
	}
	if q.Filter.Search != "" {
		params["search"] = q.Filter.Search
	}
	if v := categoricalParam(q.Filter.Status); v != "" {
		params["status"] = v
	}
	if v := categoricalParam(q.Filter.Priority); v != "" {
		params["priority"] = v
	}
	if v := categoricalParam(q.Filter.PaymentMode); v != "" {
		params["paymentMode"] = v
	}
	if q.Sort != "" {
		params["sort"] = q.Sort
	}
	return params
}

// expandActionPath substitutes the target id placeholder. Both the "{id}"
// and ":id" spellings appear in descriptors.
func expandActionPath(path, targetID string) string {
	path = strings.ReplaceAll(path, "{id}", targetID)
	return strings.ReplaceAll(path, ":id", targetID)
}

// categoricalParam drops the "all" sentinel so it never reaches the wire.
func categoricalParam(value string) string {
	if value == "" || strings.EqualFold(value, console.FilterAll) {
		return ""
	}
	return value
}

// NewFetcher adapts the client into a typed collection fetcher for path.
func NewFetcher[T console.Item](client ListClient, path string) console.CollectionFetcher[T] {
	return console.FetcherFunc[T](func(ctx context.Context, collection string, q console.Query) (console.PageResult[T], error) {
		raw, err := client.List(ctx, path, q)
		if err != nil {
			return console.PageResult[T]{}, err
		}
		var items []T
		if len(raw.Items) > 0 {
			if err := json.Unmarshal(raw.Items, &items); err != nil {
				return console.PageResult[T]{}, &console.TransportError{Op: "decode " + collection, Err: err}
			}
		}
		return console.PageResult[T]{Items: items, Pagination: raw.Pagination}, nil
	})
}
