package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/harmony-haven/haven-client/internal/logger"
)

// Transport issues endpoint calls against a fixed base URL and maps
// transport and HTTP failures onto the error taxonomy. GET parameters go
// on the query string, everything else is serialized as a JSON body.
type Transport struct {
	baseURL      *url.URL
	client       Client
	connectivity Connectivity
	log          logger.Logger
}

// NewTransport builds a transport for the given base URL. A nil client or
// connectivity probe falls back to sane defaults.
func NewTransport(baseURL string, client Client, connectivity Connectivity, log logger.Logger) (*Transport, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, WrapError(KindInvalidURL, fmt.Errorf("parse base url %q: %w", baseURL, err))
	}
	if client == nil {
		client = NewRestyClient(0)
	}
	if connectivity == nil {
		connectivity = AlwaysOnline{}
	}
	return &Transport{
		baseURL:      parsed,
		client:       client,
		connectivity: connectivity,
		log:          logger.Ensure(log),
	}, nil
}

// Send performs one request and returns the response body bytes, or a typed
// error. It never retries; that is the retry policy's job.
func (t *Transport) Send(ctx context.Context, endpoint, method string, params map[string]any, headers map[string]string) ([]byte, error) {
	if t == nil || t.baseURL == nil {
		return nil, NewError(KindInvalidURL)
	}

	if !t.connectivity.IsOnline() {
		t.log.ErrorObj("no internet connection", "endpoint", endpoint)
		return nil, NewError(KindConnectionError)
	}

	target, err := url.JoinPath(t.baseURL.String(), endpoint)
	if err != nil {
		return nil, WrapError(KindInvalidURL, err)
	}

	requestID := uuid.NewString()
	t.log.InfoObj("request issued", "request_meta", map[string]any{
		"request_id": requestID,
		"method":     method,
		"url":        target,
		"headers":    redactHeaders(headers),
		"params":     params,
	})

	resp, err := t.execute(ctx, target, method, params, headers)
	if err != nil {
		typed := ClassifyTransportError(err)
		t.log.ErrorObj("request failed", "request_error", map[string]any{
			"request_id": requestID,
			"url":        target,
			"kind":       typed.Kind.String(),
			"error":      err.Error(),
		})
		return nil, typed
	}

	t.log.InfoObj("response received", "response_meta", map[string]any{
		"request_id": requestID,
		"status":     resp.StatusCode(),
		"body":       bodySnippet(resp.Body()),
	})

	return t.classifyResponse(resp)
}

func (t *Transport) execute(ctx context.Context, target, method string, params map[string]any, headers map[string]string) (Response, error) {
	if strings.EqualFold(method, http.MethodGet) {
		return t.client.Get(ctx, target, stringifyParams(params), headers)
	}
	return t.client.PostJSON(ctx, target, params, headers)
}

// classifyResponse maps the HTTP status onto the taxonomy: 2xx success
// (NoData on an empty body), 401 unauthorized, 5xx server error, everything
// else the catch-all HTTP error with status and body preserved.
func (t *Transport) classifyResponse(resp Response) ([]byte, error) {
	status := resp.StatusCode()
	body := resp.Body()

	switch {
	case status >= 200 && status <= 299:
		if len(body) == 0 {
			return nil, NewError(KindNoData)
		}
		return body, nil
	case status == http.StatusUnauthorized:
		return nil, NewError(KindUnauthorized)
	case status >= 500 && status <= 599:
		return nil, NewError(KindServerError)
	default:
		return nil, NewHTTPError(status, body)
	}
}

func stringifyParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// redactHeaders hides credential values in request logs.
func redactHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") {
			out[k] = "Bearer <redacted>"
			continue
		}
		out[k] = v
	}
	return out
}
