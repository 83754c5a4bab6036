package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, query map[string]string, headers map[string]string) (Response, error)
	PostJSON(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
}

// Sender is the contract the API services consume: one endpoint call in,
// raw body bytes or a typed taxonomy error out.
type Sender interface {
	Send(ctx context.Context, endpoint, method string, params map[string]any, headers map[string]string) ([]byte, error)
}

// Connectivity exposes the externally maintained "is online" signal checked
// before any network attempt.
type Connectivity interface {
	IsOnline() bool
}

// AlwaysOnline is the default connectivity probe for environments without a
// reachability monitor.
type AlwaysOnline struct{}

func (AlwaysOnline) IsOnline() bool { return true }
