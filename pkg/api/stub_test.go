package api

import (
	"context"
	"time"

	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/retry"
)

// stubSender replays canned bodies and records what the services send.
type stubSender struct {
	body []byte
	err  error

	calls        int
	lastEndpoint string
	lastMethod   string
	lastParams   map[string]any
	lastHeaders  map[string]string
}

func (s *stubSender) Send(ctx context.Context, endpoint, method string, params map[string]any, headers map[string]string) ([]byte, error) {
	s.calls++
	s.lastEndpoint = endpoint
	s.lastMethod = method
	s.lastParams = params
	s.lastHeaders = headers
	return s.body, s.err
}

func testSession(token string) *session.Context {
	store := session.NewMemoryStore()
	sess := session.NewContext(store, nil)
	if token != "" {
		_ = sess.SetToken(token)
	}
	return sess
}

func testPolicy() retry.Policy {
	return retry.NewPolicy(1, time.Millisecond, nil)
}
