// Package api implements the Harmony Haven backend client: transfer records,
// the flexible response decoder, and one service per backend resource. Each
// service composes the retry-wrapped transport with the decoder and the
// domain mappers behind intention-revealing fetch operations.
package api

import (
	"context"
	"net/http"

	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
	"github.com/harmony-haven/haven-client/pkg/retry"
)

// Backend endpoints. Paths and methods are fixed; response shapes are not.
const (
	endpointCategories    = "/api/v1/categories"
	endpointArticles      = "/api/v1/articles"
	endpointLogin         = "/api/v1/user/authenticate"
	endpointRegister      = "/api/v2/user/authenticate"
	endpointNotifications = "/api/v1/user/get-notifications"
	endpointQuotes        = "/api/v3/get-quotes"
	endpointChat          = "/api/v1/chat"
)

// service is the shared plumbing every resource service embeds.
type service struct {
	sender httpclient.Sender
	policy retry.Policy
	sess   *session.Context
	log    logger.Logger
}

func newService(sender httpclient.Sender, policy retry.Policy, sess *session.Context, log logger.Logger) service {
	return service{
		sender: sender,
		policy: policy,
		sess:   sess,
		log:    logger.Ensure(log),
	}
}

// get issues a retry-wrapped GET carrying the bearer token read at call time.
func (s service) get(ctx context.Context, endpoint string, params map[string]any) ([]byte, error) {
	return retry.Do(ctx, s.policy, func(ctx context.Context) ([]byte, error) {
		return s.sender.Send(ctx, endpoint, http.MethodGet, params, s.sess.BearerHeader())
	})
}

// post issues a retry-wrapped authenticated POST with a JSON body.
func (s service) post(ctx context.Context, endpoint string, params map[string]any) ([]byte, error) {
	return retry.Do(ctx, s.policy, func(ctx context.Context) ([]byte, error) {
		return s.sender.Send(ctx, endpoint, http.MethodPost, params, s.sess.BearerHeader())
	})
}

// postAnonymous issues a retry-wrapped POST without credentials, for the
// authentication endpoints themselves.
func (s service) postAnonymous(ctx context.Context, endpoint string, params map[string]any) ([]byte, error) {
	return retry.Do(ctx, s.policy, func(ctx context.Context) ([]byte, error) {
		return s.sender.Send(ctx, endpoint, http.MethodPost, params, map[string]string{"Accept": "application/json"})
	})
}
