package api

import (
	"context"
	"encoding/json"

	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
	"github.com/harmony-haven/haven-client/pkg/retry"
)

// ValidationResult is the backend's per-field validation verdict, carried
// independently of whether authentication succeeded.
type ValidationResult struct {
	IsValid      bool   `json:"isValid"`
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    int    `json:"errorCode"`
}

// AuthResponse is the wire response of the login and register endpoints.
// The token may be absent even when IsAuthenticated is true; interpreting
// that combination is the caller's job.
type AuthResponse struct {
	FormValidationResult        ValidationResult  `json:"formValidationResult"`
	CredentialsValidationResult *ValidationResult `json:"credentialsValidationResult"`
	IsAuthenticated             bool              `json:"isAuthenticated"`
	JWT                         *string           `json:"jwt"`
}

// Token returns the issued token, or empty string when none was present.
func (r AuthResponse) Token() string {
	if r.JWT == nil {
		return ""
	}
	return *r.JWT
}

// AuthService performs login and registration. These calls carry no bearer
// token.
type AuthService struct {
	service
}

// NewAuthService builds the authentication service on top of the shared transport.
func NewAuthService(sender httpclient.Sender, policy retry.Policy, sess *session.Context, log logger.Logger) *AuthService {
	return &AuthService{service: newService(sender, policy, sess, log)}
}

// Login authenticates an existing user against the v1 endpoint.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	params := map[string]any{
		"email":    email,
		"password": password,
	}
	return s.authenticate(ctx, endpointLogin, params)
}

// Register creates an account against the v2 endpoint.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	params := map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	}
	return s.authenticate(ctx, endpointRegister, params)
}

func (s *AuthService) authenticate(ctx context.Context, endpoint string, params map[string]any) (AuthResponse, error) {
	body, err := s.postAnonymous(ctx, endpoint, params)
	if err != nil {
		return AuthResponse{}, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.log.ErrorObj("auth response decode failed", "error", err.Error())
		return AuthResponse{}, httpclient.WrapError(httpclient.KindDecodingFailed, err)
	}
	return resp, nil
}
