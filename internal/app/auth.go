package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoTokenReceived marks the odd backend state where authentication
// reportedly succeeded but no token was issued. It is distinct from a
// validation failure and from transport errors.
var ErrNoTokenReceived = errors.New("authentication succeeded but no token received")

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// ValidateEmail checks the address shape before any network call.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return errors.New("please enter a valid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// ValidateName enforces the minimum display-name length.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	return nil
}

// Login authenticates and persists the issued token. Success requires both
// the authenticated flag and a token; the flag alone is a failure of its own
// kind.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	resp, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if resp.IsAuthenticated {
		token := resp.Token()
		if token == "" {
			return ErrNoTokenReceived
		}
		if err := c.sess.SetToken(token); err != nil {
			return fmt.Errorf("persist session token: %w", err)
		}
		return nil
	}

	if !resp.FormValidationResult.IsValid && resp.FormValidationResult.ErrorMessage != "" {
		return errors.New(resp.FormValidationResult.ErrorMessage)
	}
	if cred := resp.CredentialsValidationResult; cred != nil && !cred.IsValid && cred.ErrorMessage != "" {
		return errors.New(cred.ErrorMessage)
	}
	return errors.New("authentication failed")
}

// Register creates an account and persists the issued token, with the same
// success definition as Login.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	resp, err := c.auth.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	if resp.IsAuthenticated {
		token := resp.Token()
		if token == "" {
			return ErrNoTokenReceived
		}
		if err := c.sess.SetToken(token); err != nil {
			return fmt.Errorf("persist session token: %w", err)
		}
		return nil
	}

	if !resp.FormValidationResult.IsValid && resp.FormValidationResult.ErrorMessage != "" {
		return errors.New(resp.FormValidationResult.ErrorMessage)
	}
	return errors.New("registration failed")
}

// Logout clears the persisted session token.
func (c *Client) Logout() error {
	return c.sess.Clear()
}

// IsAuthenticated reports whether a session token is currently persisted.
// Read once at app start to restore the previous session.
func (c *Client) IsAuthenticated() bool {
	return c.sess.Token() != ""
}
