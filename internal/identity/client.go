package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventdesk/api/internal/config"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Principal is the verified external identity behind a bearer token. It is
// not an application user: callers still have to resolve the email against
// the internal user table.
type Principal struct {
	ID    string
	Email string
}

// Client verifies bearer tokens against the hosted identity provider.
// With a shared JWT secret configured it validates tokens locally;
// otherwise it exchanges them over the provider's REST surface.
type Client struct {
	baseURL   string
	apiKey    string
	jwtSecret string
	http      *http.Client
}

func New(cfg config.IdentityConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		jwtSecret: cfg.JWTSecret,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) Verify(ctx context.Context, token string) (Principal, error) {
	if c.jwtSecret != "" {
		return c.verifyLocal(token)
	}
	return c.verifyRemote(ctx, token)
}

type providerClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Client) verifyLocal(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &providerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(c.jwtSecret), nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*providerClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{ID: claims.Subject, Email: claims.Email}, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) verifyRemote(ctx context.Context, token string) (Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Principal{}, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("identity provider: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Principal{}, ErrInvalidToken
	default:
		return Principal{}, fmt.Errorf("identity provider: unexpected status %d", resp.StatusCode)
	}

	var body userResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Principal{}, fmt.Errorf("decode identity response: %w", err)
	}
	if body.Email == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{ID: body.ID, Email: body.Email}, nil
}
