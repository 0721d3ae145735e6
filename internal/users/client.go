package users

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/transport"
	"github.com/angelmondragon/storefront-client/pkg/validate"
)

// Client talks to the user service.
type Client struct {
	http *transport.Client
}

func NewClient(http *transport.Client) *Client {
	return &Client{http: http}
}

// Login exchanges credentials for a token. The service may answer with the
// bare token or a JSON string.
func (c *Client) Login(ctx context.Context, input LoginInput) (string, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validate.Struct(input); err != nil {
		return "", err
	}
	raw, err := c.http.DoRaw(ctx, http.MethodPost, "/login", input)
	if err != nil {
		if transport.StatusOf(err) == http.StatusUnauthorized {
			return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid email or password")
		}
		return "", err
	}
	token := parseToken(raw)
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeFetchFailed, "login returned an empty token")
	}
	return token, nil
}

func parseToken(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	var quoted string
	if err := json.Unmarshal([]byte(body), &quoted); err == nil {
		return strings.TrimSpace(quoted)
	}
	var wrapped struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err == nil {
		return strings.TrimSpace(wrapped.Token)
	}
	return body
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, input CreateUserInput) (User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.State = strings.ToUpper(strings.TrimSpace(input.State))
	if err := validate.Struct(input); err != nil {
		return User{}, err
	}
	var out User
	if err := c.http.Post(ctx, "/users", input, &out); err != nil {
		if transport.StatusOf(err) == http.StatusConflict {
			return User{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return User{}, err
	}
	return out, nil
}
