package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(header[7:])
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
