package auth

import "github.com/golang-jwt/jwt/v5"

// UserIDClaim is the payload field carrying the numeric user identity.
const UserIDClaim = "userId"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Email  string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued by the sandbox user service.
type AccessTokenClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
