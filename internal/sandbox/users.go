package sandbox

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-client/internal/users"
	"github.com/angelmondragon/storefront-client/pkg/auth"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/db"
	"github.com/angelmondragon/storefront-client/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/security"
	"gorm.io/gorm"
)

const emailUniqueConstraint = "users_email_key"

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// UserService registers accounts and issues access tokens.
type UserService struct {
	repo   *Repository
	hasher passwordHasher
	jwt    config.JWTConfig
	now    func() time.Time
}

func NewUserService(repo *Repository, hasher *security.Hasher, jwtCfg config.JWTConfig) *UserService {
	return &UserService{repo: repo, hasher: hasher, jwt: jwtCfg, now: time.Now}
}

// Register creates an account. Emails are unique case-insensitively.
func (s *UserService) Register(ctx context.Context, input users.CreateUserInput) (users.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Address:      strings.TrimSpace(input.Address),
		Zipcode:      strings.TrimSpace(input.Zipcode),
		NationalID:   strings.TrimSpace(input.NationalID),
		Phone:        strings.TrimSpace(input.Phone),
		State:        strings.ToUpper(strings.TrimSpace(input.State)),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if db.IsUniqueViolation(err, emailUniqueConstraint) {
			return users.User{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return users.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return toUserView(user), nil
}

// Login verifies credentials and mints an access token carrying the userId
// claim.
func (s *UserService) Login(ctx context.Context, input users.LoginInput) (string, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

	user, err := s.repo.FindUserByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", invalid
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return "", invalid
	}

	token, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserView(u *models.User) users.User {
	return users.User{
		ID:         u.ID,
		Name:       u.Name,
		LastName:   u.LastName,
		Email:      u.Email,
		Address:    u.Address,
		Zipcode:    u.Zipcode,
		NationalID: u.NationalID,
		Phone:      u.Phone,
		State:      u.State,
	}
}
