package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/naveenspark/teamwork/pkg/client"
	"github.com/naveenspark/teamwork/pkg/domain"
)

// IdentitySource turns a registration or a set of credentials into a
// user and an opaque token. It never touches the session store.
type IdentitySource interface {
	Register(ctx context.Context, r domain.Registration) (domain.User, string, error)
	Authenticate(ctx context.Context, c domain.Credentials) (domain.User, string, error)
}

// revoker is implemented by identity sources that hold server-side
// sessions which should be ended on logout.
type revoker interface {
	Revoke(ctx context.Context) error
}

// localIssuer is the iss claim of tokens minted without a backend.
const localIssuer = "teamwork-local"

// userNamespace derives local user ids from email addresses.
var userNamespace = uuid.MustParse("6f1d3a52-8a9e-4c1b-9b7e-2f5c0d1e7a44")

// LocalIdentity synthesizes identities without contacting a backend.
// User ids are derived from the email address, so registering and then
// signing in with the same address yields the same id. Tokens are HS256
// JWTs signed with a key that lives only as long as the process; nothing
// verifies them.
type LocalIdentity struct {
	key []byte
	now func() time.Time
}

// NewLocalIdentity returns a LocalIdentity with a fresh signing key.
func NewLocalIdentity() *LocalIdentity {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(fmt.Sprintf("auth: read random key: %v", err))
	}
	return &LocalIdentity{key: key, now: time.Now}
}

// LocalUserID returns the id LocalIdentity assigns to email.
func LocalUserID(email string) string {
	return uuid.NewSHA1(userNamespace, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

func (l *LocalIdentity) Register(_ context.Context, r domain.Registration) (domain.User, string, error) {
	user := domain.User{
		ID:    LocalUserID(r.Email),
		Name:  r.FullName,
		Email: r.Email,
	}
	token, err := l.mint(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (l *LocalIdentity) Authenticate(_ context.Context, c domain.Credentials) (domain.User, string, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(c.Email), "@")
	user := domain.User{
		ID:    LocalUserID(c.Email),
		Name:  name,
		Email: strings.TrimSpace(c.Email),
	}
	token, err := l.mint(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (l *LocalIdentity) mint(u domain.User) (string, error) {
	claims := jwt.MapClaims{
		"iss":   localIssuer,
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"iat":   l.now().Unix(),
		"jti":   uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.key)
	if err != nil {
		return "", fmt.Errorf("auth.LocalIdentity: sign token: %w", err)
	}
	return token, nil
}

// RemoteIdentity delegates to the API.
type RemoteIdentity struct {
	api *client.Client
}

// NewRemoteIdentity returns an IdentitySource backed by api.
func NewRemoteIdentity(api *client.Client) *RemoteIdentity {
	return &RemoteIdentity{api: api}
}

func (r *RemoteIdentity) Register(ctx context.Context, reg domain.Registration) (domain.User, string, error) {
	resp, err := r.api.Register(ctx, client.RegisterRequest{
		FullName: reg.FullName,
		Email:    reg.Email,
		Password: reg.Password,
	})
	if err != nil {
		return domain.User{}, "", err
	}
	if resp.Token == "" || resp.User.ID == "" {
		return domain.User{}, "", errors.New("auth.RemoteIdentity.Register: incomplete response")
	}
	return resp.User, resp.Token, nil
}

func (r *RemoteIdentity) Authenticate(ctx context.Context, c domain.Credentials) (domain.User, string, error) {
	resp, err := r.api.Login(ctx, c.Email, c.Password)
	if err != nil {
		return domain.User{}, "", err
	}
	if resp.Token == "" || resp.User.ID == "" {
		return domain.User{}, "", errors.New("auth.RemoteIdentity.Authenticate: incomplete response")
	}
	return resp.User, resp.Token, nil
}

// Revoke ends the server-side session.
func (r *RemoteIdentity) Revoke(ctx context.Context) error {
	return r.api.Logout(ctx)
}
