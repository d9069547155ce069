package services

import (
	"context"
	"testing"
	"time"

	"lifora/internal/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invalidations struct{ ids []string }

func (i *invalidations) Invalidate(id string) { i.ids = append(i.ids, id) }

func newAuthFixture() (*AuthService, *TokenIssuer, *invalidations) {
	tokens := NewTokenIssuer("test-secret", time.Hour)
	inv := &invalidations{}
	return NewAuthService(repository.NewMemoryUserStore(), tokens, inv), tokens, inv
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens, _ := newAuthFixture()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada", res.User.Username)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.NotEmpty(t, res.User.ProfilePicture)

	uid, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, uid)

	login, err := svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-pass")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "", Password: "secret1"},
		{Email: "a@example.com", Password: ""},
		{Email: "not-an-email", Password: "secret1"},
		{Email: "a@example.com", Password: "123"},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "%+v", in)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "A@example.com", Password: "secret2"})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestAuthService_MeAndUpdateProfile(t *testing.T) {
	svc, _, inv := newAuthFixture()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "grace", Email: "g@example.com", Password: "secret1"})
	require.NoError(t, err)
	r := Requester{UserID: res.User.ID}

	me, err := svc.Me(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "grace", me.Username)

	name := "Grace H."
	updated, err := svc.UpdateProfile(ctx, r, ProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grace H.", updated.Name)
	assert.Equal(t, []string{res.User.ID}, inv.ids)

	blank := " "
	_, err = svc.UpdateProfile(ctx, r, ProfileInput{Name: &blank})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = svc.Me(ctx, Requester{})
	assert.True(t, errors.Is(err, ErrUnauthorized))
	_, err = svc.Me(ctx, Requester{UserID: "gone"})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestTokenIssuer_Parse(t *testing.T) {
	issuer := NewTokenIssuer("k1", time.Minute)
	tok, err := issuer.Issue("U1")
	require.NoError(t, err)

	uid, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "U1", uid)

	_, err = NewTokenIssuer("k2", time.Minute).Parse(tok)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = issuer.Parse("garbage")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	later := NewTokenIssuer("k1", time.Minute)
	later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = later.Parse(tok)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestServiceErrors(t *testing.T) {
	err := errors.Wrap(NotFound("comment not found"), "outer")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "comment not found", PublicMessage(err))

	internal := Internal("db", errors.New("connection reset"))
	assert.Equal(t, "internal server error", PublicMessage(internal))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
