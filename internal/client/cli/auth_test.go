package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

func stubInputs(t *testing.T, answers []string, password []byte) {
	t.Helper()
	origST, origGP, origPrint := getSimpleText, getPassword, printlnFn
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() {
		getSimpleText, getPassword, printlnFn = origST, origGP, origPrint
	})
}

type fakeAuth struct {
	regName, regEmail string
	regPass           []byte
	regSent           bool
	regErr            error

	verifyToken, verifyEmail string
	verifyErr                error

	resendEmail string

	loginEmail string
	loginPass  []byte
	loginErr   error

	me    *client.User
	meErr error

	forgotEmail string
	resetToken  string
	resetPass   []byte
	resetErr    error

	logoutCalled bool
	pingErr      error
}

func (f *fakeAuth) Register(_ context.Context, name, email string, pass []byte) (*client.User, bool, error) {
	f.regName, f.regEmail, f.regPass = name, email, append([]byte(nil), pass...)
	if f.regErr != nil {
		return nil, false, f.regErr
	}
	return &client.User{Name: name, Email: email}, f.regSent, nil
}

func (f *fakeAuth) Verify(_ context.Context, token, email string) error {
	f.verifyToken, f.verifyEmail = token, email
	return f.verifyErr
}

func (f *fakeAuth) ResendVerification(_ context.Context, email string) error {
	f.resendEmail = email
	return nil
}

func (f *fakeAuth) Login(_ context.Context, email string, pass []byte) (*client.Session, error) {
	f.loginEmail, f.loginPass = email, append([]byte(nil), pass...)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.Session{AccessToken: "jwt", ExpiresAt: time.Now().Add(time.Hour), User: client.User{Email: email}}, nil
}

func (f *fakeAuth) RestoreSession(context.Context) (string, bool, error) { return "", false, nil }

func (f *fakeAuth) WhoAmI(context.Context) (*client.User, error) { return f.me, f.meErr }

func (f *fakeAuth) RequestPasswordReset(_ context.Context, email string) error {
	f.forgotEmail = email
	return nil
}

func (f *fakeAuth) ResetPassword(_ context.Context, token string, pass []byte) error {
	f.resetToken, f.resetPass = token, append([]byte(nil), pass...)
	return f.resetErr
}

func (f *fakeAuth) Logout(context.Context) error { f.logoutCalled = true; return nil }
func (f *fakeAuth) Ping(context.Context) error   { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error  { return nil }

func newTestApp(f *fakeAuth) *App {
	return &App{authService: f, reader: bufio.NewReader(strings.NewReader("")), out: io.Discard, Mode: ModeOnline}
}

func TestRegister(t *testing.T) {
	f := &fakeAuth{regSent: true}
	a := newTestApp(f)
	stubInputs(t, []string{"Ann", "ann@example.com"}, []byte("secret1"))

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "Ann", f.regName)
	assert.Equal(t, "ann@example.com", f.regEmail)
	assert.Equal(t, []byte("secret1"), f.regPass)
}

func TestRegister_ServerRejects(t *testing.T) {
	f := &fakeAuth{regErr: &client.APIError{Message: "User exists"}}
	a := newTestApp(f)
	stubInputs(t, []string{"Ann", "ann@example.com"}, []byte("secret1"))

	err := a.Register(context.Background())
	require.Error(t, err)
	assert.Equal(t, "User exists", describe(err))
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("token and email as args", func(t *testing.T) {
		f := &fakeAuth{}
		stubInputs(t, nil, nil)
		require.NoError(t, newTestApp(f).Verify(ctx, []string{"tok", "ann@example.com"}))
		assert.Equal(t, "tok", f.verifyToken)
		assert.Equal(t, "ann@example.com", f.verifyEmail)
	})

	t.Run("email prompted", func(t *testing.T) {
		f := &fakeAuth{}
		stubInputs(t, []string{"ann@example.com"}, nil)
		require.NoError(t, newTestApp(f).Verify(ctx, []string{"tok"}))
		assert.Equal(t, "ann@example.com", f.verifyEmail)
	})

	t.Run("missing token", func(t *testing.T) {
		stubInputs(t, nil, nil)
		err := newTestApp(&fakeAuth{}).Verify(ctx, nil)
		assert.ErrorIs(t, err, errUsage)
	})
}

func TestLoginAndLogout(t *testing.T) {
	f := &fakeAuth{}
	a := newTestApp(f)
	stubInputs(t, []string{"ann@example.com"}, []byte("secret1"))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "ann@example.com (online)", a.status())

	require.NoError(t, a.Logout(ctx))
	assert.True(t, f.logoutCalled)
	assert.False(t, a.isLoggedIn())
}

func TestLogin_Failure(t *testing.T) {
	f := &fakeAuth{loginErr: errors.Join(client.ErrUnauthorized, &client.APIError{Message: "Invalid credentials"})}
	a := newTestApp(f)
	stubInputs(t, []string{"ann@example.com"}, []byte("bad"))

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", describe(err))
	assert.False(t, a.isLoggedIn())
}

func TestWhoAmI_UnauthorizedDropsSession(t *testing.T) {
	f := &fakeAuth{meErr: client.ErrUnauthorized}
	a := newTestApp(f)
	a.setEmail("ann@example.com")
	stubInputs(t, nil, nil)

	require.Error(t, a.WhoAmI(context.Background()))
	assert.False(t, a.isLoggedIn())
}

func TestWhoAmI_Unavailable(t *testing.T) {
	f := &fakeAuth{meErr: client.ErrUnavailable}
	a := newTestApp(f)
	a.setEmail("ann@example.com")
	stubInputs(t, nil, nil)

	err := a.WhoAmI(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.True(t, a.isLoggedIn())
}

func TestForgotAndReset(t *testing.T) {
	f := &fakeAuth{}
	a := newTestApp(f)
	stubInputs(t, []string{"ann@example.com"}, []byte("newpass1"))
	ctx := context.Background()

	require.NoError(t, a.Forgot(ctx))
	assert.Equal(t, "ann@example.com", f.forgotEmail)

	require.NoError(t, a.Reset(ctx, []string{"tok"}))
	assert.Equal(t, "tok", f.resetToken)
	assert.Equal(t, []byte("newpass1"), f.resetPass)

	assert.ErrorIs(t, a.Reset(ctx, nil), errUsage)
}

func TestResend(t *testing.T) {
	f := &fakeAuth{}
	stubInputs(t, []string{"ann@example.com"}, nil)
	require.NoError(t, newTestApp(f).Resend(context.Background()))
	assert.Equal(t, "ann@example.com", f.resendEmail)
}
