package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword point to the interactive input helpers and
// are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var errUsage = errors.New("usage")

// Register prompts for name, email and password and creates an account.
// The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, sent, err := a.authService.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	if sent {
		printlnFn(fmt.Sprintf("Account created for %s. Check your inbox for the verification link.", u.Email))
	} else {
		printlnFn(fmt.Sprintf("Account created for %s, but the verification email could not be sent. Use 'resend' to try again.", u.Email))
	}
	return nil
}

// Verify confirms an email address with the token from the verification
// link: verify <token> [email].
func (a *App) Verify(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: verify <token> [email]", errUsage)
	}
	token := args[0]

	var email string
	if len(args) > 1 {
		email = args[1]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.Verify(ctx, token, email); err != nil {
		return err
	}
	printlnFn("Email verified. You can log in now.")
	return nil
}

// Resend asks the server to issue a fresh verification link.
func (a *App) Resend(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.ResendVerification(ctx, email); err != nil {
		return err
	}
	printlnFn("If the account is awaiting verification, a new link is on its way.")
	return nil
}

// Login prompts for credentials, authenticates and keeps the session for
// later runs.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sess, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.setEmail(sess.User.Email)
	a.setMode(ModeOnline)
	printlnFn(fmt.Sprintf("Logged in as %s until %s", sess.User.Email, sess.ExpiresAt.Local().Format("2006-01-02 15:04")))
	return nil
}

// WhoAmI prints the signed-in account as the server sees it.
func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.authService.WhoAmI(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNotLoggedIn) {
			a.setEmail("")
		}
		return err
	}

	verified := "not verified"
	if u.EmailVerified {
		verified = "verified"
	}
	printlnFn(fmt.Sprintf("%s <%s> role=%s (%s)", u.Name, u.Email, u.Role, verified))
	return nil
}

// Forgot requests a password reset link.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.RequestPasswordReset(ctx, email); err != nil {
		return err
	}
	printlnFn("If an account exists for that address, a reset link is on its way.")
	return nil
}

// Reset sets a new password with the token from the reset link:
// reset <token>.
func (a *App) Reset(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: reset <token>", errUsage)
	}

	password, err := getPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.ResetPassword(ctx, args[0], password); err != nil {
		return err
	}
	printlnFn("Password updated. Log in with the new password.")
	return nil
}

// Logout forgets the saved session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setEmail("")
	printlnFn("Logged out.")
	return nil
}
