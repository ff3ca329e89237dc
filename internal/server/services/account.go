// Package services contains server-side business logic. AccountService
// owns the account lifecycle: registration, email verification, login and
// password reset.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/mailer"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/tokens"
)

const (
	SubjectVerification  = "Confirm your email"
	SubjectPasswordReset = "Reset your password"
)

// RegisterInput is a registration request. Name and Role are optional.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// RegisterResult reports the new account. VerificationSent is false when
// the account was created but the email could not be delivered; the
// caller can then offer ResendVerification.
type RegisterResult struct {
	User             models.UserSummary
	VerificationSent bool
}

// LoginResult carries the signed session credential.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.UserSummary
}

// AccountService is safe for concurrent use. It holds no locks itself;
// uniqueness and single-use redemption are enforced by the store.
type AccountService struct {
	repomanager repomanager.RepositoryManager
	notifier    mailer.Notifier
	hasher      password.Hasher
	tokens      tokens.Generator
	limiter     ratelimit.Limiter
	logger      logging.Logger
	now         func() time.Time

	appURL               *url.URL
	jwtSecret            []byte
	sessionTTL           time.Duration
	verificationTTL      time.Duration
	resetTTL             time.Duration
	verifyBeforePassword bool
	allowAdminSignup     bool

	// dummyHash is compared against on unknown emails so login timing
	// does not reveal which addresses are registered.
	dummyHash string
}

// Option customizes an AccountService.
type Option func(*AccountService)

func WithHasher(h password.Hasher) Option          { return func(s *AccountService) { s.hasher = h } }
func WithTokenGenerator(g tokens.Generator) Option { return func(s *AccountService) { s.tokens = g } }
func WithLimiter(l ratelimit.Limiter) Option       { return func(s *AccountService) { s.limiter = l } }
func WithLogger(l logging.Logger) Option           { return func(s *AccountService) { s.logger = l } }
func WithClock(now func() time.Time) Option        { return func(s *AccountService) { s.now = now } }

// NewAccountService builds the service from cfg. Unless overridden by
// options it hashes with cfg.PasswordAlgorithm, generates 32-byte hex
// tokens, does not rate limit and does not log.
func NewAccountService(m repomanager.RepositoryManager, n mailer.Notifier, cfg *config.Config, opts ...Option) (*AccountService, error) {
	appURL, err := url.Parse(cfg.AppURL)
	if err != nil {
		return nil, fmt.Errorf("app url: %w", err)
	}

	s := &AccountService{
		repomanager:          m,
		notifier:             n,
		tokens:               tokens.NewHexGenerator(),
		limiter:              ratelimit.Noop{},
		logger:               logging.Nop{},
		now:                  time.Now,
		appURL:               appURL,
		jwtSecret:            []byte(cfg.SecretKey),
		sessionTTL:           cfg.SessionValidityDuration,
		verificationTTL:      cfg.VerificationTokenValidityDuration,
		resetTTL:             cfg.ResetTokenValidityDuration,
		verifyBeforePassword: cfg.VerifyBeforePassword,
		allowAdminSignup:     cfg.AllowAdminSignup,
	}
	for _, o := range opts {
		o(s)
	}

	if s.hasher == nil {
		if s.hasher, err = password.New(cfg.PasswordAlgorithm, cfg.BcryptCost); err != nil {
			return nil, err
		}
	}
	if s.dummyHash, err = s.hasher.Hash(uuid.NewString()); err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	s.logger = s.logger.With("module", "accounts")
	return s, nil
}

// Register creates an unverified account and emails a verification link.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if err := check(MsgMissingFields, validation.Errors{
		"email":    validation.Validate(in.Email, emailRules...),
		"password": validation.Validate(in.Password, validation.Required, validation.Length(0, password.MaxLength)),
		"name":     validation.Validate(in.Name, validation.Length(0, 200)),
		"role":     validation.Validate(in.Role, roleRule),
	}); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, "register", in.Email); err != nil {
		return nil, err
	}

	_, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, newError(KindConflict, MsgUserExists, common.ErrorAlreadyExists)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internalError(err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	switch {
	case role == "":
		role = models.RoleUser
	case role == models.RoleAdmin && !s.allowAdminSignup:
		s.logger.Warn(ctx, "admin role requested on signup, downgraded", "email", in.Email)
		role = models.RoleUser
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}

	var (
		token     *models.VerificationToken
		createErr error
	)
	err = s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if user, createErr = s.repomanager.Users(tx).Create(ctx, user); createErr != nil {
			return createErr
		}
		var err error
		token, err = s.issueToken(ctx, tx, user.Email, models.PurposeEmailVerification, s.verificationTTL)
		return err
	})
	if err != nil {
		// Only a duplicate email is a conflict; a token collision is ours.
		if errors.Is(createErr, common.ErrorAlreadyExists) {
			return nil, newError(KindConflict, MsgUserExists, err)
		}
		return nil, internalError(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email, "role", user.Role)

	sent := true
	if err := s.sendVerification(ctx, user, token); err != nil {
		sent = false
		s.logger.Warn(ctx, "verification email not sent", "email", user.Email, "error", err)
	}

	return &RegisterResult{User: user.Summary(), VerificationSent: sent}, nil
}

// Verify redeems an email verification token. Exactly one of several
// concurrent calls with the same token succeeds.
func (s *AccountService) Verify(ctx context.Context, token, email string) error {
	if err := check(MsgInvalidLink, validation.Errors{
		"token": validation.Validate(token, validation.Required),
		"email": validation.Validate(email, validation.Required),
	}); err != nil {
		return err
	}

	if _, err := s.precheck(ctx, token, models.PurposeEmailVerification, email, MsgTokenNotFound); err != nil {
		return err
	}

	var expired bool
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := s.repomanager.VerificationTokens(tx).Consume(ctx, token, models.PurposeEmailVerification)
		if err != nil {
			return err
		}
		now := s.now()
		if rec.Expired(now) {
			// commit the delete, report below
			expired = true
			return nil
		}
		return s.repomanager.Users(tx).MarkVerified(ctx, rec.Identifier, now)
	})

	switch {
	case errors.Is(err, common.ErrorNotFound):
		return newError(KindNotFound, MsgTokenNotFound, err)
	case err != nil:
		return internalError(err)
	case expired:
		return newError(KindInvalid, MsgTokenInvalid, common.ErrorInvalidToken)
	}

	s.logger.Info(ctx, "email verified", "email", email)
	return nil
}

// Login checks credentials and issues a session credential. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	if err := check(MsgCredentialsRequired, validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(pass, validation.Required),
	}); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, "login", email); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(pass, s.dummyHash)
			return nil, newError(KindUnauthorized, MsgInvalidCredentials, common.ErrorUnauthorized)
		}
		return nil, internalError(err)
	}

	if s.verifyBeforePassword && !user.Verified() {
		return nil, newError(KindForbidden, MsgVerifyFirst, common.ErrorForbidden)
	}

	ok, err := s.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok {
		s.logger.Info(ctx, "login failed", "user_id", user.ID)
		return nil, newError(KindUnauthorized, MsgInvalidCredentials, common.ErrorUnauthorized)
	}

	if !user.Verified() {
		return nil, newError(KindForbidden, MsgVerifyFirst, common.ErrorForbidden)
	}

	tok, exp, err := auth.GenerateToken(user, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, internalError(err)
	}

	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)
	return &LoginResult{Token: tok, ExpiresAt: exp, User: user.Summary()}, nil
}

// ResendVerification issues a fresh verification token for an existing,
// unverified account. Unknown and already verified emails succeed without
// sending anything.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	if err := check(MsgMissingFields, validation.Errors{
		"email": validation.Validate(email, emailRules...),
	}); err != nil {
		return err
	}
	if err := s.allow(ctx, "resend", email); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return internalError(err)
	}
	if user.Verified() {
		return nil
	}

	token, err := s.issueToken(ctx, s.repomanager.DB(), user.Email, models.PurposeEmailVerification, s.verificationTTL)
	if err != nil {
		return internalError(err)
	}

	if err := s.sendVerification(ctx, user, token); err != nil {
		s.logger.Warn(ctx, "verification email not sent", "email", user.Email, "error", err)
		return newError(KindDependency, MsgNotificationFailed, err)
	}
	return nil
}

// RequestPasswordReset emails a reset link to an existing account. Unknown
// emails succeed silently.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := check(MsgMissingFields, validation.Errors{
		"email": validation.Validate(email, emailRules...),
	}); err != nil {
		return err
	}
	if err := s.allow(ctx, "forgot", email); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return internalError(err)
	}

	token, err := s.issueToken(ctx, s.repomanager.DB(), user.Email, models.PurposePasswordReset, s.resetTTL)
	if err != nil {
		return internalError(err)
	}

	link := s.link("reset-password", url.Values{"token": {token.Token}})
	err = s.notifier.Send(ctx, user.Email, SubjectPasswordReset, mailer.TemplatePasswordReset, mailer.TemplateData{
		Name:      user.Name,
		Link:      link,
		ExpiresIn: mailer.HumanDuration(s.resetTTL),
	})
	if err != nil {
		s.logger.Warn(ctx, "password reset email not sent", "email", user.Email, "error", err)
		return newError(KindDependency, MsgNotificationFailed, err)
	}

	s.logger.Info(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword redeems a password reset token and stores a new hash.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := check(MsgMissingFields, validation.Errors{
		"token":    validation.Validate(token, validation.Required),
		"password": validation.Validate(newPassword, validation.Required, validation.Length(MinPasswordLength, password.MaxLength)),
	}); err != nil {
		return err
	}

	if _, err := s.precheck(ctx, token, models.PurposePasswordReset, "", MsgResetTokenNotFound); err != nil {
		return err
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	var (
		expired bool
		userID  string
	)
	err = s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := s.repomanager.VerificationTokens(tx).Consume(ctx, token, models.PurposePasswordReset)
		if err != nil {
			return err
		}
		if rec.Expired(s.now()) {
			expired = true
			return nil
		}
		user, err := s.repomanager.Users(tx).GetByEmail(ctx, rec.Identifier)
		if err != nil {
			return err
		}
		userID = user.ID
		return s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, hash)
	})

	switch {
	case errors.Is(err, common.ErrorNotFound):
		return newError(KindNotFound, MsgResetTokenNotFound, err)
	case err != nil:
		return internalError(err)
	case expired:
		return newError(KindInvalid, MsgTokenInvalid, common.ErrorInvalidToken)
	}

	s.logger.Info(ctx, "password reset", "user_id", userID)
	return nil
}

// GetUser returns the public view of the account with this id.
func (s *AccountService) GetUser(ctx context.Context, id string) (*models.UserSummary, error) {
	return s.summary(s.repomanager.Users(s.repomanager.DB()).GetByID(ctx, id))
}

// GetUserByEmail returns the public view of the account with this email.
func (s *AccountService) GetUserByEmail(ctx context.Context, email string) (*models.UserSummary, error) {
	return s.summary(s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email))
}

// Authenticate validates a session credential.
func (s *AccountService) Authenticate(tokenString string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, newError(KindUnauthorized, "Invalid or expired session.", err)
	}
	return claims, nil
}

// VerifiedLandingURL is where a browser lands after a successful verification.
func (s *AccountService) VerifiedLandingURL() string {
	return s.link("login", url.Values{"verified": {"true"}})
}

// precheck looks the token up outside any transaction and rejects it
// early: unknown or wrong purpose is NotFound, a different identifier is
// Invalid, and an expired token is deleted and Invalid. An empty
// identifier skips the identifier check.
func (s *AccountService) precheck(ctx context.Context, token string, purpose models.TokenPurpose, identifier, notFoundMsg string) (*models.VerificationToken, error) {
	repo := s.repomanager.VerificationTokens(s.repomanager.DB())

	rec, err := repo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, newError(KindNotFound, notFoundMsg, err)
		}
		return nil, internalError(err)
	}
	if rec.Purpose != purpose {
		return nil, newError(KindNotFound, notFoundMsg, common.ErrorNotFound)
	}
	if identifier != "" && rec.Identifier != identifier {
		return nil, newError(KindInvalid, MsgTokenInvalid, common.ErrorInvalidToken)
	}
	if rec.Expired(s.now()) {
		if err := repo.Delete(ctx, token); err != nil {
			s.logger.Warn(ctx, "expired token not deleted", "error", err)
		}
		return nil, newError(KindInvalid, MsgTokenInvalid, common.ErrorInvalidToken)
	}
	return rec, nil
}

// hashPassword maps password.ErrTooLong to a validation error.
func (s *AccountService) hashPassword(plain string) (string, error) {
	hash, err := s.hasher.Hash(plain)
	switch {
	case errors.Is(err, password.ErrTooLong):
		return "", validationError(MsgMissingFields, map[string]string{
			"password": fmt.Sprintf("the length must be no more than %d", password.MaxLength),
		})
	case err != nil:
		return "", internalError(err)
	}
	return hash, nil
}

func (s *AccountService) issueToken(ctx context.Context, db dbx.DBTX, email string, purpose models.TokenPurpose, ttl time.Duration) (*models.VerificationToken, error) {
	value, err := s.tokens.Generate()
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &models.VerificationToken{
		Token:      value,
		Identifier: email,
		Purpose:    purpose,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	if err := s.repomanager.VerificationTokens(db).Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *AccountService) sendVerification(ctx context.Context, user *models.User, token *models.VerificationToken) error {
	link := s.link("api/auth/verify", url.Values{"token": {token.Token}, "email": {user.Email}})
	return s.notifier.Send(ctx, user.Email, SubjectVerification, mailer.TemplateVerification, mailer.TemplateData{
		Name:      user.Name,
		Link:      link,
		ExpiresIn: mailer.HumanDuration(s.verificationTTL),
	})
}

func (s *AccountService) link(path string, q url.Values) string {
	u := s.appURL.JoinPath(path)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *AccountService) allow(ctx context.Context, action, email string) error {
	ok, err := s.limiter.Allow(ctx, action+":"+email)
	if err != nil {
		// fail open
		s.logger.Warn(ctx, "rate limiter unavailable", "error", err)
		return nil
	}
	if !ok {
		return newError(KindRateLimited, MsgTooManyRequests, common.ErrorRateLimited)
	}
	return nil
}

func (s *AccountService) summary(u *models.User, err error) (*models.UserSummary, error) {
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, newError(KindNotFound, MsgUserNotFound, err)
		}
		return nil, internalError(err)
	}
	sum := u.Summary()
	return &sum, nil
}
