package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/rpc"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

var codeByKind = map[services.Kind]codes.Code{
	services.KindValidation:   codes.InvalidArgument,
	services.KindConflict:     codes.AlreadyExists,
	services.KindUnauthorized: codes.Unauthenticated,
	services.KindForbidden:    codes.PermissionDenied,
	services.KindNotFound:     codes.NotFound,
	services.KindInvalid:      codes.FailedPrecondition,
	services.KindRateLimited:  codes.ResourceExhausted,
	services.KindDependency:   codes.Unavailable,
	services.KindInternal:     codes.Internal,
}

// CodeFor maps a service error kind to a gRPC status code.
func CodeFor(kind services.Kind) codes.Code {
	if c, ok := codeByKind[kind]; ok {
		return c
	}
	return codes.Internal
}

func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	var se *services.Error
	if !errors.As(err, &se) || se.Kind == services.KindInternal {
		s.logger.Error(ctx, op+" failed", "error", err)
		return status.Error(codes.Internal, services.MsgInternal)
	}
	return status.Error(CodeFor(se.Kind), se.Message)
}

func userToRPC(u models.UserSummary) rpc.User {
	return rpc.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
	}
}

func statusOK() *rpc.StatusResponse {
	return &rpc.StatusResponse{Status: "OK"}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	res, err := s.accounts.Register(ctx, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	return &rpc.RegisterResponse{User: userToRPC(res.User), VerificationSent: res.VerificationSent}, nil
}

func (s *GRPCServer) Verify(ctx context.Context, req *rpc.VerifyRequest) (*rpc.StatusResponse, error) {
	if err := s.accounts.Verify(ctx, req.Token, req.Email); err != nil {
		return nil, s.toStatus(ctx, "verify", err)
	}
	return statusOK(), nil
}

func (s *GRPCServer) ResendVerification(ctx context.Context, req *rpc.EmailRequest) (*rpc.StatusResponse, error) {
	if err := s.accounts.ResendVerification(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, "resend verification", err)
	}
	return statusOK(), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {

	res, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}

	return &rpc.LoginResponse{AccessToken: res.Token, ExpiresAt: res.ExpiresAt, User: userToRPC(res.User)}, nil
}

func (s *GRPCServer) RequestPasswordReset(ctx context.Context, req *rpc.EmailRequest) (*rpc.StatusResponse, error) {
	if err := s.accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, "forgot password", err)
	}
	return statusOK(), nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.StatusResponse, error) {
	if err := s.accounts.ResetPassword(ctx, req.Token, req.Password); err != nil {
		return nil, s.toStatus(ctx, "reset password", err)
	}
	return statusOK(), nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *rpc.Empty) (*rpc.UserResponse, error) {
	claims, found := claimsFromContext(ctx)
	if !found {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	u, err := s.accounts.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, "me", err)
	}
	return &rpc.UserResponse{User: userToRPC(*u)}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.Empty) (*rpc.StatusResponse, error) {
	return statusOK(), nil
}
