package client

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *rpc.AccountServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()

	if token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a client for endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewAccountServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) Register(ctx context.Context, name, email string, password []byte) (*User, bool, error) {
	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Name: name, Email: email, Password: string(password)})
	if err != nil {
		return nil, false, s.mapError(err)
	}
	u := userFromRPC(resp.User)
	return &u, resp.VerificationSent, nil
}

func (s *GRPCClient) Verify(ctx context.Context, token, email string) error {
	_, err := s.client.Verify(ctx, &rpc.VerifyRequest{Token: token, Email: email})
	return s.mapError(err)
}

func (s *GRPCClient) ResendVerification(ctx context.Context, email string) error {
	_, err := s.client.ResendVerification(ctx, &rpc.EmailRequest{Email: email})
	return s.mapError(err)
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.SetAccessToken(resp.AccessToken)

	return &Session{AccessToken: resp.AccessToken, ExpiresAt: resp.ExpiresAt, User: userFromRPC(resp.User)}, nil
}

func (s *GRPCClient) Me(ctx context.Context) (*User, error) {
	resp, err := s.client.Me(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	u := userFromRPC(resp.User)
	return &u, nil
}

func (s *GRPCClient) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := s.client.RequestPasswordReset(ctx, &rpc.EmailRequest{Email: email})
	return s.mapError(err)
}

func (s *GRPCClient) ResetPassword(ctx context.Context, token string, password []byte) error {
	_, err := s.client.ResetPassword(ctx, &rpc.ResetPasswordRequest{Token: token, Password: string(password)})
	return s.mapError(err)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &rpc.Empty{})
	return s.mapError(err)
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// mapError turns connectivity and dependency failures into ErrUnavailable,
// rejected credentials into ErrUnauthorized and every other status into
// *APIError. The server message is kept in all three cases.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	apiErr := &APIError{Code: st.Code(), Message: st.Message()}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return errors.Join(ErrUnavailable, apiErr)
	case codes.Unauthenticated:
		return errors.Join(ErrUnauthorized, apiErr)
	default:
		return apiErr
	}
}

func userFromRPC(u rpc.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, EmailVerified: u.EmailVerified}
}
