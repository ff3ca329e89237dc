package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "gophauth.AccountService"

// Full method names, as seen by interceptors.
const (
	MethodRegister             = "/" + ServiceName + "/Register"
	MethodVerify               = "/" + ServiceName + "/Verify"
	MethodResendVerification   = "/" + ServiceName + "/ResendVerification"
	MethodLogin                = "/" + ServiceName + "/Login"
	MethodRequestPasswordReset = "/" + ServiceName + "/RequestPasswordReset"
	MethodResetPassword        = "/" + ServiceName + "/ResetPassword"
	MethodMe                   = "/" + ServiceName + "/Me"
	MethodPing                 = "/" + ServiceName + "/Ping"
)

// AccountServiceServer is implemented by the gRPC server.
type AccountServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Verify(context.Context, *VerifyRequest) (*StatusResponse, error)
	ResendVerification(context.Context, *EmailRequest) (*StatusResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RequestPasswordReset(context.Context, *EmailRequest) (*StatusResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*StatusResponse, error)
	Me(context.Context, *Empty) (*UserResponse, error)
	Ping(context.Context, *Empty) (*StatusResponse, error)
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

// unary builds a MethodDesc handler that decodes Req and dispatches to call.
func unary[Req any, Resp any](fullMethod string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, AccountServiceServer.Register)},
		{MethodName: "Verify", Handler: unary(MethodVerify, AccountServiceServer.Verify)},
		{MethodName: "ResendVerification", Handler: unary(MethodResendVerification, AccountServiceServer.ResendVerification)},
		{MethodName: "Login", Handler: unary(MethodLogin, AccountServiceServer.Login)},
		{MethodName: "RequestPasswordReset", Handler: unary(MethodRequestPasswordReset, AccountServiceServer.RequestPasswordReset)},
		{MethodName: "ResetPassword", Handler: unary(MethodResetPassword, AccountServiceServer.ResetPassword)},
		{MethodName: "Me", Handler: unary(MethodMe, AccountServiceServer.Me)},
		{MethodName: "Ping", Handler: unary(MethodPing, AccountServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophauth/account.json",
}

// AccountServiceClient is the client stub. Calls always use the JSON codec.
type AccountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) *AccountServiceClient {
	return &AccountServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *AccountServiceClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AccountServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c, MethodRegister, in, opts)
}

func (c *AccountServiceClient) Verify(ctx context.Context, in *VerifyRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, MethodVerify, in, opts)
}

func (c *AccountServiceClient) ResendVerification(ctx context.Context, in *EmailRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, MethodResendVerification, in, opts)
}

func (c *AccountServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, MethodLogin, in, opts)
}

func (c *AccountServiceClient) RequestPasswordReset(ctx context.Context, in *EmailRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, MethodRequestPasswordReset, in, opts)
}

func (c *AccountServiceClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, MethodResetPassword, in, opts)
}

func (c *AccountServiceClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c, MethodMe, in, opts)
}

func (c *AccountServiceClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, MethodPing, in, opts)
}
