package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service names.
const (
	AuthServiceName    = "authcore.v1.Auth"
	AccountServiceName = "authcore.v1.Account"
)

// Full method names, as seen by interceptors.
const (
	MethodSignup         = "/" + AuthServiceName + "/Signup"
	MethodLogin          = "/" + AuthServiceName + "/Login"
	MethodLogout         = "/" + AuthServiceName + "/Logout"
	MethodRefresh        = "/" + AuthServiceName + "/Refresh"
	MethodSSO            = "/" + AuthServiceName + "/SSO"
	MethodVerifyEmail    = "/" + AuthServiceName + "/VerifyEmail"
	MethodForgotPassword = "/" + AuthServiceName + "/ForgotPassword"
	MethodResetPassword  = "/" + AuthServiceName + "/ResetPassword"

	MethodGetUser            = "/" + AccountServiceName + "/GetUser"
	MethodUpdateUser         = "/" + AccountServiceName + "/UpdateUser"
	MethodUpdatePassword     = "/" + AccountServiceName + "/UpdatePassword"
	MethodCreateEmail        = "/" + AccountServiceName + "/CreateEmail"
	MethodListEmails         = "/" + AccountServiceName + "/ListEmails"
	MethodDeleteEmail        = "/" + AccountServiceName + "/DeleteEmail"
	MethodResendVerification = "/" + AccountServiceName + "/ResendVerification"
)

// AuthServer is the server API of authcore.v1.Auth.
type AuthServer interface {
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SSO(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyEmail(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ForgotPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// AccountServer is the server API of authcore.v1.Account.
type AccountServer interface {
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateEmail(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEmails(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmail(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResendVerification(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// unary builds a method descriptor that decodes a Struct request and runs
// it through the server's interceptor chain.
func unary(service, name string, call func(srv any) structCall) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			fn := call(srv)
			if interceptor == nil {
				return fn(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(ctx, req.(*structpb.Struct))
			})
		},
	}
}

func authMethod(name string, pick func(AuthServer) structCall) grpc.MethodDesc {
	return unary(AuthServiceName, name, func(srv any) structCall { return pick(srv.(AuthServer)) })
}

func accountMethod(name string, pick func(AccountServer) structCall) grpc.MethodDesc {
	return unary(AccountServiceName, name, func(srv any) structCall { return pick(srv.(AccountServer)) })
}

// AuthServiceDesc describes authcore.v1.Auth.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		authMethod("Signup", func(s AuthServer) structCall { return s.Signup }),
		authMethod("Login", func(s AuthServer) structCall { return s.Login }),
		authMethod("Logout", func(s AuthServer) structCall { return s.Logout }),
		authMethod("Refresh", func(s AuthServer) structCall { return s.Refresh }),
		authMethod("SSO", func(s AuthServer) structCall { return s.SSO }),
		authMethod("VerifyEmail", func(s AuthServer) structCall { return s.VerifyEmail }),
		authMethod("ForgotPassword", func(s AuthServer) structCall { return s.ForgotPassword }),
		authMethod("ResetPassword", func(s AuthServer) structCall { return s.ResetPassword }),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authcore/v1/auth.proto",
}

// AccountServiceDesc describes authcore.v1.Account.
var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		accountMethod("GetUser", func(s AccountServer) structCall { return s.GetUser }),
		accountMethod("UpdateUser", func(s AccountServer) structCall { return s.UpdateUser }),
		accountMethod("UpdatePassword", func(s AccountServer) structCall { return s.UpdatePassword }),
		accountMethod("CreateEmail", func(s AccountServer) structCall { return s.CreateEmail }),
		accountMethod("ListEmails", func(s AccountServer) structCall { return s.ListEmails }),
		accountMethod("DeleteEmail", func(s AccountServer) structCall { return s.DeleteEmail }),
		accountMethod("ResendVerification", func(s AccountServer) structCall { return s.ResendVerification }),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authcore/v1/account.proto",
}
