package router

import (
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/authcore/internal/api/grpc/handler"
	"github.com/dtroode/authcore/internal/guard"
	"github.com/dtroode/authcore/internal/permission"
)

func requires(resource string, privilege permission.Privilege) guard.Operation {
	return guard.Operation{Required: []permission.Permission{{Resource: resource, Privilege: privilege}}}
}

// Policy declares every routed method. Logout and Refresh are public because
// they accept expired access tokens and verify them in the service.
func Policy() guard.Policy {
	public := guard.Operation{Public: true}

	return guard.Policy{
		handler.MethodSignup:         public,
		handler.MethodLogin:          public,
		handler.MethodLogout:         public,
		handler.MethodRefresh:        public,
		handler.MethodSSO:            public,
		handler.MethodVerifyEmail:    public,
		handler.MethodForgotPassword: public,
		handler.MethodResetPassword:  public,

		handler.MethodGetUser:            requires(permission.ResourceUser, permission.Read),
		handler.MethodUpdateUser:         requires(permission.ResourceUser, permission.Write),
		handler.MethodUpdatePassword:     requires(permission.ResourceUser, permission.Write),
		handler.MethodCreateEmail:        requires(permission.ResourceEmail, permission.Write),
		handler.MethodListEmails:         requires(permission.ResourceEmail, permission.Read),
		handler.MethodDeleteEmail:        requires(permission.ResourceEmail, permission.Delete),
		handler.MethodResendVerification: requires(permission.ResourceEmail, permission.Write),

		grpc_health_v1.Health_Check_FullMethodName: public,
	}
}
