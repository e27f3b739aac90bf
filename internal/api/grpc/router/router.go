package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/authcore/internal/api/grpc/handler"
	"github.com/dtroode/authcore/internal/api/grpc/middleware"
	"github.com/dtroode/authcore/internal/guard"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
)

// Services groups the service layer the router exposes.
type Services struct {
	Auth          handler.AuthService
	Authenticator middleware.Authenticator
	Email         handler.EmailService
	Password      handler.PasswordService
	User          handler.UserService
}

// Router represents a gRPC router for authcore operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	services       Services
	ssoSecret      string
	policy         guard.Policy
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - services: The service layer behind the handlers
//   - ssoSecret: The shared secret SSO callers present; empty disables SSO
//   - contextManager: Carries verified claims from authentication to handlers
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	services Services,
	ssoSecret string,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		ssoSecret:      ssoSecret,
		policy:         Policy(),
		contextManager: contextManager,
		logger:         logger,
	}
}

func (r *Router) authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return !r.policy.IsPublic(c.FullMethod())
}

// Register registers all gRPC services and middleware.
// It sets up the gRPC server with tracing, request logging, panic recovery,
// authentication and authorization interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)
	authenticate := middleware.NewAuthenticate(r.services.Authenticator, r.contextManager, r.logger)
	authorize := middleware.NewAuthorize(r.policy, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.HandleGRPC(),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(r.authRequired),
			),
			authorize.HandleGRPC,
		),
	)
	r.registerAuthRoutes(s)
	r.registerAccountRoutes(s)
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.services.Auth, r.services.Email, r.services.Password, r.ssoSecret, r.logger)
	server.RegisterService(&handler.AuthServiceDesc, authHandler)
}

func (r *Router) registerAccountRoutes(server *grpc.Server) {
	accountHandler := handler.NewAccount(r.services.User, r.services.Email, r.services.Password, r.contextManager, r.logger)
	server.RegisterService(&handler.AccountServiceDesc, accountHandler)
}
