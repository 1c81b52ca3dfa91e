package grpc

import (
	"context"
	"path"
	"time"

	"github.com/dmitrijs2005/kvauth/internal/api"
	"github.com/dmitrijs2005/kvauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const usernameKey ctxKey = "username"

// UsernameFromContext returns the token subject stored by the access-token
// interceptor.
func UsernameFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(usernameKey).(string)
	return u, ok
}

// protected lists the methods that require an access token.
var protected = map[string]bool{
	api.MethodWhoami: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if protected[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		username, err := s.users.Whoami(ctx, accessToken)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, common.TokenErrorMessage(err))
		}

		ctx = context.WithValue(ctx, usernameKey, username)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)
	code := status.Code(err).String()

	s.logger.Info(ctx, "rpc",
		"method", info.FullMethod,
		"code", code,
		"duration", elapsed,
	)
	s.metrics.Observe("grpc", path.Base(info.FullMethod), code, elapsed.Seconds())

	return resp, err
}
