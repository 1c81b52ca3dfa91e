package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/kvauth/internal/api"
	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/dmitrijs2005/kvauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(t *testing.T) *GRPCServer {
	return NewGRPCServer("", logging.Nop(), newUserService(t), nil)
}

func TestInterceptor_UnprotectedMethod_AllowsWithoutToken(t *testing.T) {
	s := newTestServer(t)

	info := &grpc.UnaryServerInfo{FullMethod: api.MethodPing}
	handlerCalled := false

	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_Whoami_MissingToken(t *testing.T) {
	s := newTestServer(t)

	info := &grpc.UnaryServerInfo{FullMethod: api.MethodWhoami}
	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())
}

func TestInterceptor_Whoami_InvalidToken(t *testing.T) {
	s := newTestServer(t)

	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: "not-a-valid-token",
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: api.MethodWhoami}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token invalid")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, info, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "invalid token", status.Convert(err).Message())
}

func TestInterceptor_Whoami_ValidToken_PutsUsernameInContext(t *testing.T) {
	s := newTestServer(t)

	view, err := s.users.Register(context.Background(), "bob", "pw")
	require.NoError(t, err)

	md := metadata.New(map[string]string{common.AccessTokenHeaderName: view.Token})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: api.MethodWhoami}

	var got string
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = UsernameFromContext(ctx)
		return "ok", nil
	}

	_, err = s.accessTokenInterceptor(ctx, nil, info, h)
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
}

func TestWhoami_WithoutInterceptorIsUnauthenticated(t *testing.T) {
	s := newTestServer(t)

	_, err := s.Whoami(context.Background(), &api.WhoamiRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
