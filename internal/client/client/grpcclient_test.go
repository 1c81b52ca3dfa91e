package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/kvauth/internal/api"
	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakeAPI struct {
	lastRegisterReq *api.RegisterRequest
	lastLoginReq    *api.LoginRequest
	lastValidateReq *api.ValidateRequest

	authResp *api.AuthResponse
	authErr  error

	validateResp *api.ValidateResponse
	validateErr  error

	whoamiResp *api.WhoamiResponse
	whoamiErr  error

	pingResp *api.PingResponse
	pingErr  error
}

func (f *fakeAPI) Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.AuthResponse, error) {
	f.lastRegisterReq = in
	return f.authResp, f.authErr
}

func (f *fakeAPI) Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.AuthResponse, error) {
	f.lastLoginReq = in
	return f.authResp, f.authErr
}

func (f *fakeAPI) Validate(ctx context.Context, in *api.ValidateRequest, opts ...grpc.CallOption) (*api.ValidateResponse, error) {
	f.lastValidateReq = in
	return f.validateResp, f.validateErr
}

func (f *fakeAPI) Whoami(ctx context.Context, in *api.WhoamiRequest, opts ...grpc.CallOption) (*api.WhoamiResponse, error) {
	return f.whoamiResp, f.whoamiErr
}

func (f *fakeAPI) Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error) {
	return f.pingResp, f.pingErr
}

func newWithFake(f *fakeAPI) *GRPCClient {
	return &GRPCClient{client: f}
}

func TestRegister_StoresToken(t *testing.T) {
	f := &fakeAPI{authResp: &api.AuthResponse{Username: "alice", Token: "tok"}}
	c := newWithFake(f)

	tok, err := c.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	assert.Equal(t, "tok", c.token())
	assert.Equal(t, &api.RegisterRequest{Username: "alice", Password: "pw"}, f.lastRegisterReq)
}

func TestLogin_MapsErrors(t *testing.T) {
	f := &fakeAPI{authErr: status.Error(codes.Unauthenticated, "unauthorized")}
	c := newWithFake(f)

	_, err := c.Login(context.Background(), "alice", "bad")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "", c.token())
	assert.Equal(t, "alice", f.lastLoginReq.Username)
}

func TestValidate(t *testing.T) {
	f := &fakeAPI{validateResp: &api.ValidateResponse{Valid: true}}
	c := newWithFake(f)

	require.NoError(t, c.Validate(context.Background(), "tok"))
	assert.Equal(t, "tok", f.lastValidateReq.Token)

	f.validateResp = &api.ValidateResponse{Valid: false}
	require.ErrorIs(t, c.Validate(context.Background(), "tok"), ErrUnauthorized)

	f.validateErr = status.Error(codes.Unauthenticated, "token expired")
	err := c.Validate(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "token expired")
}

func TestWhoami(t *testing.T) {
	f := &fakeAPI{whoamiResp: &api.WhoamiResponse{Username: "alice"}}
	c := newWithFake(f)

	who, err := c.Whoami(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", who)
}

func TestPing(t *testing.T) {
	f := &fakeAPI{pingResp: &api.PingResponse{Status: "OK"}}
	c := newWithFake(f)
	require.NoError(t, c.Ping(context.Background()))

	f.pingResp = &api.PingResponse{Status: "DOWN"}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	f.pingErr = status.Error(codes.Unavailable, "conn refused")
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	assert.NoError(t, c.mapError(nil))
	assert.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "x")), ErrUnauthorized)
	assert.ErrorIs(t, c.mapError(status.Error(codes.DeadlineExceeded, "x")), ErrUnavailable)
	assert.ErrorIs(t, c.mapError(status.Error(codes.AlreadyExists, "x")), common.ErrAlreadyExists)
	assert.ErrorIs(t, c.mapError(status.Error(codes.InvalidArgument, "x")), common.ErrInvalidRequest)

	internal := status.Error(codes.Internal, "boom")
	got := c.mapError(internal)
	assert.ErrorIs(t, got, internal)
	assert.Contains(t, got.Error(), "rpc error")

	plain := errors.New("plain")
	assert.ErrorIs(t, c.mapError(plain), plain)
}

func TestAccessTokenInterceptor(t *testing.T) {
	c := &GRPCClient{}

	var seen metadata.MD
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		seen, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), api.MethodPing, nil, nil, nil, invoker))
	assert.Empty(t, seen.Get(common.AccessTokenHeaderName))

	c.SetToken("tok")
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-other", "1")
	require.NoError(t, c.accessTokenInterceptor(ctx, api.MethodWhoami, nil, nil, nil, invoker))
	assert.Equal(t, []string{"tok"}, seen.Get(common.AccessTokenHeaderName))
	assert.Equal(t, []string{"1"}, seen.Get("x-other"))
}

func TestNewGRPCClient_Close(t *testing.T) {
	c, err := NewGRPCClient("passthrough:///127.0.0.1:1")
	require.NoError(t, err)
	require.NotNil(t, c.conn)
	require.NoError(t, c.Close())

	assert.NoError(t, (&GRPCClient{}).Close())
}
