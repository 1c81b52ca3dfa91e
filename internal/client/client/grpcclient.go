package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/kvauth/internal/api"
	"github.com/dmitrijs2005/kvauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authAPI is the subset of *api.AuthServiceClient used here.
type authAPI interface {
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.AuthResponse, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.AuthResponse, error)
	Validate(ctx context.Context, in *api.ValidateRequest, opts ...grpc.CallOption) (*api.ValidateResponse, error)
	Whoami(ctx context.Context, in *api.WhoamiRequest, opts ...grpc.CallOption) (*api.WhoamiResponse, error)
	Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      authAPI

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current token, if any, to every call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a client for endpointURL. Dialing is lazy.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.ContentSubtype)),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// SetToken replaces the token attached to subsequent calls.
func (s *GRPCClient) SetToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// Register creates an account and returns its first token.
func (s *GRPCClient) Register(ctx context.Context, username, password string) (string, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	s.SetToken(resp.Token)
	return resp.Token, nil
}

// Login exchanges a password for a fresh token.
func (s *GRPCClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	s.SetToken(resp.Token)
	return resp.Token, nil
}

// Validate asks the server whether token is valid.
func (s *GRPCClient) Validate(ctx context.Context, token string) error {
	resp, err := s.client.Validate(ctx, &api.ValidateRequest{Token: token})
	if err != nil {
		return s.mapError(err)
	}
	if !resp.Valid {
		return ErrUnauthorized
	}
	return nil
}

// Whoami returns the username bound to the current token.
func (s *GRPCClient) Whoami(ctx context.Context) (string, error) {
	resp, err := s.client.Whoami(ctx, &api.WhoamiRequest{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Username, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidRequest, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
