package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/kvauth/internal/api"
	"github.com/dmitrijs2005/kvauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {
	if req.Username == "" {
		return nil, status.Error(codes.InvalidArgument, "username is required")
	}

	view, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.AuthResponse{Username: view.Username, Token: view.Token}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	if req.Username == "" {
		return nil, status.Error(codes.InvalidArgument, "username is required")
	}

	view, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.AuthResponse{Username: view.Username, Token: view.Token}, nil
}

func (s *GRPCServer) Validate(ctx context.Context, req *api.ValidateRequest) (*api.ValidateResponse, error) {
	ok, err := s.users.Validate(ctx, req.Token)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ValidateResponse{Valid: ok}, nil
}

// Whoami returns the username the interceptor extracted from the token.
func (s *GRPCServer) Whoami(ctx context.Context, _ *api.WhoamiRequest) (*api.WhoamiResponse, error) {
	username, ok := UsernameFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return &api.WhoamiResponse{Username: username}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

// toStatus maps service errors to gRPC status codes. Internal details
// never reach the caller.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidUsername), errors.Is(err, common.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "user already exists")
	case errors.Is(err, common.ErrBadPassword),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrTokenValidation):
		return status.Error(codes.Unauthenticated, common.TokenErrorMessage(err))
	}
	return status.Error(codes.Internal, "internal error")
}
