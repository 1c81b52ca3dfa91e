package client

import (
	"context"
)

type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Validate(ctx context.Context, token string) error
	Whoami(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	SetToken(token string)
}
