package cli

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/kvauth/internal/client/client"
	"github.com/dmitrijs2005/kvauth/internal/client/config"
	"github.com/spf13/cobra"
)

// App carries the state shared by all subcommands.
type App struct {
	config *config.Config
	reader *bufio.Reader

	configPath string
	addr       string
	timeout    time.Duration

	// newClient is a seam for tests.
	newClient func(addr string) (client.Client, error)
}

func newApp(in io.Reader) *App {
	return &App{
		reader: bufio.NewReader(in),
		newClient: func(addr string) (client.Client, error) {
			return client.NewGRPCClient(addr)
		},
	}
}

// NewRootCommand builds the kvauth-client command tree reading prompts
// from in.
func NewRootCommand(in io.Reader) *cobra.Command {
	return newRootCommand(newApp(in))
}

func newRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kvauth-client",
		Short:         "Client for the kvauth authentication server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.loadConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&app.configPath, "config", "c", "", "path to JSON config file")
	flags.StringVarP(&app.addr, "addr", "a", "", "address and port of the gRPC server")
	flags.DurationVar(&app.timeout, "timeout", 0, "per-request timeout")

	cmd.AddCommand(
		app.registerCommand(),
		app.loginCommand(),
		app.validateCommand(),
		app.whoamiCommand(),
		app.pingCommand(),
	)
	return cmd
}

// loadConfig applies defaults, file and environment, then the flags that
// were set explicitly.
func (a *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ServerEndpointAddr = a.addr
	}
	if cmd.Flags().Changed("timeout") {
		cfg.RequestTimeout = a.timeout
	}
	a.config = cfg
	return nil
}

// withClient dials the server, runs fn under the request timeout and
// closes the connection.
func (a *App) withClient(ctx context.Context, fn func(context.Context, client.Client) error) error {
	c, err := a.newClient(a.config.ServerEndpointAddr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	return fn(ctx, c)
}
