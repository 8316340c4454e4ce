// Package cli implements the interactive blog client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
)

// BlogAPI is the remote surface the CLI drives. *client.GRPCClient
// satisfies it.
type BlogAPI interface {
	Register(ctx context.Context, email, username, password string) (int64, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	IsLoggedIn() bool
	ListPosts(ctx context.Context) ([]*client.Post, error)
	GetPost(ctx context.Context, id int64) (*client.Post, error)
	CreatePost(ctx context.Context, title, content string) (*client.Post, error)
	UpdatePost(ctx context.Context, id int64, title, content string) (*client.Post, error)
	DeletePost(ctx context.Context, id int64) error
	Close() error
}

type App struct {
	config   *config.Config
	api      BlogAPI
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, api BlogAPI, r *bufio.Reader, w io.Writer) *App {
	return &App{config: c, api: api, reader: r, out: w}
}

func (a *App) isLoggedIn() bool {
	return a.api.IsLoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// withTimeout bounds a single RPC by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// Run starts the REPL on stdin and closes the connection when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()

	printlnFn("Welcome to the blog CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
