// Package cli is the skip2love command line client. Every command restores
// the persisted session first and then talks to the marketplace core
// directly.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/listing/usecase"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/session"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

type AdService interface {
	Search(ctx context.Context, query string) ([]*domain.Ad, error)
	ListMine(ctx context.Context, owner domain.Identity) ([]*domain.Ad, error)
	GetByID(ctx context.Context, viewerID, id string) (*domain.Ad, error)
	Publish(ctx context.Context, owner domain.Identity, fields domain.AdFields, files []media.File) (*usecase.PublishResult, error)
	SetActive(ctx context.Context, owner domain.Identity, id string, active bool) error
}

type ProfileService interface {
	Complete(ctx context.Context, identity domain.Identity, fields domain.ProfileFields) (*domain.Profile, error)
}

type Gate interface {
	Ensure(ctx context.Context, identity domain.Identity) error
}

// Backend is what a command runs against. Close may be nil.
type Backend struct {
	Auth     session.AuthService
	Tokens   session.TokenStore
	Ads      AdService
	Profiles ProfileService
	Gate     Gate
	Close    func(ctx context.Context) error
}

// Opener connects a Backend. It is called once per command invocation.
type Opener func(ctx context.Context) (*Backend, error)

type Runner struct {
	open     Opener
	out      io.Writer
	log      *logger.Logger
	readFile func(string) ([]byte, error)
}

func New(open Opener, out io.Writer, log *logger.Logger) *Runner {
	return &Runner{
		open:     open,
		out:      out,
		log:      log.Named("CLI"),
		readFile: os.ReadFile,
	}
}

// env is the per-invocation state handed to command actions.
type env struct {
	*Backend
	store *session.Store
	json  bool
}

// identity returns the signed-in identity or domain.ErrUnauthenticated.
func (e *env) identity() (domain.Identity, error) {
	id, ok := e.store.Current()
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: run `skip2love login` first", domain.ErrUnauthenticated)
	}
	return id, nil
}

func (r *Runner) withSession(ctx context.Context, c *cli.Command, fn func(ctx context.Context, e *env) error) error {
	b, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if b.Close == nil {
			return
		}
		if err := b.Close(context.Background()); err != nil {
			r.log.Warn("Failed to close backend", zap.Error(err))
		}
	}()

	store := session.NewStore(b.Auth, b.Tokens, r.log)
	if err := store.Bootstrap(ctx); err != nil {
		r.log.Warn("Could not restore session", zap.Error(err))
	}
	return fn(ctx, &env{Backend: b, store: store, json: c.Bool("json")})
}

// action adapts a session-bound function to a cli.ActionFunc.
func (r *Runner) action(fn func(ctx context.Context, c *cli.Command, e *env) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		return r.withSession(ctx, c, func(ctx context.Context, e *env) error {
			return fn(ctx, c, e)
		})
	}
}

// Command builds the root command.
func (r *Runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "skip2love",
		Usage: "Skip2Love marketplace client",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Writer: r.out,
		Commands: []*cli.Command{
			r.signUpCommand(),
			r.verifyCommand(),
			r.loginCommand(),
			r.logoutCommand(),
			r.whoamiCommand(),
			r.profileCommand(),
			r.adsCommand(),
		},
	}
}

// Run executes args against the root command.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 1 {
		args = append(args, "--help")
	}
	return r.Command().Run(ctx, args)
}
