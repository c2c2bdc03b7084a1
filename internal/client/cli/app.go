package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/platform"
	"github.com/dmitrijs2005/aora/internal/client/repositories"
	"github.com/dmitrijs2005/aora/internal/client/resource"
	"github.com/dmitrijs2005/aora/internal/client/services"
	"github.com/dmitrijs2005/aora/internal/client/state"
	"github.com/dmitrijs2005/aora/internal/filex"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/spf13/afero"
)

type postList = resource.Resource[[]models.Post]

type App struct {
	log     logging.Logger
	store   *state.Store
	content services.ContentRepository
	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer

	feed   *postList
	latest *postList
	mine   *postList
	search *postList
	last   *postList
}

// NewApp opens the local state database, binds the platform and builds the
// services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	fs := afero.NewOsFs()
	if _, err := filex.EnsureParentDir(fs, cfg.StateDBPath); err != nil {
		return nil, fmt.Errorf("state database: %w", err)
	}

	repos, err := repositories.InitDatabase(ctx, cfg.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("state database: %w", err)
	}

	binding := platform.NewBinding(cfg, log)
	p, err := binding.Platform()
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	sessions := services.NewSessionManager(p, repos.Metadata, cfg.SessionPolicy, log)
	profiles := services.NewProfileRepository(p, cfg, log)
	files := services.NewFileStore(p, fs, cfg, log)
	content := services.NewContentRepository(p, files, cfg, log)
	store := state.NewStore(sessions, profiles, log)

	a := newApp(store, content, os.Stdin, os.Stdout, log)
	a.closers = append(a.closers, binding, repos)
	return a, nil
}

func newApp(store *state.Store, content services.ContentRepository, in io.Reader, out io.Writer, log logging.Logger) *App {
	report := resource.WithReporter[[]models.Post](resource.LogReporter(log))
	empty := resource.WithDefault([]models.Post{})

	return &App{
		log:     log,
		store:   store,
		content: content,
		reader:  bufio.NewReader(in),
		out:     out,
		feed:    resource.New(content.ListAll, empty, report),
		latest: resource.New(func(ctx context.Context) ([]models.Post, error) {
			return content.ListLatest(ctx, services.DefaultLatestLimit)
		}, empty, report),
		mine:   resource.New(noPosts, empty, report),
		search: resource.New(noPosts, empty, report),
	}
}

func noPosts(context.Context) ([]models.Post, error) { return []models.Post{}, nil }

// Run bootstraps the session state and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to Aora (type 'help' for commands)")
	if err := a.store.Bootstrap(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}
	if s := a.store.Snapshot(); s.IsLoggedIn {
		fmt.Fprintf(a.out, "Signed in as %s\n", s.CurrentUser.Username)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	for _, r := range []*postList{a.feed, a.latest, a.mine, a.search} {
		r.Close()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().IsLoggedIn
}

func (a *App) status() string {
	s := a.store.Snapshot()
	if s.IsLoggedIn && s.CurrentUser != nil {
		return "(" + s.CurrentUser.Username + ")"
	}
	return ""
}
