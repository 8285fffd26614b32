package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipes/internal/client/client"
	"github.com/dmitrijs2005/recipes/internal/client/config"
	"github.com/dmitrijs2005/recipes/internal/client/filters"
	"github.com/dmitrijs2005/recipes/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/recipes/internal/client/services"
	"github.com/dmitrijs2005/recipes/internal/common"
	"github.com/dmitrijs2005/recipes/internal/filex"
	"github.com/dmitrijs2005/recipes/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// settleTimeout bounds how long a command waits for its listing before the
// prompt is printed again. Late results are still rendered.
const settleTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	prefs     prefs.Repository
	api       *client.RESTClient
	session   *services.SessionStore
	search    *services.SearchController
	mutations *services.MutationController
	toast     *services.Toaster
	view      *terminalView
	reader    *bufio.Reader
	out       io.Writer

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the preferences database and wires the controllers.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	path, err := filex.EnsureParentDir(c.DBPath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", path, "error", err)
		return nil, err
	}

	api := client.NewRESTClient(client.Options{
		ServerURL: c.ServerURL,
		APIPrefix: c.APIPrefix,
		Timeout:   c.HTTPTimeout,
		Debug:     c.Debug,
		Logger:    log.With("component", "api"),
	})

	a, err := newApp(ctx, c, log, api, prefs.NewSQLiteRepository(db), in, out)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, api *client.RESTClient, repo prefs.Repository, in io.Reader, out io.Writer) (*App, error) {
	start, err := url.Parse(c.StartURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start url %q: %w", c.StartURL, err)
	}

	theme, _, err := repo.Get(ctx, common.ThemeKey)
	if err != nil {
		log.Warn(ctx, "failed to read theme", "error", err)
	}
	view := newTerminalView(out, theme)

	// drop unknown and malformed parameters from the start address
	home := filters.ToURL(start, filters.FromURL(start))
	view.ShowURL(home)

	session := services.NewSessionStore(api, repo, log.With("component", "session"))
	api.UseAuth(session)

	toast := services.NewToaster(view, c.ToastTimeout)
	history := filters.NewMemoryHistory(home)
	search := services.NewSearchController(api, session, view, toast, history, log.With("component", "search"), c.SearchDebounce)
	mutations := services.NewMutationController(api, session, search, view, toast, log.With("component", "mutations"))

	session.Subscribe(view.ShowSession)
	session.Subscribe(search.OnSession)

	return &App{
		config:    c,
		log:       log,
		prefs:     repo,
		api:       api,
		session:   session,
		search:    search,
		mutations: mutations,
		toast:     toast,
		view:      view,
		reader:    bufio.NewReader(in),
		out:       out,
	}, nil
}

// Run restores the session, shows the first listing and serves the REPL
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Recipes CLI (type 'help' for commands)")

	a.session.Restore(ctx)
	go a.search.LoadFilterOptions(ctx)
	a.search.Refresh(ctx)
	a.settle(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops pending searches and releases the database.
func (a *App) Close() {
	a.search.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "failed to close database", "error", err)
		}
	}
}

// settle waits for the listing triggered by the last command so its output
// lands before the next prompt.
func (a *App) settle(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()
	if err := a.search.Idle(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		a.log.Debug(ctx, "stopped waiting for listing", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().Active()
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	s := ""
	if sess := a.session.Session(); sess.Active() {
		s = sess.User.Username + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the health endpoint right away and then
// every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
