package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/dirkeeper/internal/client/config"
	"github.com/dmitrijs2005/dirkeeper/internal/client/events"
	"github.com/dmitrijs2005/dirkeeper/internal/client/guard"
	"github.com/dmitrijs2005/dirkeeper/internal/client/services"
	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
)

// App is the interactive console. It owns the current screen and the
// error-banner timers; all state lives in the services.
type App struct {
	config    *config.Config
	sessions  *services.SessionService
	directory *services.DirectoryService
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer

	mu          sync.Mutex
	screen      string
	returnTo    string
	expiredFrom string

	dirErrors     *errorExpiry
	sessionErrors *errorExpiry
	cleanup       []func()
}

// NewApp builds the console over already wired services. broker may be nil,
// in which case expired sessions are only noticed on the next command.
func NewApp(cfg *config.Config, sessions *services.SessionService, directory *services.DirectoryService,
	broker *events.Broker, in io.Reader, out io.Writer, log logging.Logger) *App {
	a := &App{
		config:    cfg,
		sessions:  sessions,
		directory: directory,
		log:       log.With("module", "cli"),
		reader:    bufio.NewReader(in),
		out:       out,
		screen:    guard.LoginPath,
	}

	a.dirErrors = newErrorExpiry(cfg.ErrorTTL, directory.ClearError)
	a.sessionErrors = newErrorExpiry(cfg.ErrorTTL, sessions.ClearError)
	a.cleanup = append(a.cleanup,
		directory.Subscribe(func(s store.DirectoryState) { a.dirErrors.observe(s.ErrorMessage) }),
		sessions.Subscribe(func(s store.SessionState) { a.sessionErrors.observe(s.ErrorMessage) }),
	)
	if broker != nil {
		a.cleanup = append(a.cleanup, broker.Subscribe(a.onSessionExpired))
	}
	return a
}

// Run opens the users screen (signing in first if needed) and then serves
// commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to dirkeeper (type 'help' for commands)")
	_ = a.open(ctx, guard.UsersPath)
	a.afterCommand(ctx)

	runREPL(ctx, a, a.status, a.reader, a.out)
}

// Close stops the banner timers and detaches from the services.
func (a *App) Close() {
	a.dirErrors.stop()
	a.sessionErrors.stop()
	for _, fn := range a.cleanup {
		fn()
	}
	a.cleanup = nil
}

func (a *App) isLoggedIn() bool {
	return a.sessions.State().IsAuthenticated()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(signed out)"
	}
	return fmt.Sprintf("(%s)", a.currentScreen())
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) currentScreen() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func (a *App) setScreen(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.screen = path
}

func (a *App) setReturnTo(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.returnTo = path
}

func (a *App) peekReturnTo() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.returnTo
}

func (a *App) takeReturnTo() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.returnTo
	a.returnTo = ""
	return r
}

// onSessionExpired runs on whichever goroutine made the rejected call; it
// only records where the user was; afterCommand does the redirect. A
// rejection of a token the session no longer holds is ignored.
func (a *App) onSessionExpired(ev events.SessionExpired) {
	if t := a.sessions.Token(); t != "" && t != ev.Token {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	from := a.screen
	if from == guard.LoginPath {
		from = guard.UsersPath
	}
	a.expiredFrom = from
}

// afterCommand sends the user to the login prompt if the session expired
// while the last command ran, then back to where they were.
func (a *App) afterCommand(ctx context.Context) {
	a.mu.Lock()
	from := a.expiredFrom
	a.expiredFrom = ""
	a.mu.Unlock()
	if from == "" {
		return
	}

	a.log.Info(ctx, "redirecting to login", "from", from)
	a.println(renderBanner(store.SessionExpiredMessage))
	a.setReturnTo(from)
	_ = a.Login(ctx)
}
