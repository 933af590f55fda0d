package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"time"

	"ventascli/internal/client/api"
	"ventascli/internal/client/config"
	"ventascli/internal/client/controllers"
	"ventascli/internal/client/services"
	"ventascli/internal/client/session"
	"ventascli/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the client together: the local session cache, the REST gateway,
// and the screen controllers the REPL drives.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	session  *session.Session
	gateway  api.Gateway
	accounts *services.AccountService
	history  *controllers.HistoryController
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := session.InitCacheDB(ctx, c.CacheDBPath)
	if err != nil {
		log.Error(ctx, "error initializing cache database", "error", err.Error())
		return nil, err
	}

	sess, err := session.Load(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	gw := api.NewRestGateway(c.BaseURL, c.RequestTimeout, sess.Token, log)

	return &App{
		config:   c,
		log:      log,
		db:       db,
		session:  sess,
		gateway:  gw,
		accounts: services.NewAccountService(gw, log),
		history:  controllers.NewHistoryController(gw, log, c.PageSize),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Ventas POS CLI (type 'help' for commands)")
	if exp, ok := a.session.TokenExpiry(); ok && exp.Before(time.Now()) {
		printlnFn("Your session has expired, please log in again.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	_ = a.gateway.Close()
	_ = a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.Token() != ""
}

func (a *App) getStatus() string {
	if acc := a.session.Account(); acc != nil {
		return acc.Email
	}
	return "signed out"
}
