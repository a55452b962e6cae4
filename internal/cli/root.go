// Package cli implements the planner command line: browsing content,
// keeping a wishlist and downloading the generated plan.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/browser"
	"github.com/barjames/funeral-planner/internal/client"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/selection"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// Environment variables that provide flag defaults.
const (
	envAPIURL    = "PLANNER_API_URL"
	envStateDir  = "PLANNER_STATE_DIR"
	envRedisAddr = "PLANNER_REDIS_ADDR"
)

// stateDirName is the per-user directory holding the wishlist file.
const stateDirName = "funeral-planner"

// Env carries the process dependencies. Zero fields take their defaults,
// which lets tests swap in buffers, an httptest client or a memory backend.
type Env struct {
	Out        io.Writer
	Err        io.Writer
	HTTPClient *http.Client
	Backend    selection.Backend
	Logger     infralogger.Logger
}

type app struct {
	env Env

	apiURL    string
	stateDir  string
	redisAddr string
	key       string
	debug     bool

	api     *client.Client
	store   *selection.Store
	closers []func()
}

// Execute runs the planner CLI with the process environment.
func Execute(version string) error {
	_ = godotenv.Load()
	return NewRootCommand(Env{}, version).ExecuteContext(context.Background())
}

// NewRootCommand builds the command tree.
func NewRootCommand(env Env, version string) *cobra.Command {
	if env.Out == nil {
		env.Out = os.Stdout
	}
	if env.Err == nil {
		env.Err = os.Stderr
	}
	a := &app{env: env}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "Plan a funeral service from the content library",
		Long:          "Browse readings, gospels, music, prayers and poems, pick up to two of each and download the plan as a PDF.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetOut(env.Out)
	root.SetErr(env.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", envOr(envAPIURL, client.DefaultBaseURL), "planner server address")
	flags.StringVar(&a.stateDir, "state-dir", envOr(envStateDir, defaultStateDir()), "directory holding the wishlist file")
	flags.StringVar(&a.redisAddr, "redis-addr", os.Getenv(envRedisAddr), "keep the wishlist in Redis at this address instead of a file")
	flags.StringVar(&a.key, "wishlist-key", selection.DefaultKey, "storage key of the wishlist")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		a.browseCommand(),
		a.wishlistCommand(),
		a.pdfCommand(),
		a.adminCommand(),
	)
	closeAfterRun(root, a.close)
	return root
}

// closeAfterRun wraps every runnable command so the resources opened in
// setup are released whether the command succeeds or fails.
func closeAfterRun(cmd *cobra.Command, release func()) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			defer release()
			return run(c, args)
		}
	}
	for _, sub := range cmd.Commands() {
		closeAfterRun(sub, release)
	}
}

func (a *app) setup(ctx context.Context) error {
	log := a.env.Logger
	if log == nil {
		level := "warn"
		if a.debug {
			level = "debug"
		}
		var err error
		log, err = infralogger.New(infralogger.Config{Level: level, OutputPaths: []string{"stderr"}})
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		a.closers = append(a.closers, func() { _ = log.Sync() })
	}
	a.env.Logger = log

	a.api = client.NewClient(client.WithBaseURL(a.apiURL), client.WithHTTPClient(a.env.HTTPClient))

	backend := a.env.Backend
	switch {
	case backend != nil:
	case a.redisAddr != "":
		rdb := redis.NewClient(&redis.Options{Addr: a.redisAddr})
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		backend = selection.NewRedisBackend(rdb)
	default:
		backend = selection.NewFileBackend(a.stateDir)
	}
	a.store = selection.Open(ctx, backend, log, selection.WithKey(a.key))

	log.Debug("Planner CLI ready",
		infralogger.String("api_url", a.apiURL),
		infralogger.Bool("redis", a.redisAddr != ""),
	)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.env.Out, format, args...)
}

// notice prints a user-facing message from a selection change to stderr.
func (a *app) notice(res selection.Result) {
	if res.Notice != "" {
		_, _ = fmt.Fprintln(a.env.Err, res.Notice)
	}
}

// category resolves a key with the API's not-found wording.
func category(key string) (models.Category, error) {
	cat, ok := models.Lookup(key)
	if !ok {
		return models.Category{}, fmt.Errorf("Content type '%s' not found.", key) //nolint:staticcheck // user-facing sentence
	}
	return cat, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "." + stateDirName
	}
	return filepath.Join(dir, stateDirName)
}

// errEmptyWishlist is returned by pdf before any request is made.
var errEmptyWishlist = errors.New(browser.EmptyWishlistNotice)
