package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goOracle/internal/config"
	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/metrics"
	"github.com/LeJamon/goOracle/internal/rpc"
	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/LeJamon/goOracle/internal/storage/database/memory"
	"github.com/LeJamon/goOracle/internal/storage/database/pebble"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	// Server flags
	port     int
	bindAddr string
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the oracle server",
	Long: `Start the oracled server which provides:
- HTTP JSON-RPC API endpoint
- WebSocket server for price update subscriptions
- Health check endpoint
- Prometheus metrics endpoint

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = runServer

	// Server-specific flags override the configuration file
	serverCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	serverCmd.Flags().StringVar(&bindAddr, "bind", "", "address to bind to")
}

func runServer(cmd *cobra.Command, args []string) error {
	if port != 0 {
		cfg.Server.Port = port
	}
	if bindAddr != "" {
		cfg.Server.Bind = bindAddr
	}

	n, err := newNode(cfg, logger)
	if err != nil {
		return err
	}
	defer n.Close()

	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Starting oracled")
		fmt.Fprintln(out, "Server Configuration:")
		fmt.Fprintf(out, "  - HTTP JSON-RPC: %s/\n", cfg.Server.URL())
		fmt.Fprintf(out, "  - WebSocket:     ws%s/ws\n", cfg.Server.URL()[len("http"):])
		fmt.Fprintf(out, "  - Health Check:  %s/health\n", cfg.Server.URL())
		if cfg.Metrics.Enabled {
			fmt.Fprintf(out, "  - Metrics:       %s/metrics\n", cfg.Server.URL())
		}
		fmt.Fprintf(out, "  - Database:      %s\n", cfg.Database.Type)
		fmt.Fprintln(out)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return n.Run(ctx)
}

// node is a running oracled instance: storage, engine and the HTTP surface.
type node struct {
	cfg      *config.Config
	log      *zap.Logger
	ledger   *state.Ledger
	engine   *engine.Engine
	ws       *rpc.WebSocketServer
	handler  http.Handler
	closeDBs func() error
}

// openStorage opens the ledger database the configuration selects.
func openStorage(cfg *config.Config) (database.DB, func() error, error) {
	switch cfg.Database.Type {
	case config.DatabaseMemory:
		db := memory.NewDB()
		return db, db.Close, nil
	case config.DatabasePebble:
		if err := os.MkdirAll(cfg.DatabasePath(), 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create database directory")
		}
		mgr := pebble.NewManager(cfg.DatabasePath())
		db, err := mgr.OpenDB("ledger")
		if err != nil {
			return nil, nil, err
		}
		return db, mgr.Close, nil
	default:
		return nil, nil, errors.Errorf("unsupported database type %q", cfg.Database.Type)
	}
}

func newNode(cfg *config.Config, logger *zap.Logger) (*node, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, closeDBs, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	ledger, err := state.NewLedger(db, cfg.Database.CacheSize, logger)
	if err != nil {
		_ = closeDBs()
		return nil, err
	}

	var collector *metrics.Collector
	engineCfg := engine.Config{Logger: logger}
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
		collector.RegisterLedgerCache(cfg.Metrics.Namespace, ledger.CacheStats)
		engineCfg.Observer = collector
	}

	eng := engine.New(ledger, engineCfg)
	if err := eng.Load(context.Background()); err != nil {
		_ = closeDBs()
		return nil, err
	}

	services := &rpc_types.ServiceContainer{
		Engine:    eng,
		Version:   rootCmd.Version,
		Database:  cfg.Database.Type,
		StartTime: time.Now(),
	}

	httpServer := rpc.NewServer(cfg.Server.Timeout, services, logger)
	wsServer := rpc.NewWebSocketServer(cfg.Server.Timeout, httpServer.Registry(), logger)
	eng.OnPriceUpdate(rpc.NewPublisher(wsServer).PublishPriceUpdate)

	mux := http.NewServeMux()
	mux.Handle("/", httpServer)
	mux.Handle("/ws", wsServer)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"oracled"}`))
	})
	if collector != nil {
		eng.OnPriceUpdate(collector.ObservePriceUpdate)
		mux.Handle("/metrics", collector.Handler())
	}

	return &node{
		cfg:      cfg,
		log:      logger,
		ledger:   ledger,
		engine:   eng,
		ws:       wsServer,
		handler:  mux,
		closeDBs: closeDBs,
	}, nil
}

// Run serves until ctx is cancelled, then shuts the listener down.
func (n *node) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              n.cfg.Server.Address(),
		Handler:           n.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n.log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		n.log.Info("shutting down")
		n.ws.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases the storage.
func (n *node) Close() error {
	return n.closeDBs()
}
