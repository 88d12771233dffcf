package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/spinwallet/internal/api"
	"github.com/fastprodman/spinwallet/internal/infra/logging"
	"github.com/fastprodman/spinwallet/internal/infra/pgutils"
	"github.com/fastprodman/spinwallet/internal/infra/redisutils"
	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	memwagering "github.com/fastprodman/spinwallet/internal/repos/wagering/memory"
	redwagering "github.com/fastprodman/spinwallet/internal/repos/wagering/redis"
	"github.com/fastprodman/spinwallet/internal/services/ledger"
	"github.com/fastprodman/spinwallet/internal/services/notify"
	"github.com/fastprodman/spinwallet/pkg/envconf"
	"github.com/fastprodman/spinwallet/pkg/shutdownqueue"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := new(apiConfig)

	err = envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	shutdown := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdown.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdown.AddNamed("postgres", func(context.Context) error {
		return db.Close()
	})

	var rdb *redis.Client

	if cfg.needsRedis() {
		rdb, err = redisutils.Open(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}

		shutdown.AddNamed("redis", func(context.Context) error {
			return rdb.Close()
		})
	}

	counter, err := newCounter(cfg.Ledger.WageringStore, rdb)
	if err != nil {
		return err
	}

	// --- Services ---
	bus := notify.NewBus()

	ledgerSrv, err := ledger.New(db, counter, cfg.Ledger, ledger.WithNotifier(bus))
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}

	subscribe(bus, ledgerSrv)

	if cfg.publishEvents() {
		bus.SubscribeAll("redis_publisher", notify.NewRedisPublisher(rdb, cfg.EventsChannel).Handle)
	}

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, ledgerSrv)

	shutdown.AddNamed("http", func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started",
		"port", cfg.Port,
		"wagering_store", cfg.Ledger.WageringStore,
		"wallet_priority", cfg.Ledger.WalletPriority,
	)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

func newCounter(store string, rdb *redis.Client) (wagering.Counter, error) {
	switch store {
	case storeRedis:
		return redwagering.New(rdb), nil
	case storeMemory:
		slog.Warn("wagering counter kept in process memory; it resets on restart")
		return memwagering.New(), nil
	default:
		return nil, fmt.Errorf("unknown wagering store %q", store)
	}
}

// subscribe wires the ledger reactions to wallet events: a resolved bet
// triggers settlement and a login credits the login bonus.
func subscribe(bus *notify.Bus, svc *ledger.Service) {
	bus.Subscribe(notify.KindBetResolved, "settle_wagering", func(ctx context.Context, ev notify.Event) error {
		_, err := svc.SettleWagering(ctx, ev.UserID)
		return err
	})

	bus.Subscribe(notify.KindUserLoggedIn, "login_bonus", func(ctx context.Context, ev notify.Event) error {
		_, err := svc.LoginBonus(ctx, ev.UserID)
		return err
	})
}
