package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/decentland/tribus/arweave/gateway"
	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/filter"
	"github.com/decentland/tribus/filter/cachestore"
	"github.com/decentland/tribus/filter/content"
	"github.com/decentland/tribus/filter/countstore"
	"github.com/decentland/tribus/filter/statestore"
	"github.com/decentland/tribus/util/cliutil"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
	"gorm.io/plugin/opentelemetry/tracing"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "filterd",
		Usage:   "moderation filter daemon for the Tribus decentralized forum",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "contract-id",
			Usage:   "id of the filter contract; content must declare it in its Tribus-ID tag",
			EnvVars: []string{"FILTERD_CONTRACT_ID", "TRIBUS_ID"},
		},
		&cli.StringFlag{
			Name:    "genesis",
			Usage:   "path to the initial filter state (JSON)",
			Value:   "genesis.json",
			EnvVars: []string{"FILTERD_GENESIS"},
		},
		&cli.StringFlag{
			Name:    "gateway-host",
			Usage:   "method, hostname, and port of Arweave gateway",
			Value:   gateway.DefaultHost,
			EnvVars: []string{"ARWEAVE_GATEWAY_HOST"},
		},
		&cli.IntFlag{
			Name:    "gateway-rate-limit",
			Usage:   "max number of requests per second to the Arweave gateway",
			Value:   20,
			EnvVars: []string{"FILTERD_GATEWAY_RATE_LIMIT"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			EnvVars: []string{"FILTERD_LOG_LEVEL", "GO_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format (text or json)",
			EnvVars: []string{"FILTERD_LOG_FMT", "LOG_FMT"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		replayCmd,
		checkAddressCmd,
	}

	return app.Run(args)
}

func configLogger(cctx *cli.Context, path string) (*slog.Logger, error) {
	return cliutil.SetupSlog(cliutil.LogOptions{
		LogLevel:  cctx.String("log-level"),
		LogFormat: cctx.String("log-format"),
		LogPath:   path,
	})
}

func configEngine(cctx *cli.Context, logger *slog.Logger, cache cachestore.CacheStore) (*filter.Engine, error) {
	contractID := cctx.String("contract-id")
	if contractID == "" {
		return nil, fmt.Errorf("contract id is required (--contract-id)")
	}
	gw := gateway.NewClient(cctx.String("gateway-host"), cctx.Int("gateway-rate-limit"))
	resolver := content.NewCacheResolver(content.NewGatewayResolver(gw), cache)
	resolver.Logger = logger.With("component", "content-cache")
	return filter.NewEngine(logger.With("component", "filter"), resolver, filter.EngineConfig{ContractID: contractID}), nil
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the filter daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for HTTP APIs",
			Value:   ":3700",
			EnvVars: []string{"FILTERD_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3701",
			EnvVars: []string{"FILTERD_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL, for caches, counters, and (without a database) state snapshots: redis://<user>:<pass>@<hostname>:6379/<db>",
			EnvVars: []string{"FILTERD_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database for state snapshots (sqlite or postgres); takes precedence over redis",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "max-db-connections",
			EnvVars: []string{"MAX_DB_CONNECTIONS"},
			Value:   10,
		},
		&cli.BoolFlag{
			Name:    "db-tracing",
			Usage:   "emit OpenTelemetry spans for database queries",
			EnvVars: []string{"FILTERD_DB_TRACING"},
		},
		&cli.IntFlag{
			Name:    "snapshot-retain",
			Usage:   "number of state snapshots kept in the database (0 keeps all)",
			Value:   100,
			EnvVars: []string{"FILTERD_SNAPSHOT_RETAIN"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger, err := configLogger(cctx, "")
		if err != nil {
			return err
		}
		configOTEL("filterd")
		if cctx.String("contract-id") == "" {
			return fmt.Errorf("contract id is required (--contract-id)")
		}

		var cache cachestore.CacheStore
		var counts countstore.CountStore
		var states statestore.StateStore
		if redisURL := cctx.String("redis-url"); redisURL != "" {
			opt, err := redis.ParseURL(redisURL)
			if err != nil {
				return fmt.Errorf("parsing redis URL: %v", err)
			}
			rdb := redis.NewClient(opt)
			// check redis connection
			if _, err := rdb.Ping(ctx).Result(); err != nil {
				return fmt.Errorf("redis ping failed: %v", err)
			}
			cache = cachestore.NewRedisCacheStoreFromClient(rdb, 6*time.Hour)
			counts = countstore.NewRedisCountStore(rdb)
			states = statestore.NewRedisStateStoreFromClient(rdb, cctx.String("contract-id"))
		} else {
			mem := cachestore.NewMemCacheStore(50_000, 6*time.Hour)
			cache = &mem
			counts = countstore.NewMemCountStore()
			states = statestore.NewMemStateStore()
		}
		if dbURL := cctx.String("database-url"); dbURL != "" {
			db, err := cliutil.SetupDatabase(dbURL, cctx.Int("max-db-connections"))
			if err != nil {
				return err
			}
			if cctx.Bool("db-tracing") {
				if err := db.Use(tracing.NewPlugin()); err != nil {
					return err
				}
			}
			states, err = statestore.NewGormStateStore(db, cctx.String("contract-id"), cctx.Int("snapshot-retain"))
			if err != nil {
				return err
			}
		}

		engine, err := configEngine(cctx, logger, cache)
		if err != nil {
			return err
		}

		srv, err := NewServer(ctx, Config{
			Logger:      logger,
			Bind:        cctx.String("bind"),
			Engine:      engine,
			StateStore:  states,
			CountStore:  counts,
			GenesisPath: cctx.String("genesis"),
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		return srv.RunAPI()
	},
}

var replayCmd = &cli.Command{
	Name:      "replay",
	Usage:     "apply a JSON-lines action log to the genesis state, and print the resulting state",
	ArgsUsage: "<actions.jsonl>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "stop at the first rejected action, instead of skipping it",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected a single action log path")
		}
		// logs go to stderr, so stdout is only the resulting state
		logger, err := configLogger(cctx, "stderr")
		if err != nil {
			return err
		}
		st, err := filter.LoadStateFile(cctx.String("genesis"))
		if err != nil {
			return err
		}
		mem := cachestore.NewMemCacheStore(50_000, time.Hour)
		engine, err := configEngine(cctx, logger, &mem)
		if err != nil {
			return err
		}

		f, err := os.Open(cctx.Args().First())
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := replayActions(ctx, engine, st, f, cctx.Bool("strict"))
		if err != nil {
			return err
		}
		logger.Info("replay complete", "applied", res.Applied, "rejected", res.Rejected, "height", res.Height)

		out, err := st.MarshalIndent()
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, string(out))
		return nil
	},
}

var checkAddressCmd = &cli.Command{
	Name:      "check-address",
	Usage:     "check the syntax of Arweave addresses or transaction ids",
	ArgsUsage: "<address>...",
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() == 0 {
			return fmt.Errorf("need at least one address to check")
		}
		invalid := 0
		for _, raw := range cctx.Args().Slice() {
			if err := syntax.ValidateAddress(raw); err != nil {
				fmt.Fprintf(cctx.App.Writer, "%s\tinvalid\t%s\n", raw, err)
				invalid++
				continue
			}
			fmt.Fprintf(cctx.App.Writer, "%s\tvalid\n", raw)
		}
		if invalid > 0 {
			return fmt.Errorf("%d invalid address(es)", invalid)
		}
		return nil
	},
}
