package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bitfantasy/mashg/internal/client"
	"github.com/bitfantasy/mashg/internal/config"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL string
	token     string
	cacheKind string
	logFile   string

	cfg       *config.Config
	zapLogger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mashg-cli",
	Short: "Record factory inspections and fetch their reports",
	Long: `mashg-cli fills in inspection forms step by step, stores them on the
inspection server and downloads the PDF report of any inspection.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "inspection server URL (default from config)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "bearer token")
	rootCmd.PersistentFlags().StringVar(&cacheKind, "cache", "", "query cache: memory or redis")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write debug logs to this file")

	rootCmd.AddCommand(newCmd, editCmd, factoriesCmd, reportCmd, hebdateCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serverURL == "" {
		serverURL = cfg.Client.ServerURL
	}
	if token == "" {
		token = cfg.Client.Token
	}
	if cacheKind == "" {
		cacheKind = cfg.Client.Cache
	}

	if logFile != "" {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.OutputPaths = []string{logFile}
		zapCfg.ErrorOutputPaths = []string{logFile}
		if zapLogger, err = zapCfg.Build(); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}
	return nil
}

func newClient() (*client.Client, error) {
	opts := []client.Option{
		client.WithLogger(zapLogger),
		client.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout}),
	}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}

	switch cacheKind {
	case "", "memory":
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		opts = append(opts, client.WithCache(client.NewRedisCache(rdb, "mashg:query", cfg.Client.CacheTTL)))
	default:
		return nil, fmt.Errorf("unknown cache %q", cacheKind)
	}

	return client.New(serverURL, opts...), nil
}
