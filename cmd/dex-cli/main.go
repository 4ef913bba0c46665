package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dexfetch/go-dex/cache"
	"github.com/dexfetch/go-dex/dex"
	"github.com/dexfetch/go-dex/logger"
	"github.com/dexfetch/go-dex/request"
)

var (
	baseURL    string
	cacheKind  string
	cachePath  string
	redisURL   string
	configPath string
	timeout    time.Duration
	asJSON     bool
)

func main() {
	root := &cobra.Command{
		Use:           "dex-cli",
		Short:         "Fetch normalized creature rosters per game generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", dex.DefaultBaseURL, "upstream API base URL")
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML file overlaying the built-in generation table")
	root.PersistentFlags().StringVar(&cacheKind, "cache", "sqlite", "cache backend: memory, sqlite or redis")
	root.PersistentFlags().StringVar(&cachePath, "cache-path", "dex-cache.db", "database file for the sqlite cache backend")
	root.PersistentFlags().StringVar(&redisURL, "redis-url", "redis://localhost:6379", "redis URL for the redis cache backend")
	root.PersistentFlags().DurationVar(&timeout, "timeout", request.DefaultTimeout, "per-request timeout")

	fetchCmd := &cobra.Command{
		Use:   "fetch <generation>",
		Short: "Fetch one generation's roster",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}
	fetchCmd.Flags().BoolVar(&asJSON, "json", false, "emit the roster as JSON")

	generationsCmd := &cobra.Command{
		Use:   "generations",
		Short: "List the configured generation keys",
		RunE:  runGenerations,
	}

	root.AddCommand(fetchCmd, generationsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dex-cli: %v\n", err)
		os.Exit(1)
	}
}

func buildTable() (dex.Table, error) {
	table := dex.Builtin(baseURL)
	if configPath == "" {
		return table, nil
	}
	overlay, err := dex.LoadGenerations(configPath)
	if err != nil {
		return nil, err
	}
	return table.Merge(overlay), nil
}

func buildCache(ctx context.Context) (cache.Cache, error) {
	switch cacheKind {
	case "memory":
		return cache.NewInMemory(ctx), nil
	case "sqlite":
		return cache.NewSQLite(ctx, cachePath)
	case "redis":
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if _, err := client.Ping(ctx).Result(); err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return cache.NewRedis(client, cache.WithPrefix("dex")), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cacheKind)
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]
	log := logger.New()

	table, err := buildTable()
	if err != nil {
		return err
	}
	c, err := buildCache(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	client := request.New(
		request.WithTimeout(timeout),
		request.WithUserAgent("dex-cli (github.com/dexfetch/go-dex)"),
	)
	svc := dex.NewService(table, c, client, log)

	var result *dex.GenerationResult
	var fetchErr error
	fetch := func() {
		result, fetchErr = svc.FetchGenerationData(ctx, key)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		spinner.New().Title(fmt.Sprintf("Fetching %s...", key)).Action(fetch).Run()
	} else {
		fetch()
	}
	if fetchErr != nil {
		return fetchErr
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("%s: %d creatures\n", result.Title, len(result.Items))
	for _, item := range result.Items {
		fmt.Printf("%4d  %-14s %-18s hp:%-3d atk:%-3d def:%-3d spa:%-3d spd:%-3d spe:%-3d\n",
			item.ID, item.Name, strings.Join(item.Types, "/"),
			item.Stats.HP, item.Stats.Atk, item.Stats.Def,
			item.Stats.SpA, item.Stats.SpD, item.Stats.Spe)
	}
	return nil
}

func runGenerations(cmd *cobra.Command, args []string) error {
	table, err := buildTable()
	if err != nil {
		return err
	}
	keys := table.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		gen, _ := table.Resolve(key)
		fmt.Printf("%-10s %s\n", key, gen.Title)
	}
	return nil
}
