// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/config"
	"github.com/pdiddy/last30days/internal/emit"
	"github.com/pdiddy/last30days/internal/enrich"
	"github.com/pdiddy/last30days/internal/httputil"
	"github.com/pdiddy/last30days/internal/metrics"
	"github.com/pdiddy/last30days/internal/provider"
	"github.com/pdiddy/last30days/internal/render"
	"github.com/pdiddy/last30days/internal/research"
	"github.com/pdiddy/last30days/pkg/types"
)

const (
	defaultTimeout    = 3 * time.Minute
	defaultMaxRetries = 3
	defaultUserAgent  = "last30days/1.0 (research CLI)"
)

// Emit modes for stdout.
const (
	emitCompact = "compact"
	emitJSON    = "json"
	emitMD      = "md"
	emitContext = "context"
	emitYAML    = "yaml"
	emitPath    = "path"
)

var emitModes = []string{emitCompact, emitJSON, emitMD, emitContext, emitYAML, emitPath}

func init() {
	f := rootCmd.Flags()
	f.String("emit", emitCompact, "stdout form: "+strings.Join(emitModes, "|"))
	f.String("sources", string(config.SourcesAuto), "platforms to search: auto|reddit|x|both")
	f.Bool("quick", false, "fewer results, faster")
	f.Bool("deep", false, "more results, slower")
	f.Bool("mock", false, "use embedded fixtures instead of the APIs")
	f.Duration("timeout", defaultTimeout, "bound on each provider search, including retries")
	f.Int("days", types.DefaultWindowDays, "recency window in days")

	viper.BindPFlag("emit", f.Lookup("emit"))
	viper.BindPFlag("sources", f.Lookup("sources"))
	viper.BindPFlag("timeout", f.Lookup("timeout"))
	viper.BindPFlag("window_days", f.Lookup("days"))
	viper.SetDefault("max_retries", defaultMaxRetries)
	viper.SetDefault("user_agent", defaultUserAgent)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		return cmd.Help()
	}

	emitMode := viper.GetString("emit")
	if !validEmit(emitMode) {
		return fmt.Errorf("unsupported --emit %q: use %s", emitMode, strings.Join(emitModes, ", "))
	}
	sources, err := config.ParseSources(viper.GetString("sources"))
	if err != nil {
		return err
	}
	depth, err := depthFromFlags(cmd)
	if err != nil {
		return err
	}
	mock, _ := cmd.Flags().GetBool("mock")

	credPath, err := credentialsPath()
	if err != nil {
		return err
	}
	settings, err := config.Load(credPath)
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(settings, config.Options{
		Sources: sources,
		Depth:   depth,
		HTTP: types.HTTPConfig{
			Timeout:    viper.GetDuration("timeout"),
			UserAgent:  viper.GetString("user_agent"),
			MaxRetries: viper.GetInt("max_retries"),
		},
		WindowDays: viper.GetInt("window_days"),
		Mock:       mock,
	})
	if err != nil {
		return err
	}

	dir, err := outDir()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	retrier := httputil.NewRetrier(&http.Client{Timeout: cfg.Timeout}, cfg.MaxRetries, logger)
	if cfg.ForumEnabled && cfg.ForumModelAuto && !mock {
		cfg = cfg.WithForumModel(provider.ResolveForumModel(ctx, retrier, settings.OpenAIAPIKey, cfg.UserAgent, cfg.ForumModel, true))
	}

	rec := metrics.NewRecorder()
	p := &research.Pipeline{
		Clients:  buildClients(cfg, settings, retrier, mock),
		Enricher: &enrich.Enricher{Fetcher: buildFetcher(cfg, retrier, mock), Logger: logger},
		Emitter:  &emit.Emitter{Dir: dir, Metrics: rec, Logger: logger},
		Metrics:  rec,
		Logger:   logger,
	}

	logger.Info("researching",
		zap.String("topic", topic),
		zap.String("mode", string(cfg.RequestedMode())),
		zap.String("depth", string(cfg.Depth)),
		zap.String("reddit_model", cfg.ForumModel),
		zap.String("x_model", cfg.MicroblogModel))

	res, err := p.Run(ctx, topic, cfg)
	if err != nil {
		return err
	}
	return writeStdout(os.Stdout, emitMode, res, emit.PathsIn(dir))
}

func buildClients(cfg types.RunConfig, s config.Settings, r *httputil.Retrier, mock bool) []provider.Client {
	var clients []provider.Client
	if cfg.ForumEnabled {
		if mock {
			clients = append(clients, &provider.FixtureClient{For: types.PlatformForum})
		} else {
			clients = append(clients, &provider.ForumClient{
				APIKey: s.OpenAIAPIKey, Model: cfg.ForumModel, Depth: cfg.Depth,
				UserAgent: cfg.UserAgent, HTTP: r, Logger: logger,
			})
		}
	}
	if cfg.MicroblogEnabled {
		if mock {
			clients = append(clients, &provider.FixtureClient{For: types.PlatformMicroblog})
		} else {
			clients = append(clients, &provider.MicroblogClient{
				APIKey: s.XAIAPIKey, Model: cfg.MicroblogModel, Depth: cfg.Depth,
				UserAgent: cfg.UserAgent, HTTP: r, Logger: logger,
			})
		}
	}
	return clients
}

func buildFetcher(cfg types.RunConfig, r *httputil.Retrier, mock bool) enrich.ThreadFetcher {
	if mock {
		return &enrich.FixtureFetcher{}
	}
	return &enrich.RedditFetcher{HTTP: r, UserAgent: cfg.UserAgent, Limiter: enrich.DefaultLimiter()}
}

func depthFromFlags(cmd *cobra.Command) (types.Depth, error) {
	quick, _ := cmd.Flags().GetBool("quick")
	deep, _ := cmd.Flags().GetBool("deep")
	switch {
	case quick && deep:
		return "", fmt.Errorf("--quick and --deep are mutually exclusive")
	case quick:
		return types.DepthQuick, nil
	case deep:
		return types.DepthDeep, nil
	}
	return types.DepthDefault, nil
}

func validEmit(mode string) bool {
	for _, m := range emitModes {
		if m == mode {
			return true
		}
	}
	return false
}

func writeStdout(w io.Writer, mode string, res types.RunResult, paths emit.Paths) error {
	switch mode {
	case emitJSON:
		return render.JSON(w, res)
	case emitYAML:
		return render.YAML(w, res)
	case emitMD:
		render.Markdown(w, res)
	case emitContext:
		render.ContextSnippet(w, res)
	case emitPath:
		fmt.Fprintln(w, paths.Context)
	default:
		render.Compact(w, res)
	}
	return nil
}
