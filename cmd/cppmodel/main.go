// Package main provides the cppmodel binary entry point.
// Cppmodel indexes C++ sources into a lazy name-resolution graph and serves
// completion and symbol queries over NATS.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/c360studio/cppmodel/config"
	"github.com/c360studio/cppmodel/frontend"
	"github.com/c360studio/cppmodel/queryservice"

	// Register the C++ parser via init()
	_ "github.com/c360studio/cppmodel/frontend/cpp"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "cppmodel"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "C++ code model and query service",
		Long: `Cppmodel parses C++ sources into per-file symbol tables and binds them
lazily into a project-wide name-resolution graph.

It provides:
- Recursive source indexing with include resolution
- A file watcher keeping the index current
- Completion, symbol resolution and status queries over NATS`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(indexCmd(&configPath))
	cmd.AddCommand(serveCmd(&configPath))
	cmd.AddCommand(queryCmd(&configPath))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg := config.DefaultConfig()
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(slog.Default()).Load()
}

func newIndexer(cfg *config.Config) *frontend.Indexer {
	return frontend.NewIndexer(frontend.IndexerConfig{
		IncludeDirs:     cfg.Index.IncludeDirs,
		Extensions:      cfg.Index.Extensions,
		ExpandTemplates: cfg.Index.ExpandTemplates,
		Logger:          slog.Default(),
	})
}

// indexCmd parses the configured roots once and reports what it found.
func indexCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index the configured source roots once and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			indexer := newIndexer(cfg)
			count, err := indexer.IndexRoots(cmd.Context(), cfg.Index.Roots)
			if err != nil {
				return fmt.Errorf("index roots: %w", err)
			}

			withDiagnostics := 0
			for _, name := range indexer.FileNames() {
				if doc := indexer.Document(name); doc != nil && len(doc.Diagnostics()) > 0 {
					withDiagnostics++
				}
			}

			fmt.Printf("Indexed %d documents (%d with parse diagnostics)\n", count, withDiagnostics)
			return nil
		},
	}
}

// serveCmd indexes, watches for changes and serves queries until interrupted.
func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Index the sources, watch for changes and serve queries over NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			signalCtx, signalCancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer signalCancel()

			indexer := newIndexer(cfg)
			if _, err := indexer.IndexRoots(signalCtx, cfg.Index.Roots); err != nil {
				return fmt.Errorf("index roots: %w", err)
			}

			watchRoot := cfg.Project.Root
			if watchRoot == "" {
				watchRoot = "."
			}
			watcher, err := frontend.NewWatcher(indexer, frontend.WatcherConfig{
				Root:          watchRoot,
				DebounceDelay: cfg.Index.DebounceDelay,
				Logger:        slog.Default(),
			})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := watcher.Start(signalCtx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			go drainWatchEvents(watcher)

			nc, err := connectToNATS(cfg.Service.NATSURL)
			if err != nil {
				return err
			}
			defer nc.Close()

			metrics := queryservice.NewMetrics(slog.Default())
			metrics.Serve(cfg.Service.MetricsAddr)

			service := queryservice.NewService(nc, indexer, queryservice.Config{
				SubjectPrefix: cfg.Service.SubjectPrefix,
				Logger:        slog.Default(),
				Metrics:       metrics,
			})
			if err := service.Start(); err != nil {
				return fmt.Errorf("start query service: %w", err)
			}

			slog.Info("Cppmodel ready",
				"version", Version,
				"documents", indexer.DocumentCount(),
				"subject_prefix", cfg.Service.SubjectPrefix)

			<-signalCtx.Done()
			slog.Info("Received shutdown signal")

			service.Stop()
			if err := watcher.Stop(); err != nil {
				slog.Warn("Error stopping watcher", "error", err)
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metrics.Shutdown(shutdownCtx); err != nil {
				slog.Warn("Error stopping metrics server", "error", err)
			}

			slog.Info("Cppmodel shutdown complete")
			return nil
		},
	}
}

func drainWatchEvents(watcher *frontend.Watcher) {
	for event := range watcher.Events() {
		if event.Err != nil {
			slog.Warn("Watch re-index failed", "path", event.Path, "error", event.Err)
			continue
		}
		slog.Info("Index updated", "path", event.Path, "op", string(event.Operation))
	}
}

// queryCmd is a thin request/reply client for a running serve instance.
func queryCmd(configPath *string) *cobra.Command {
	var (
		file  string
		name  string
		scope []string
	)

	cmd := &cobra.Command{
		Use:       "query <complete|resolve|status>",
		Short:     "Send a query to a running cppmodel instance",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"complete", "resolve", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			var payload any
			switch args[0] {
			case "complete":
				payload = queryservice.CompleteRequest{File: file, Scope: scope}
			case "resolve":
				payload = queryservice.ResolveRequest{File: file, Name: name, Scope: scope}
			case "status":
				payload = queryservice.StatusRequest{}
			default:
				return fmt.Errorf("unknown operation: %s", args[0])
			}

			data, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("marshal request: %w", err)
			}

			nc, err := connectToNATS(cfg.Service.NATSURL)
			if err != nil {
				return err
			}
			defer nc.Close()

			reqCtx, cancel := context.WithTimeout(cmd.Context(), cfg.Service.RequestTimeout)
			defer cancel()

			subject := fmt.Sprintf("%s.%s", cfg.Service.SubjectPrefix, args[0])
			msg, err := nc.RequestWithContext(reqCtx, subject, data)
			if err != nil {
				return fmt.Errorf("request to %s: %w", subject, err)
			}

			fmt.Println(string(msg.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Indexed file the query is rooted at")
	cmd.Flags().StringVar(&name, "name", "", "Name to resolve (resolve only)")
	cmd.Flags().StringSliceVar(&scope, "scope", nil, "Qualification path of the query scope")

	return cmd
}

func connectToNATS(url string) (*nats.Conn, error) {
	// Environment variable override takes precedence
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		url = envURL
	} else if envURL := os.Getenv("CPPMODEL_NATS_URL"); envURL != "" {
		url = envURL
	}

	nc, err := nats.Connect(url,
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, wrapNATSError(err, url)
	}

	slog.Info("Connected to NATS", "url", url)
	return nc, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker compose up -d nats

Or set NATS_URL environment variable to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

// banner renders the startup box, centring each line so the borders stay
// aligned whatever the version string's length.
func banner() string {
	const width = 47
	lines := []string{
		"Cppmodel v" + Version,
		"C++ Code Model and Query Service",
	}

	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", width) + "╗\n")
	for _, line := range lines {
		pad := width - len(line)
		if pad < 0 {
			pad = 0
		}
		left := pad / 2
		b.WriteString("║" + strings.Repeat(" ", left) + line + strings.Repeat(" ", pad-left) + "║\n")
	}
	b.WriteString("╚" + strings.Repeat("═", width) + "╝")
	return b.String()
}

func printBanner() {
	fmt.Println(banner())
}
