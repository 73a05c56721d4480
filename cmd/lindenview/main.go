// Package main is the lindenview CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/lindenview/internal/blevehits"
	"github.com/hyperjump/lindenview/internal/cli"
	"github.com/hyperjump/lindenview/internal/config"
	"github.com/hyperjump/lindenview/internal/explain"
	"github.com/hyperjump/lindenview/internal/models"
	"github.com/hyperjump/lindenview/internal/schema"
	"github.com/hyperjump/lindenview/internal/server"
	"github.com/hyperjump/lindenview/internal/table"
	"github.com/hyperjump/lindenview/internal/watcher"
	"github.com/hyperjump/lindenview/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/lindenview/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// loadConfigOrDefault is loadConfig for one-shot commands: a missing default
// config yields built-in defaults, while an explicit path must load.
func loadConfigOrDefault(path string) (*config.Config, string, error) {
	cfg, resolved, err := loadConfig(path)
	if err == nil {
		return cfg, resolved, nil
	}
	if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
		return cfg, "", nil
	}
	return nil, "", err
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "render":
		runRender()
	case "explain":
		runExplain()
	case "local":
		runLocal()
	case "version", "--version", "-v":
		fmt.Printf("lindenview version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// resolveFields picks the schema field list: an explicit -fields list wins,
// then a -schema service config file, then the config's schema section.
func resolveFields(cfg *config.Config, schemaPath, fieldsFlag string) ([]string, error) {
	if fields := models.ParseFieldList(fieldsFlag); len(fields) > 0 {
		return fields, nil
	}
	if schemaPath == "" {
		schemaPath = cfg.Schema.ConfigPath
	}
	if schemaPath != "" {
		return schema.LoadFile(schemaPath)
	}
	return append([]string(nil), cfg.Schema.Fields...), nil
}

// resolveDepthCap applies a non-zero -depth flag over the configured cap and
// normalizes the result the same way the HTTP API does.
func resolveDepthCap(configured, flagDepth int) (int, error) {
	opts := &models.RenderOptions{DepthCap: configured}
	if flagDepth != 0 {
		opts.DepthCap = flagDepth
	}
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	return opts.DepthCap, nil
}

// argsReorder moves any flags (and their values) that appear after the first
// positional argument to the front so that flag.Parse() sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 1 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// openInput opens name for reading; "-" or "" means stdin.
func openInput(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func decodeSearchResult(r io.Reader) (*models.SearchResult, error) {
	var res models.SearchResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return &res, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	fields, err := resolveFields(cfg, "", "")
	if err != nil {
		logger.Fatal("Failed to load schema", zap.Error(err))
	}
	store := schema.NewStore(fields)
	logger.Info("schema loaded", zap.Strings("fields", fields))

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Schema.ConfigPath != "" && cfg.Schema.WatchOrDefault() {
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		schemaWatch := watcher.NewWatcher([]string{cfg.Schema.ConfigPath}, func(path string) {
			if err := store.Reload(path); err != nil {
				logger.Warn("schema reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			logger.Info("schema reloaded", zap.String("path", path), zap.Strings("fields", store.Fields()))
		}, watchOpts...)
		if err := schemaWatch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start schema watcher", zap.Error(err))
		}
		defer schemaWatch.Stop()
		logger.Info("schema watcher started", zap.Strings("files", schemaWatch.Files()))
	}

	srv := server.NewServer(store, &cfg.Server, cfg.Explain.DepthCap, logger, resolvedConfigPath, cfg)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// renderFlags are shared by render and local.
type renderFlags struct {
	configPath *string
	schemaPath *string
	fields     *string
	output     *string
	xlsxPath   *string
	depth      *int
	extras     *bool
	debug      *bool
}

func addRenderFlags(fs *flag.FlagSet) *renderFlags {
	return &renderFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path"),
		schemaPath: fs.String("schema", "", "service configuration JSON holding schema.fields (overrides config)"),
		fields:     fs.String("fields", "", "comma-separated schema fields (overrides -schema and config)"),
		output:     fs.String("output", "", "output format: text, compact, or json (default from config)"),
		xlsxPath:   fs.String("xlsx", "", "also write the table to this XLSX file"),
		depth:      fs.Int("depth", 0, "explanation depth cap (default from config)"),
		extras:     fs.Bool("extras", true, "print facet and aggregation results in text output"),
		debug:      fs.Bool("debug", false, "enable debug logging"),
	}
}

// renderResult builds and writes the table for res according to flags.
func renderResult(res *models.SearchResult, f *renderFlags, stdout io.Writer) error {
	cfg, _, err := loadConfigOrDefault(*f.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewCLILogger(cfg.Debug || *f.debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	formatName := *f.output
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := cli.ParseOutputFormat(formatName)
	if err != nil {
		return err
	}
	depthCap, err := resolveDepthCap(cfg.Explain.DepthCap, *f.depth)
	if err != nil {
		return err
	}
	fields, err := resolveFields(cfg, *f.schemaPath, *f.fields)
	if err != nil {
		return err
	}
	summarizer := explain.NewSummarizer(depthCap)
	logger.Debug("rendering", zap.Int("hits", len(res.Hits)), zap.Strings("fields", fields), zap.Int("depth_cap", summarizer.DepthCap()))

	tbl, buildErr := table.NewBuilder(table.WithSummarizer(summarizer)).Build(res.Hits, fields)
	if buildErr != nil {
		logger.Warn("some hits were rendered with placeholders", zap.Error(buildErr))
	}
	if err := cli.WriteTable(stdout, tbl, format); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if format == cli.OutputText && *f.extras {
		cli.WriteResponseExtras(stdout, res)
	}
	if *f.xlsxPath != "" {
		out, err := os.Create(*f.xlsxPath)
		if err != nil {
			return fmt.Errorf("create workbook: %w", err)
		}
		if err := cli.WriteWorkbook(out, tbl, cfg.Output.Sheet); err != nil {
			_ = out.Close()
			return fmt.Errorf("write workbook: %w", err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		logger.Info("workbook written", zap.String("path", *f.xlsxPath))
	}
	return nil
}

func runRender() {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	flags := addRenderFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lindenview render [flags] <response.json|->\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	in, err := openInput(fs.Arg(0), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	res, err := decodeSearchResult(in)
	_ = in.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	if err := renderResult(res, flags, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
}

func runExplain() {
	fs := flag.NewFlagSet("explain", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	depth := fs.Int("depth", 0, "explanation depth cap (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lindenview explain [flags] <explanation.json|->\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	cfg, _, err := loadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	depthCap, err := resolveDepthCap(cfg.Explain.DepthCap, *depth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Explain failed: %v\n", err)
		os.Exit(1)
	}
	in, err := openInput(fs.Arg(0), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Explain failed: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()
	var root models.ExplanationNode
	if err := json.NewDecoder(in).Decode(&root); err != nil {
		fmt.Fprintf(os.Stderr, "Explain failed: decode explanation: %v\n", err)
		os.Exit(1)
	}
	summary, err := explain.Summarize(&root, depthCap)
	cli.WriteExplanation(os.Stdout, summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func runLocal() {
	fs := flag.NewFlagSet("local", flag.ExitOnError)
	indexPath := fs.String("index", "", "path to a Bleve index")
	limit := fs.Int("limit", 10, "number of hits")
	flags := addRenderFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lindenview local -index <path> [flags] <query>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if *indexPath == "" || query == "" {
		fs.Usage()
		os.Exit(1)
	}
	index, err := blevehits.Open(*indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Local search failed: %v\n", err)
		os.Exit(1)
	}
	defer index.Close()
	res, err := blevehits.Search(context.Background(), index, query, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Local search failed: %v\n", err)
		os.Exit(1)
	}
	if err := renderResult(res, flags, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`lindenview - render Linden search responses as tables and score explanations

Usage:
  lindenview server  [-config path] [-debug]
  lindenview render  [flags] <response.json|->
  lindenview explain [-depth N] <explanation.json|->
  lindenview local   -index <bleve path> [flags] <query>
  lindenview version
  lindenview help

Render flags:
  -schema file   service configuration JSON with schema.fields
  -fields a,b    schema fields to show as columns
  -output fmt    text, compact, or json
  -xlsx file     also write an XLSX workbook
  -depth N       explanation depth cap (default 3)

Examples:
  curl -s 'http://linden:8080/search?bql=select+*+from+linden+explain' | lindenview render -fields title,rank -
  lindenview render -output json response.json
  lindenview local -index ./data/bleve -fields title red apple
`)
}
