// ABOUTME: CLI for agentnet discovery and zone-gateway operations
// ABOUTME: Resolves handles, searches capabilities, routes messages, lists audits

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/agentmcp/agentnet/internal/audit"
	"github.com/agentmcp/agentnet/internal/config"
	"github.com/agentmcp/agentnet/internal/gateway"
	"github.com/agentmcp/agentnet/internal/handle"
	"github.com/agentmcp/agentnet/internal/registry"
	"github.com/agentmcp/agentnet/internal/resolver"
	"github.com/agentmcp/agentnet/internal/zone"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the agentnet config file.
// Priority: AGENTNET_CONFIG env var > XDG_CONFIG_HOME/agentnet/agentnet.yaml > ~/.config/agentnet/agentnet.yaml
func getConfigPath() string {
	if envPath := os.Getenv("AGENTNET_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "agentnet.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "agentnet", "agentnet.yaml")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "resolve":
		err = cmdResolve(args)
	case "connect":
		err = cmdConnect(args)
	case "find":
		err = cmdFind(args)
	case "neighbors":
		err = cmdNeighbors(args)
	case "register":
		err = cmdRegister(args)
	case "route":
		err = cmdRoute(args)
	case "audit":
		err = cmdAudit(args)
	case "version":
		fmt.Println("agentnet", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: agentnet <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  resolve <handle>              Resolve a handle to its record")
	fmt.Println("  connect <handle>              Resolve a handle to its endpoint URL")
	fmt.Println("  find <query>                  Search agents by capability")
	fmt.Println("  neighbors <handle>            Discover related agents")
	fmt.Println("  register <handle> <host>      Register an agent record")
	fmt.Println("  route --from A --to B --zone Z '<json>'")
	fmt.Println("                                Route a payload through the gateway")
	fmt.Println("  audit                         List recent audit entries")
	fmt.Println("  version                       Print version")
}

// loadConfig reads the config file if present, falling back to defaults so
// the CLI works without any setup.
func loadConfig() *config.Config {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		cfg = &config.Config{
			Gateway: config.GatewayConfig{Organization: "default"},
		}
	}
	slog.SetDefault(setupLogger(cfg.Logging))
	return cfg
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// buildResolver constructs a resolver from config, seeded from the record
// store when one is configured.
func buildResolver(ctx context.Context, cfg *config.Config) (*resolver.Resolver, error) {
	r := resolver.New(resolver.Options{
		RegistryURL:  cfg.Resolver.RegistryURL,
		CacheTTL:     cfg.Resolver.CacheTTL,
		DisableCache: !cfg.Resolver.CacheEnabled(),
	})

	if cfg.Database.RegistryPath != "" {
		store, err := registry.NewStore(cfg.Database.RegistryPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		if err := r.SeedFromStore(ctx, store); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// buildGateway constructs a gateway from config with a SQLite audit sink
// when one is configured.
func buildGateway(cfg *config.Config) (*gateway.Gateway, *audit.SQLiteSink, error) {
	var sink audit.Sink
	var sqliteSink *audit.SQLiteSink
	if cfg.Database.AuditPath != "" {
		s, err := audit.NewSQLiteSink(cfg.Database.AuditPath)
		if err != nil {
			return nil, nil, err
		}
		sink = s
		sqliteSink = s
	}

	gw := gateway.New(cfg.Gateway.Organization, sink, slog.Default().With("component", "gateway"))
	for level, c := range cfg.ClassificationRules() {
		gw.SetClassificationRule(level, c)
	}
	if len(cfg.Gateway.SensitivePatterns) > 0 {
		gw.SetSensitivePatterns(cfg.Gateway.SensitivePatterns)
	}
	return gw, sqliteSink, nil
}

func cmdResolve(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: agentnet resolve <handle>")
	}
	ctx := context.Background()

	r, err := buildResolver(ctx, loadConfig())
	if err != nil {
		return err
	}

	rec, ok := r.Resolve(ctx, args[0])
	if !ok {
		return fmt.Errorf("%w: %s", resolver.ErrAgentNotFound, args[0])
	}

	color.Green("%s", rec.Handle)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  endpoint:\t%s\n", rec.Endpoint.URL())
	fmt.Fprintf(w, "  tags:\t%s\n", strings.Join(rec.Capabilities.Tags, ", "))
	fmt.Fprintf(w, "  languages:\t%s\n", strings.Join(rec.Capabilities.Languages, ", "))
	fmt.Fprintf(w, "  description:\t%s\n", rec.Description)
	fmt.Fprintf(w, "  ttl:\t%ds\n", rec.TTL)
	return w.Flush()
}

func cmdConnect(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: agentnet connect <handle>")
	}
	ctx := context.Background()

	r, err := buildResolver(ctx, loadConfig())
	if err != nil {
		return err
	}

	url, err := r.Connect(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}

func cmdFind(args []string) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: agentnet find [--limit N] <query>")
	}
	ctx := context.Background()

	r, err := buildResolver(ctx, loadConfig())
	if err != nil {
		return err
	}

	results := r.Find(strings.Join(fs.Args(), " "), *limit, handle.ScopeGlobal)
	if len(results) == 0 {
		color.Yellow("No agents matched")
		return nil
	}
	return printRecords(results)
}

func cmdNeighbors(args []string) error {
	fs := flag.NewFlagSet("neighbors", flag.ContinueOnError)
	limit := fs.Int("limit", 5, "maximum results")
	sameOrg := fs.Bool("same-org", true, "include agents from the same organization")
	sameCap := fs.Bool("same-capability", true, "include agents with overlapping tags")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: agentnet neighbors [flags] <handle>")
	}
	ctx := context.Background()

	r, err := buildResolver(ctx, loadConfig())
	if err != nil {
		return err
	}

	results := r.DiscoverNeighbors(ctx, fs.Arg(0), *sameOrg, *sameCap, *limit)
	if len(results) == 0 {
		color.Yellow("No neighbors found")
		return nil
	}
	return printRecords(results)
}

func cmdRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	transport := fs.String("transport", handle.TransportHTTPS, "endpoint transport")
	port := fs.Int("port", handle.DefaultPort, "endpoint port")
	path := fs.String("path", "", "endpoint path")
	tags := fs.String("tags", "", "comma-separated capability tags")
	description := fs.String("description", "", "agent description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: agentnet register [flags] <handle> <host>")
	}

	cfg := loadConfig()
	if cfg.Database.RegistryPath == "" {
		return fmt.Errorf("database.registry_path must be configured to register agents")
	}

	store, err := registry.NewStore(cfg.Database.RegistryPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rec := handle.NewRecord(
		handle.Parse(fs.Arg(0)),
		handle.Endpoint{Transport: *transport, Host: fs.Arg(1), Port: *port, Path: *path},
		handle.Capabilities{Tags: splitList(*tags)},
	)
	rec.Description = *description

	if err := store.Put(context.Background(), rec); err != nil {
		return err
	}
	color.Green("Registered %s (%s)", rec.Handle, rec.Handle.FlatID())
	return nil
}

func cmdRoute(args []string) error {
	fs := flag.NewFlagSet("route", flag.ContinueOnError)
	from := fs.String("from", "", "sending agent ID")
	to := fs.String("to", "", "destination agent handle")
	zoneName := fs.String("zone", string(zone.Internet), "target zone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" || *to == "" || fs.NArg() < 1 {
		return fmt.Errorf("usage: agentnet route --from A --to B [--zone Z] '<json>'")
	}

	toZone, ok := zone.ParseZone(*zoneName)
	if !ok {
		return fmt.Errorf("unknown zone %q", *zoneName)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(fs.Arg(0)), &payload); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	gw, sink, err := buildGateway(loadConfig())
	if err != nil {
		return err
	}
	if sink != nil {
		defer func() { _ = sink.Close() }()
	}

	result, err := gw.RouteMessage(context.Background(), *from, *to, payload, toZone)
	switch {
	case errors.Is(err, gateway.ErrPermissionDenied):
		return fmt.Errorf("denied: %w", err)
	case errors.Is(err, gateway.ErrBlocked):
		return fmt.Errorf("blocked: %w", err)
	case err != nil:
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func cmdAudit(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	action := fs.String("action", "", "filter by action")
	limit := fs.Int("limit", 20, "maximum entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig()
	if cfg.Database.AuditPath == "" {
		return fmt.Errorf("database.audit_path must be configured to list audits")
	}

	sink, err := audit.NewSQLiteSink(cfg.Database.AuditPath)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	entries, err := sink.List(context.Background(), audit.Filter{Action: *action, Limit: *limit})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tACTION\tORG\tDETAILS")
	for _, e := range entries {
		details, _ := json.Marshal(e.Details)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Action,
			e.Organization,
			string(details),
		)
	}
	return w.Flush()
}

func printRecords(records []handle.Record) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HANDLE\tENDPOINT\tTAGS\tDESCRIPTION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.Handle,
			rec.Endpoint.URL(),
			strings.Join(rec.Capabilities.Tags, ","),
			rec.Description,
		)
	}
	return w.Flush()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
