package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nick-dorsch/taskboard/internal/board"
	"github.com/nick-dorsch/taskboard/internal/mcp"
	"github.com/nick-dorsch/taskboard/internal/server"
	"github.com/nick-dorsch/taskboard/internal/storage"
	"github.com/nick-dorsch/taskboard/internal/ui"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

const version = "0.1.0"

var (
	configPath string
	storeKind  string
	dbPath     string
	dataDir    string
	verbose    bool

	// settings is the resolved configuration used by every command.
	settings = defaultConfig()
)

func main() {
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to config file")
	flag.StringVar(&storeKind, "store", defaultStore, "Storage backend (sqlite, file, memory)")
	flag.StringVar(&dbPath, "db-path", filepath.Join(defaultDir, "taskboard.db"), "Path to SQLite database file")
	flag.StringVar(&dataDir, "data-dir", filepath.Join(defaultDir, "data"), "Directory for the file store")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if err := resolveSettings(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging()

	var command string
	var args []string

	if flag.NArg() == 0 {
		selected, err := ui.RunMenu()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if selected == "" {
			os.Exit(0)
		}
		command = selected
		args = []string{}
	} else {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	if err := run(command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	switch command {
	case "init":
		return runInit(args)
	case "web":
		return runWeb(args)
	case "tui":
		return runTUI(args)
	case "mcp":
		return runMCP(args)
	case "add":
		return runAdd(args)
	case "list":
		return runList(args)
	case "toggle":
		return runToggle(args)
	case "rm":
		return runRemove(args)
	case "stats":
		return runStats(args)
	case "export":
		return runExport(args)
	case "import":
		return runImport(args)
	case "version":
		fmt.Printf("taskboard %s\n", version)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// resolveSettings loads the config file and lets explicitly set flags win.
func resolveSettings() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store = storeKind
		case "db-path":
			cfg.DBPath = dbPath
		case "data-dir":
			cfg.DataDir = dataDir
		}
	})
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.validate(); err != nil {
		return err
	}
	settings = cfg
	return nil
}

func setupLogging() {
	level, _ := parseLevel(settings.LogLevel)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// openStore returns the KV selected by settings and a function releasing it.
func openStore(ctx context.Context) (storage.KV, func(), error) {
	switch settings.Store {
	case "memory":
		return storage.NewMemoryKV(), func() {}, nil
	case "file":
		return storage.NewFileKV(settings.DataDir), func() {}, nil
	default:
		kv, err := storage.OpenSQLite(ctx, settings.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { kv.Close() }, nil
	}
}

func openBoard(ctx context.Context) (*board.Board, *storage.Adapter, func(), error) {
	kv, closeStore, err := openStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := slog.Default()
	adapter := storage.NewAdapter(kv, settings.StorageKey, logger)
	return board.New(ctx, adapter, board.WithLogger(logger)), adapter, closeStore, nil
}

func runInit(args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	boardDir := filepath.Join(targetDir, defaultDir)
	if err := os.MkdirAll(boardDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", defaultDir, err)
	}
	fmt.Printf("✓ Created %s/ directory\n", defaultDir)

	gitignorePath := filepath.Join(boardDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("*.db*\ndata/\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Printf("✓ Created %s/.gitignore\n", defaultDir)

	cfgPath := filepath.Join(boardDir, "config.yaml")
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		cfg := defaultConfig()
		cfg.DBPath = filepath.Join(boardDir, "taskboard.db")
		cfg.DataDir = filepath.Join(boardDir, "data")
		if err := writeDefaultConfig(cfgPath, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", cfgPath)
	}

	if settings.Store == "sqlite" {
		finalDBPath := settings.DBPath
		if finalDBPath == filepath.Join(defaultDir, "taskboard.db") {
			finalDBPath = filepath.Join(boardDir, "taskboard.db")
		}
		kv, err := storage.OpenSQLite(context.Background(), finalDBPath)
		if err != nil {
			return err
		}
		kv.Close()
		fmt.Printf("✓ Initialized database at %s\n", finalDBPath)
	}

	fmt.Println("✓ TaskBoard initialized successfully")
	return nil
}

func runWeb(args []string) error {
	webFlags := flag.NewFlagSet("web", flag.ContinueOnError)
	port := webFlags.String("port", settings.Port, "Port to listen on")
	if err := webFlags.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, _, closeStore, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.NewServer(b, slog.Default())
	fmt.Printf("TaskBoard running at http://localhost:%s\n", *port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Start(fmt.Sprintf(":%s", *port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runTUI(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, _, closeStore, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	return ui.RunBoard(ctx, b)
}

func runMCP(args []string) error {
	b, _, closeStore, err := openBoard(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	return mcp.Serve(mcp.NewServer(b, version))
}

func runAdd(args []string) error {
	b, _, closeStore, err := openBoard(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	t, ok := b.Add(context.Background(), strings.Join(args, " "))
	if !ok {
		fmt.Println("Nothing added: task text is blank")
		return nil
	}
	fmt.Printf("✓ Added %s %s\n", t.ID, t.Text)
	return nil
}

func runList(args []string) error {
	listFlags := flag.NewFlagSet("list", flag.ContinueOnError)
	filter := listFlags.String("filter", "all", "Filter by state (all, active, completed)")
	if err := listFlags.Parse(args); err != nil {
		return err
	}

	b, _, closeStore, err := openBoard(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	mode := models.ParseFilterMode(*filter)
	tasks := board.Filter(b.Tasks(), mode)
	if len(tasks) == 0 {
		fmt.Println(board.EmptyMessage(mode))
		return nil
	}

	fmt.Printf("%-38s %-6s %-20s %s\n", "ID", "DONE", "CREATED", "TEXT")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Printf("%-38s [%s]    %-20s %s\n", t.ID, done, t.CreatedAt.Local().Format("2006-01-02 15:04"), t.Text)
	}
	return nil
}

func runToggle(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskboard toggle <id>")
	}

	b, _, closeStore, err := openBoard(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	id := models.TaskID(args[0])
	if !b.Toggle(context.Background(), id) {
		fmt.Printf("No task with id %s\n", id)
		return nil
	}
	state := "active"
	if b.Get(id).Completed {
		state = "completed"
	}
	fmt.Printf("✓ Marked %s %s\n", id, state)
	return nil
}

func runRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskboard rm <id>")
	}

	b, _, closeStore, err := openBoard(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	id := models.TaskID(args[0])
	if !b.Remove(context.Background(), id) {
		fmt.Printf("No task with id %s\n", id)
		return nil
	}
	fmt.Printf("✓ Removed %s\n", id)
	return nil
}

func runStats(args []string) error {
	b, _, closeStore, err := openBoard(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	stats := board.ComputeStats(b.Tasks())
	fmt.Println("TaskBoard Status")
	fmt.Println("================")
	fmt.Printf("Total:     %d\n", stats.Total)
	fmt.Printf("Active:    %d\n", stats.Active)
	fmt.Printf("Completed: %d\n", stats.Completed)
	if msg := board.CompletionMessage(stats); msg != "" {
		fmt.Printf("\n%s\n", msg)
	}
	return nil
}

func runExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskboard export <path>")
	}

	_, adapter, closeStore, err := openBoard(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := adapter.Export(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("✓ Exported %d tasks to %s\n", n, args[0])
	return nil
}

func runImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskboard import <path>")
	}

	kv, closeStore, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer closeStore()

	adapter := storage.NewAdapter(kv, settings.StorageKey, slog.Default())
	n, err := adapter.Import(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("✓ Imported %d tasks from %s\n", n, args[0])
	return nil
}
