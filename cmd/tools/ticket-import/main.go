// cmd/tools/ticket-import/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"ticket-workers/internal/common/config"
	"ticket-workers/internal/common/database"
	"ticket-workers/internal/common/logger"
	"ticket-workers/internal/ticket/classify"
	"ticket-workers/internal/ticket/importer"
	"ticket-workers/internal/ticket/parser"
	"ticket-workers/internal/ticket/service"
	"ticket-workers/internal/ticket/store"
	"ticket-workers/internal/ticket/validate"
	"ticket-workers/pkg/registry"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			help()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "classify":
		return runClassify(args[1:], out)
	case "validate-keywords":
		return runValidateKeywords(args[1:], out)
	case "import":
		return runImport(args[1:], out)
	case "reclassify":
		return runReclassify(args[1:], out)
	case "history":
		return runHistory(args[1:], out)
	case "search":
		return runSearch(args[1:], out)
	default:
		return errUsage
	}
}

// runClassify runs the engine on ad-hoc text; nothing is stored.
func runClassify(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("classify", flag.ContinueOnError)
	subject := cmd.String("subject", "", "Ticket subject")
	description := cmd.String("description", "", "Ticket description")
	keywords := cmd.String("keywords", "", "Keyword registry JSON (default: built-in table)")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *subject == "" && *description == "" {
		return fmt.Errorf("subject or description is required for classify")
	}

	table, err := registry.LoadKeywordTable(*keywords)
	if err != nil {
		return err
	}
	return printJSON(out, classify.NewEngine(table).Classify(*subject, *description))
}

func runValidateKeywords(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("validate-keywords", flag.ContinueOnError)
	path := cmd.String("path", "configs/keywords.json", "Path to keyword registry file")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadKeywordRegistry(*path)
	if err != nil {
		return err
	}
	table, err := reg.Table()
	if err != nil {
		return fmt.Errorf("%s: %w", *path, err)
	}
	fmt.Fprintf(out, "Keyword registry %s is valid (version %s): %d categories, %d priorities\n",
		*path, reg.Version, len(table.Categories), len(table.Priorities))
	return nil
}

func runImport(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("import", flag.ContinueOnError)
	file := cmd.String("file", "", "File to import")
	format := cmd.String("format", "", "csv, json or xml (default: file extension)")
	autoClassify := cmd.Bool("auto-classify", false, "Classify tickets that arrive without category or priority")
	configPath := cmd.String("config", "", "Config file (default: configs/config.yaml)")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("file is required for import")
	}

	env, err := newEnvironment(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	content, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	if limit := env.cfg.Import.MaxFileBytes; limit > 0 && len(content) > limit {
		return fmt.Errorf("%s is %d bytes, limit is %d", *file, len(content), limit)
	}
	if *format == "" {
		*format = parser.FormatFromFileName(*file)
	}

	orchestrator := importer.NewOrchestrator(parser.DefaultRegistry(), validate.NewTicketValidator(), env.tickets, env.log)
	summary := orchestrator.Import(context.Background(), content, *format, *autoClassify || env.cfg.Import.DefaultAutoClassify)
	return printJSON(out, summary)
}

func runReclassify(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("reclassify", flag.ContinueOnError)
	id := cmd.String("id", "", "Ticket ID")
	configPath := cmd.String("config", "", "Config file")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("id is required for reclassify")
	}

	env, err := newEnvironment(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	result, err := env.tickets.Classify(context.Background(), *id)
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

func runHistory(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("history", flag.ContinueOnError)
	id := cmd.String("id", "", "Ticket ID")
	configPath := cmd.String("config", "", "Config file")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("id is required for history")
	}

	env, err := newEnvironment(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	entries, err := env.tickets.ClassificationHistory(context.Background(), *id)
	if err != nil {
		return err
	}
	return printJSON(out, entries)
}

func runSearch(args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("search", flag.ContinueOnError)
	query := cmd.String("q", "", "Full-text query")
	size := cmd.Int("size", 10, "Maximum number of tickets")
	configPath := cmd.String("config", "", "Config file")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return fmt.Errorf("q is required for search")
	}

	env, err := newEnvironment(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	tickets, err := env.tickets.Search(context.Background(), *query, *size)
	if err != nil {
		return err
	}
	return printJSON(out, tickets)
}

// environment holds the stores a subcommand needs beyond the engine.
type environment struct {
	cfg     *config.Config
	log     logger.Logger
	tickets *service.Service
	closers []func() error
}

func newEnvironment(configPath string) (*environment, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	log := logger.NewStructured(logger.Options{Level: cfg.Logging.Level, Format: "console", Output: "stderr"})
	env := &environment{cfg: cfg, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	env.closers = append(env.closers, pg.Close)
	if err := pg.Ping(ctx); err != nil {
		env.close()
		return nil, err
	}
	if cfg.Database.Postgres.AutoMigrate {
		if err := store.Migrate(ctx, pg.DB); err != nil {
			env.close()
			return nil, err
		}
	}

	var opts []service.Option
	if cfg.Cache.Enabled {
		rc := database.NewRedis(cfg.Database.Redis)
		env.closers = append(env.closers, rc.Close)
		opts = append(opts, service.WithCache(store.NewTicketCache(rc.Client, time.Duration(cfg.Cache.TicketTTL)*time.Second)))
	}
	if cfg.Search.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			env.close()
			return nil, err
		}
		opts = append(opts, service.WithSearch(store.NewSearchIndexer(es.Client, cfg.Search.Index)))
	}

	table, err := registry.LoadKeywordTable(cfg.Classification.KeywordsPath)
	if err != nil {
		env.close()
		return nil, err
	}

	env.tickets = service.New(
		store.NewTicketRepository(pg.DB),
		store.NewClassificationLogRepository(pg.DB),
		classify.NewEngine(table),
		log,
		opts...,
	)
	return env, nil
}

func (e *environment) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func help() {
	fmt.Println("Usage: ticket-import <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  import             -file <path> [-format csv|json|xml] [-auto-classify] [-config <path>]")
	fmt.Println("  classify           -subject <text> -description <text> [-keywords <path>]")
	fmt.Println("  reclassify         -id <ticketId> [-config <path>]")
	fmt.Println("  history            -id <ticketId> [-config <path>]")
	fmt.Println("  search             -q <text> [-size n] [-config <path>]")
	fmt.Println("  validate-keywords  [-path configs/keywords.json]")
}
