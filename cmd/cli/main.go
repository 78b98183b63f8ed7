package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/featureflags"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/logger"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/openfarm"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
	"github.com/scottkoskoski/gardening-app/internal/repository"
	"github.com/scottkoskoski/gardening-app/internal/security/auth"
	"github.com/scottkoskoski/gardening-app/internal/service"
	"github.com/scottkoskoski/gardening-app/internal/validation"
	"github.com/scottkoskoski/gardening-app/pkg/config"
	"github.com/scottkoskoski/gardening-app/pkg/database"
)

// env is what every command needs once the database is open.
type env struct {
	cfg   *config.Config
	log   *slog.Logger
	pool  *database.ConnectionPool
	store domain.Store
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := open(ctx)
	if err != nil {
		fail(err)
	}
	defer e.pool.Close()

	switch command {
	case "migrate":
		err = runMigrate(ctx, e, args)
	case "seed-garden-types":
		err = seedGardenTypes(ctx, e)
	case "list-garden-types":
		err = listGardenTypes(ctx, e)
	case "create-test-users":
		err = createTestUsers(ctx, e)
	case "import-plants":
		err = importPlants(ctx, e, args)
	case "users":
		err = handleUsers(ctx, e, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fail(err)
	}
}

func open(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Backend != "postgres" {
		return nil, fmt.Errorf("the CLI needs GARDEN_DB_BACKEND=postgres, got %q", cfg.Database.Backend)
	}
	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)

	pool, err := database.NewConnectionPool(ctx, &database.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool, store: repository.NewPostgresStore(pool.GetDB(), log)}, nil
}

func runMigrate(ctx context.Context, e *env, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: gardenctl migrate <up|down|status>")
		return nil
	}
	return database.Migrate(ctx, e.pool.GetDB(), args[0])
}

func seedGardenTypes(ctx context.Context, e *env) error {
	n, err := service.NewGardenTypeService(e.store, e.log).Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Garden types seeded (%d inserted)\n", n)
	return nil
}

func listGardenTypes(ctx context.Context, e *env) error {
	types, err := service.NewGardenTypeService(e.store, e.log).List(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		fmt.Println("No garden types found. Run seed-garden-types first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSOIL\tSPACE\tMAINTENANCE")
	for _, gt := range types {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			gt.ID, domain.GardenTypeNames.Wire(gt.Name), gt.IdealSoilType, gt.SpaceRequirements, gt.MaintenanceLevel)
	}
	return w.Flush()
}

func authService(e *env) *service.AuthService {
	tokens := auth.NewTokenManager(e.cfg.Auth.JWTSecret, e.cfg.Auth.JWTIssuer, e.cfg.Auth.TokenTTL)
	return service.NewAuthService(e.store, tokens, validation.New(time.Now), e.log)
}

func createTestUsers(ctx context.Context, e *env) error {
	created, err := service.SeedTestUsers(ctx, authService(e), e.store, service.DefaultTestUsers, e.log)
	for _, u := range created {
		fmt.Printf("✓ Created %s (id %d, admin=%t)\n", u.Username, u.ID, u.IsAdmin)
	}
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Println("Test users already exist")
	}
	return nil
}

func importPlants(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("import-plants", flag.ExitOnError)
	names := fs.String("names", "", "comma-separated crop names (default: built-in list)")
	letters := fs.Bool("letters", false, "search A..Z instead of names")
	dryRun := fs.Bool("dry-run", false, "fetch and report without committing")
	fs.Parse(args)

	opts := service.ImportOptions{Letters: *letters, DryRun: *dryRun}
	if *names != "" {
		opts.Names = strings.Split(*names, ",")
	}

	up := upstream.New("openfarm", upstream.Options{Timeout: e.cfg.Upstreams.Timeout}, e.log)
	catalog := openfarm.NewClient(e.cfg.Upstreams.OpenFarmBaseURL, up, e.log)
	importer := service.NewCatalogImporter(e.store, catalog, featureflags.New(nil), e.log)

	report, runErr := importer.Run(ctx, opts)
	if report != nil {
		fmt.Println(report.String())
		for _, msg := range report.Errors {
			fmt.Printf("  error: %s\n", msg)
		}
		switch {
		case report.DryRun:
			fmt.Println("Dry run: nothing committed")
		case report.Committed:
			fmt.Println("✓ Import committed")
		}
	}
	return runErr
}

func handleUsers(ctx context.Context, e *env, args []string) error {
	if len(args) < 1 || args[0] != "inactive" {
		fmt.Println("Usage: gardenctl users inactive [-days N]")
		return nil
	}
	fs := flag.NewFlagSet("inactive", flag.ExitOnError)
	days := fs.Int("days", e.cfg.Auth.InactiveDays, "days since last login")
	fs.Parse(args[1:])

	users, err := authService(e).ListInactive(ctx, *days)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Printf("No users inactive for %d days\n", *days)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tLAST LOGIN")
	for _, u := range users {
		last := "never"
		if u.LastLoginAt != nil {
			last = u.LastLoginAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, last)
	}
	return w.Flush()
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`Gardening operator CLI

Usage:
  gardenctl <command> [options]

Commands:
  migrate <up|down|status>   Apply, roll back or show database migrations
  seed-garden-types          Insert the standard garden types (idempotent)
  list-garden-types          Print the garden types table
  create-test-users          Create the gardener and admin development accounts
  import-plants              Import crops from OpenFarm [-names a,b] [-letters] [-dry-run]
  users inactive             List users without a recent login [-days N]
  help                       Show this help message

Environment Variables:
  GARDEN_DATABASE_URL        Postgres connection string
  GARDEN_OPENFARM_BASE_URL   Catalog endpoint (default: https://openfarm.cc)
  FLAG_CATALOG_DRY_RUN       Force import-plants to roll back

Examples:
  gardenctl migrate up
  gardenctl import-plants -names Tomato,Basil -dry-run
  gardenctl users inactive -days 60
`)
}
