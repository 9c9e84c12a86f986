// Command vendorctl drives the vendor dashboard from a terminal: it signs in,
// loads the dashboard bootstrap, then lists or duplicates admin products.
//
//	vendorctl -api http://localhost:8080/api/v1 -user vendor1 list 2
//	vendorctl -api http://localhost:8080/api/v1 -user vendor1 duplicate 42
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coursebridge/backend/internal/client"
	"github.com/coursebridge/backend/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("CB_API_URL", "http://localhost:8080/api/v1"), "API base URL")
	username := flag.String("user", os.Getenv("CB_USERNAME"), "vendor username")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *apiURL, *username, *yes, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, apiURL, username string, yes bool, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vendorctl [flags] list [page] | duplicate <product-id>")
	}
	if username == "" {
		return fmt.Errorf("-user is required")
	}
	password := os.Getenv("CB_PASSWORD")
	if password == "" {
		return fmt.Errorf("CB_PASSWORD must be set")
	}

	session, err := client.NewSession(apiURL)
	if err != nil {
		return err
	}
	if err := session.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cfg, err := session.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("dashboard bootstrap failed: %w", err)
	}

	term := &terminal{in: bufio.NewReader(os.Stdin), yes: yes}
	ctrl := client.NewController(cfg, client.Dependencies{
		Confirmer: term,
		Notifier:  term,
		Rows:      term,
		List:      term,
		Logger:    log,
	})
	if err := ctrl.Init(); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		page := 1
		if len(args) > 1 {
			page, _ = strconv.Atoi(args[1])
		}
		_, err = ctrl.ClickPage(ctx, page)
	case "duplicate":
		if len(args) < 2 {
			return fmt.Errorf("duplicate needs a product id")
		}
		id, perr := strconv.ParseInt(args[1], 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		_, err = ctrl.ClickDuplicate(ctx, id)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return err
}

// terminal hosts the dashboard controller on stdin/stdout
type terminal struct {
	in  *bufio.Reader
	yes bool
}

func (t *terminal) Confirm(_ context.Context, productID int64) bool {
	if t.yes {
		return true
	}
	fmt.Printf("Duplicate product #%d into your catalog? [y/N] ", productID)
	answer, _ := t.in.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (t *terminal) Success(message string) { fmt.Println(message) }

func (t *terminal) Error(message string) { fmt.Fprintln(os.Stderr, message) }

func (t *terminal) SetBusy(productID int64, busy bool) {
	if busy {
		fmt.Printf("Duplicating #%d...\n", productID)
	}
}

func (t *terminal) MarkDuplicated(productID, newProductID int64) {
	fmt.Printf("#%d: already duplicated (your copy is #%d)\n", productID, newProductID)
}

func (t *terminal) Render(page *client.ListPage) {
	fmt.Printf("Page %d of %d\n", page.Page, page.TotalPages)
	fmt.Println(page.ListingMarkup)
	if page.PaginationMarkup != "" {
		fmt.Println(page.PaginationMarkup)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
