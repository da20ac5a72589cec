// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/pkg/logger"
)

// SeederState tracks rows already created so reruns skip them
type SeederState struct {
	Created    []string  `json:"created"`
	LastUpdate time.Time `json:"last_update"`
}

func (s *SeederState) has(key string) bool {
	for _, k := range s.Created {
		if k == key {
			return true
		}
	}
	return false
}

func main() {
	var (
		seedFile   = flag.String("file", "", "Excel file with items to create (generates samples when empty)")
		samples    = flag.Int("samples", 30, "Number of sample items to generate without -file")
		backendURL = flag.String("backend", getEnv("BACKEND_BASE_URL", "http://localhost:8080/api"), "Inventory backend base URL")
		username   = flag.String("username", getEnv("SEEDER_USERNAME", "admin"), "Backend account used for seeding")
		stateFile  = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun     = flag.Bool("dry-run", false, "Preview items without calling the backend")
		force      = flag.Bool("force", false, "Ignore the state file and create every row")
	)
	flag.Parse()

	log := logger.SetupLogger(*logLevel, "json")
	decimal.MarshalJSONWithoutQuotes = true

	var (
		rows    []SeedRow
		skipped []error
		err     error
	)
	if *seedFile != "" {
		rows, skipped, err = LoadSheet(*seedFile)
		if err != nil {
			log.Error("failed to load seed file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, e := range skipped {
			log.Warn("skipping row", slog.String("reason", e.Error()))
		}
	} else {
		rows = SampleRows(*samples)
	}

	var state SeederState
	if !*force {
		if data, err := os.ReadFile(*stateFile); err == nil {
			if err := json.Unmarshal(data, &state); err != nil {
				log.Warn("ignoring unreadable state file", slog.String("error", err.Error()))
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := backend.NewClient(backend.Config{
		BaseURL:   *backendURL,
		Timeout:   30 * time.Second,
		UserAgent: "stockroom-seeder",
	}, nil, log)

	var (
		categories []domain.Category
		api        ports.InventoryAPI
	)

	if !*dryRun {
		result, err := client.Login(ctx, domain.LoginRequest{
			Username: *username,
			Password: getEnv("SEEDER_PASSWORD", "admin"),
		})
		if err != nil {
			log.Error("failed to sign in to backend", slog.String("error", err.Error()))
			os.Exit(1)
		}
		api = client.As(result.Token)

		categories, err = api.Categories(ctx)
		if err != nil {
			log.Error("failed to load categories", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	classifier := NewCategoryClassifier()

	created := 0
	failed := []string{}
	unclassified := []string{}

	for i, row := range rows {
		fmt.Printf("PROGRESS: %d/%d: %s\n", i+1, len(rows), row.Name)

		if !*force && state.has(row.Key()) {
			log.Debug("skipping already seeded row", slog.String("key", row.Key()))
			continue
		}

		if *dryRun {
			fmt.Printf("DRY RUN: would create %q (%s) qty=%d price=%s\n",
				row.Name, row.Category, row.Quantity, row.UnitPrice.StringFixed(2))
			continue
		}

		category, ok := classifier.Resolve(row, categories)
		if !ok {
			unclassified = append(unclassified, row.Name)
			log.Warn("no category for row",
				slog.Int("line", row.Line),
				slog.String("name", row.Name),
				slog.String("category", row.Category))
			continue
		}

		item := row.NewItem(category)
		if err := item.Validate(); err != nil {
			failed = append(failed, fmt.Sprintf("%s (%v)", row.Name, err))
			continue
		}

		if err := api.CreateItem(ctx, item); err != nil {
			var apiErr *backend.APIError
			if errors.As(err, &apiErr) {
				failed = append(failed, fmt.Sprintf("%s (%s)", row.Name, apiErr.Message))
			} else {
				failed = append(failed, fmt.Sprintf("%s (%v)", row.Name, err))
			}
			log.Error("failed to create item",
				slog.String("name", row.Name),
				slog.String("error", err.Error()))
			continue
		}

		created++
		state.Created = append(state.Created, row.Key())
		state.LastUpdate = time.Now()

		// Save state periodically
		if created%10 == 0 {
			saveState(*stateFile, &state, log)
		}
	}

	if !*dryRun {
		saveState(*stateFile, &state, log)
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Rows read: %d\n", len(rows))
	fmt.Printf("Items created: %d\n", created)
	fmt.Printf("Rows skipped while reading: %d\n", len(skipped))

	if len(unclassified) > 0 {
		fmt.Printf("\nNo matching category (%d):\n", len(unclassified))
		for _, name := range unclassified {
			fmt.Printf("  - %s\n", name)
		}
	}
	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, f := range failed {
			fmt.Printf("  - %s\n", f)
		}
	}

	log.Info("seed operation completed",
		slog.Int("rows", len(rows)),
		slog.Int("created", created),
		slog.Int("failed", len(failed)),
		slog.Int("unclassified", len(unclassified)))

	if *dryRun {
		fmt.Println("\n[DRY RUN] No items were sent to the backend")
	}
}

func saveState(path string, state *SeederState, log *slog.Logger) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Error("failed to encode state", slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Error("failed to write state file", slog.String("error", err.Error()))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
