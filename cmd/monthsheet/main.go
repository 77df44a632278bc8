package main

import (
	"context"
	"errors"
	"fmt"
	"monthsheet/internal/app"
	"monthsheet/internal/config"
	"monthsheet/internal/logger"
	"monthsheet/internal/sheet"
	"monthsheet/internal/store"
	"monthsheet/internal/timesheet"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args))
}

// run executes one command and returns the process exit code, so deferred
// cleanup happens before the process exits.
func run(args []string) int {
	if len(args) < 2 {
		printUsage()
		return 0
	}

	command := args[1]

	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs/config.toml")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return 1
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Log.Directory, cfg.Log.Level); err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		return 1
	}
	defer logger.Close()

	switch command {
	case "init":
		return runInit(cfg)
	case "new-month":
		date := ""
		if len(args) >= 3 {
			date = args[2]
		}
		return runNewMonth(cfg, date)
	case "history":
		return runHistory(cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("monthsheet - Monthly timesheet generator")
	fmt.Println("\nUsage:")
	fmt.Println("  monthsheet init                       - Create the overview sheet if missing")
	fmt.Println("  monthsheet new-month                  - Pick a month and create its sheet")
	fmt.Println("  monthsheet new-month <YYYY-MM[-DD]>   - Create the sheet for the given month")
	fmt.Println("  monthsheet history                    - List the months created so far")
}

func openApp(ctx context.Context, cfg *config.Config) (*app.App, bool) {
	a, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open workbook", "backend", cfg.Workbook.Backend, "error", err)
		fmt.Printf("Error opening workbook: %v\n", err)
		return nil, false
	}
	return a, true
}

func runInit(cfg *config.Config) int {
	ctx := context.Background()
	a, ok := openApp(ctx, cfg)
	if !ok {
		return 1
	}
	defer a.Close()

	created, err := a.Init(ctx)
	if err != nil {
		logger.Error("Init failed", "error", err)
		fmt.Printf("Error creating overview sheet: %v\n", err)
		return 1
	}

	if created {
		fmt.Printf("✓ Created overview sheet '%s'\n", cfg.Overview.SheetName)
	} else {
		fmt.Printf("✓ Overview sheet '%s' already exists\n", cfg.Overview.SheetName)
	}
	return 0
}

func runNewMonth(cfg *config.Config, date string) int {
	ctx := context.Background()
	a, ok := openApp(ctx, cfg)
	if !ok {
		return 1
	}
	defer a.Close()

	var (
		summary timesheet.MonthSummary
		err     error
	)
	if date == "" {
		var picked bool
		summary, picked, err = a.NewMonth(ctx)
		if err == nil && !picked {
			fmt.Println("No month selected.")
			return 0
		}
	} else {
		summary, err = a.SheetSubmitted(ctx, date)
	}

	if err != nil {
		logger.Error("Failed to create month", "date", date, "error", err)
		switch {
		case errors.Is(err, timesheet.ErrMissingOverview):
			fmt.Printf("❌ The workbook has no '%s' sheet. Run 'monthsheet init' first.\n", cfg.Overview.SheetName)
		case errors.Is(err, sheet.ErrSheetExists):
			fmt.Printf("❌ %v\n", err)
		case errors.Is(err, store.ErrLocked):
			fmt.Println("❌ Another monthsheet run is in progress, try again later.")
		default:
			fmt.Printf("❌ Error creating month: %v\n", err)
		}
		return 1
	}

	fmt.Printf("✓ Created sheet '%s'\n", summary.SheetName)
	fmt.Printf("✓ Added to '%s': total %s, target %s, overtime %s\n",
		cfg.Overview.SheetName, summary.TotalTimeRef, summary.TargetTimeRef, summary.OvertimeRef)
	return 0
}

func runHistory(cfg *config.Config) int {
	ctx := context.Background()
	a, ok := openApp(ctx, cfg)
	if !ok {
		return 1
	}
	defer a.Close()

	records, err := a.History()
	if err != nil {
		logger.Error("Failed to read history", "error", err)
		fmt.Printf("Error reading history: %v\n", err)
		return 1
	}

	if len(records) == 0 {
		fmt.Println("No months created yet.")
		return 0
	}
	for _, r := range records {
		fmt.Printf("%s  %-16s total=%s target=%s overtime=%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Summary.SheetName,
			r.Summary.TotalTimeRef, r.Summary.TargetTimeRef, r.Summary.OvertimeRef)
	}
	return 0
}
