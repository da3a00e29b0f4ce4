/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the AlvTime calculation server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment
  2. Initialize SQLite store (optionally seed a demo dataset)
  3. Create API handler with dependencies
  4. Configure HTTP router and auth
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    HTTP listen address (default: :8080)
  -db      SQLite database path (default: alvtime.db)
           Use ":memory:" for an in-memory database
  -seed    Seed a demo user and tasks when the database is empty

ENVIRONMENT:
  ALVTIME_JWT_SECRET           HMAC secret for bearer tokens (required)
  ALVTIME_COMPANY              Internal company name (default: alv)
  ALVTIME_SICK_TASK            Sick-leave task id (default: 12)
  ALVTIME_PAID_HOLIDAY_TASK    Paid holiday task id (default: 13)
  ALVTIME_UNPAID_HOLIDAY_TASK  Unpaid holiday task id (default: 14)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ALVTIME_JWT_SECRET=dev ./server -db="./data/alvtime.db"

  # Run in memory with demo data
  ALVTIME_JWT_SECRET=dev ./server -db=":memory:" -seed

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SSotonass/alvtime/api"
	"github.com/SSotonass/alvtime/calendar"
	"github.com/SSotonass/alvtime/store/sqlite"
	"github.com/SSotonass/alvtime/timesheet"
)

func main() {
	// Flags
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "alvtime.db", "SQLite database path")
	seed := flag.Bool("seed", false, "seed a demo dataset when the database is empty")
	flag.Parse()

	secret := os.Getenv("ALVTIME_JWT_SECRET")
	if secret == "" {
		log.Fatal("ALVTIME_JWT_SECRET is required")
	}

	opts := timesheet.Options{
		SickDaysTask:      getEnvInt("ALVTIME_SICK_TASK", 12),
		PaidHolidayTask:   getEnvInt("ALVTIME_PAID_HOLIDAY_TASK", 13),
		UnpaidHolidayTask: getEnvInt("ALVTIME_UNPAID_HOLIDAY_TASK", 14),
		CompanyName:       getEnv("ALVTIME_COMPANY", "alv"),
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if *seed {
		if err := seedDemoData(context.Background(), store, opts); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Initialize handler and router
	handler := api.NewHandler(store, calendar.New(), opts)
	auth := &api.Authenticator{Secret: []byte(secret), Users: store}
	router := api.NewRouter(handler, auth)

	// Create server
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedDemoData fills an empty database with one user and the standard
// tasks so the API is explorable out of the box.
func seedDemoData(ctx context.Context, store *sqlite.Store, opts timesheet.Options) error {
	count, err := store.CountUsers(ctx)
	if err != nil || count > 0 {
		return err
	}

	log.Println("Seeding demo dataset")

	if err := store.SaveUser(ctx, timesheet.User{
		ID: 1, Name: "Demo User", Email: "demo@example.com",
		StartDate: timesheet.NewDate(2020, time.January, 1),
	}); err != nil {
		return err
	}

	tasks := []timesheet.Task{
		{ID: 1, Name: "Development", Project: "Platform", CustomerName: "Evil Corp"},
		{ID: 2, Name: "Internal work", Project: "Internal", CustomerName: opts.CompanyName},
		{ID: opts.SickDaysTask, Name: "Sick leave", CustomerName: opts.CompanyName},
		{ID: opts.PaidHolidayTask, Name: "Paid holiday", CustomerName: opts.CompanyName},
		{ID: opts.UnpaidHolidayTask, Name: "Unpaid holiday", CustomerName: opts.CompanyName},
	}
	epoch := timesheet.NewDate(2020, time.January, 1)
	for _, task := range tasks {
		if err := store.SaveTask(ctx, task); err != nil {
			return err
		}
		if err := store.SaveCompensationRate(ctx, timesheet.CompensationRate{
			TaskID: task.ID, Value: decimal.NewFromInt(1), FromDate: epoch,
		}); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
