package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/plancare/plansale-backend/internal/config"
	"github.com/plancare/plansale-backend/internal/database"
)

// salesTables hold catalog and sales data, children first
var salesTables = []string{
	"plan_sales",
	"customers",
	"partner_plans",
	"partner_items",
	"retailer_assignments",
	"manager_assignments",
	"plans",
	"items",
}

// accountTables hold partners, stores and the principals that log in
var accountTables = []string{
	"user_profiles",
	"stores",
	"partners",
}

func main() {
	var (
		dbURLFlag    string
		keepAccounts bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&keepAccounts, "keep-accounts", false, "Keep partners, stores and user profiles")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewConnection(ctx, config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tables := salesTables
	if !keepAccounts {
		tables = append(append([]string{}, salesTables...), accountTables...)
	}

	fmt.Printf("Connected to database. Truncating %d tables...\n", len(tables))
	truncateSQL := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " CASCADE"
	if _, err := db.ExecContext(ctx, truncateSQL); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+t); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
