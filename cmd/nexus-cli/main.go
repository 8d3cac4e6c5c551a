package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/snowflake"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "migrate":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: nexus-cli migrate")
			fmt.Println()
			fmt.Println("Run database migrations from the migrations/ directory.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  DATABASE_URL  PostgreSQL connection string (required)")
			return
		}
		os.Exit(runMigrate())
	case "seed":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: nexus-cli seed")
			fmt.Println()
			fmt.Println("Bootstrap the workspace: an admin account, the #general and #random")
			fmt.Println("channels, and a welcome announcement.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  DATABASE_URL    PostgreSQL connection string (required)")
			fmt.Println("  ADMIN_EMAIL     Admin account email (default: admin@localhost)")
			fmt.Println("  ADMIN_PASSWORD  Admin account password (default: changeme123)")
			return
		}
		os.Exit(runSeed())
	case "health":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: nexus-cli health")
			fmt.Println()
			fmt.Println("Check if the Nexus server is running.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  SERVER_URL  Server base URL (default: http://localhost:8080)")
			return
		}
		os.Exit(runHealth())
	case "version":
		fmt.Printf("nexus-cli %s\n", version)
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: nexus-cli <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate  Run database migrations")
	fmt.Println("  seed     Bootstrap an admin account and starter channels")
	fmt.Println("  health   Check if the server is running")
	fmt.Println("  version  Print version info")
	fmt.Println()
	fmt.Println("Run 'nexus-cli <command> --help' for details on a command.")
}

func hasFlag(flag string, args []string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "error: %s environment variable is required\n", key)
		os.Exit(1)
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --- migrate ---

func runMigrate() int {
	dbURL := requireEnv("DATABASE_URL")

	fmt.Println("connecting to database...")
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: migration init failed: %v\n", err)
		return 1
	}
	defer m.Close()

	fmt.Println("running migrations...")
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		fmt.Fprintf(os.Stderr, "error: migration failed: %v\n", err)
		return 1
	}

	v, dirty, _ := m.Version()
	if err == migrate.ErrNoChange {
		fmt.Printf("no new migrations (current version: %d)\n", v)
	} else {
		fmt.Printf("migrations applied (version: %d, dirty: %v)\n", v, dirty)
	}
	return 0
}

// --- seed ---

func runSeed() int {
	dbURL := requireEnv("DATABASE_URL")
	adminEmail := envOr("ADMIN_EMAIL", "admin@localhost")
	adminPassword := envOr("ADMIN_PASSWORD", "changeme123")
	ctx := context.Background()

	fmt.Println("connecting to database...")
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: database connection failed: %v\n", err)
		return 1
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: database ping failed: %v\n", err)
		return 1
	}

	sf, err := snowflake.NewGenerator(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: snowflake init failed: %v\n", err)
		return 1
	}

	fmt.Println("hashing admin password...")
	adminHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: hashing password: %v\n", err)
		return 1
	}

	adminID := sf.Generate()
	generalID := sf.Generate()
	randomID := sf.Generate()
	announcementID := sf.Generate()

	now := time.Now()

	tx, err := pool.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: starting transaction: %v\n", err)
		return 1
	}
	defer tx.Rollback(ctx)

	// Admin account.
	fmt.Println("creating admin account...")
	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, is_admin, created_at)
		 VALUES ($1, 'admin', $2, $3, TRUE, $4)
		 ON CONFLICT DO NOTHING`,
		adminID.Int64(), adminEmail, adminHash, now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating admin: %v\n", err)
		return 1
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, display_name) VALUES ($1, 'Administrator')
		 ON CONFLICT (user_id) DO NOTHING`,
		adminID.Int64(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating admin profile: %v\n", err)
		return 1
	}

	// Starter channels.
	fmt.Println("creating starter channels...")
	_, err = tx.Exec(ctx,
		`INSERT INTO channels (id, name, topic, is_private, creator_id, created_at, updated_at)
		 VALUES ($1, 'general', 'Company-wide discussion', FALSE, $3, $4, $4),
		        ($2, 'random', 'Everything else', FALSE, $3, $4, $4)
		 ON CONFLICT (id) DO NOTHING`,
		generalID.Int64(), randomID.Int64(), adminID.Int64(), now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating channels: %v\n", err)
		return 1
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO channel_members (channel_id, user_id, role, joined_at)
		 VALUES ($1, $3, 'admin', $4), ($2, $3, 'admin', $4)
		 ON CONFLICT (channel_id, user_id) DO NOTHING`,
		generalID.Int64(), randomID.Int64(), adminID.Int64(), now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating memberships: %v\n", err)
		return 1
	}

	// Welcome announcement.
	fmt.Println("creating welcome announcement...")
	_, err = tx.Exec(ctx,
		`INSERT INTO announcements (id, title, content, priority, pinned, category, author_id, published_at)
		 VALUES ($1, 'Welcome to Nexus', 'This is your company intranet. Invite your team from the admin console.', 'normal', TRUE, '', $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		announcementID.Int64(), adminID.Int64(), now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating announcement: %v\n", err)
		return 1
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: committing transaction: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Println("seed complete:")
	fmt.Printf("  admin:    admin (%s)\n", adminEmail)
	fmt.Printf("  channels: #general, #random\n")
	fmt.Printf("  pinned welcome announcement\n")
	return 0
}

// --- health ---

func runHealth() int {
	serverURL := envOr("SERVER_URL", "http://localhost:8080")
	url := serverURL + "/health"

	fmt.Printf("checking %s ...\n", url)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("status: %d\n", resp.StatusCode)
	if len(body) > 0 {
		fmt.Printf("body:   %s\n", string(body))
	}

	if resp.StatusCode == http.StatusOK {
		fmt.Println("server is healthy")
		return 0
	}
	fmt.Fprintln(os.Stderr, "server returned non-200 status")
	return 1
}
