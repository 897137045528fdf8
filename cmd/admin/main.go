package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tally/internal/domain/transaction"
	"tally/internal/domain/user"
	"tally/internal/infrastructure/postgres"
	"tally/internal/shared/auth"
	"tally/internal/shared/config"
)

const usage = `Tally Admin CLI - Management commands for the Tally API

Usage:
  admin <command> [options]

Commands:
  migrate            Create the database schema if it does not exist
  create-user        Register a user directly against the database
  mint-token         Issue a bearer token for an existing user
  list-transactions  List transactions across all users

Examples:
  # Apply the schema
  admin migrate

  # Create a user
  admin create-user --username=alice --email=alice@example.com --password=secret

  # Issue a token valid for one hour
  admin mint-token --username=alice --ttl=1h

  # List the most recent transactions regardless of owner
  admin list-transactions --limit=20

  # List a single user's transactions
  admin list-transactions --user-id=1
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(os.Args[2:])
	case "create-user":
		runCreateUser(os.Args[2:])
	case "mint-token":
		runMintToken(os.Args[2:])
	case "list-transactions":
		runListTransactions(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "1m", "Timeout for the operation (e.g., 30s, 5m)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	db := mustConnect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema is up to date")
}

func runCreateUser(args []string) {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	username := fs.String("username", "", "Username for the new user")
	email := fs.String("email", "", "Email for the new user")
	password := fs.String("password", "", "Password for the new user")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *username == "" || *email == "" || *password == "" {
		fmt.Println("Error: --username, --email and --password are required")
		fs.Usage()
		os.Exit(1)
	}

	db := mustConnect()
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := postgres.NewUserRepository(db)
	u, err := repo.Create(ctx, user.CreateUserParams{
		Username:     *username,
		Email:        *email,
		PasswordHash: hash,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %d (%s)\n", u.ID, u.Username)
}

func runMintToken(args []string) {
	fs := flag.NewFlagSet("mint-token", flag.ExitOnError)

	username := fs.String("username", "", "Username to issue the token for")
	ttlStr := fs.String("ttl", "", "Token lifetime (e.g., 15m, 1h); defaults to the configured TTL")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *username == "" {
		fmt.Println("Error: --username is required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ttl := cfg.JWT.TokenTTL
	if *ttlStr != "" {
		ttl, err = time.ParseDuration(*ttlStr)
		if err != nil {
			log.Fatalf("Invalid ttl format: %v", err)
		}
	}

	db, err := postgres.New(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := postgres.NewUserRepository(db)
	u, err := repo.GetByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("Failed to look up user: %v", err)
	}

	token, err := auth.NewJWT(cfg.JWT.Secret, ttl).Generate(u.Username)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}

func runListTransactions(args []string) {
	fs := flag.NewFlagSet("list-transactions", flag.ExitOnError)

	userID := fs.Int64("user-id", 0, "Only list transactions owned by this user")
	limit := fs.Int("limit", transaction.DefaultListLimit, "Maximum number of rows")
	offset := fs.Int("offset", 0, "Number of rows to skip")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	db := mustConnect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ledger := transaction.NewService(postgres.NewTransactionRepository(db), nil)

	var (
		transactions []*transaction.Transaction
		err          error
	)
	if *userID != 0 {
		transactions, err = ledger.ListByUser(ctx, *userID, *limit, *offset)
	} else {
		transactions, err = ledger.List(ctx, *limit, *offset)
	}
	if err != nil {
		log.Fatalf("Failed to list transactions: %v", err)
	}

	for _, tx := range transactions {
		fmt.Printf("%s\t%10.2f\t%-9s\tuser=%d\t%s\t%s\n",
			tx.ID, tx.Amount, tx.Status, tx.UserID,
			tx.CreatedAt.Format(time.RFC3339), tx.Description)
	}
	fmt.Printf("%d transaction(s)\n", len(transactions))
}

func mustConnect() *postgres.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")
	return db
}
