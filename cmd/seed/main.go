package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/adhyayanx/teachhub/internal/db"
	"github.com/adhyayanx/teachhub/internal/logger"
	"github.com/adhyayanx/teachhub/internal/repository/postgres"
	"github.com/adhyayanx/teachhub/internal/service/auth/hasher"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Getenv, os.Getwd, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	DatabaseDSN    string
	PasswordHasher string
	BcryptCost     int
	AdminEmail     string
	AdminPassword  string
	LogLevel       string
}

// Flags win over env, env wins over '.env' in working directory
func loadConfig(getenv func(string) string, getwd func() (string, error), args []string) (config, error) {
	c := config{
		PasswordHasher: hasher.AlgBcrypt,
		LogLevel:       logger.LevelInfo,
	}

	wd, err := getwd()
	if err != nil {
		return c, err
	}
	dotenv, err := godotenv.Read(filepath.Join(wd, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}

	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	c.DatabaseDSN = lookup("DATABASE_URL")
	c.AdminEmail = lookup("SEED_ADMIN_EMAIL")
	c.AdminPassword = lookup("SEED_ADMIN_PASS")
	if v := lookup("PASSWORD_HASHER"); v != "" {
		c.PasswordHasher = v
	}
	if v := lookup("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := lookup("BCRYPT_SALT_ROUNDS"); v != "" {
		if c.BcryptCost, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("invalid BCRYPT_SALT_ROUNDS: %w", err)
		}
	}

	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVar(&c.AdminEmail, "admin-email", c.AdminEmail, "Superadmin email")
	fs.StringVar(&c.AdminPassword, "admin-password", c.AdminPassword, "Superadmin password")
	if err := fs.Parse(args); err != nil {
		return c, err
	}

	if c.DatabaseDSN == "" {
		return c, errors.New("DATABASE_URL not set")
	}

	return c, nil
}

func run(ctx context.Context, getenv func(string) string, getwd func() (string, error), args []string) error {
	c, err := loadConfig(getenv, getwd, args)
	if err != nil {
		return err
	}

	l, err := logger.NewTextLogger(c.LogLevel)
	if err != nil {
		return err
	}

	h, err := hasher.New(c.PasswordHasher, c.BcryptCost)
	if err != nil {
		return err
	}

	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	defer pool.Close()

	created, err := seed(ctx, postgres.NewStorage(pool).User(), h, demoAccounts(c), l)
	if err != nil {
		return err
	}

	l.Info("Seed completed", "created", created)
	return nil
}
