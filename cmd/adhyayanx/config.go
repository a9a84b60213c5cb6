package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/adhyayanx/teachhub/internal/logger"
	"github.com/adhyayanx/teachhub/internal/service/auth"
	"github.com/adhyayanx/teachhub/internal/service/auth/hasher"
)

const (
	defaultListenAddr        = "localhost:8000"
	defaultLoggingLevel      = logger.LevelInfo
	defaultEnvironment       = logger.EnvProduction
	defaultAppURL            = "http://localhost:3000"
	defaultAccessTTL         = 15 * time.Minute
	defaultRefreshTTLDays    = 30
	defaultPasswordHasher    = hasher.AlgBcrypt
	defaultSMTPPort          = 587
	defaultSignupSession     = false
	defaultRefreshCandidates = auth.DefaultRefreshCandidates
	defaultLogoutCandidates  = auth.DefaultLogoutCandidates
	defaultResetTokenTTL     = auth.DefaultResetTokenTTL
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address the http server listens on
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Environment. Production enables JSON logs and Secure cookies
	Environment string

	// Secrets for access and refresh tokens. Must differ
	AccessSecret  string
	RefreshSecret string

	AccessTTL      time.Duration
	RefreshTTLDays int

	// Password hashing algorithm and bcrypt cost (0 is library default)
	PasswordHasher string
	BcryptCost     int

	// Public URL of the app, used to build password reset links
	AppURL string

	// SMTP server. Emails are logged if host is empty
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Directory with built frontend. Placeholder pages if empty
	WebDir string

	SignupIssuesSession bool
	RefreshCandidates   int
	LogoutCandidates    int
	ResetTokenTTL       time.Duration
}

func NewConfig() *Config {
	return &Config{
		LogLevel:            defaultLoggingLevel,
		ListenAddr:          defaultListenAddr,
		Environment:         defaultEnvironment,
		AccessTTL:           defaultAccessTTL,
		RefreshTTLDays:      defaultRefreshTTLDays,
		PasswordHasher:      defaultPasswordHasher,
		AppURL:              defaultAppURL,
		SMTPPort:            defaultSMTPPort,
		SignupIssuesSession: defaultSignupSession,
		RefreshCandidates:   defaultRefreshCandidates,
		LogoutCandidates:    defaultLogoutCandidates,
		ResetTokenTTL:       defaultResetTokenTTL,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			v, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = v
			return nil
		}
	}
	setBool := func(o *bool) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			v, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*o = v
			return nil
		}
	}
	// Bare number is seconds, otherwise go duration like '15m'
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			if secs, err := strconv.Atoi(value); err == nil {
				*o = time.Duration(secs) * time.Second
				return nil
			}
			v, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = v
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":              setString(&c.ListenAddr),
		"DATABASE_URL":             setString(&c.DatabaseDSN),
		"LOG_LEVEL":                setString(&c.LogLevel),
		"ENVIRONMENT":              setString(&c.Environment),
		"JWT_ACCESS_SECRET":        setString(&c.AccessSecret),
		"JWT_REFRESH_SECRET":       setString(&c.RefreshSecret),
		"JWT_ACCESS_EXPIRES":       setDuration(&c.AccessTTL),
		"JWT_REFRESH_EXPIRES_DAYS": setInt(&c.RefreshTTLDays),
		"PASSWORD_HASHER":          setString(&c.PasswordHasher),
		"BCRYPT_SALT_ROUNDS":       setInt(&c.BcryptCost),
		"APP_URL":                  setString(&c.AppURL),
		"SMTP_HOST":                setString(&c.SMTPHost),
		"SMTP_PORT":                setInt(&c.SMTPPort),
		"SMTP_USER":                setString(&c.SMTPUser),
		"SMTP_PASS":                setString(&c.SMTPPass),
		"SMTP_FROM":                setString(&c.SMTPFrom),
		"WEB_DIR":                  setString(&c.WebDir),
		"SIGNUP_ISSUES_SESSION":    setBool(&c.SignupIssuesSession),
		"REFRESH_CANDIDATE_WINDOW": setInt(&c.RefreshCandidates),
		"LOGOUT_CANDIDATE_WINDOW":  setInt(&c.LogoutCandidates),
		"RESET_TOKEN_TTL":          setDuration(&c.ResetTokenTTL),
	}

	var errs []error
	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("adhyayanx", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (development, production)")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "Access token secret")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "Refresh token secret")
	fs.StringVar(&c.PasswordHasher, "password-hasher", c.PasswordHasher, "Password hashing algorithm (bcrypt, argon2id)")
	fs.StringVar(&c.AppURL, "app-url", c.AppURL, "Public app URL")
	fs.StringVarP(&c.WebDir, "web-dir", "w", c.WebDir, "Directory with built frontend")
	fs.BoolVar(&c.SignupIssuesSession, "signup-session", c.SignupIssuesSession, "Issue session on signup")

	return fs.Parse(args)
}

func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		errs = append(errs, errors.New("access and refresh secrets are required"))
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("access token lifetime must be positive"))
	}
	if c.RefreshTTLDays <= 0 {
		errs = append(errs, errors.New("refresh token lifetime must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// Reset links lead to frontend page with token in query
func (c *Config) ResetURL() string {
	return strings.TrimRight(c.AppURL, "/") + "/auth/reset-password"
}
