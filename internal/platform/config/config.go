package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	LogLevel           string
	JWTSecret          string
	JWTIssuer          string
	ServiceTokens      map[string]string // service name -> bcrypt hash of its x-api-key
	RateLimit          string
	CORSAllowedOrigins []string
	MigrationsPath     string
	ShutdownTimeout    time.Duration

	// Ledger setup
	ChartSeedFile     string
	AccountRoles      map[string]string
	ExpenseCategories map[string]string
	ReconcileSchedule string // cron spec, empty disables the job
}

// DefaultAccountRoles maps recorder roles to the codes of the shipped chart.
var DefaultAccountRoles = map[string]string{
	string(domain.RoleCash):                  "1000",
	string(domain.RoleLoansReceivable):       "1200",
	string(domain.RoleContributionRevenue):   "4000",
	string(domain.RolePaymentRevenue):        "4100",
	string(domain.RoleInterestIncome):        "4200",
	string(domain.RolePenaltyIncome):         "4300",
	string(domain.RoleDisasterReliefExpense): "5100",
	string(domain.RoleExpenseOther):          "5900",
}

// DefaultExpenseCategories maps expense categories to the codes of the shipped chart.
var DefaultExpenseCategories = map[string]string{
	"rent":      "5200",
	"utilities": "5300",
	"salaries":  "5400",
	"office":    "5500",
	"transport": "5600",
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "member-ledger-app")
	viper.SetDefault("SERVICE_TOKENS", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "5s")
	viper.SetDefault("CHART_SEED_FILE", "config/chart_of_accounts.yaml")
	viper.SetDefault("ACCOUNT_ROLES", "")
	viper.SetDefault("EXPENSE_CATEGORIES", "")
	viper.SetDefault("RECONCILE_SCHEDULE", "0 2 * * *")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "member-ledger-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	shutdownStr := viper.GetString("SHUTDOWN_TIMEOUT")
	shutdown, err := time.ParseDuration(shutdownStr)
	if err != nil {
		shutdown = 5 * time.Second
		log.Printf("Warning: Invalid value for SHUTDOWN_TIMEOUT ('%s'). Defaulting to %s.\n", shutdownStr, shutdown)
	}
	cfg.ShutdownTimeout = shutdown

	cfg.ServiceTokens, err = ParseKeyValueList(viper.GetString("SERVICE_TOKENS"), ":")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICE_TOKENS: %w", err)
	}

	roles, err := ParseKeyValueList(viper.GetString("ACCOUNT_ROLES"), "=")
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_ROLES: %w", err)
	}
	cfg.AccountRoles = mergeDefaults(DefaultAccountRoles, roles)

	categories, err := ParseKeyValueList(viper.GetString("EXPENSE_CATEGORIES"), "=")
	if err != nil {
		return nil, fmt.Errorf("invalid EXPENSE_CATEGORIES: %w", err)
	}
	cfg.ExpenseCategories = mergeDefaults(DefaultExpenseCategories, categories)

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.ChartSeedFile = viper.GetString("CHART_SEED_FILE")
	cfg.ReconcileSchedule = viper.GetString("RECONCILE_SCHEDULE")

	return cfg, nil
}

// RoleMapping converts the configured codes into the domain mapping used by the recorders.
func (c *Config) RoleMapping() domain.RoleMapping {
	m := domain.RoleMapping{
		Roles:             make(map[domain.AccountRole]string, len(c.AccountRoles)),
		ExpenseCategories: make(map[string]string, len(c.ExpenseCategories)),
	}
	for role, code := range c.AccountRoles {
		m.Roles[domain.AccountRole(role)] = code
	}
	for category, code := range c.ExpenseCategories {
		m.ExpenseCategories[strings.ToLower(category)] = code
	}
	return m
}

// ParseKeyValueList parses "a=1,b=2" style lists using sep between key and value.
func ParseKeyValueList(raw, sep string) (map[string]string, error) {
	out := make(map[string]string)
	for _, item := range splitList(raw) {
		key, value, ok := strings.Cut(item, sep)
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("entry %q is not in key%svalue form", item, sep)
		}
		out[key] = value
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mergeDefaults(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
