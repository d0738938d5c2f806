package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the cafe billing system. It is loaded
// once at process start and read-only thereafter; every component receives
// the sections it needs explicitly.
type Config struct {
	Cafe     CafeConfig
	Menu     MenuConfig
	Store    StoreConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
}

// CafeConfig holds trading hours, tax and discount settings.
type CafeConfig struct {
	Name         string
	Contact      string
	Currency     string
	DayStart     TimeOfDay
	DayEnd       TimeOfDay
	EveningStart TimeOfDay
	EveningEnd   TimeOfDay
	TaxRate      decimal.Decimal
	Tiers        []DiscountTier
}

// DiscountTier applies Rate to orders whose item count strictly exceeds
// MinQuantity. Tiers are kept sorted by MinQuantity ascending.
type DiscountTier struct {
	MinQuantity int
	Rate        decimal.Decimal
}

// MenuConfig holds the per-session menu file paths.
type MenuConfig struct {
	DayFile     string
	EveningFile string
}

// StoreConfig selects the customer history backend.
type StoreConfig struct {
	Backend string // "file" or "postgres"
	Path    string // file backend only
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// RabbitMQConfig holds RabbitMQ connection configuration. The section is
// optional; bill events are published only when a host is configured.
type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Load reads configuration from a YAML file and applies cafe defaults for
// anything the file omits.
func Load(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := Defaults()
	scanner := bufio.NewScanner(file)

	var currentSection string

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Section headers start at column zero; an indented key with an
		// empty value must not be mistaken for one.
		indented := strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")
		if !indented && strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		// Key-value pairs
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

			if value == "" {
				return nil, fmt.Errorf("missing value for config key %s.%s", currentSection, key)
			}
			if err := config.setValue(currentSection, key, value); err != nil {
				return nil, fmt.Errorf("failed to set config value %s.%s: %w", currentSection, key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Defaults mirrors the cafe's standing setup: Day 10:00-15:00, Evening
// 17:00-22:00, 18% tax, tiers 5/8/11 at 3%/6%/9%.
func Defaults() *Config {
	return &Config{
		Cafe: CafeConfig{
			Name:         "Dill-Khus Cafe",
			Contact:      "Dill-Khus Cafe, MG Road",
			Currency:     "Rs.",
			DayStart:     mustTimeOfDay("10:00:00"),
			DayEnd:       mustTimeOfDay("15:00:00"),
			EveningStart: mustTimeOfDay("17:00:00"),
			EveningEnd:   mustTimeOfDay("22:00:00"),
			TaxRate:      decimal.RequireFromString("0.18"),
			Tiers: []DiscountTier{
				{MinQuantity: 5, Rate: decimal.RequireFromString("0.03")},
				{MinQuantity: 8, Rate: decimal.RequireFromString("0.06")},
				{MinQuantity: 11, Rate: decimal.RequireFromString("0.09")},
			},
		},
		Menu: MenuConfig{
			DayFile:     "day.json",
			EveningFile: "evening.json",
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    "customer_data.json",
		},
	}
}

// setValue sets a configuration value based on section and key
func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "cafe":
		return c.setCafeValue(key, value)
	case "menu":
		return c.setMenuValue(key, value)
	case "store":
		return c.setStoreValue(key, value)
	case "database":
		return c.setDatabaseValue(key, value)
	case "rabbitmq":
		return c.setRabbitMQValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) setCafeValue(key, value string) error {
	switch key {
	case "name":
		c.Cafe.Name = value
	case "contact":
		c.Cafe.Contact = value
	case "currency":
		c.Cafe.Currency = value
	case "day_start", "day_end", "evening_start", "evening_end":
		tod, err := ParseTimeOfDay(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		switch key {
		case "day_start":
			c.Cafe.DayStart = tod
		case "day_end":
			c.Cafe.DayEnd = tod
		case "evening_start":
			c.Cafe.EveningStart = tod
		case "evening_end":
			c.Cafe.EveningEnd = tod
		}
	case "tax_rate":
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("invalid tax_rate: %w", err)
		}
		c.Cafe.TaxRate = rate
	case "discount_tiers":
		tiers, err := parseTiers(value)
		if err != nil {
			return fmt.Errorf("invalid discount_tiers: %w", err)
		}
		c.Cafe.Tiers = tiers
	default:
		return fmt.Errorf("unknown cafe key: %s", key)
	}
	return nil
}

func (c *Config) setMenuValue(key, value string) error {
	switch key {
	case "day":
		c.Menu.DayFile = value
	case "evening":
		c.Menu.EveningFile = value
	default:
		return fmt.Errorf("unknown menu key: %s", key)
	}
	return nil
}

func (c *Config) setStoreValue(key, value string) error {
	switch key {
	case "backend":
		if value != "file" && value != "postgres" {
			return fmt.Errorf("backend must be file or postgres, got %q", value)
		}
		c.Store.Backend = value
	case "path":
		c.Store.Path = value
	default:
		return fmt.Errorf("unknown store key: %s", key)
	}
	return nil
}

func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "database":
		c.Database.Database = value
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

func (c *Config) setRabbitMQValue(key, value string) error {
	switch key {
	case "host":
		c.RabbitMQ.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.RabbitMQ.Port = port
	case "user":
		c.RabbitMQ.User = value
	case "password":
		c.RabbitMQ.Password = value
	default:
		return fmt.Errorf("unknown rabbitmq key: %s", key)
	}
	return nil
}

// parseTiers parses a "min:rate" comma list, e.g. "5:0.03,8:0.06,11:0.09".
func parseTiers(value string) ([]DiscountTier, error) {
	var tiers []DiscountTier
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("tier %q must be min:rate", entry)
		}
		min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("tier %q has invalid quantity: %w", entry, err)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("tier %q has invalid rate: %w", entry, err)
		}
		tiers = append(tiers, DiscountTier{MinQuantity: min, Rate: rate})
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("no tiers given")
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinQuantity < tiers[j].MinQuantity })
	return tiers, nil
}

func (c *Config) validate() error {
	if c.Cafe.TaxRate.IsNegative() {
		return fmt.Errorf("tax_rate must not be negative")
	}
	one := decimal.NewFromInt(1)
	for i, tier := range c.Cafe.Tiers {
		if tier.MinQuantity < 1 {
			return fmt.Errorf("tier quantity must be positive, got %d", tier.MinQuantity)
		}
		if tier.Rate.IsNegative() || tier.Rate.GreaterThanOrEqual(one) {
			return fmt.Errorf("tier rate must be in [0, 1), got %s", tier.Rate)
		}
		if i > 0 {
			prev := c.Cafe.Tiers[i-1]
			if tier.MinQuantity == prev.MinQuantity {
				return fmt.Errorf("duplicate tier quantity %d", tier.MinQuantity)
			}
			if tier.Rate.LessThan(prev.Rate) {
				return fmt.Errorf("tier rates must not decrease with quantity")
			}
		}
	}
	if c.Store.Backend == "postgres" && c.Database.Host == "" {
		return fmt.Errorf("store backend is postgres but database.host is not set")
	}
	return nil
}

// HasRabbitMQ reports whether bill event publishing is configured.
func (c *Config) HasRabbitMQ() bool {
	return c.RabbitMQ.Host != ""
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
