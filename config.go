package cohort

import (
	"time"
)

// Config consolidates settings for the hydration engine
type Config struct {
	Database DatabaseConfig `json:"database"`
	Fetch    FetchConfig    `json:"fetch"`
	Tracker  TrackerConfig  `json:"tracker"`
	Logging  LoggingConfig  `json:"logging"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Database        string        `json:"database"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"sslMode"`
	MaxConnections  int           `json:"maxConnections"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `json:"connMaxIdleTime"`
	Timeout         time.Duration `json:"timeout"`
	TableNames      TableNames    `json:"tableNames"`
}

// TableNames maps each logical table of the hydration schema to its physical
// name. The tracker function is the RPC-style aggregate the engine calls for
// per-trimester visit progress.
type TableNames struct {
	Records          string `json:"records"`
	Visits           string `json:"visits"`
	Measurements     string `json:"measurements"`
	LabResults       string `json:"labResults"`
	ChecklistItems   string `json:"checklistItems"`
	RiskEntries      string `json:"riskEntries"`
	NutrientEntries  string `json:"nutrientEntries"`
	PregnancyHistory string `json:"pregnancyHistory"`
	Immunizations    string `json:"immunizations"`
	PresentStatuses  string `json:"presentStatuses"`
	CarePlans        string `json:"carePlans"`
	Schedules        string `json:"schedules"`
	TrackerFunction  string `json:"trackerFunction"`
}

// FetchConfig contains hydration fan-out settings
type FetchConfig struct {
	// Timeout bounds one whole hydration call, covering every concurrent
	// per-table read. Zero disables the bound.
	Timeout time.Duration `json:"timeout"`
	// MaxRecordIDs caps the resolver fan-out for a single subject.
	MaxRecordIDs int `json:"maxRecordIds"`
}

// TrackerConfig tunes the circuit breaker guarding the external visit
// progress function. Tracker reads are best-effort, so the breaker exists
// to shed load from a failing upstream rather than to protect callers.
type TrackerConfig struct {
	BreakerThreshold int           `json:"breakerThreshold"`
	BreakerWindow    time.Duration `json:"breakerWindow"`
	BreakerCooldown  time.Duration `json:"breakerCooldown"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `json:"level"`
	Format           string `json:"format"`
	EnableStructured bool   `json:"enableStructured"`
	LogQueries       bool   `json:"logQueries"`
	LogErrors        bool   `json:"logErrors"`
}

// DefaultConfig returns a config with reasonable defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "cohort",
			Username:        "postgres",
			SSLMode:         "disable",
			MaxConnections:  25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 1 * time.Hour,
			ConnMaxIdleTime: 5 * time.Minute,
			Timeout:         30 * time.Second,
			TableNames:      DefaultTableNames(),
		},
		Fetch: FetchConfig{
			Timeout:      15 * time.Second,
			MaxRecordIDs: 50,
		},
		Tracker: TrackerConfig{
			BreakerThreshold: 5,
			BreakerWindow:    30 * time.Second,
			BreakerCooldown:  1 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "json",
			EnableStructured: true,
			LogQueries:       false,
			LogErrors:        true,
		},
	}
}

// DefaultTableNames returns the canonical physical table names
func DefaultTableNames() TableNames {
	return TableNames{
		Records:          "mch_records",
		Visits:           "anc_visits",
		Measurements:     "anc_measurements",
		LabResults:       "lab_results",
		ChecklistItems:   "checklist_items",
		RiskEntries:      "risk_entries",
		NutrientEntries:  "nutrient_entries",
		PregnancyHistory: "pregnancy_history",
		Immunizations:    "immunizations",
		PresentStatuses:  "present_statuses",
		CarePlans:        "care_plans",
		Schedules:        "visit_schedules",
		TrackerFunction:  "anc_visit_progress",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.MaxConnections <= 0 {
		return &ConfigError{Field: "database.maxConnections", Message: "must be greater than 0"}
	}
	if c.Fetch.MaxRecordIDs <= 0 {
		return &ConfigError{Field: "fetch.maxRecordIds", Message: "must be greater than 0"}
	}
	if c.Fetch.Timeout < 0 {
		return &ConfigError{Field: "fetch.timeout", Message: "must not be negative"}
	}
	if c.Tracker.BreakerThreshold < 0 {
		return &ConfigError{Field: "tracker.breakerThreshold", Message: "must not be negative"}
	}
	for field, name := range map[string]string{
		"records":   c.Database.TableNames.Records,
		"visits":    c.Database.TableNames.Visits,
		"schedules": c.Database.TableNames.Schedules,
	} {
		if name == "" {
			return &ConfigError{Field: "database.tableNames." + field, Message: "must not be empty"}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
