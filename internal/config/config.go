package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/GregMSThompson/household-finance/internal/dto"
	"github.com/GregMSThompson/household-finance/internal/errs"
)

type Config struct {
	ProjectID        string
	Region           string
	LogLevel         string
	Port             string
	PlaidClientID    string
	PlaidSecret      string
	PlaidEnvironment dto.PlaidEnvironment
	KMSKeyName       string
	VertexModel      string
	AITTL            time.Duration
	WeekStart        time.Weekday
	SQLitePath       string
	Currency         string
}

// New reads the service configuration from the environment.
func New() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return Load(v)
}

// Load builds a Config from an already prepared viper instance. The CLI uses
// this after layering its config file and env prefix on top.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	weekStart, err := parseWeekStart(v.GetString("WEEKSTART"))
	if err != nil {
		return nil, err
	}
	return &Config{
		ProjectID:        v.GetString("PROJECTID"),
		Region:           v.GetString("REGION"),
		LogLevel:         v.GetString("LOGLEVEL"),
		Port:             v.GetString("PORT"),
		PlaidClientID:    v.GetString("PLAIDCLIENTID"),
		PlaidSecret:      v.GetString("PLAIDSECRET"),
		PlaidEnvironment: getPlaidEnvironment(v.GetString("PLAIDENVIRONMENT")),
		KMSKeyName:       v.GetString("KMSKEYNAME"),
		VertexModel:      v.GetString("VERTEXMODEL"),
		AITTL:            v.GetDuration("AITTL"),
		WeekStart:        weekStart,
		SQLitePath:       v.GetString("SQLITEPATH"),
		Currency:         strings.ToUpper(v.GetString("CURRENCY")),
	}, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("LOGLEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("PLAIDENVIRONMENT", "sandbox")
	v.SetDefault("AITTL", 720*time.Hour)
	v.SetDefault("WEEKSTART", "sunday")
	v.SetDefault("SQLITEPATH", "household.db")
	v.SetDefault("CURRENCY", "USD")
}

func getPlaidEnvironment(env string) dto.PlaidEnvironment {
	switch strings.ToLower(env) {
	case "sandbox":
		return dto.PlaidSandbox
	case "development":
		return dto.PlaidDevelopment
	default: // "production"
		return dto.PlaidProduction
	}
}

// parseWeekStart accepts full or three-letter weekday names in any case.
// Blank means Sunday.
func parseWeekStart(day string) (time.Weekday, error) {
	day = strings.ToLower(strings.TrimSpace(day))
	if day == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if day == name || day == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, errs.NewValidationError("WEEKSTART must be a weekday name, got " + day)
}
