package config

import (
	"reflect"
	"strings"

	"agent-reconciler/core/database"
	"agent-reconciler/core/events"
	"agent-reconciler/core/logger"
	"agent-reconciler/core/server"
	"agent-reconciler/core/storage"
	"agent-reconciler/feature/comparison"
	"agent-reconciler/feature/inventory"
	"agent-reconciler/feature/nessus"
	"agent-reconciler/feature/netbox"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by each package.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Nessus holds the scanner API connection.
	Nessus nessus.Config `mapstructure:"nessus"`
	// Netbox holds the inventory API connection.
	Netbox netbox.Config `mapstructure:"netbox"`
	// Output holds the snapshot and result directory.
	Output inventory.Config `mapstructure:"output"`
	// Comparison holds run options and the schedule.
	Comparison comparison.Config `mapstructure:"comparison"`
	// Storage holds the object storage archive.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds the run history database.
	Database database.Config `mapstructure:"database"`
	// Events holds the NATS publisher.
	Events events.Config `mapstructure:"events"`
}

// LoadConfig loads configuration from environment variables and the .env
// file in path. Keys map to env names by upper-casing and replacing dots
// with underscores, e.g. nessus.access_key -> NESSUS_ACCESS_KEY.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// A missing .env is normal outside development.
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// bindValues walks the struct and registers every mapstructure key with
// its 'default' tag, so AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Set even empty defaults so the key is known to AutomaticEnv.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
