// Package config loads the application configuration.
//
// Values come from environment variables, optionally seeded from a .env
// file through godotenv. Every section struct declares its keys with
// `mapstructure` tags and its defaults with `default` tags, which
// bindValues registers with viper.
//
// # Sections
//
//   - server: port, API key, timeouts, swagger
//   - log: level, format, rotated file
//   - nessus, netbox: API endpoints and credentials
//   - output: snapshot directory and cache policy
//   - comparison: matcher strategy, schedule, upload
//   - storage, database, events: optional archive, history and NATS
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Netbox.URL)
package config
