// Package config loads flowpipe process configuration.
//
// It uses Viper to read a YAML file and the process environment, loading a
// .env file through godotenv first when one is found. Environment variables
// override file values: PIPE_BUFFER_HIGH_WATER_MARK sets
// pipe.buffer.high_water_mark.
//
// # Usage
//
//	var cfg MyConfig
//	err := config.Load("flowpipe", &cfg, config.WithConfigFile(path))
//
// Load applies defaults and validates; LoadConfig only unmarshals.
package config
