// Package logger provides structured logging for flowpipe using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipe")
//	log.Info("pipe started", logger.Fields("pipe", "ingest", "hops", 2))
package logger
