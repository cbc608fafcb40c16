// Package app assembles the dataset cleaning service: configuration,
// logging, OpenTelemetry providers, the dataset registry, the service
// layer and the chi router, plus server lifecycle management with
// graceful shutdown.
package app
