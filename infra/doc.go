// Package infra holds the adapters behind the core interfaces: the zerolog
// logger, Prometheus and InfluxDB metrics sinks, the Sentry monitor and the
// MQTT setpoint client. Core packages never import infra.
package infra
