// Package metrics defines the interfaces used to export production plan
// metrics. Sinks such as the Prometheus and InfluxDB implementations in
// infra/metrics record solve outcomes, per-plant setpoints and
// acknowledgments, and can be combined with NewMultiSink. NewMetricsSink
// builds sinks from configuration and returns a MultiSink automatically when
// several are configured.
package metrics
