package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/powerplant/core/metrics"
	"github.com/kilianp07/powerplant/infra/logger"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes solve events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordSolve writes one "solve" point per request.
func (s *InfluxSink) RecordSolve(rec coremetrics.SolveRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve").
		AddTag("request_id", rec.RequestID).
		AddTag("outcome", rec.Outcome).
		AddField("load_mw", round3(rec.Load)).
		AddField("plants", rec.Plants).
		AddField("committed", rec.Committed).
		AddField("nodes", rec.Nodes).
		AddField("cost", round3(rec.Cost)).
		AddField("lower_bound", round3(rec.LowerBound)).
		AddField("duration_ms", round3(rec.Duration.Seconds()*1000)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSetpoints writes one "plant_setpoint" point per plant.
func (s *InfluxSink) RecordSetpoints(sps []coremetrics.PlantSetpoint) error {
	if len(sps) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(sps))
	for _, sp := range sps {
		points = append(points, write.NewPointWithMeasurement("plant_setpoint").
			AddTag("request_id", sp.RequestID).
			AddTag("plant", sp.Plant).
			AddTag("fuel", sp.FuelType).
			AddTag("committed", strconv.FormatBool(sp.Committed)).
			AddField("power_mw", round3(sp.PowerMW)).
			AddField("max_mw", round3(sp.MaxMW)).
			AddField("marginal_cost", round3(sp.MarginalCost)).
			SetTime(sp.Time))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordSetpointAck writes a "setpoint_ack" point.
func (s *InfluxSink) RecordSetpointAck(ev coremetrics.SetpointAckEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("setpoint_ack").
		AddTag("request_id", ev.RequestID).
		AddTag("plant", ev.Plant).
		AddTag("acknowledged", strconv.FormatBool(ev.Acknowledged)).
		AddField("latency_ms", round3(ev.Latency.Seconds()*1000)).
		AddField("error", ev.Error).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
