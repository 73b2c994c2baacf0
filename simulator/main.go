// Command simulator runs plants that acknowledge the setpoints published by
// the production plan service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	coremetrics "github.com/kilianp07/powerplant/core/metrics"
	"github.com/kilianp07/powerplant/infra/logger"
	"github.com/kilianp07/powerplant/infra/metrics"
	"github.com/kilianp07/powerplant/infra/mqtt"
)

var log = logger.New("simulator")

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Errorf("invalid config: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	strat := RandomAck{Delay: cfg.AckLatency, DropRate: cfg.DropRate}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if cfg.InfluxURL != "" {
		sink = metrics.NewInfluxSinkWithFallback(metrics.InfluxConfig{
			URL:    cfg.InfluxURL,
			Token:  cfg.InfluxToken,
			Org:    cfg.InfluxOrg,
			Bucket: cfg.InfluxBucket,
		})
	}
	runPlants(ctx, cfg, strat, sink)
}

func parseFlags() Config {
	var cfg Config
	var plants string
	flag.StringVar(&cfg.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.StringVar(&cfg.Username, "username", "", "MQTT username")
	flag.StringVar(&cfg.Password, "password", "", "MQTT password")
	flag.StringVar(&plants, "plants", "gasfiredbig1,gasfiredbig2,gasfiredsomewhatsmaller,tj1,windpark1,windpark2", "comma separated plant names")
	flag.StringVar(&cfg.SetpointTopic, "setpoint-topic", mqtt.DefaultSetpointTopic, "setpoint topic with one %s for the plant name")
	flag.DurationVar(&cfg.AckLatency, "ack-latency", 0, "ack latency")
	flag.Float64Var(&cfg.DropRate, "drop-rate", 0, "ack drop rate")
	flag.StringVar(&cfg.InfluxURL, "influx-url", "", "InfluxDB URL")
	flag.StringVar(&cfg.InfluxToken, "influx-token", "", "InfluxDB token")
	flag.StringVar(&cfg.InfluxOrg, "influx-org", "", "InfluxDB organization")
	flag.StringVar(&cfg.InfluxBucket, "influx-bucket", "", "InfluxDB bucket")
	flag.Parse()
	cfg.Plants = splitPlants(plants)
	return cfg
}

func runPlants(ctx context.Context, cfg Config, strat AckStrategy, sink coremetrics.MetricsSink) {
	var wg sync.WaitGroup
	for _, name := range cfg.Plants {
		p := NewSimulatedPlant(name, cfg.Broker, cfg.SetpointTopic, strat, sink)
		p.Username, p.Password = cfg.Username, cfg.Password
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(ctx); err != nil {
				log.Errorf("%s: %v", p.Name, err)
			}
		}()
	}
	wg.Wait()
	if c, ok := sink.(interface{ Close() }); ok {
		c.Close()
	}
}
