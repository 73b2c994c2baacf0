package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/kilianp07/powerplant/core/metrics"
	"github.com/kilianp07/powerplant/infra/mqtt"
)

const connectTimeout = 10 * time.Second

func newMQTTClient(broker, clientID, username, password string) (paho.Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	cli := paho.NewClient(opts)
	token := cli.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return cli, nil
}

// SimulatedPlant subscribes to its setpoint topic and acknowledges every
// setpoint it receives.
type SimulatedPlant struct {
	Name          string
	Broker        string
	SetpointTopic string
	Strategy      AckStrategy
	Metrics       coremetrics.MetricsSink
	Username      string
	Password      string

	cmdCh chan mqtt.Setpoint
}

// NewSimulatedPlant creates a new plant.
func NewSimulatedPlant(name, broker, topic string, strat AckStrategy, sink coremetrics.MetricsSink) *SimulatedPlant {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &SimulatedPlant{
		Name:          name,
		Broker:        broker,
		SetpointTopic: topic,
		Strategy:      strat,
		Metrics:       sink,
		cmdCh:         make(chan mqtt.Setpoint, 50),
	}
}

// Run connects to the broker and handles setpoints until ctx is done.
func (p *SimulatedPlant) Run(ctx context.Context) error {
	cli, err := newMQTTClient(p.Broker, "sim-"+p.Name, p.Username, p.Password)
	if err != nil {
		return err
	}
	defer cli.Disconnect(250)
	go p.worker(ctx, cli)
	topic := fmt.Sprintf(p.SetpointTopic, p.Name)
	if token := cli.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
		p.onSetpoint(msg.Payload())
	}); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Infof("%s: listening on %s", p.Name, topic)
	<-ctx.Done()
	return nil
}

// onSetpoint records the setpoint and queues its acknowledgment.
func (p *SimulatedPlant) onSetpoint(payload []byte) {
	var sp mqtt.Setpoint
	if err := json.Unmarshal(payload, &sp); err != nil {
		log.Errorf("%s: decode setpoint: %v", p.Name, err)
		return
	}
	if rec, ok := p.Metrics.(coremetrics.SetpointRecorder); ok {
		if err := rec.RecordSetpoints([]coremetrics.PlantSetpoint{{
			RequestID: sp.CommandID,
			Plant:     p.Name,
			PowerMW:   sp.PowerMW,
			Committed: true,
			Time:      time.UnixMilli(sp.Timestamp),
		}}); err != nil {
			log.Errorf("%s: record setpoint: %v", p.Name, err)
		}
	}
	select {
	case p.cmdCh <- sp:
	default:
		log.Warnf("%s: ack queue full, dropping setpoint %s", p.Name, sp.CommandID)
	}
}

func (p *SimulatedPlant) worker(ctx context.Context, cli publisher) {
	for {
		select {
		case sp := <-p.cmdCh:
			log.Debugf("%s: applying %.2f MW", p.Name, sp.PowerMW)
			p.Strategy.Ack(ctx, cli, p.Name, sp.CommandID)
		case <-ctx.Done():
			return
		}
	}
}
