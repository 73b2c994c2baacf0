package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/powerplant/infra/mqtt"
)

// ackTopic matches the default ack subscription plant/+/ack.
const ackTopic = "plant/%s/ack"

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// publisher is the subset of paho.Client used to send acknowledgments.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// AckStrategy defines how a plant acknowledges setpoints.
type AckStrategy interface {
	Ack(ctx context.Context, cli publisher, plant, commandID string)
}

// AutoAck sends an ACK after an optional fixed delay.
type AutoAck struct {
	Delay time.Duration
}

// Ack implements AckStrategy.
func (a AutoAck) Ack(ctx context.Context, cli publisher, plant, commandID string) {
	if !wait(ctx, a.Delay) {
		return
	}
	publishAck(cli, plant, commandID)
}

// RandomAck drops acknowledgments with the configured probability and
// waits for the specified delay before sending.
type RandomAck struct {
	Delay    time.Duration
	DropRate float64
}

// Ack implements AckStrategy.
func (r RandomAck) Ack(ctx context.Context, cli publisher, plant, commandID string) {
	if r.DropRate > 0 && rng.Float64() < r.DropRate {
		log.Debugf("%s: dropping ack %s", plant, commandID)
		return
	}
	if !wait(ctx, r.Delay) {
		return
	}
	publishAck(cli, plant, commandID)
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func publishAck(cli publisher, plant, commandID string) {
	payload, err := json.Marshal(mqtt.Ack{CommandID: commandID})
	if err != nil {
		log.Errorf("marshal ack: %v", err)
		return
	}
	token := cli.Publish(fmt.Sprintf(ackTopic, plant), 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		log.Errorf("ack publish timeout for %s", plant)
		return
	}
	if err := token.Error(); err != nil {
		log.Errorf("publish ack error for %s: %v", plant, err)
	}
}
