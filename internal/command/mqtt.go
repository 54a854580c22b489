package command

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	topicFmt       = "bot/%s/from_clients"
	bufferCapacity = 32
	publishTimeout = 5 * time.Second
)

// MQTTConfig holds broker connection settings.
type MQTTConfig struct {
	Broker   string // e.g. tcp://localhost:1883
	DeviceID string // bot device id, also the broker username
	Token    string // API token, used as the broker password
	ClientID string
}

// Topic returns the topic the bot reads client commands from.
func Topic(deviceID string) string {
	return fmt.Sprintf(topicFmt, deviceID)
}

// MQTTPublisher sends commands to the bot over MQTT, wrapped in
// rpc_request nodes. Commands sent while the connection is down are held
// and replayed once it comes back.
type MQTTPublisher struct {
	client paho.Client
	topic  string
	newID  func() string

	mu      sync.Mutex
	pending *ringBuffer
}

// NewMQTTPublisher connects to the broker.
func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	p := newMQTTPublisher(nil, Topic(cfg.DeviceID))

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "sensor-plot-" + p.newID()
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetUsername(cfg.DeviceID).
		SetPassword(cfg.Token).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.replay() })

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func newMQTTPublisher(client paho.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{
		client:  client,
		topic:   topic,
		newID:   uuid.NewString,
		pending: newRingBuffer(bufferCapacity),
	}
}

// Send publishes the command, or buffers it while disconnected.
func (p *MQTTPublisher) Send(ctx context.Context, cmd Command) error {
	payload, err := FormatPayload(RPCRequest(p.newID(), cmd))
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// The check and the push share the lock replay drains under, so a
	// command is either published here or seen by the next drain.
	p.mu.Lock()
	if !p.client.IsConnectionOpen() {
		p.pending.push(bufferedMsg{topic: p.topic, payload: payload})
		n := p.pending.len()
		p.mu.Unlock()
		log.Printf("command: not connected, buffered %s (%d pending)", cmd.Kind, n)
		return nil
	}
	p.mu.Unlock()

	return p.publish(ctx, bufferedMsg{topic: p.topic, payload: payload})
}

func (p *MQTTPublisher) publish(ctx context.Context, msg bufferedMsg) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// QoS 1 (at-least-once): commands must reach the bot
	token := p.client.Publish(msg.topic, 1, false, msg.payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish: %w", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// replay sends commands buffered while disconnected, oldest first. It drains
// until the buffer stays empty, picking up commands buffered mid-replay.
func (p *MQTTPublisher) replay() {
	for {
		p.mu.Lock()
		msgs := p.pending.drainAll()
		p.mu.Unlock()
		if len(msgs) == 0 {
			return
		}

		log.Printf("command: connected, replaying %d buffered commands", len(msgs))
		for _, m := range msgs {
			if err := p.publish(context.Background(), m); err != nil {
				log.Printf("command: replay failed: %v", err)
			}
		}
	}
}

// IsConnected reports whether the broker connection is up.
func (p *MQTTPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Pending returns the number of buffered commands.
func (p *MQTTPublisher) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.len()
}

// Close disconnects from the broker. Commands still buffered are dropped.
func (p *MQTTPublisher) Close() error {
	if n := p.Pending(); n > 0 {
		log.Printf("command: closing with %d undelivered commands", n)
	}
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
