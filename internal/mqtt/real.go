package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/feeder-control/internal/logic"
)

const pendingCapacity = 64

// RealClient talks to an actual MQTT broker: it subscribes the feed topics
// and publishes dispense commands and system events.
type RealClient struct {
	client   paho.Client
	topics   Topics
	handlers FeedHandlers

	mu      sync.Mutex
	pending *pendingBuffer
}

// NewRealClient connects to the broker and subscribes the feeds for the
// given account. Subscriptions are re-established on every reconnect, and
// system events buffered while disconnected are replayed.
func NewRealClient(broker, account string, handlers FeedHandlers) (*RealClient, error) {
	c := &RealClient{
		topics:   Topics{Account: account},
		handlers: handlers,
		pending:  newPendingBuffer(pendingCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("feeder-control-" + account).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(client paho.Client) {
			c.subscribeFeeds(client)
			c.drainPending(client)
		})

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

// subscribeFeeds wires each feed topic to its parser and handler. Parse
// failures are logged and the previous cached value survives, except bowl
// weights where an invalid payload reads as 0.
func (c *RealClient) subscribeFeeds(client paho.Client) {
	subs := map[string]paho.MessageHandler{
		c.topics.Settings(): func(_ paho.Client, m paho.Message) {
			s, err := ParseSettings(m.Payload())
			if err != nil {
				log.Printf("settings feed: %v", err)
				return
			}
			c.handlers.OnSettings(s)
		},
		c.topics.Environment(): func(_ paho.Client, m paho.Message) {
			temp, hum, err := ParseWeather(m.Payload())
			if err != nil {
				log.Printf("environment feed: %v", err)
				return
			}
			c.handlers.OnWeather(temp, hum)
		},
		c.topics.TempAdapt(): func(_ paho.Client, m paho.Message) {
			c.handlers.OnTempAdapt(ParseTempAdapt(m.Payload()))
		},
	}
	for _, sp := range logic.AllSpecies {
		sp := sp
		subs[c.topics.Bowl(sp)] = func(_ paho.Client, m paho.Message) {
			c.handlers.OnBowlWeight(sp, ParseBowlWeight(m.Payload()))
		}
	}

	for topic, handler := range subs {
		if token := client.Subscribe(topic, 1, handler); token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("subscribe %s: %v", topic, token.Error())
		}
	}
}

// Dispense writes the command to the actuator: amount first (retained so the
// actuator can always read the latest portion), then the run trigger.
func (c *RealClient) Dispense(cmd logic.Command) error {
	if err := c.publish(c.topics.DispenseAmount(cmd.Species), FormatAmount(cmd.Amount), 1, true); err != nil {
		return fmt.Errorf("publish amount: %w", err)
	}
	if err := c.publish(c.topics.DispenseRun(cmd.Species), FormatRun(), 1, false); err != nil {
		return fmt.Errorf("publish run: %w", err)
	}
	return nil
}

// PublishSystem sends a system lifecycle event. While disconnected the event
// is buffered and replayed on reconnect; dispense commands are deliberately
// never buffered.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	if !c.client.IsConnected() {
		c.mu.Lock()
		c.pending.push(pendingMsg{topic: c.topics.System(), payload: payload, qos: 1, retained: event.Retained})
		n := c.pending.len()
		c.mu.Unlock()
		log.Printf("mqtt: disconnected, buffered system event %s (%d pending)", event.Event, n)
		return nil
	}

	if err := c.publish(c.topics.System(), payload, 1, event.Retained); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

func (c *RealClient) drainPending(client paho.Client) {
	c.mu.Lock()
	msgs := c.pending.drainAll()
	c.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: reconnected, replaying %d buffered system events", len(msgs))
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("replay system event: %v", token.Error())
		}
	}
}

func (c *RealClient) publish(topic string, payload []byte, qos byte, retained bool) error {
	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}

// IsConnected reports whether the broker connection is up.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
