package stream

import (
	"context"
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/time/rate"
)

// PublishTimeout bounds how long a frame waits for the broker.
const PublishTimeout = 2 * time.Second

// ErrPublishTimeout is returned when the broker does not acknowledge a frame
// in time.
var ErrPublishTimeout = errors.New("publish timed out")

// A Publisher sends encoded frames to an ledrx device.
type Publisher interface {
	Publish(payload []byte) error
}

// PublisherFunc adapts a function to a Publisher.
type PublisherFunc func(payload []byte) error

// Publish calls p.
func (p PublisherFunc) Publish(payload []byte) error {
	return p(payload)
}

// mqttClient is the part of mqtt.Client a publisher needs.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher sends frames as binary over MQTT.
type MQTTPublisher struct {
	client mqttClient
	topic  string
	qos    byte
}

// NewMQTTPublisher creates a publisher for topic.
func NewMQTTPublisher(client mqttClient, topic string, qos byte) *MQTTPublisher {
	p := new(MQTTPublisher)
	p.client = client
	p.topic = topic
	p.qos = qos

	return p
}

// Topic is where frames are published.
func (p *MQTTPublisher) Topic() string {
	return p.topic
}

// Publish sends one frame and waits for the broker.
func (p *MQTTPublisher) Publish(payload []byte) error {
	token := p.client.Publish(p.topic, p.qos, false, payload)
	if !token.WaitTimeout(PublishTimeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

// ThrottledPublisher paces frames to a maximum rate. Frames are never
// dropped: Publish blocks until the frame may be sent.
type ThrottledPublisher struct {
	next    Publisher
	limiter *rate.Limiter
}

// Throttle wraps next so it publishes at most fps frames per second.
func Throttle(next Publisher, fps float64) *ThrottledPublisher {
	t := new(ThrottledPublisher)
	t.next = next
	t.limiter = rate.NewLimiter(rate.Limit(fps), 1)

	return t
}

// Publish waits for the limiter and sends the frame.
func (t *ThrottledPublisher) Publish(payload []byte) error {
	if err := t.limiter.Wait(context.Background()); err != nil {
		return err
	}
	return t.next.Publish(payload)
}
