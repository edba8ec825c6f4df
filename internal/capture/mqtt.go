package capture

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type MQTTConfig struct {
	URL      string
	Username string
	Password string
	Topic    string
	ClientID string
}

// announcement is the JSON body published for each finished clip.
type announcement struct {
	Filename   string `json:"filename"`
	Bytes      int    `json:"bytes"`
	Frames     int    `json:"frames"`
	DurationMS int64  `json:"durationMs"`
	CreatedAt  string `json:"createdAt"`
}

func announce(rec *Recording) ([]byte, error) {
	return json.Marshal(announcement{
		Filename:   rec.Filename,
		Bytes:      len(rec.Data),
		Frames:     rec.Frames,
		DurationMS: rec.Duration.Milliseconds(),
		CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// MQTTNotifier publishes finished clips to a broker topic.
type MQTTNotifier struct {
	Client  mqtt.Client
	Topic   string
	Logger  Logger
	Timeout time.Duration
}

func NewMQTTNotifier(cfg MQTTConfig, logger Logger) *MQTTNotifier {
	if cfg.ClientID == "" {
		cfg.ClientID = "doorcam"
	}
	if cfg.Topic == "" {
		cfg.Topic = "doorcam/recordings"
	}
	n := &MQTTNotifier{Topic: cfg.Topic, Logger: logger, Timeout: 5 * time.Second}
	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			n.infof("connected to %s", cfg.URL)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			n.errorf("connection lost: %v", err)
		})
	n.Client = mqtt.NewClient(options)
	return n
}

// Connect dials the broker, giving up after the notifier timeout.
func (n *MQTTNotifier) Connect() error {
	token := n.Client.Connect()
	if !token.WaitTimeout(n.Timeout) {
		return fmt.Errorf("mqtt connect: timed out after %s", n.Timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (n *MQTTNotifier) Notify(rec *Recording) error {
	payload, err := announce(rec)
	if err != nil {
		return fmt.Errorf("mqtt payload: %w", err)
	}
	token := n.Client.Publish(n.Topic, 1, false, payload)
	if !token.WaitTimeout(n.Timeout) {
		return fmt.Errorf("mqtt publish %s: timed out", n.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", n.Topic, err)
	}
	n.infof("announced %s on %s", rec.Filename, n.Topic)
	return nil
}

func (n *MQTTNotifier) Close() {
	if n.Client != nil && n.Client.IsConnected() {
		n.Client.Disconnect(250)
	}
}

func (n *MQTTNotifier) infof(format string, args ...interface{}) {
	if n.Logger != nil {
		n.Logger.Infof("mqtt", format, args...)
	}
}

func (n *MQTTNotifier) errorf(format string, args ...interface{}) {
	if n.Logger != nil {
		n.Logger.Errorf("mqtt", format, args...)
	}
}
