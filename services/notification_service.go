package services

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"brims-http-service/config"
)

type InterfaceNotificationService interface {
	PublishChange(kind string) error
	Connected() bool
	Disconnect()
}

// NotificationService mirrors in-process change events onto an MQTT
// topic so external dashboards can refresh without polling. The topic
// suffix names what changed; the payload repeats it with a timestamp.
type NotificationService struct {
	client mqtt.Client
	cfg    *config.Config
}

type changeMessage struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
}

func NewNotificationService(cfg *config.Config) InterfaceNotificationService {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID("brims-" + uuid.New().String()).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		config.Warning("MQTT connect failed, change notifications disabled: %v", token.Error())
	}

	return &NotificationService{client: client, cfg: cfg}
}

func (s *NotificationService) PublishChange(kind string) error {
	if !s.client.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}
	topic := fmt.Sprintf("%s/events/%s", s.cfg.MQTTTopicBase, kind)
	payload, err := json.Marshal(changeMessage{
		Kind:      kind,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	token := s.client.Publish(topic, 1, false, payload)
	if token.WaitTimeout(3*time.Second) && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (s *NotificationService) Connected() bool {
	return s.client.IsConnected()
}

func (s *NotificationService) Disconnect() {
	if s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}
