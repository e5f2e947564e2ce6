package mqttingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sensorhub/internal/config"
	"sensorhub/internal/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// reading is the JSON payload sensors publish. A zero timestamp is filled
// with the broker-side receive time.
type reading struct {
	SensorID  string  `json:"sensor_id"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// Ingestor subscribes to the observation topic and feeds readings through
// the same recording path as the HTTP API, so MQTT-delivered observations
// update aggregates and trigger alarms identically.
type Ingestor struct {
	client       mqtt.Client
	cfg          *config.MQTTConfig
	observations *service.ObservationService
	logger       *zap.Logger
}

func NewIngestor(cfg *config.MQTTConfig, observations *service.ObservationService, logger *zap.Logger) (*Ingestor, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Ingestor{
		client:       client,
		cfg:          cfg,
		observations: observations,
		logger:       logger,
	}, nil
}

// Start subscribes to the ingest topic. Bad payloads and per-reading
// failures are logged and dropped; the subscription stays up.
func (i *Ingestor) Start() error {
	token := i.client.Subscribe(i.cfg.Topic, i.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		i.handle(msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", i.cfg.Topic, token.Error())
	}
	i.logger.Info("mqtt ingest started", zap.String("topic", i.cfg.Topic))
	return nil
}

func (i *Ingestor) handle(payload []byte) {
	var r reading
	if err := json.Unmarshal(payload, &r); err != nil {
		i.logger.Warn("dropping unparseable reading", zap.Error(err))
		return
	}
	if r.SensorID == "" {
		i.logger.Warn("dropping reading without sensor_id")
		return
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := i.observations.Record(ctx, r.SensorID, r.Value, r.Timestamp); err != nil {
		i.logger.Warn("failed to record mqtt reading",
			zap.String("sensor_id", r.SensorID),
			zap.Error(err),
		)
	}
}

// Stop disconnects from the broker, waiting briefly for in-flight work.
func (i *Ingestor) Stop() {
	i.client.Disconnect(250)
}
