package notify

import (
	"time"

	"sensorhub/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookNotifier POSTs created alarms to a configured URL. Delivery is
// fire-and-forget: ingestion never waits on, or fails because of, the
// webhook endpoint.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{client: client, url: url, logger: logger}
}

// Notify delivers the alarm asynchronously.
func (n *WebhookNotifier) Notify(alarm *domain.Alarm) {
	go n.deliver(alarm)
}

func (n *WebhookNotifier) deliver(alarm *domain.Alarm) {
	resp, err := n.client.R().SetBody(alarm).Post(n.url)
	if err != nil {
		n.logger.Warn("alarm webhook delivery failed",
			zap.String("alarm_id", alarm.ID),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		n.logger.Warn("alarm webhook rejected",
			zap.String("alarm_id", alarm.ID),
			zap.Int("status", resp.StatusCode()),
		)
		return
	}
	n.logger.Debug("alarm webhook delivered", zap.String("alarm_id", alarm.ID))
}
