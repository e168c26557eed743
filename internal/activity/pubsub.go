package activity

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"mlaconnect/backend/internal/models"
)

// StartPubSubListener forwards every event published on the activity
// channels into PubSubCh.
func (m *ManagerService) StartPubSubListener(ctx context.Context) {
	pubsub := m.subscriber.SubscribeActivity(ctx)

	go func() {
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.ActivityEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					m.log.Warn("bad activity payload", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case m.PubSubCh <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
