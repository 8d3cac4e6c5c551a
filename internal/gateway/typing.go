package gateway

import (
	"context"
	"time"

	"github.com/drystore/nexus/internal/redis"
)

// TypingNotifier records typing state in Redis and fans the indicator out
// to the channel's subscribers.
type TypingNotifier struct {
	redis      *redis.Client
	dispatcher Dispatcher
}

func NewTypingNotifier(redisClient *redis.Client, dispatcher Dispatcher) *TypingNotifier {
	return &TypingNotifier{redis: redisClient, dispatcher: dispatcher}
}

// NotifyTyping marks the user as typing and broadcasts TYPING_START.
// Access checks belong to the caller.
func (t *TypingNotifier) NotifyTyping(ctx context.Context, channelID, userID int64) error {
	if err := t.redis.SetTyping(ctx, channelID, userID); err != nil {
		return err
	}

	t.dispatcher.DispatchToChannel(channelID, EventTypingStart, TypingStartData{
		ChannelID: channelID,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
	})
	return nil
}
