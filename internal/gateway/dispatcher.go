package gateway

// Dispatcher is the interface used by services to fan events out to
// connected WebSocket clients. The concrete Manager implements it.
type Dispatcher interface {
	DispatchToChannel(channelID int64, event string, data any)
	DispatchToUser(userID int64, event string, data any)
	DispatchToAll(event string, data any)
	SubscribeToChannel(userID, channelID int64)
	UnsubscribeFromChannel(userID, channelID int64)
}
