package domain

// Broadcast topics. The yield-curve topic is a defined sink with no scheduled
// producer; it is kept so curve consumers can attach before one exists.
const (
	TopicMarketData = "market-data"
	TopicTrades     = "trades"
	TopicYieldCurve = "yield-curve"
)

// Topics lists every topic the hub accepts subscriptions for.
var Topics = []string{TopicMarketData, TopicTrades, TopicYieldCurve}

// ValidTopic reports whether name is a known broadcast topic.
func ValidTopic(name string) bool {
	for _, t := range Topics {
		if t == name {
			return true
		}
	}
	return false
}

// Publisher delivers a payload to all current subscribers of a topic.
// Delivery is best-effort: no acknowledgement, no retry, no replay of missed
// messages. Callers must treat a publish failure as non-fatal.
type Publisher interface {
	Publish(topic string, payload any) error
}
