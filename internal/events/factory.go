package events

import (
	"fmt"
	"strings"

	"github.com/dukerupert/wagsales/internal"
)

// NewPublisher creates a Publisher based on configuration.
func NewPublisher(cfg internal.EventsConfig) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return NoopPublisher{}, nil
	case "nats":
		return NewNATSPublisher(cfg.NATSURL, cfg.Subject)
	case "kafka":
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		return NewKafkaPublisher(brokers, cfg.Subject), nil
	default:
		return nil, fmt.Errorf("unknown events driver: %s", cfg.Driver)
	}
}
