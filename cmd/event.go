package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/budgetwise/internal/core/events"
	"github.com/frahmantamala/budgetwise/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish test events to check the event bus and the broker forwarding.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event on the event bus. When events.amqp_url is configured the event is also forwarded to the broker.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var (
	eventData  string
	eventLocal bool
)

func publishTestEvent(eventType string) error {
	lg := logger.L()
	bus := events.NewEventBus(lg)

	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	if !eventLocal {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Events.AMQPURL != "" {
			forwarder, err := events.DialAMQPForwarder(cfg.Events.AMQPURL, cfg.Events.Exchange, lg)
			if err != nil {
				return fmt.Errorf("connect event broker: %w", err)
			}
			defer forwarder.Close()
			bus.Subscribe(events.Wildcard, forwarder.Handle)
		}
	}

	testEvent := events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	if err := bus.PublishSync(context.Background(), testEvent); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")
	publishEventCmd.Flags().BoolVar(&eventLocal, "local", false, "Only deliver to the in-process bus")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
