package sites

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fetiche/engine/internal/core"
)

// senhiveQueues are the four queues Thales Senhive publishes fused drone
// tracks and system alerts on, per spec.md §6. Only the fused-data queues
// carry records this engine turns into DronePoint, but Stream forwards every
// delivery from all four queues, alerts included, and acks each one once it
// is handed to out.
var senhiveQueues = []string{"fused_data", "system_alert", "dl_fused_data", "dl_system_alert"}

// senhiveSite is the Streamable adapter consuming Thales Senhive's AMQP
// 0-9-1 feed, grounded on original_source/sources/src/access/senhive.rs and
// sources/examples/senhive-amqp.rs.
type senhiveSite struct {
	site core.Site
}

func newSenhive(site core.Site) (Fetchable, Streamable, error) {
	if site.BaseURL == "" {
		return nil, nil, fmt.Errorf("senhive: %w", core.ErrNoSiteDefined)
	}
	return nil, &senhiveSite{site: site}, nil
}

func (s *senhiveSite) Stream(ctx context.Context, out chan<- []byte, stats *core.Stats) error {
	return reconnectLoop(ctx, stats, func(ctx context.Context) error {
		conn, err := amqp.DialConfig(s.site.BaseURL, amqp.Config{})
		if err != nil {
			return fmt.Errorf("senhive: dial: %w", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("senhive: open channel: %w", err)
		}
		defer ch.Close()

		deliveries := make(chan amqp.Delivery)
		for _, q := range senhiveQueues {
			msgs, err := ch.ConsumeWithContext(ctx, q, "", false, false, false, false, nil)
			if err != nil {
				return fmt.Errorf("senhive: consume %s: %w", q, err)
			}
			go func(msgs <-chan amqp.Delivery) {
				for d := range msgs {
					select {
					case deliveries <- d:
					case <-ctx.Done():
						return
					}
				}
			}(msgs)
		}

		closed := conn.NotifyClose(make(chan *amqp.Error, 1))

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cerr := <-closed:
				if cerr != nil {
					return fmt.Errorf("senhive: connection closed: %w", cerr)
				}
				return fmt.Errorf("senhive: connection closed")
			case d, ok := <-deliveries:
				if !ok {
					return fmt.Errorf("senhive: delivery channel closed")
				}
				body := append([]byte(nil), d.Body...)
				select {
				case out <- body:
					_ = d.Ack(false)
				case <-ctx.Done():
					_ = d.Nack(false, true)
					return ctx.Err()
				}
			}
		}
	})
}
