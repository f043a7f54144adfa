package sites

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// avionixSite is the Streamable adapter for an Avionix antenna: a bare TCP
// socket emitting newline-delimited JSON, grounded on
// original_source/engine/src/sources/access/avionix/mod.rs's raw TcpStream
// read loop. No ecosystem client targets this bespoke protocol any closer
// than stdlib net/bufio (see DESIGN.md).
type avionixSite struct {
	site core.Site
}

func newAvionix(site core.Site) (Fetchable, Streamable, error) {
	if site.BaseURL == "" {
		return nil, nil, fmt.Errorf("avionix: %w", core.ErrNoSiteDefined)
	}
	return nil, &avionixSite{site: site}, nil
}

// Stream dials the antenna and forwards each JSONL line to out until ctx is
// cancelled, reconnecting on any read/dial error per reconnectLoop's policy.
func (s *avionixSite) Stream(ctx context.Context, out chan<- []byte, stats *core.Stats) error {
	return reconnectLoop(ctx, stats, func(ctx context.Context) error {
		dialer := net.Dialer{Timeout: 10 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", s.site.BaseURL)
		if err != nil {
			return fmt.Errorf("avionix: dial %s: %w", s.site.BaseURL, err)
		}
		defer conn.Close()

		go func() {
			<-ctx.Done()
			conn.Close()
		}()

		scanner := bufio.NewScanner(conn)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("avionix: read: %w", err)
		}
		return fmt.Errorf("avionix: connection closed by peer")
	})
}
