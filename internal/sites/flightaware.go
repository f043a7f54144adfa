package sites

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// flightawareSite is the Streamable adapter for FlightAware's Firehose
// feed: a single TLS socket, one command line sent on connect, then NDJSON
// forever. Grounded on
// original_source/engine/src/sources/access/flightaware/stream.rs; no
// ecosystem client exists for the Firehose wire protocol, so stdlib
// crypto/tls is the correct vehicle (see DESIGN.md).
type flightawareSite struct {
	site core.Site
}

func newFlightaware(site core.Site) (Fetchable, Streamable, error) {
	if site.BaseURL == "" {
		return nil, nil, fmt.Errorf("flightaware: %w", core.ErrNoSiteDefined)
	}
	return nil, &flightawareSite{site: site}, nil
}

func (s *flightawareSite) Stream(ctx context.Context, out chan<- []byte, stats *core.Stats) error {
	return reconnectLoop(ctx, stats, func(ctx context.Context) error {
		dialer := tls.Dialer{NetDialer: &net.Dialer{Timeout: 10 * time.Second}}
		conn, err := dialer.DialContext(ctx, "tcp", s.site.BaseURL)
		if err != nil {
			return fmt.Errorf("flightaware: dial %s: %w", s.site.BaseURL, err)
		}
		defer conn.Close()

		go func() {
			<-ctx.Done()
			conn.Close()
		}()

		login, ok := s.site.Auth.(core.AuthLogin)
		if !ok {
			return fmt.Errorf("flightaware: %w", core.ErrAuthBadParam)
		}
		cmd := fmt.Sprintf("live username %s password %s\n", login.Username, login.Password)
		if _, err := conn.Write([]byte(cmd)); err != nil {
			return fmt.Errorf("flightaware: send command: %w", err)
		}

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
			return fmt.Errorf("flightaware: read: %w", err)
		}
		return fmt.Errorf("flightaware: connection closed by peer")
	})
}
