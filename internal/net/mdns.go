package net

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"InkBoard/internal/logging"

	"github.com/hashicorp/mdns"
)

const DefaultService = "_inkboard._tcp"

// Peer is a board found on the local network.
type Peer struct {
	Name string
	Addr string
	Info []string
}

// Advertise announces the board's server under service on port. Close the
// returned server to withdraw it.
func Advertise(service string, port int) (*mdns.Server, error) {
	if service == "" {
		service = DefaultService
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"InkBoard", "input=/input", "view=/view"}
	zone, err := mdns.NewMDNSService(host, service, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: zone})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logging.For("mdns").Info("advertising", "service", service, "host", host, "port", port)
	return server, nil
}

// Browse looks for advertised boards until timeout or ctx ends, calling found
// for each IPv4 entry.
func Browse(ctx context.Context, service string, timeout time.Duration, found func(Peer)) error {
	if service == "" {
		service = DefaultService
	}
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Peer{
				Name: e.Name,
				Addr: net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)),
				Info: e.InfoFields,
			})
		}
	}()

	params := mdns.DefaultParams(service)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("browse %s: %w", service, err)
	}
	return nil
}
