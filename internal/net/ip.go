package net

import (
	"fmt"
	"net"

	"InkBoard/internal/logging"
)

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// Offline networks: fall back to the interfaces.
		return firstIPv4().String(), nil
	}
	defer conn.Close()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return firstIPv4().String(), nil
	}
	return localAddr.IP.String(), nil
}

// firstIPv4 returns the first IPv4 address of an up, non-loopback interface.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	logging.For("net").Warn("no suitable local IP found, share links may not resolve")
	return net.IPv4(127, 0, 0, 1)
}

// ShareURL is the address remote pointers and viewers connect to.
func ShareURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("share url for %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		if host, err = GetOutgoingIP(); err != nil {
			return "", err
		}
	}
	return "http://" + net.JoinHostPort(host, port) + "/", nil
}
