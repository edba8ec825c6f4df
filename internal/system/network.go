package system

import (
	"errors"
	"net"
	"strings"
)

var ErrNoAddress = errors.New("no non-loopback IPv4 address")

// LocalIPv4 returns the first non-loopback IPv4 address of an up interface.
func LocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4.String(), nil
			}
		}
	}
	return "", ErrNoAddress
}

// ServerURL builds the URL a phone on the same network would open.
func ServerURL(ip, listenAddr string) string {
	if ip == "" {
		return ""
	}
	port := ""
	if _, p, err := net.SplitHostPort(listenAddr); err == nil {
		port = p
	} else if strings.HasPrefix(listenAddr, ":") {
		port = strings.TrimPrefix(listenAddr, ":")
	}
	if port == "" || port == "80" {
		return "http://" + ip
	}
	return "http://" + net.JoinHostPort(ip, port)
}
