package server

import "net"

// outboundProbeAddr only has to be routable; connecting a UDP socket
// sends nothing.
const outboundProbeAddr = "8.8.8.8:80"

// OutboundIP discovers the address this machine uses for outbound
// traffic, which is the one other devices on the network can reach.
// It never fails: with no route available it degrades to "localhost".
func OutboundIP() string {
	conn, err := net.Dial("udp4", outboundProbeAddr)
	if err != nil {
		return "localhost"
	}
	defer func() { _ = conn.Close() }()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP != nil {
		return addr.IP.String()
	}
	return "localhost"
}
