// Package clientinfo resolves the local caller's network identity for the
// console variant: an IP address and a hardware-derived machine ID. Detection
// failures are never surfaced; synthetic fallback values are returned instead.
package clientinfo

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/logger"
)

// ClientInfo is the probe result.
type ClientInfo struct {
	IPAddress string
	MachineID string
}

// Probe detects the local client identity.
type Probe struct {
	logger logger.Logger

	// now is injectable so the fallback machine ID is deterministic in tests.
	now func() time.Time
}

// NewProbe creates a probe.
func NewProbe(log logger.Logger) *Probe {
	return &Probe{
		logger: log.WithComponent("clientinfo"),
		now:    time.Now,
	}
}

// Detect resolves the local IP and a machine ID derived from the hardware
// address of a non-loopback interface. On any failure it logs a note and
// returns the fallback identity, never an error.
func (p *Probe) Detect(ctx context.Context) ClientInfo {
	ip, hw, err := localAddress()
	if err != nil {
		p.logger.Warn(ctx, "Using fallback client identification", logger.Any("cause", err.Error()))
		return ClientInfo{
			IPAddress: constants.FallbackIPAddress,
			MachineID: fmt.Sprintf("%s%d", constants.FallbackMachineIDPrefix, p.now().UnixMilli()),
		}
	}

	machineID := formatHardwareAddr(hw)
	if machineID == "" {
		machineID = fmt.Sprintf("%s%d", constants.FallbackMachineIDPrefix, p.now().UnixMilli())
	}

	return ClientInfo{IPAddress: ip, MachineID: machineID}
}

// localAddress returns the first global unicast IPv4 address and the hardware
// address of the interface carrying it.
func localAddress() (string, net.HardwareAddr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", nil, err
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
			if !ok || ipNet.IP.To4() == nil || !ipNet.IP.IsGlobalUnicast() {
				continue
			}
			return ipNet.IP.String(), iface.HardwareAddr, nil
		}
	}

	return "", nil, fmt.Errorf("no usable network interface found")
}

// formatHardwareAddr renders a MAC as uppercase hex without separators, the
// machine ID format.
func formatHardwareAddr(hw net.HardwareAddr) string {
	if len(hw) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, b := range hw {
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
