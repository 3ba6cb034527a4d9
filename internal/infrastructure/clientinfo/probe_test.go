package clientinfo

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/logger"
)

func TestDetect_NeverReturnsEmptyIdentity(t *testing.T) {
	p := NewProbe(logger.NewNoopLogger())

	info := p.Detect(context.Background())

	assert.NotEmpty(t, info.IPAddress)
	assert.NotEmpty(t, info.MachineID)
}

func TestDetect_FallbackMachineIDUsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewProbe(logger.NewNoopLogger())
	p.now = func() time.Time { return fixed }

	info := p.Detect(context.Background())

	// Whether detection succeeded or fell back, the identity is usable; when
	// it fell back, the machine ID embeds the fixed clock.
	if strings.HasPrefix(info.MachineID, constants.FallbackMachineIDPrefix) {
		assert.Equal(t, constants.FallbackIPAddress, info.IPAddress)
		assert.Contains(t, info.MachineID, "1772366400000")
	}
}

func TestFormatHardwareAddr(t *testing.T) {
	hw := net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x42}
	assert.Equal(t, "DEADBEEF0042", formatHardwareAddr(hw))

	assert.Equal(t, "", formatHardwareAddr(nil))
}
