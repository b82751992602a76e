package swd

import (
	"fmt"
	"strconv"
	"strings"
)

// Outgoing commands. Numbers are lowercase hex without prefix; the
// peer is switched to hex I/O during Init.

const (
	cmdDiscard = " "
	cmdNoEcho  = "0 echo"
	cmdHex     = "hex"
)

func syncCmd(token uint32) string { return fmt.Sprintf("%x sync", token) }

func readReportCmd(cmd uint8) string { return fmt.Sprintf("%x rd p", cmd) }

func readDropCmd(cmd uint8) string { return fmt.Sprintf("%x rd drop", cmd) }

func writeCmd(order WriteOrder, cmd uint8, value uint32) string {
	if order == WriteCmdFirst {
		return fmt.Sprintf("%x %x wr", cmd, value)
	}
	return fmt.Sprintf("%x %x wr", value, cmd)
}

func idleCmd(n uint32) string { return fmt.Sprintf("%x idle", n) }

func resetCmd(style ResetStyle, trst, srst bool) string {
	if style == ResetTRSTSRST {
		return fmt.Sprintf("%d %d trst/srst", bit(trst), bit(srst))
	}
	return fmt.Sprintf("%d srst", bit(srst))
}

func bit(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Incoming lines.

// parseSync matches "sync <hex>".
func parseSync(line string) (uint32, bool) {
	f := strings.Fields(line)
	if len(f) != 2 || f[0] != "sync" {
		return 0, false
	}
	v, err := parseHex(f[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseAck matches "error ack <hex>".
func parseAck(line string) (uint32, bool) {
	f := strings.Fields(line)
	if len(f) != 3 || f[0] != "error" || f[1] != "ack" {
		return 0, false
	}
	v, err := parseHex(f[2])
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseValue parses a read result line.
func parseValue(line string) (uint32, error) {
	v, err := parseHex(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: bad value line %q", ErrProtocolDesync, line)
	}
	return v, nil
}

func parseHex(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}
