package avd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseColor parses an Android resource color: #RGB, #ARGB, #RRGGBB or
// #AARRGGBB. Theme attribute references (?attr/...) and resource
// references (@color/...) cannot be resolved without a resource table and
// report an error; callers warn and fall back to a default.
func parseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, fmt.Errorf("avd: empty color")
	case s[0] == '?':
		return 0, fmt.Errorf("avd: theme attribute reference %q not resolvable", s)
	case s[0] == '@':
		return 0, fmt.Errorf("avd: resource reference %q not resolvable", s)
	case s[0] != '#':
		return 0, fmt.Errorf("avd: unknown color %q", s)
	}
	hex := s[1:]
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("avd: bad color %q", s)
	}
	n := uint32(v)
	switch len(hex) {
	case 3: // RGB
		return 0xFF000000 | widen4(n>>8)<<16 | widen4(n>>4)<<8 | widen4(n), nil
	case 4: // ARGB
		return widen4(n>>12)<<24 | widen4(n>>8)<<16 | widen4(n>>4)<<8 | widen4(n), nil
	case 6: // RRGGBB
		return 0xFF000000 | n, nil
	case 8: // AARRGGBB
		return n, nil
	default:
		return 0, fmt.Errorf("avd: bad color %q", s)
	}
}

// widen4 doubles the low 4 bits into an 8-bit channel.
func widen4(v uint32) uint32 {
	v &= 0xF
	return v<<4 | v
}
