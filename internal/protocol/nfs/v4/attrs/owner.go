package attrs

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// Owner/Group Strings
// ============================================================================
//
// NFSv4 carries owners as "name@domain" strings (RFC 7530 Section 5.9).
// Servers without an ID mapper commonly send the numeric id instead, either
// bare or as "N@domain".

const nobodyID = 65534

// ParseOwner maps an owner or owner_group string to a numeric id.
//
// Supported formats:
//   - "N@domain" where N is numeric (e.g., "1000@localdomain" -> 1000)
//   - "N" bare numeric (e.g., "0" -> 0)
//   - Well-known names with or without a domain: root (and wheel for
//     groups) map to 0, nobody (and nogroup for groups) map to 65534
func ParseOwner(owner string, group bool) (uint32, error) {
	name := owner
	if idx := strings.Index(owner, "@"); idx >= 0 {
		name = owner[:idx]
	}

	if id, err := strconv.ParseUint(name, 10, 32); err == nil {
		return uint32(id), nil
	}

	switch strings.ToLower(name) {
	case "root":
		return 0, nil
	case "nobody":
		return nobodyID, nil
	case "wheel":
		if group {
			return 0, nil
		}
	case "nogroup":
		if group {
			return nobodyID, nil
		}
	}

	kind := "owner"
	if group {
		kind = "group"
	}
	return 0, fmt.Errorf("invalid %s string: %q", kind, owner)
}

// FormatOwner renders a numeric id as an owner string. An empty domain
// yields the bare number.
func FormatOwner(id uint32, domain string) string {
	if domain == "" {
		return strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf("%d@%s", id, domain)
}
