package schedule

import (
	"fmt"
	"strings"

	"github.com/bft-labs/chime/internal/domain"
)

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". Surrounding whitespace is
// ignored; every field must be exactly two digits.
func ParseTimeOfDay(s string) (domain.TimeOfDay, error) {
	raw := strings.TrimSpace(s)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return domain.TimeOfDay{}, fmt.Errorf("%w: %q: want HH:MM or HH:MM:SS", domain.ErrInvalidTime, s)
	}

	fields := [3]int{}
	for i, p := range parts {
		if len(p) != 2 {
			return domain.TimeOfDay{}, fmt.Errorf("%w: %q: field %q must be two digits", domain.ErrInvalidTime, s, p)
		}
		if !isDigit(p[0]) || !isDigit(p[1]) {
			return domain.TimeOfDay{}, fmt.Errorf("%w: %q: field %q is not a number", domain.ErrInvalidTime, s, p)
		}
		fields[i] = int(p[0]-'0')*10 + int(p[1]-'0')
	}

	tod, err := domain.NewTimeOfDay(fields[0], fields[1], fields[2])
	if err != nil {
		return domain.TimeOfDay{}, fmt.Errorf("%q: %w", s, err)
	}
	return tod, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
