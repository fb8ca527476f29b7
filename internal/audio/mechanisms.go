package audio

import (
	"path/filepath"

	"github.com/bft-labs/chime/internal/ports"
)

// Default player commands. The sound path is appended to each.
var (
	DefaultPrimaryPlayer   = []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "error"}
	DefaultSecondaryPlayer = []string{"play", "-q"}
)

// DefaultMechanisms returns the fallback chain: the primary streaming
// player, the secondary one-shot player, then the platform fallback when
// the OS has one. Empty argv slices fall back to the defaults.
func DefaultMechanisms(primary, secondary []string) []ports.Mechanism {
	if len(primary) == 0 {
		primary = DefaultPrimaryPlayer
	}
	if len(secondary) == 0 {
		secondary = DefaultSecondaryPlayer
	}

	chain := []ports.Mechanism{
		NewCommand(mechanismName(primary), primary...),
		NewCommand(mechanismName(secondary), secondary...),
	}
	if fb := platformFallback(); fb != nil {
		chain = append(chain, fb)
	}
	return chain
}

func mechanismName(argv []string) string {
	return filepath.Base(argv[0])
}
