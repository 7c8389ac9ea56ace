package services

import (
	"github.com/corrsys/parolecore/internal/server/config"
	"github.com/corrsys/parolecore/internal/server/models"
)

// consensusReached evaluates the configured consensus policy against a
// signature roster. Under the administrative policy a single inspector's
// decision stands, so consensus is always considered reached.
func consensusReached(policy string, signatures []*models.Signature) bool {
	signed := 0
	for _, s := range signatures {
		if s.HasSigned {
			signed++
		}
	}

	switch policy {
	case config.ConsensusUnanimous:
		return len(signatures) > 0 && signed == len(signatures)
	case config.ConsensusMajority:
		return signed >= len(signatures)/2+1
	default:
		return true
	}
}
