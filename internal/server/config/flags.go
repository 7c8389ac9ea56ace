package config

import (
	"flag"
	"os"

	"github.com/corrsys/parolecore/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-t int      conduct-point eligibility threshold
//	-n int      parole fraction numerator
//	-m int      parole fraction denominator
//	-p string   consensus policy (administrative | majority | unanimous)
//
// Args are filtered through flagx.FilterArgs first, so flags owned by other
// components (such as -c/-config) do not interfere.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-n", "-m", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.EligibilityThreshold, "t", config.EligibilityThreshold, "conduct-point eligibility threshold")
	fs.IntVar(&config.ParoleFractionNumerator, "n", config.ParoleFractionNumerator, "parole fraction numerator")
	fs.IntVar(&config.ParoleFractionDenominator, "m", config.ParoleFractionDenominator, "parole fraction denominator")
	fs.StringVar(&config.ConsensusPolicy, "p", config.ConsensusPolicy, "consensus policy")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
