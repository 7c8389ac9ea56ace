package config

import (
	"encoding/json"
	"os"

	"github.com/corrsys/parolecore/internal/flagx"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP          string `json:"endpoint_addr_http"`
	DatabaseDSN               string `json:"database_dsn"`
	EligibilityThreshold      *int   `json:"eligibility_threshold"`
	ParoleFractionNumerator   *int   `json:"parole_fraction_numerator"`
	ParoleFractionDenominator *int   `json:"parole_fraction_denominator"`
	ConsensusPolicy           string `json:"consensus_policy"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; when
// neither is set, no file is loaded. An unreadable or invalid file panics:
// a misconfigured server must not start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.EligibilityThreshold != nil {
		config.EligibilityThreshold = *c.EligibilityThreshold
	}
	if c.ParoleFractionNumerator != nil {
		config.ParoleFractionNumerator = *c.ParoleFractionNumerator
	}
	if c.ParoleFractionDenominator != nil {
		config.ParoleFractionDenominator = *c.ParoleFractionDenominator
	}
	if c.ConsensusPolicy != "" {
		config.ConsensusPolicy = c.ConsensusPolicy
	}
}
