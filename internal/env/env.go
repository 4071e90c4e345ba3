package env

import (
	"os"
	"strings"

	"github.com/loonghao/auroraview-sub000/internal/envvar"
)

// Environment identifies the deployment environment.
type Environment string

const (
	// Development enables human-readable logging and verbose diagnostics.
	Development Environment = "development"

	// Production enables structured JSON logging.
	Production Environment = "production"
)

// FromEnv determines the environment from AURORAVIEW_ENV.
// Unknown or empty values default to Production.
func FromEnv() Environment {
	switch strings.ToLower(os.Getenv(envvar.AuroraViewEnv)) {
	case "development", "dev":
		return Development
	default:
		return Production
	}
}

// IsDevelopment reports whether e is the development environment.
func (e Environment) IsDevelopment() bool {
	return e == Development
}
