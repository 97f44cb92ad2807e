package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI=true wins over ENV;
// anything unrecognised is treated as development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch Environment(strings.ToLower(os.Getenv("ENV"))) {
	case Production:
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

func IsDevelopment() bool { return GetEnvironment() == Development }

func IsProduction() bool { return GetEnvironment() == Production }

// ReleaseMode reports whether gin should run in release mode.
func ReleaseMode() bool {
	env := GetEnvironment()
	return env == Production || env == CI
}
