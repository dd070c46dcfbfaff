package config

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// CheckVersion enforces the required_version pin from topic.yaml. Dev builds
// (empty or non-semver version strings) always pass.
func (c Config) CheckVersion(version string) error {
	if c.RequiredVersion == "" {
		return nil
	}
	required, err := semver.Parse(strings.TrimPrefix(c.RequiredVersion, "v"))
	if err != nil {
		return fmt.Errorf("config: invalid required_version %q: %w", c.RequiredVersion, err)
	}
	running, err := semver.Parse(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil
	}
	if running.LT(required) {
		return fmt.Errorf("config: topic %s is older than required_version %s", version, c.RequiredVersion)
	}
	return nil
}
