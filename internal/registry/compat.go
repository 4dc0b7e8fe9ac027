package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinSupportedVersion is the oldest Home Assistant release whose entity
// registry carries per-assistant exposure options under options.<assistant>.
const MinSupportedVersion = "2023.3.0"

// CheckVersion parses a Home Assistant version string, typically the
// contents of the server's .HA_VERSION file, and verifies the release is
// recent enough for this tool to manage its entity registry.
func CheckVersion(haVersion string) error {
	v, err := semver.NewVersion(strings.TrimSpace(haVersion))
	if err != nil {
		return fmt.Errorf("parsing Home Assistant version %q: %w", haVersion, err)
	}

	c, err := semver.NewConstraint(">= " + MinSupportedVersion)
	if err != nil {
		return fmt.Errorf("building version constraint: %w", err)
	}

	if !c.Check(v) {
		return fmt.Errorf("Home Assistant %s predates %s, the oldest release with per-assistant exposure options", v, MinSupportedVersion)
	}

	return nil
}
