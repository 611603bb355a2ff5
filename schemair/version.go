package schemair

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Supported Schema IR versions for this compiler. A reflector emitting a
// schemaVersion outside this range is rejected by the Normalizer's Phase 0
// Version Gate before ID assignment ever runs.
const (
	MinSupportedSchemaVersion = "0.1.0"
	MaxTestedSchemaVersion    = "0.1.0"
)

// SupportedRange returns the minimum and maximum Schema IR versions this
// compiler accepts.
func SupportedRange() (min, max string) {
	return MinSupportedSchemaVersion, MaxTestedSchemaVersion
}

var (
	minSupportedSemver semver
	maxTestedSemver    semver
)

func init() {
	var err error
	minSupportedSemver, err = parseSemverStrict(MinSupportedSchemaVersion)
	if err != nil {
		panic(fmt.Sprintf("schemair: invalid MinSupportedSchemaVersion %q: %v", MinSupportedSchemaVersion, err))
	}
	maxTestedSemver, err = parseSemverStrict(MaxTestedSchemaVersion)
	if err != nil {
		panic(fmt.Sprintf("schemair: invalid MaxTestedSchemaVersion %q: %v", MaxTestedSchemaVersion, err))
	}
}

// IsSupportedVersion reports whether v falls within the supported range.
// An empty v is treated as unsupported; callers that want to tolerate
// missing versions should check for "" before calling this.
func IsSupportedVersion(v string) (bool, error) {
	parsed, err := parseSemverStrict(v)
	if err != nil {
		return false, err
	}
	return compareSemver(parsed, minSupportedSemver) >= 0 && compareSemver(parsed, maxTestedSemver) <= 0, nil
}

type semver struct {
	major int
	minor int
	patch int
}

func parseSemverStrict(v string) (semver, error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) != 3 {
		return semver{}, fmt.Errorf("invalid semver: %q", v)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return semver{}, fmt.Errorf("invalid semver: %q", v)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil || minor < 0 {
		return semver{}, fmt.Errorf("invalid semver: %q", v)
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil || patch < 0 {
		return semver{}, fmt.Errorf("invalid semver: %q", v)
	}
	return semver{major: major, minor: minor, patch: patch}, nil
}

func compareSemver(a, b semver) int {
	if a.major != b.major {
		return cmp.Compare(a.major, b.major)
	}
	if a.minor != b.minor {
		return cmp.Compare(a.minor, b.minor)
	}
	return cmp.Compare(a.patch, b.patch)
}
