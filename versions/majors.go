package versions

import (
	"errors"
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"

	"github.com/cicompat/cicompat/cierrors"
)

var (
	// ErrUnparseable marks a tag that is not a strict major.minor.patch version.
	ErrUnparseable = errors.New("not a semantic version")

	// ErrUnstable marks a tag carrying a pre-release marker.
	ErrUnstable = errors.New("pre-release version")
)

// Version is a stable semantic version together with the tag it was read from.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
type Version struct {
	raw string
	v   *mm.Version
}

// Raw returns the tag exactly as given, including any leading "v".
func (v Version) Raw() string {
	return v.raw
}

// Major returns the major version number.
func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

// String returns the normalized major.minor.patch form.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// Rejected is a tag dropped by FilterStable and the reason it was dropped.
type Rejected struct {
	Tag string
	Err error
}

// ParseStable is the predicate deciding which tags take part in major-line
// consolidation. One leading "v" is stripped, the rest must be a strict
// semantic version (major.minor.patch, optional build metadata) without a
// pre-release marker. Failures wrap ErrUnparseable or ErrUnstable.
func ParseStable(tag string) (Version, error) {
	v, err := mm.StrictNewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return Version{}, fmt.Errorf("versions: %q: %w", tag, ErrUnparseable)
	}
	if v.Prerelease() != "" {
		return Version{}, fmt.Errorf("versions: %q: %w", tag, ErrUnstable)
	}
	return Version{raw: tag, v: v}, nil
}

// FilterStable splits tags into the stable versions and the rejected tags,
// both in input order.
func FilterStable(tags []string) ([]Version, []Rejected) {
	var (
		stable   []Version
		rejected []Rejected
	)
	for _, tag := range tags {
		v, err := ParseStable(tag)
		if err != nil {
			rejected = append(rejected, Rejected{Tag: tag, Err: err})
			continue
		}
		stable = append(stable, v)
	}
	return stable, rejected
}

// MajorVersions returns one tag per major version, highest first.
//
// Tags are sorted descending with Compare, filtered through ParseStable, and
// the first tag seen for each major number becomes its representative. The
// original tag text is returned, e.g.
//
//	MajorVersions([]string{"v3.5.1", "v4.1.2", "v5.5.1-rc.0", "v5.4.5", "v3.9.0"})
//	// []string{"v5.4.5", "v4.1.2", "v3.9.0"}
//
// Unparseable and pre-release tags are skipped silently.
func MajorVersions(tags []string) []string {
	stable, _ := FilterStable(SortDescending(tags))

	seen := make(map[uint64]bool, len(stable))
	var representatives []string
	for _, v := range stable {
		if seen[v.Major()] {
			continue
		}
		seen[v.Major()] = true
		representatives = append(representatives, v.Raw())
	}
	return SortDescending(representatives)
}

// LatestMajors returns the representatives of the n most recent major lines.
// Having fewer than n major lines is an *cierrors.InsufficientMajorsError.
func LatestMajors(tags []string, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("versions: major count must be positive, got %d", n)
	}
	majors := MajorVersions(tags)
	if len(majors) < n {
		return nil, &cierrors.InsufficientMajorsError{Want: n, Got: len(majors), Majors: majors}
	}
	return majors[:n], nil
}
