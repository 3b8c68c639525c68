// This file persists calibration results between runs.

package calibration

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/sysmon"
)

// CurrentProfileVersion is bumped whenever the profile layout changes.
const CurrentProfileVersion = 1

// Profile records the fastest worker count measured on a machine, along with
// enough of the environment to tell when it no longer applies.
type Profile struct {
	ProfileVersion  int       `toml:"profile_version"`
	NumCPU          int       `toml:"num_cpu"`
	GOARCH          string    `toml:"goarch"`
	GOOS            string    `toml:"goos"`
	GoVersion       string    `toml:"go_version"`
	WordSize        int       `toml:"word_size"`
	CPUFeatures     string    `toml:"cpu_features"`
	CalibratedAt    time.Time `toml:"calibrated_at"`
	Digests         int       `toml:"digests"`
	Workers         int       `toml:"workers"`
	CalibrationTime string    `toml:"calibration_time"`
}

// NewProfile returns a profile describing the current machine with no
// measurement yet.
func NewProfile() *Profile {
	return &Profile{
		ProfileVersion: CurrentProfileVersion,
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CPUFeatures:    sysmon.CPUFeatureString(),
		CalibratedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

// IsValid reports whether the profile was recorded on a machine like this
// one by a compatible version.
func (p *Profile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63) &&
		p.CPUFeatures == sysmon.CPUFeatureString() &&
		p.Workers >= 1
}

// IsStale reports whether the profile is older than maxAge.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *Profile) String() string {
	return fmt.Sprintf("calibration profile v%d: %d workers for %d digests (%s/%s, %d CPUs, %s, measured %s in %s)",
		p.ProfileVersion, p.Workers, p.Digests, p.GOOS, p.GOARCH, p.NumCPU, p.GoVersion,
		p.CalibratedAt.Format(time.RFC3339), p.CalibrationTime)
}

// SaveProfile writes the profile to path as TOML, creating parent
// directories as needed.
func (p *Profile) SaveProfile(path string) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "create profile directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "create profile %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# digestagg calibration profile")
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return apperrors.WrapError(err, "encode profile")
	}
	return w.Flush()
}

// LoadProfile reads a profile written by SaveProfile. It does not check
// IsValid.
func LoadProfile(path string) (*Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, apperrors.WrapError(err, "load profile %s", path)
	}
	if p.ProfileVersion != CurrentProfileVersion {
		return nil, apperrors.ValidationError{
			Field:   "profile_version",
			Message: fmt.Sprintf("unsupported profile version %d", p.ProfileVersion),
		}
	}
	return &p, nil
}
