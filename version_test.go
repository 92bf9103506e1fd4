package glosa

import (
	"strings"
	"testing"
)

func TestFullVersion_StampedCommit(t *testing.T) {
	saved := GitCommit
	defer func() { GitCommit = saved }()

	GitCommit = "0123456789abcdef"
	v := FullVersion()
	if !strings.HasPrefix(v, Version+"+0123456") {
		t.Errorf("Expected short commit suffix, got %q", v)
	}
}

func TestReadBuildDetails(t *testing.T) {
	d := ReadBuildDetails()
	if d.Version != Version {
		t.Errorf("Expected version %q, got %q", Version, d.Version)
	}
	if !strings.HasPrefix(d.GoVersion, "go") {
		t.Errorf("Unexpected Go version %q", d.GoVersion)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "glosa/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
