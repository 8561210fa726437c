// SPDX-License-Identifier: MIT
package build

import "testing"

func TestInitializeDefaults(t *testing.T) {
	// Without ldflags the development defaults must survive Initialize.
	Initialize()

	flags := GetBuildFlags()
	if flags.Name == "" {
		t.Error("expected non-empty build name")
	}
	if flags.Version == "" {
		t.Error("expected non-empty build version")
	}
}

func TestInitializeOverrides(t *testing.T) {
	origName, origVersion := buildName, buildVersion
	defer func() {
		buildName, buildVersion = origName, origVersion
		Initialize()
	}()

	buildName = "tutor-ci"
	buildVersion = "1.2.3"
	Initialize()

	flags := GetBuildFlags()
	if flags.Name != "tutor-ci" {
		t.Errorf("expected name tutor-ci, got %s", flags.Name)
	}
	if flags.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", flags.Version)
	}
}
