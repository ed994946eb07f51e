/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitydao

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden with -ldflags "-X github.com/suparena/entitydao.GitCommit=..."
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
	// GoVersion falls back to the running toolchain when not stamped.
	GoVersion = ""
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetVersionInfo returns the build metadata.
func GetVersionInfo() VersionInfo {
	goVersion := GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: goVersion,
	}
}

// String renders the multi-line banner printed by the CLI.
func (v VersionInfo) String() string {
	return fmt.Sprintf("EntityDAO version %s\nGit commit: %s\nBuild date: %s\nGo version: %s",
		v.Version, v.GitCommit, v.BuildDate, v.GoVersion)
}
