// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build. Fields left at their
// defaults are filled from the module build info.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long: `Print the plugopts version, the source revision it was built from,
and the Go toolchain and platform.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := currentBuild()
		if versionShort {
			cmd.Println(info.Version)
			return
		}

		cmd.Println(GetVersionInfo())
		commit := info.Commit
		if info.Modified {
			commit += " (modified)"
		}
		cmd.Printf("  Commit:     %s\n", commit)
		cmd.Printf("  Build Date: %s\n", info.Date)
		cmd.Printf("  Go Version: %s\n", runtime.Version())
		cmd.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
}

type buildVersion struct {
	Version  string
	Commit   string
	Date     string
	Modified bool
}

func currentBuild() buildVersion {
	info, _ := debug.ReadBuildInfo()
	return resolveBuild(info)
}

// resolveBuild merges the ldflags values with the VCS stamps of info,
// which may be nil.
func resolveBuild(info *debug.BuildInfo) buildVersion {
	v := buildVersion{Version: Version, Commit: Commit, Date: BuildDate}
	if info == nil {
		return v
	}

	if v.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if v.Commit == "unknown" {
				v.Commit = s.Value
				if len(v.Commit) > 12 {
					v.Commit = v.Commit[:12]
				}
			}
		case "vcs.time":
			if v.Date == "unknown" {
				v.Date = s.Value
			}
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}

	return v
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	v := currentBuild()
	return fmt.Sprintf("plugopts %s (commit: %s, built: %s)", v.Version, v.Commit, v.Date)
}
