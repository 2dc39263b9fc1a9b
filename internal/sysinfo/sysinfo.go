package sysinfo

import (
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Family is a closed set of operating system families. Collaborators switch
// on the value instead of matching distribution name strings at every call
// site.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyDebian
	FamilyRedHat
	FamilyAlpine
	FamilyArch
	FamilySuse
	FamilyDarwin
)

func (f Family) String() string {
	switch f {
	case FamilyDebian:
		return "debian"
	case FamilyRedHat:
		return "redhat"
	case FamilyAlpine:
		return "alpine"
	case FamilyArch:
		return "arch"
	case FamilySuse:
		return "suse"
	case FamilyDarwin:
		return "darwin"
	default:
		return "unknown"
	}
}

// PackageManager returns the package manager kind for the family, or an
// empty string when none is known.
func (f Family) PackageManager() string {
	switch f {
	case FamilyDebian:
		return "apt"
	case FamilyRedHat:
		return "yum"
	case FamilyAlpine:
		return "apk"
	case FamilyArch:
		return "pacman"
	case FamilySuse:
		return "zypper"
	case FamilyDarwin:
		return "brew"
	default:
		return ""
	}
}

// Profile is an immutable snapshot of the host, built once at startup and
// passed by value to anything that needs it.
type Profile struct {
	Hostname string
	Family   Family
	Platform string
	Version  string
	Kernel   string
}

// Detect builds the host profile. Detection failure degrades to a profile
// carrying only the hostname so the wrapper can still run.
func Detect() Profile {
	info, err := host.Info()
	if err != nil {
		name, _ := os.Hostname()
		return Profile{Hostname: name}
	}
	return Profile{
		Hostname: info.Hostname,
		Family:   Classify(info.OS, info.PlatformFamily, info.Platform),
		Platform: info.Platform,
		Version:  info.PlatformVersion,
		Kernel:   info.KernelVersion,
	}
}

// Classify maps gopsutil's OS/family/platform strings onto the closed
// Family set.
func Classify(osName, platformFamily, platform string) Family {
	if strings.EqualFold(osName, "darwin") {
		return FamilyDarwin
	}

	switch strings.ToLower(platformFamily) {
	case "debian":
		return FamilyDebian
	case "rhel", "fedora":
		return FamilyRedHat
	case "alpine":
		return FamilyAlpine
	case "arch":
		return FamilyArch
	case "suse":
		return FamilySuse
	}

	switch strings.ToLower(platform) {
	case "ubuntu", "debian", "raspbian", "linuxmint", "pop":
		return FamilyDebian
	case "centos", "rhel", "redhat", "fedora", "rocky", "almalinux", "amazon", "oracle":
		return FamilyRedHat
	}

	return FamilyUnknown
}

// Describe renders the profile for human-readable output, e.g.
// "ubuntu 24.04 (apt)".
func (p Profile) Describe() string {
	if p.Platform == "" {
		return "unknown"
	}
	desc := p.Platform
	if p.Version != "" {
		desc += " " + p.Version
	}
	if pm := p.Family.PackageManager(); pm != "" {
		desc += fmt.Sprintf(" (%s)", pm)
	}
	return desc
}
