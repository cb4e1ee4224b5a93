// SPDX-License-Identifier: MPL-2.0

// Package hostinfo collects the system information section of the report:
// OS identity, CPU, memory, and disk headroom. Every probe is best-effort;
// a host where one gauge fails still gets the rest of the section.
package hostinfo

import (
	"fmt"
	"os"
	"os/user"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"vkvia-cli/internal/report"
)

// Collector gathers host facts into a report section. The probe functions
// are fields so tests can script them.
type Collector struct {
	HostInfo      func() (*host.InfoStat, error)
	CPUInfo       func() ([]cpu.InfoStat, error)
	Memory        func() (*mem.VirtualMemoryStat, error)
	DiskUsage     func(string) (*disk.UsageStat, error)
	Hostname      func() (string, error)
	CurrentUser   func() (*user.User, error)
	WorkingDir    func() (string, error)
	ExecutablePth func() (string, error)
}

// New returns a Collector wired to the host.
func New() *Collector {
	return &Collector{
		HostInfo:      host.Info,
		CPUInfo:       cpu.Info,
		Memory:        mem.VirtualMemory,
		DiskUsage:     disk.Usage,
		Hostname:      os.Hostname,
		CurrentUser:   user.Current,
		WorkingDir:    os.Getwd,
		ExecutablePth: os.Executable,
	}
}

// Collect appends the system information section to b. Individual probe
// failures degrade to an "unavailable" cell.
func (c *Collector) Collect(b *report.Builder) {
	b.BeginSection("System Information")

	b.BeginTable("Host", 2)
	if info, err := c.HostInfo(); err == nil {
		b.AddRow(report.L("OS"), report.L(fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.PlatformFamily)))
		b.AddRow(report.L("Kernel"), report.L(info.KernelVersion))
		b.AddRow(report.L("Architecture"), report.L(info.KernelArch))
	} else {
		b.AddRow(report.L("OS"), report.L(unavailable(err)))
	}
	if name, err := c.Hostname(); err == nil {
		b.AddRow(report.L("Hostname"), report.L(name))
	}
	if u, err := c.CurrentUser(); err == nil {
		b.AddRow(report.L("User"), report.L(u.Username))
	}
	b.AddRow(report.L("Go Runtime"), report.L(fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)))

	b.BeginTable("Processor", 2)
	if cpus, err := c.CPUInfo(); err == nil && len(cpus) > 0 {
		b.AddRow(report.L("Model"), report.L(cpus[0].ModelName))
		b.AddRow(report.L("Logical CPUs"), report.L(fmt.Sprintf("%d", runtime.NumCPU())))
	} else {
		b.AddRow(report.L("Model"), report.L(unavailable(err)))
	}

	b.BeginTable("Memory", 2)
	if vm, err := c.Memory(); err == nil {
		b.AddRow(report.L("Total"), report.R(formatBytes(vm.Total)))
		b.AddRow(report.L("Available"), report.R(formatBytes(vm.Available)))
		b.AddRow(report.L("Used"), report.R(fmt.Sprintf("%s (%.1f%%)", formatBytes(vm.Used), vm.UsedPercent)))
	} else {
		b.AddRow(report.L("Total"), report.L(unavailable(err)))
	}

	b.BeginTable("Executable", 2)
	if exe, err := c.ExecutablePth(); err == nil {
		b.AddRow(report.L("Binary"), report.L(exe))
	}
	if wd, err := c.WorkingDir(); err == nil {
		b.AddRow(report.L("Working Directory"), report.L(wd))
		if usage, err := c.DiskUsage(wd); err == nil {
			b.AddRow(report.L("Disk Free"), report.R(formatBytes(usage.Free)))
		}
	}
}

func unavailable(err error) string {
	if err == nil {
		return "unavailable"
	}
	return "unavailable: " + err.Error()
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
