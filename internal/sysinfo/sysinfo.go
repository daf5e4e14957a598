// Package sysinfo reports a point-in-time snapshot of the host for the
// "system status" command.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is one sample of host state.
type Snapshot struct {
	OS            string
	Platform      string
	Arch          string
	Hostname      string
	CPUPercent    float64
	MemoryPercent float64
	MemoryFreeGB  float64
}

// Collect samples CPU (over a short interval), memory, and host identity.
func Collect(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{OS: runtime.GOOS, Arch: runtime.GOARCH}

	if info, err := host.InfoWithContext(ctx); err == nil {
		s.Hostname = info.Hostname
		s.Platform = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
	}

	percents, err := cpu.PercentWithContext(ctx, 500*time.Millisecond, false)
	if err != nil {
		return nil, fmt.Errorf("sample cpu: %w", err)
	}
	if len(percents) > 0 {
		s.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}
	s.MemoryPercent = vm.UsedPercent
	s.MemoryFreeGB = float64(vm.Available) / (1 << 30)

	return s, nil
}

// Spoken renders the snapshot as one sentence for playback.
func (s *Snapshot) Spoken() string {
	platform := s.Platform
	if platform == "" {
		platform = s.OS
	}
	return fmt.Sprintf("System: %s on %s. CPU at %.0f percent. Memory %.0f percent used, %.1f gigabytes free.",
		platform, s.Arch, s.CPUPercent, s.MemoryPercent, s.MemoryFreeGB)
}
