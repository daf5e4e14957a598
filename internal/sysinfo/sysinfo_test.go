package sysinfo

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCollect(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := Collect(ctx)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.OS == "" || snap.Arch == "" {
		t.Errorf("missing host identity: %+v", snap)
	}
	if snap.CPUPercent < 0 || snap.CPUPercent > 100 {
		t.Errorf("CPUPercent = %f out of range", snap.CPUPercent)
	}
	if snap.MemoryPercent <= 0 || snap.MemoryPercent > 100 {
		t.Errorf("MemoryPercent = %f out of range", snap.MemoryPercent)
	}
}

func TestSpoken(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Platform:      "ubuntu 24.04",
		Arch:          "amd64",
		CPUPercent:    12.4,
		MemoryPercent: 61.7,
		MemoryFreeGB:  5.3,
	}
	spoken := snap.Spoken()
	for _, want := range []string{"ubuntu 24.04", "amd64", "12 percent", "62 percent", "5.3 gigabytes"} {
		if !strings.Contains(spoken, want) {
			t.Errorf("Spoken() = %q missing %q", spoken, want)
		}
	}
}

func TestSpoken_FallsBackToOS(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{OS: "linux", Arch: "arm64"}
	if spoken := snap.Spoken(); !strings.Contains(spoken, "linux") {
		t.Errorf("Spoken() = %q, want OS fallback", spoken)
	}
}
