// Package preflight checks host resources before a capture run. Frame
// spools and raw video are disk-hungry and Chrome is memory-hungry, so
// tight hosts get a warning up front instead of a confusing mid-run
// failure.
package preflight

import (
	"log/slog"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// minFreeDisk is the free-space floor under the output directory. A
	// full run spools a few hundred MB of PNG frames before cleanup.
	minFreeDisk = 1 << 30 // 1 GiB

	// minFreeMem is the available-memory floor. Headless Chrome with a
	// 1600x900 screencast gets unstable well before the OOM killer.
	minFreeMem = 768 << 20 // 768 MiB
)

// Check logs warnings for hosts that look too tight to finish a run.
// Advisory only: the run proceeds regardless, since usage statistics are
// not available on every platform.
func Check(logger *slog.Logger, outDir string) {
	if du, err := disk.Usage(outDir); err == nil {
		if du.Free < minFreeDisk {
			logger.Warn("preflight: low disk space for frame spool",
				"dir", outDir,
				"free_mb", du.Free>>20,
				"want_mb", int64(minFreeDisk)>>20)
		}
	} else {
		logger.Debug("preflight: disk usage unavailable", "dir", outDir, "error", err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		if vm.Available < minFreeMem {
			logger.Warn("preflight: low available memory for headless chrome",
				"available_mb", vm.Available>>20,
				"want_mb", int64(minFreeMem)>>20)
		}
	} else {
		logger.Debug("preflight: memory stats unavailable", "error", err)
	}
}
