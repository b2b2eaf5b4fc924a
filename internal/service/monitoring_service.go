package service

import (
	"context"
	"os"
	"runtime"
	"sort"
	"time"

	"dinoco-api/internal/models"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const (
	StatusOK   = "ok"
	StatusDown = "down"
)

// HealthCheck prueba una dependencia externa (Mongo, Redis).
type HealthCheck func(ctx context.Context) error

type MonitoringService struct {
	checks map[string]HealthCheck
}

func NewMonitoringService(checks map[string]HealthCheck) *MonitoringService {
	return &MonitoringService{checks: checks}
}

// Dependencies corre cada check y devuelve su estado; healthy es false si alguno falló.
func (s *MonitoringService) Dependencies(ctx context.Context) (map[string]string, bool) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			out[name] = StatusDown
			healthy = false
			continue
		}
		out[name] = StatusOK
	}
	return out, healthy
}

func (s *MonitoringService) Status(ctx context.Context) models.MonitoringStatus {
	deps, _ := s.Dependencies(ctx)
	return models.MonitoringStatus{
		Timestamp:    time.Now().UTC(),
		Dependencies: deps,
		Host:         hostStats(ctx),
	}
}

// hostStats: los errores de gopsutil dejan el campo en cero.
func hostStats(ctx context.Context) models.HostStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	st := models.HostStats{
		OS:             runtime.GOOS,
		CPUCores:       runtime.NumCPU(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: memStats.HeapAlloc,
		GoVersion:      runtime.Version(),
	}
	st.Hostname, _ = os.Hostname()

	if info, err := host.InfoWithContext(ctx); err == nil && info != nil {
		st.Platform = info.Platform
		st.UptimeSeconds = info.Uptime
	}
	if vMem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vMem != nil {
		st.MemTotalBytes = vMem.Total
		st.MemUsedBytes = vMem.Used
		st.MemUsedPercent = vMem.UsedPercent
	}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		st.CPUPercent = pct[0]
	}
	return st
}
