package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jroosing/dnsmirage/internal/api/models"
)

// Health godoc
// @Summary Health check
// @Description Returns server health status
// @Tags system
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "database: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Stats godoc
// @Summary Server statistics
// @Description Returns runtime and host statistics together with capture counters
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		CPU:           models.CPUStats{NumCPU: runtime.NumCPU()},
	}

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		resp.CPU.UsedPercent = pct[0]
		resp.CPU.IdlePercent = 100 - pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.Memory = models.MemoryStats{
			TotalMB:     float64(vm.Total) / 1024 / 1024,
			FreeMB:      float64(vm.Free) / 1024 / 1024,
			UsedMB:      float64(vm.Used) / 1024 / 1024,
			UsedPercent: vm.UsedPercent,
		}
	}
	if info, err := host.Info(); err == nil {
		resp.Host = &models.HostInfo{
			Hostname:      info.Hostname,
			OS:            info.OS,
			Platform:      info.Platform,
			KernelVersion: info.KernelVersion,
			UptimeSeconds: info.Uptime,
		}
	}

	if _, ctrl := h.getCapture(); ctrl != nil {
		resp.Capture = ctrl.Status().Stats
	}
	if set := h.getRules(); set != nil {
		resp.RuleCount = set.Len()
	}

	c.JSON(http.StatusOK, resp)
}
