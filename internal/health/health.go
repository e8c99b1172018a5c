// Package health serves the operator endpoints: a liveness probe and a status
// snapshot of the host and the running app.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bowerhall/regen/internal/logger"
)

type HostStats struct {
	Hostname string  `json:"hostname"`
	OS       string  `json:"os"`
	Arch     string  `json:"arch"`
	CPUUsage float64 `json:"cpu_usage_percent"`
	MemTotal uint64  `json:"mem_total_bytes"`
	MemUsed  uint64  `json:"mem_used_bytes"`
	MemUsage float64 `json:"mem_usage_percent"`
	DiskPath string  `json:"disk_path"`
	DiskUsed uint64  `json:"disk_used_bytes"`
	DiskFree uint64  `json:"disk_free_bytes"`
}

type StatusResponse struct {
	Host           HostStats `json:"host"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	ActiveSessions int       `json:"active_sessions"`
	Gateway        string    `json:"gateway"`
	Bots           []string  `json:"bots"`
}

type Config struct {
	Sessions func() int
	Gateway  string
	Bots     []string
}

type Server struct {
	cfg       Config
	started   time.Time
	hostStats func() HostStats
}

func New(cfg Config) *Server {
	return &Server{
		cfg:       cfg,
		started:   time.Now(),
		hostStats: collectHostStats,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("health server shutting down")
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := StatusResponse{
		Host:          s.hostStats(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Gateway:       s.cfg.Gateway,
		Bots:          s.cfg.Bots,
	}
	if s.cfg.Sessions != nil {
		status.ActiveSessions = s.cfg.Sessions()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		logger.Error("status encode failed", "error", err)
	}
}

func collectHostStats() HostStats {
	hostname, _ := os.Hostname()

	stats := HostStats{
		Hostname: hostname,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		DiskPath: "/",
	}

	if cpuPercent, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercent) > 0 {
		stats.CPUUsage = cpuPercent[0]
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		stats.MemTotal = memInfo.Total
		stats.MemUsed = memInfo.Used
		stats.MemUsage = memInfo.UsedPercent
	}

	if diskInfo, err := disk.Usage("/"); err == nil {
		stats.DiskUsed = diskInfo.Used
		stats.DiskFree = diskInfo.Free
	}

	return stats
}
