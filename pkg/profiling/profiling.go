package profiling

import (
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const bytesPerMB = 1024 * 1024

// RegisterPprofRoutes adds the Go pprof endpoints under g + "/debug/pprof".
// Access control is left to whatever guards g.
func RegisterPprofRoutes(g *echo.Group) {
	p := g.Group("/debug/pprof")
	p.GET("", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	p.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	p.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	p.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	p.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	p.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		p.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}

// MemoryStats is a snapshot of the process runtime
type MemoryStats struct {
	AllocMB      float64 `json:"alloc_mb"`
	TotalAllocMB float64 `json:"total_alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	NumGC        uint32  `json:"num_gc"`
	Goroutines   int     `json:"goroutines"`
	HeapObjects  uint64  `json:"heap_objects"`
	HeapInUseMB  float64 `json:"heap_in_use_mb"`
	StackInUseMB float64 `json:"stack_in_use_mb"`
	Timestamp    string  `json:"timestamp"`
}

func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      float64(m.Alloc) / bytesPerMB,
		TotalAllocMB: float64(m.TotalAlloc) / bytesPerMB,
		SysMB:        float64(m.Sys) / bytesPerMB,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		HeapObjects:  m.HeapObjects,
		HeapInUseMB:  float64(m.HeapInuse) / bytesPerMB,
		StackInUseMB: float64(m.StackInuse) / bytesPerMB,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}

// MemoryHandler serves GetMemoryStats as JSON.
func MemoryHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, GetMemoryStats())
}
