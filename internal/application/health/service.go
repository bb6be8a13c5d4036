package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"flipforma-backend/internal/infrastructure/storage"
	"flipforma-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// CollectResult is the shape served by /health/json and embedded in the dashboard.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	CPU           CPUInfo    `json:"cpu"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
	Goroutines    int        `json:"goroutines"`
}

type MemoryInfo struct {
	RSS      int `json:"rss"`
	HeapUsed int `json:"heapUsed"`
}

type CPUInfo struct {
	LoadAvg []string `json:"loadAvg"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status  string      `json:"status"`
	PingMs  interface{} `json:"pingMs"`
	Backend string      `json:"backend,omitempty"`
}

// Targets names what CollectHealth checks. Rdb is optional; Store is the configured project store.
type Targets struct {
	Rdb     *redis.Client
	Store   storage.Pinger
	Backend string
}

// CollectHealth pings the project store and Redis and reads the traffic counters the
// health marker keeps. Status is "ok" when the store answers and Redis, if configured, does too.
func CollectHealth(ctx context.Context, p Targets) CollectResult {
	result := CollectResult{
		Dependencies: make(map[string]DepStatus),
	}

	storeDep := DepStatus{Status: "disconnected", Backend: p.Backend}
	if p.Store != nil {
		ms, err := timed(ctx, p.Store.Ping)
		if err == nil {
			storeDep.Status = "connected"
			storeDep.PingMs = ms
		} else {
			storeDep.Status = "error"
		}
	}
	result.Dependencies["storage"] = storeDep

	redisStatus := "disabled"
	var redisPingMs *int64
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	startTimeMs := time.Now().UnixMilli()

	if p.Rdb != nil {
		ms, err := timed(ctx, func(ctx context.Context) error { return p.Rdb.Ping(ctx).Err() })
		if err == nil {
			redisPingMs = ms
			redisStatus = "connected"
			startTimeMs = readTraffic(ctx, p.Rdb, &stats, startTimeMs)
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{RSS: int(m.Sys / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		CPU:           CPUInfo{LoadAvg: []string{"0.00", "0.00", "0.00"}},
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
	}
	result.Traffic = stats

	if storeDep.Status == "connected" && redisStatus != "error" {
		result.Status = "ok"
	} else {
		result.Status = "issue"
	}
	return result
}

// readTraffic fills stats from the marker counters and returns the recorded start time,
// seeding it when absent.
func readTraffic(ctx context.Context, rdb *redis.Client, stats *TrafficInfo, nowMs int64) int64 {
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		return nowMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	startTimeMs := nowMs
	if s := str(4); s != "" {
		if t, err := strconv.ParseInt(s, 10, 64); err == nil {
			startTimeMs = t
		}
	} else {
		rdb.Set(ctx, middleware.KeyStartTime, nowMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	countSum, _ := strconv.Atoi(str(3))
	if countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if s := str(5); s != "" {
		var lastReq map[string]interface{}
		_ = json.Unmarshal([]byte(s), &lastReq)
		stats.LastRequest = lastReq
	}
	return startTimeMs
}

func timed(ctx context.Context, ping func(context.Context) error) (*int64, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	start := time.Now()
	if err := ping(ctx); err != nil {
		return nil, err
	}
	ms := time.Since(start).Milliseconds()
	return &ms, nil
}
