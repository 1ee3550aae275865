package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/types"
)

// statsJSON is the part of the stats payload used to compute usage.
type statsJSON struct {
	CPUStats    cpuStats `json:"cpu_stats"`
	PreCPUStats cpuStats `json:"precpu_stats"`
	MemoryStats struct {
		Usage uint64            `json:"usage"`
		Limit uint64            `json:"limit"`
		Stats map[string]uint64 `json:"stats"`
	} `json:"memory_stats"`
}

type cpuStats struct {
	CPUUsage struct {
		TotalUsage  uint64   `json:"total_usage"`
		PercpuUsage []uint64 `json:"percpu_usage"`
	} `json:"cpu_usage"`
	SystemUsage uint64 `json:"system_cpu_usage"`
	OnlineCPUs  uint32 `json:"online_cpus"`
}

type statStream struct {
	body    io.ReadCloser
	decoder *json.Decoder
}

// GetContainerStatsStream opens a stats stream. Without follow the stream
// holds a single sample that already carries the previous CPU reading.
func (c *Client) GetContainerStatsStream(ctx context.Context, id string, follow bool) (runtime.StatStream, error) {
	statsResp, err := c.cli.ContainerStats(ctx, id, client.ContainerStatsOptions{
		Stream:                follow,
		IncludePreviousSample: !follow,
	})
	if err != nil {
		return nil, wrapError(err, "get container stats", TimeoutQuick)
	}
	return &statStream{
		body:    statsResp.Body,
		decoder: json.NewDecoder(statsResp.Body),
	}, nil
}

func (s *statStream) Next() (types.StatSample, error) {
	var stats statsJSON
	if err := s.decoder.Decode(&stats); err != nil {
		if err == io.EOF {
			return types.StatSample{}, err
		}
		return types.StatSample{}, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats.sample(), nil
}

func (s *statStream) Close() error {
	return s.body.Close()
}

func (s statsJSON) sample() types.StatSample {
	return types.StatSample{
		CPUPercent: cpuPercent(s.CPUStats, s.PreCPUStats),
		MemUsage:   memUsage(s),
		MemLimit:   s.MemoryStats.Limit,
	}
}

// cpuPercent follows the docker CLI formula.
func cpuPercent(cur, pre cpuStats) float64 {
	cpuDelta := float64(cur.CPUUsage.TotalUsage) - float64(pre.CPUUsage.TotalUsage)
	systemDelta := float64(cur.SystemUsage) - float64(pre.SystemUsage)

	cpus := float64(cur.OnlineCPUs)
	if cpus == 0 {
		cpus = float64(len(cur.CPUUsage.PercpuUsage))
	}
	if systemDelta <= 0 || cpuDelta <= 0 || cpus == 0 {
		return 0
	}
	return (cpuDelta / systemDelta) * cpus * 100.0
}

// memUsage excludes the page cache like the docker CLI does.
func memUsage(s statsJSON) uint64 {
	usage := s.MemoryStats.Usage
	for _, key := range []string{"inactive_file", "total_inactive_file"} {
		if v, ok := s.MemoryStats.Stats[key]; ok && v < usage {
			return usage - v
		}
	}
	return usage
}
