package cri

import (
	"context"
	"io"
	"time"

	runtimeapi "k8s.io/cri-api/pkg/apis/runtime/v1"

	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/types"
	"github.com/pyaillet/doggy/internal/worker"
)

// statsInterval paces a followed stats stream.
const statsInterval = time.Second

// GetContainerStatsStream polls ContainerStats. Without follow the stream
// yields one sample then io.EOF.
func (c *Client) GetContainerStatsStream(ctx context.Context, id string, follow bool) (runtime.StatStream, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &statStream{ctx: ctx, cancel: cancel, follow: follow, fetch: func(ctx context.Context) (*runtimeapi.ContainerStats, error) {
		ctx, cancel := context.WithTimeout(ctx, TimeoutQuick)
		defer cancel()
		resp, err := c.runtime.ContainerStats(ctx, &runtimeapi.ContainerStatsRequest{ContainerId: id})
		if err != nil {
			return nil, wrapError(err, "get container stats", TimeoutQuick)
		}
		return resp.GetStats(), nil
	}}
	return s, nil
}

type statStream struct {
	ctx     context.Context
	cancel  context.CancelFunc
	follow  bool
	fetch   func(context.Context) (*runtimeapi.ContainerStats, error)
	samples int
	prev    *runtimeapi.CpuUsage
}

func (s *statStream) Next() (types.StatSample, error) {
	if s.samples > 0 {
		if !s.follow {
			return types.StatSample{}, io.EOF
		}
		if !worker.Sleep(s.ctx, statsInterval) {
			return types.StatSample{}, s.ctx.Err()
		}
	}
	stats, err := s.fetch(s.ctx)
	if err != nil {
		return types.StatSample{}, err
	}
	s.samples++

	sample := sampleFrom(stats, s.prev)
	s.prev = stats.GetCpu()
	return sample, nil
}

func (s *statStream) Close() error {
	s.cancel()
	return nil
}

// sampleFrom prefers the runtime computed nano cores and falls back to the
// delta of cumulative usage against prev.
func sampleFrom(stats *runtimeapi.ContainerStats, prev *runtimeapi.CpuUsage) types.StatSample {
	var sample types.StatSample

	cpu := stats.GetCpu()
	if nano := cpu.GetUsageNanoCores(); nano != nil {
		sample.CPUPercent = float64(nano.GetValue()) / 1e7
	} else if prev != nil {
		elapsed := cpu.GetTimestamp() - prev.GetTimestamp()
		used := float64(cpu.GetUsageCoreNanoSeconds().GetValue()) - float64(prev.GetUsageCoreNanoSeconds().GetValue())
		if elapsed > 0 && used > 0 {
			sample.CPUPercent = used / float64(elapsed) * 100
		}
	}

	mem := stats.GetMemory()
	sample.MemUsage = mem.GetWorkingSetBytes().GetValue()
	if available := mem.GetAvailableBytes(); available != nil {
		sample.MemLimit = sample.MemUsage + available.GetValue()
	}
	return sample
}
