package cri

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	runtimeapi "k8s.io/cri-api/pkg/apis/runtime/v1"
)

func cpuAt(ts int64, used uint64) *runtimeapi.CpuUsage {
	return &runtimeapi.CpuUsage{Timestamp: ts, UsageCoreNanoSeconds: &runtimeapi.UInt64Value{Value: used}}
}

func TestSampleFrom(t *testing.T) {
	stats := &runtimeapi.ContainerStats{
		Cpu: &runtimeapi.CpuUsage{UsageNanoCores: &runtimeapi.UInt64Value{Value: 500_000_000}},
		Memory: &runtimeapi.MemoryUsage{
			WorkingSetBytes: &runtimeapi.UInt64Value{Value: 100},
			AvailableBytes:  &runtimeapi.UInt64Value{Value: 300},
		},
	}
	sample := sampleFrom(stats, nil)
	assert.InDelta(t, 50.0, sample.CPUPercent, 0.001)
	assert.Equal(t, uint64(100), sample.MemUsage)
	assert.Equal(t, uint64(400), sample.MemLimit)

	// cumulative fallback
	stats = &runtimeapi.ContainerStats{Cpu: cpuAt(2_000_000_000, 1_500_000_000)}
	sample = sampleFrom(stats, cpuAt(1_000_000_000, 1_000_000_000))
	assert.InDelta(t, 50.0, sample.CPUPercent, 0.001)

	assert.Zero(t, sampleFrom(stats, nil).CPUPercent)
}

func TestStatStreamSingleSample(t *testing.T) {
	calls := 0
	ctx, cancel := context.WithCancel(context.Background())
	stream := &statStream{ctx: ctx, cancel: cancel, fetch: func(context.Context) (*runtimeapi.ContainerStats, error) {
		calls++
		return &runtimeapi.ContainerStats{}, nil
	}}

	_, err := stream.Next()
	require.NoError(t, err)
	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, calls)
	assert.NoError(t, stream.Close())
}

func TestStatStreamFollowStopsOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := &statStream{ctx: ctx, cancel: cancel, follow: true, fetch: func(context.Context) (*runtimeapi.ContainerStats, error) {
		return &runtimeapi.ContainerStats{}, nil
	}}

	_, err := stream.Next()
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	_, err = stream.Next()
	assert.ErrorIs(t, err, context.Canceled)
}
