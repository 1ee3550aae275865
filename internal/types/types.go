// Package types contains the runtime-neutral data structures shared by the
// backends and the screens.
package types

import (
	"strings"
	"time"
)

// None is displayed when a value is missing.
const None = "<none>"

// ContainerStatus is the lifecycle state reported by the runtime.
type ContainerStatus int

const (
	StatusCreated ContainerStatus = iota
	StatusRunning
	StatusPaused
	StatusRestarting
	StatusRemoving
	StatusExited
	StatusDead
	StatusUnknown
)

// ParseContainerStatus maps a runtime state string to a ContainerStatus.
func ParseContainerStatus(s string) ContainerStatus {
	switch strings.ToLower(s) {
	case "created":
		return StatusCreated
	case "running":
		return StatusRunning
	case "paused":
		return StatusPaused
	case "restarting":
		return StatusRestarting
	case "removing":
		return StatusRemoving
	case "exited":
		return StatusExited
	case "dead":
		return StatusDead
	default:
		return StatusUnknown
	}
}

func (s ContainerStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusRestarting:
		return "restarting"
	case StatusRemoving:
		return "removing"
	case StatusExited:
		return "exited"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// ContainerSummary is one row of the container list.
type ContainerSummary struct {
	ID      string
	Name    string
	Image   string
	ImageID string
	Status  ContainerStatus
	Created time.Time
	Labels  map[string]string
}

// ImageSummary is one row of the image list.
type ImageSummary struct {
	ID      string
	Name    string
	Size    int64
	Created time.Time
}

// NetworkSummary is one row of the network list.
type NetworkSummary struct {
	ID      string
	Name    string
	Driver  string
	Created time.Time
}

// VolumeSummary is one row of the volume list.
type VolumeSummary struct {
	ID      string
	Driver  string
	Size    int64
	Created time.Time
}

// LabelComposeProject is the label carrying the compose project name.
const LabelComposeProject = "com.docker.compose.project"

// Compose is a compose project reconstructed from resource labels.
type Compose struct {
	Project    string
	Containers int
	Volumes    int
	Networks   int
}

// ComposeDetails holds everything known about a single compose project.
type ComposeDetails struct {
	Project         string
	WorkingDir      string
	ConfigFiles     string
	EnvironmentFile string
	Services        map[string][]ContainerSummary
	Volumes         []VolumeSummary
	Networks        []NetworkSummary
}

// Process is one line of a container top listing.
type Process struct {
	UID     string
	PID     string
	Command string
}

// ContainerDetails is the decoded view of a single container.
type ContainerDetails struct {
	ID         string
	Name       string
	Image      string
	ImageID    string
	Created    time.Time
	Status     ContainerStatus
	Health     string
	Labels     map[string]string
	Entrypoint []string
	Command    []string
	Env        []string
	Ports      []string
	Networks   []string
	Mounts     []string
	Processes  []Process
}

// RuntimeInfo identifies the backend the dashboard is connected to.
type RuntimeInfo struct {
	Name     string
	Version  string
	Endpoint string
}

// StatSample is a single resource usage measurement.
type StatSample struct {
	CPUPercent float64
	MemUsage   uint64
	MemLimit   uint64
}

// MetricsHistory is the number of samples kept per container.
const MetricsHistory = 20

// ContainerMetrics is a bounded history of samples for one container.
type ContainerMetrics struct {
	CPU []float64
	Mem []uint64
}

// Push appends a sample and drops the oldest beyond MetricsHistory.
func (m *ContainerMetrics) Push(s StatSample) {
	m.CPU = append(m.CPU, s.CPUPercent)
	m.Mem = append(m.Mem, s.MemUsage)
	if len(m.CPU) > MetricsHistory {
		m.CPU = m.CPU[len(m.CPU)-MetricsHistory:]
	}
	if len(m.Mem) > MetricsHistory {
		m.Mem = m.Mem[len(m.Mem)-MetricsHistory:]
	}
}

// Last returns the most recent sample, if any.
func (m *ContainerMetrics) Last() (cpu float64, mem uint64, ok bool) {
	if m == nil || len(m.CPU) == 0 || len(m.Mem) == 0 {
		return 0, 0, false
	}
	return m.CPU[len(m.CPU)-1], m.Mem[len(m.Mem)-1], true
}

// Filter narrows a resource listing. A filter is either a bare name or a
// key=value pair.
type Filter struct {
	Key   string
	Value string
}

// ParseFilter turns user input into a Filter. Input without '=' filters by name.
func ParseFilter(text string) Filter {
	text = strings.TrimSpace(text)
	if text == "" {
		return Filter{}
	}
	if key, value, ok := strings.Cut(text, "="); ok {
		return Filter{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
	}
	return Filter{Key: "name", Value: text}
}

// LabelFilter returns a filter matching resources carrying the label.
func LabelFilter(label, value string) Filter {
	return Filter{Key: "label", Value: label + "=" + value}
}

// IsZero reports whether the filter is empty.
func (f Filter) IsZero() bool {
	return f.Key == "" && f.Value == ""
}

func (f Filter) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Key + "=" + f.Value
}
