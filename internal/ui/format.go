package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/pyaillet/doggy/internal/types"
)

func formatAge(created time.Time) string {
	if created.IsZero() {
		return "-"
	}
	return units.HumanDuration(time.Since(created))
}

func formatSize(size int64) string {
	if size < 0 {
		return "-"
	}
	return units.HumanSize(float64(size))
}

func formatMemory(usage uint64) string {
	return units.BytesSize(float64(usage))
}

func formatCPU(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}

// formatCommand quotes arguments containing spaces.
func formatCommand(args []string) string {
	if len(args) == 0 {
		return types.None
	}
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			arg = fmt.Sprintf("%q", arg)
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
