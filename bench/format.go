package bench

import "fmt"

func FormatBytes(b int64) string {
	switch {
	case b < 1024:
		return fmt.Sprintf("%d B", b)
	case b < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(b)/1024)
	case b < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(b)/1024/1024)
	}
	return fmt.Sprintf("%.2f GB", float64(b)/1024/1024/1024)
}

func FormatCPU(cpu float64) string {
	return fmt.Sprintf("%.1f%%", cpu)
}

func formatStartup(s *Stats) string {
	return fmt.Sprintf("%.0fms ± %.0fms", s.Mean, s.StdDev)
}

func formatMemory(s *Stats) string {
	return fmt.Sprintf("%.1f MB", s.Mean)
}

func formatCPULoad(s *Stats) string {
	return FormatCPU(s.Mean) + " ± " + FormatCPU(s.StdDev)
}
