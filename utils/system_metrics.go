package utils

import (
	"log"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// GetCPUUsage returns the current CPU usage as a percentage
func GetCPUUsage() float64 {
	percentage, err := cpu.Percent(time.Second, false)
	if err != nil {
		log.Printf("Error getting CPU usage: %v", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}

// GetMemoryUsage returns the used memory percentage
func GetMemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("Error getting memory usage: %v", err)
		return 0
	}
	return vm.UsedPercent
}

// GetHostUptime returns the host uptime in seconds
func GetHostUptime() uint64 {
	uptime, err := host.Uptime()
	if err != nil {
		log.Printf("Error getting host uptime: %v", err)
		return 0
	}
	return uptime
}
