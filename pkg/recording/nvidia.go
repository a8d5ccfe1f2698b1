package recording

import (
	"errors"
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"TimelineViewer/pkg/snapshot"
)

const bytesPerMB = 1024 * 1024

// GPUCollector queries NVML for per-device telemetry.
type GPUCollector struct {
	initialized bool
	devices     []nvml.Device
	driver      string
}

// NewGPUCollector initializes NVML. Returns nil when no NVIDIA driver
// or device is available; recording proceeds without GPU telemetry.
func NewGPUCollector() *GPUCollector {
	c := &GPUCollector{}
	if err := c.init(); err != nil {
		return nil
	}
	return c
}

func (c *GPUCollector) init() error {
	if ret := nvml.Init(); !errors.Is(ret, nvml.SUCCESS) {
		return fmt.Errorf("failed to initialize NVML: %s", nvml.ErrorString(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if !errors.Is(ret, nvml.SUCCESS) || count == 0 {
		nvml.Shutdown()
		return fmt.Errorf("no NVIDIA devices found")
	}

	c.devices = make([]nvml.Device, count)
	for i := 0; i < count; i++ {
		c.devices[i], _ = nvml.DeviceGetHandleByIndex(i)
	}
	if driver, ret := nvml.SystemGetDriverVersion(); errors.Is(ret, nvml.SUCCESS) {
		c.driver = driver
	}

	c.initialized = true
	return nil
}

// Close releases NVML resources.
func (c *GPUCollector) Close() error {
	if c.initialized {
		nvml.Shutdown()
		c.initialized = false
	}
	return nil
}

// Collect reads current telemetry for every device. Fields a device
// fails to report stay at their zero value.
func (c *GPUCollector) Collect() []snapshot.GPUStatus {
	if c == nil || !c.initialized {
		return nil
	}

	gpus := make([]snapshot.GPUStatus, 0, len(c.devices))
	for i, device := range c.devices {
		gpu := snapshot.GPUStatus{ID: uint(i), Driver: c.driver}

		if name, ret := device.GetName(); errors.Is(ret, nvml.SUCCESS) {
			gpu.Name = name
		}
		if util, ret := device.GetUtilizationRates(); errors.Is(ret, nvml.SUCCESS) {
			gpu.LoadPercent = float64(util.Gpu)
		}
		if mem, ret := device.GetMemoryInfo(); errors.Is(ret, nvml.SUCCESS) {
			gpu.MemoryUsedMB = float64(mem.Used) / bytesPerMB
			gpu.MemoryTotalMB = float64(mem.Total) / bytesPerMB
		}
		if temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU); errors.Is(ret, nvml.SUCCESS) {
			gpu.TemperatureC = float64(temp)
		}

		gpus = append(gpus, gpu)
	}
	return gpus
}
