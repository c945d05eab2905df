package latency

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TimingConfig holds cycle costs for each instruction class and the frame
// budget used by the timed core.
type TimingConfig struct {
	// ALULatency covers register arithmetic, immediates and index
	// register updates. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// RandomLatency is the cost of RND. Default: 2 cycles.
	RandomLatency uint64 `json:"random_latency"`

	// BranchLatency covers jumps, calls, returns and conditional skips.
	// Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// LoadLatency is charged per byte read by LD Vx, [I].
	// Default: 1 cycle.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is charged per byte written by LD [I], Vx and LD B, Vx.
	// Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// ClearLatency is the cost of CLS. Default: 4 cycles.
	ClearLatency uint64 `json:"clear_latency"`

	// DrawLatency is the fixed cost of DRW. Default: 4 cycles.
	DrawLatency uint64 `json:"draw_latency"`

	// DrawRowLatency is added for every sprite row DRW blits.
	// Default: 1 cycle.
	DrawRowLatency uint64 `json:"draw_row_latency"`

	// TimerLatency covers reads and writes of DT and ST. Default: 1 cycle.
	TimerLatency uint64 `json:"timer_latency"`

	// InputLatency covers SKP, SKNP and LD Vx, K. Default: 1 cycle.
	InputLatency uint64 `json:"input_latency"`

	// SystemLatency covers SYS and unrecognized words. Default: 1 cycle.
	SystemLatency uint64 `json:"system_latency"`

	// CyclesPerFrame is the cycle budget the core spends per timer frame.
	// Default: 20 cycles, roughly 600-1000 instructions per second.
	CyclesPerFrame uint64 `json:"cycles_per_frame"`

	// FrameRate is the number of frames per second, which is also the rate
	// at which the delay and sound timers count down. Default: 60.
	FrameRate uint64 `json:"frame_rate"`
}

// DefaultTimingConfig returns a TimingConfig with the default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:     1,
		RandomLatency:  2,
		BranchLatency:  1,
		LoadLatency:    1,
		StoreLatency:   1,
		ClearLatency:   4,
		DrawLatency:    4,
		DrawRowLatency: 1,
		TimerLatency:   1,
		InputLatency:   1,
		SystemLatency:  1,
		CyclesPerFrame: 20,
		FrameRate:      60,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that every per-instruction cost and the frame settings
// are usable. DrawRowLatency may be zero.
func (c *TimingConfig) Validate() error {
	nonZero := []struct {
		name  string
		value uint64
	}{
		{"alu_latency", c.ALULatency},
		{"random_latency", c.RandomLatency},
		{"branch_latency", c.BranchLatency},
		{"load_latency", c.LoadLatency},
		{"store_latency", c.StoreLatency},
		{"clear_latency", c.ClearLatency},
		{"draw_latency", c.DrawLatency},
		{"timer_latency", c.TimerLatency},
		{"input_latency", c.InputLatency},
		{"system_latency", c.SystemLatency},
		{"cycles_per_frame", c.CyclesPerFrame},
		{"frame_rate", c.FrameRate},
	}

	for _, f := range nonZero {
		if f.value == 0 {
			return fmt.Errorf("%s must be > 0", f.name)
		}
	}

	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}

// FrameDuration returns the wall-clock length of one frame.
func (c *TimingConfig) FrameDuration() time.Duration {
	if c.FrameRate == 0 {
		return 0
	}
	return time.Second / time.Duration(c.FrameRate)
}
