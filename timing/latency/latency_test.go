package latency_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have correct ALU latency", func() {
			Expect(table.Config().ALULatency).To(Equal(uint64(1)))
		})

		It("should have correct draw latency", func() {
			Expect(table.Config().DrawLatency).To(Equal(uint64(4)))
			Expect(table.Config().DrawRowLatency).To(Equal(uint64(1)))
		})

		It("should run frames at 60 Hz", func() {
			Expect(table.Config().FrameRate).To(Equal(uint64(60)))
			Expect(table.Config().FrameDuration()).To(Equal(time.Second / 60))
		})

		It("should validate", func() {
			Expect(table.Config().Validate()).To(Succeed())
		})
	})

	DescribeTable("Instruction latencies",
		func(word uint16, want uint64) {
			Expect(table.GetLatency(decoder.Decode(word))).To(Equal(want))
		},
		Entry("ADD Vx, Vy", uint16(0x8124), uint64(1)),
		Entry("LD Vx, byte", uint16(0x6A0F), uint64(1)),
		Entry("LD I, addr", uint16(0xA123), uint64(1)),
		Entry("ADD I, Vx", uint16(0xF31E), uint64(1)),
		Entry("RND", uint16(0xC0FF), uint64(2)),
		Entry("JP", uint16(0x1234), uint64(1)),
		Entry("CALL", uint16(0x2234), uint64(1)),
		Entry("RET", uint16(0x00EE), uint64(1)),
		Entry("SE Vx, byte", uint16(0x3100), uint64(1)),
		Entry("CLS", uint16(0x00E0), uint64(4)),
		Entry("DRW with 5 rows", uint16(0xD125), uint64(9)),
		Entry("DRW with 0 rows", uint16(0xD120), uint64(4)),
		Entry("LD [I], V3 stores 4 bytes", uint16(0xF355), uint64(4)),
		Entry("LD VF, [I] loads 16 bytes", uint16(0xFF65), uint64(16)),
		Entry("LD B, Vx stores 3 bytes", uint16(0xF233), uint64(3)),
		Entry("LD DT, Vx", uint16(0xF115), uint64(1)),
		Entry("SKP", uint16(0xE19E), uint64(1)),
		Entry("SYS", uint16(0x0123), uint64(1)),
		Entry("unknown", uint16(0xF1FF), uint64(1)),
	)

	It("should return 1 for a nil instruction", func() {
		Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
	})

	Describe("Instruction classes", func() {
		It("should classify loads", func() {
			Expect(table.IsLoadOp(decoder.Decode(0xF265))).To(BeTrue())
			Expect(table.IsLoadOp(decoder.Decode(0xD125))).To(BeTrue())
			Expect(table.IsLoadOp(decoder.Decode(0xF255))).To(BeFalse())
		})

		It("should classify stores", func() {
			Expect(table.IsStoreOp(decoder.Decode(0xF255))).To(BeTrue())
			Expect(table.IsStoreOp(decoder.Decode(0xF233))).To(BeTrue())
			Expect(table.IsStoreOp(decoder.Decode(0xF265))).To(BeFalse())
		})

		It("should classify memory operations", func() {
			Expect(table.IsMemoryOp(decoder.Decode(0xF233))).To(BeTrue())
			Expect(table.IsMemoryOp(decoder.Decode(0xA123))).To(BeFalse())
			Expect(table.IsMemoryOp(nil)).To(BeFalse())
		})

		It("should classify branches and skips", func() {
			Expect(table.IsBranchOp(decoder.Decode(0x1234))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(0x4100))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(0x8124))).To(BeFalse())
		})

		It("should report access sizes", func() {
			Expect(table.AccessSize(decoder.Decode(0xF755))).To(Equal(8))
			Expect(table.AccessSize(decoder.Decode(0xF033))).To(Equal(3))
			Expect(table.AccessSize(decoder.Decode(0xD12F))).To(Equal(15))
			Expect(table.AccessSize(decoder.Decode(0x8124))).To(BeZero())
		})
	})

	Describe("Custom configuration", func() {
		It("should use configured latencies", func() {
			config := latency.DefaultTimingConfig()
			config.DrawLatency = 10
			config.DrawRowLatency = 2
			config.StoreLatency = 3
			table = latency.NewTableWithConfig(config)

			Expect(table.GetLatency(decoder.Decode(0xD123))).To(Equal(uint64(16)))
			Expect(table.GetLatency(decoder.Decode(0xF155))).To(Equal(uint64(6)))
		})
	})
})

var _ = Describe("TimingConfig", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "timing-config-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should save and load a configuration", func() {
		path := filepath.Join(tempDir, "timing.json")
		config := latency.DefaultTimingConfig()
		config.CyclesPerFrame = 33

		Expect(config.SaveConfig(path)).To(Succeed())
		loaded, err := latency.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(config))
	})

	It("should keep defaults for fields missing from the file", func() {
		path := filepath.Join(tempDir, "partial.json")
		Expect(os.WriteFile(path, []byte(`{"draw_latency": 7}`), 0644)).To(Succeed())

		loaded, err := latency.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.DrawLatency).To(Equal(uint64(7)))
		Expect(loaded.CyclesPerFrame).To(Equal(uint64(20)))
	})

	It("should fail on a missing file", func() {
		_, err := latency.LoadConfig(filepath.Join(tempDir, "missing.json"))
		Expect(err).To(HaveOccurred())
	})

	It("should fail on malformed JSON", func() {
		path := filepath.Join(tempDir, "bad.json")
		Expect(os.WriteFile(path, []byte(`{"alu_latency": `), 0644)).To(Succeed())

		_, err := latency.LoadConfig(path)

		Expect(err).To(MatchError(ContainSubstring("failed to parse timing config")))
	})

	DescribeTable("Validate rejects zero values",
		func(mutate func(*latency.TimingConfig), field string) {
			config := latency.DefaultTimingConfig()
			mutate(config)

			Expect(config.Validate()).To(MatchError(field + " must be > 0"))
		},
		Entry("alu", func(c *latency.TimingConfig) { c.ALULatency = 0 }, "alu_latency"),
		Entry("draw", func(c *latency.TimingConfig) { c.DrawLatency = 0 }, "draw_latency"),
		Entry("frame budget", func(c *latency.TimingConfig) { c.CyclesPerFrame = 0 }, "cycles_per_frame"),
		Entry("frame rate", func(c *latency.TimingConfig) { c.FrameRate = 0 }, "frame_rate"),
	)

	It("should allow free sprite rows", func() {
		config := latency.DefaultTimingConfig()
		config.DrawRowLatency = 0
		Expect(config.Validate()).To(Succeed())
	})

	It("should clone independently", func() {
		config := latency.DefaultTimingConfig()
		clone := config.Clone()
		clone.ALULatency = 9

		Expect(config.ALULatency).To(Equal(uint64(1)))
		Expect(clone.CyclesPerFrame).To(Equal(config.CyclesPerFrame))
	})
})
