package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Operand extraction", func() {
		// DRW VA, VB, 5 -> 0xDAB5
		It("should extract x, y and n", func() {
			inst := decoder.Decode(0xDAB5)

			Expect(inst.Word).To(Equal(uint16(0xDAB5)))
			Expect(inst.X).To(Equal(uint8(0xA)))
			Expect(inst.Y).To(Equal(uint8(0xB)))
			Expect(inst.N).To(Equal(uint8(0x5)))
			Expect(inst.KK).To(Equal(uint8(0xB5)))
			Expect(inst.NNN).To(Equal(uint16(0xAB5)))
		})

		It("should keep register indices within the register file", func() {
			for _, word := range []uint16{0x0000, 0x8FF4, 0xFFFF, 0x5F00} {
				inst := decoder.Decode(word)
				Expect(inst.X).To(BeNumerically("<", 16))
				Expect(inst.Y).To(BeNumerically("<", 16))
			}
		})

		It("should decode every 16-bit word without tripping the register check", func() {
			for w := 0; w <= 0xFFFF; w++ {
				var inst *insts.Instruction
				Expect(func() { inst = decoder.Decode(uint16(w)) }).NotTo(Panic())
				Expect(int(inst.X)).To(BeNumerically("<", insts.NumRegisters))
				Expect(int(inst.Y)).To(BeNumerically("<", insts.NumRegisters))
			}
		})
	})

	Describe("Family 0x0", func() {
		It("should decode CLS", func() {
			inst := decoder.Decode(0x00E0)

			Expect(inst.Op).To(Equal(insts.OpCLS))
			Expect(inst.Format).To(Equal(insts.FormatDisplay))
		})

		It("should decode RET", func() {
			inst := decoder.Decode(0x00EE)

			Expect(inst.Op).To(Equal(insts.OpRET))
			Expect(inst.Format).To(Equal(insts.FormatBranch))
		})

		It("should decode other 0nnn words as SYS", func() {
			inst := decoder.Decode(0x0123)

			Expect(inst.Op).To(Equal(insts.OpSYS))
			Expect(inst.Format).To(Equal(insts.FormatSystem))
			Expect(inst.NNN).To(Equal(uint16(0x123)))
		})
	})

	DescribeTable("Single-form families",
		func(word uint16, op insts.Op, format insts.Format) {
			inst := decoder.Decode(word)

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(format))
		},
		Entry("JP $2A0", uint16(0x12A0), insts.OpJP, insts.FormatBranch),
		Entry("CALL $300", uint16(0x2300), insts.OpCALL, insts.FormatBranch),
		Entry("SE V1, $42", uint16(0x3142), insts.OpSEImm, insts.FormatSkip),
		Entry("SNE V2, $42", uint16(0x4242), insts.OpSNEImm, insts.FormatSkip),
		Entry("SE V3, V4", uint16(0x5340), insts.OpSEReg, insts.FormatSkip),
		Entry("LD V5, $FF", uint16(0x65FF), insts.OpLDImm, insts.FormatImm),
		Entry("ADD V6, $01", uint16(0x7601), insts.OpADDImm, insts.FormatImm),
		Entry("SNE V7, V8", uint16(0x9780), insts.OpSNEReg, insts.FormatSkip),
		Entry("LD I, $123", uint16(0xA123), insts.OpLDI, insts.FormatImm),
		Entry("JP V0, $400", uint16(0xB400), insts.OpJPV0, insts.FormatBranch),
		Entry("RND V9, $0F", uint16(0xC90F), insts.OpRND, insts.FormatImm),
		Entry("DRW V0, V1, 5", uint16(0xD015), insts.OpDRW, insts.FormatDisplay),
	)

	DescribeTable("Family 0x8 ALU variants",
		func(word uint16, op insts.Op) {
			inst := decoder.Decode(word)

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(insts.FormatALU))
			Expect(inst.X).To(Equal(uint8(1)))
			Expect(inst.Y).To(Equal(uint8(2)))
		},
		Entry("LD", uint16(0x8120), insts.OpLDReg),
		Entry("OR", uint16(0x8121), insts.OpOR),
		Entry("AND", uint16(0x8122), insts.OpAND),
		Entry("XOR", uint16(0x8123), insts.OpXOR),
		Entry("ADD", uint16(0x8124), insts.OpADD),
		Entry("SUB", uint16(0x8125), insts.OpSUB),
		Entry("SHR", uint16(0x8126), insts.OpSHR),
		Entry("SUBN", uint16(0x8127), insts.OpSUBN),
		Entry("SHL", uint16(0x812E), insts.OpSHL),
	)

	DescribeTable("Families 0xE and 0xF",
		func(word uint16, op insts.Op, format insts.Format) {
			inst := decoder.Decode(word)

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(format))
			Expect(inst.X).To(Equal(uint8(3)))
		},
		Entry("SKP", uint16(0xE39E), insts.OpSKP, insts.FormatInput),
		Entry("SKNP", uint16(0xE3A1), insts.OpSKNP, insts.FormatInput),
		Entry("LD Vx, DT", uint16(0xF307), insts.OpLDVxDT, insts.FormatTimer),
		Entry("LD Vx, K", uint16(0xF30A), insts.OpLDVxK, insts.FormatInput),
		Entry("LD DT, Vx", uint16(0xF315), insts.OpLDDTVx, insts.FormatTimer),
		Entry("LD ST, Vx", uint16(0xF318), insts.OpLDSTVx, insts.FormatTimer),
		Entry("ADD I, Vx", uint16(0xF31E), insts.OpADDI, insts.FormatLoadStore),
		Entry("LD F, Vx", uint16(0xF329), insts.OpLDF, insts.FormatLoadStore),
		Entry("LD B, Vx", uint16(0xF333), insts.OpLDB, insts.FormatLoadStore),
		Entry("LD [I], Vx", uint16(0xF355), insts.OpSTM, insts.FormatLoadStore),
		Entry("LD Vx, [I]", uint16(0xF365), insts.OpLDM, insts.FormatLoadStore),
	)

	Describe("Unknown Instructions", func() {
		DescribeTable("should mark unmapped words as unknown",
			func(word uint16) {
				inst := decoder.Decode(word)

				Expect(inst.Op).To(Equal(insts.OpUnknown))
				Expect(inst.Format).To(Equal(insts.FormatUnknown))
				Expect(inst.Word).To(Equal(word))
			},
			Entry("5xy1", uint16(0x5121)),
			Entry("9xyF", uint16(0x912F)),
			Entry("8xy8", uint16(0x8128)),
			Entry("8xyF", uint16(0x812F)),
			Entry("Ex00", uint16(0xE100)),
			Entry("Fx00", uint16(0xF100)),
			Entry("FxFF", uint16(0xF1FF)),
		)
	})

	Describe("String", func() {
		DescribeTable("should render assembler syntax",
			func(word uint16, want string) {
				Expect(decoder.Decode(word).String()).To(Equal(want))
			},
			Entry("CLS", uint16(0x00E0), "CLS"),
			Entry("JP", uint16(0x1234), "JP $234"),
			Entry("JP V0", uint16(0xB234), "JP V0, $234"),
			Entry("LD Vx, byte", uint16(0x6A0F), "LD VA, $0F"),
			Entry("ADD Vx, Vy", uint16(0x8014), "ADD V0, V1"),
			Entry("DRW", uint16(0xD125), "DRW V1, V2, $5"),
			Entry("LD B", uint16(0xF233), "LD B, V2"),
			Entry("LD Vx, [I]", uint16(0xF565), "LD V5, [I]"),
			Entry("unknown", uint16(0xF1FF), "DW $F1FF"),
		)
	})
})
