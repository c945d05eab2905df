package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		alu = emu.NewALU(regFile)
	})

	Describe("Logic operations", func() {
		BeforeEach(func() {
			regFile.WriteReg(1, 0b1100_1010)
			regFile.WriteReg(2, 0b1010_0110)
			regFile.WriteReg(0xF, 0x55)
		})

		It("should OR without touching VF", func() {
			alu.OR(1, 2)
			Expect(regFile.ReadReg(1)).To(Equal(uint8(0b1110_1110)))
			Expect(regFile.Flag()).To(Equal(uint8(0x55)))
		})

		It("should AND without touching VF", func() {
			alu.AND(1, 2)
			Expect(regFile.ReadReg(1)).To(Equal(uint8(0b1000_0010)))
			Expect(regFile.Flag()).To(Equal(uint8(0x55)))
		})

		It("should XOR without touching VF", func() {
			alu.XOR(1, 2)
			Expect(regFile.ReadReg(1)).To(Equal(uint8(0b0110_1100)))
			Expect(regFile.Flag()).To(Equal(uint8(0x55)))
		})

		It("should copy a register", func() {
			alu.LD(3, 2)
			Expect(regFile.ReadReg(3)).To(Equal(uint8(0b1010_0110)))
		})
	})

	DescribeTable("ADD sets VF iff the unsigned sum exceeds 255",
		func(a, b, want, flag uint8) {
			regFile.WriteReg(0, a)
			regFile.WriteReg(1, b)

			alu.ADD(0, 1)

			Expect(regFile.ReadReg(0)).To(Equal(want))
			Expect(regFile.Flag()).To(Equal(flag))
		},
		Entry("5 + 3", uint8(5), uint8(3), uint8(8), uint8(0)),
		Entry("200 + 55 = 255 exactly", uint8(200), uint8(55), uint8(255), uint8(0)),
		Entry("200 + 56 wraps", uint8(200), uint8(56), uint8(0), uint8(1)),
		Entry("255 + 255", uint8(255), uint8(255), uint8(254), uint8(1)),
		Entry("0 + 0", uint8(0), uint8(0), uint8(0), uint8(0)),
	)

	DescribeTable("SUB sets VF iff Vx >= Vy",
		func(a, b, want, flag uint8) {
			regFile.WriteReg(0, a)
			regFile.WriteReg(1, b)

			alu.SUB(0, 1)

			Expect(regFile.ReadReg(0)).To(Equal(want))
			Expect(regFile.Flag()).To(Equal(flag))
		},
		Entry("10 - 3", uint8(10), uint8(3), uint8(7), uint8(1)),
		Entry("equal operands do not borrow", uint8(9), uint8(9), uint8(0), uint8(1)),
		Entry("3 - 10 borrows", uint8(3), uint8(10), uint8(249), uint8(0)),
		Entry("0 - 1 borrows", uint8(0), uint8(1), uint8(255), uint8(0)),
	)

	DescribeTable("SUBN sets Vx = Vy - Vx and VF iff Vy >= Vx",
		func(a, b, want, flag uint8) {
			regFile.WriteReg(0, a)
			regFile.WriteReg(1, b)

			alu.SUBN(0, 1)

			Expect(regFile.ReadReg(0)).To(Equal(want))
			Expect(regFile.Flag()).To(Equal(flag))
		},
		Entry("10 - 3", uint8(3), uint8(10), uint8(7), uint8(1)),
		Entry("equal operands do not borrow", uint8(9), uint8(9), uint8(0), uint8(1)),
		Entry("3 - 10 borrows", uint8(10), uint8(3), uint8(249), uint8(0)),
	)

	DescribeTable("Shifts capture the bit shifted out",
		func(shift func(x uint8), in, want, flag uint8) {
			regFile.WriteReg(4, in)

			shift(4)

			Expect(regFile.ReadReg(4)).To(Equal(want))
			Expect(regFile.Flag()).To(Equal(flag))
		},
		Entry("SHR odd", func(x uint8) { alu.SHR(x) }, uint8(0b0000_0101), uint8(0b0000_0010), uint8(1)),
		Entry("SHR even", func(x uint8) { alu.SHR(x) }, uint8(0b0000_0100), uint8(0b0000_0010), uint8(0)),
		Entry("SHL high bit set", func(x uint8) { alu.SHL(x) }, uint8(0b1000_0001), uint8(0b0000_0010), uint8(1)),
		Entry("SHL high bit clear", func(x uint8) { alu.SHL(x) }, uint8(0b0100_0001), uint8(0b1000_0010), uint8(0)),
	)

	Describe("Immediate arithmetic", func() {
		It("should wrap ADD immediate without touching VF", func() {
			regFile.WriteReg(2, 250)
			regFile.WriteReg(0xF, 0)

			alu.ADDImm(2, 10)

			Expect(regFile.ReadReg(2)).To(Equal(uint8(4)))
			Expect(regFile.Flag()).To(BeZero())
		})

		It("should load an immediate", func() {
			alu.LDImm(7, 0x99)
			Expect(regFile.ReadReg(7)).To(Equal(uint8(0x99)))
		})
	})

	Describe("VF as destination", func() {
		It("should let the flag win over the result", func() {
			regFile.WriteReg(0xF, 200)
			regFile.WriteReg(1, 100)

			alu.ADD(0xF, 1)

			Expect(regFile.Flag()).To(Equal(uint8(1)))
		})

		It("should compute the flag from the pre-operation value", func() {
			regFile.WriteReg(0xF, 0x81)

			alu.SHL(0xF)

			Expect(regFile.Flag()).To(Equal(uint8(1)))
		})
	})
})
