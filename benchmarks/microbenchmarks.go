package benchmarks

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark stresses one instruction class of the timing model and
// leaves a known value in V0 before halting on a zero word.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		countdownLoop(),
		subroutineCalls(),
		spriteDraw(),
		blockCopy(),
		bcdConvert(),
		timerWait(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		countdownLoop(),
		spriteDraw(),
		timerWait(),
	}
}

// 1. Countdown Loop - ALU and skip throughput
func countdownLoop() Benchmark {
	return Benchmark{
		Name:        "countdown_loop",
		Description: "200 iterations of ADD/ADD/SE/JP - measures ALU and branch cost",
		Program: BuildProgram(
			EncodeLDImm(0, 0),     // 0x200
			EncodeLDImm(1, 200),   // 0x202
			EncodeADDImm(0, 1),    // 0x204 loop
			EncodeADDImm(1, 0xFF), // 0x206 V1--
			EncodeSEImm(1, 0),     // 0x208
			EncodeJP(0x204),       // 0x20A
			EncodeHalt(),          // 0x20C
		),
		ExpectedResult: 200,
	}
}

// 2. Subroutine Calls - CALL/RET pairs
func subroutineCalls() Benchmark {
	return Benchmark{
		Name:        "subroutine_calls",
		Description: "50 CALL/RET pairs - measures stack traffic",
		Program: BuildProgram(
			EncodeLDImm(0, 0),     // 0x200
			EncodeLDImm(1, 50),    // 0x202
			EncodeCALL(0x210),     // 0x204 loop
			EncodeADDImm(1, 0xFF), // 0x206
			EncodeSEImm(1, 0),     // 0x208
			EncodeJP(0x204),       // 0x20A
			EncodeHalt(),          // 0x20C
			EncodeHalt(),          // 0x20E
			EncodeADDImm(0, 2),    // 0x210 sub
			EncodeRET(),           // 0x212
		),
		ExpectedResult: 100,
	}
}

// 3. Sprite Draw - every font glyph once
func spriteDraw() Benchmark {
	return Benchmark{
		Name:        "sprite_draw",
		Description: "Draws the 16 font glyphs - measures DRW and sprite fetches",
		Program: BuildProgram(
			EncodeLDImm(0, 0),   // 0x200 digit
			EncodeLDImm(1, 0),   // 0x202 x
			EncodeLDImm(2, 0),   // 0x204 y
			EncodeMisc(0, 0x29), // 0x206 loop: LD F, V0
			EncodeDRW(1, 2, 5),  // 0x208
			EncodeADDImm(0, 1),  // 0x20A
			EncodeADDImm(1, 5),  // 0x20C
			EncodeSEImm(0, 16),  // 0x20E
			EncodeJP(0x206),     // 0x210
			EncodeHalt(),        // 0x212
		),
		ExpectedResult: 16,
	}
}

// 4. Block Copy - register file spills and reloads
func blockCopy() Benchmark {
	return Benchmark{
		Name:        "block_copy",
		Description: "40 rounds of LD [I], V7 / LD V7, [I] - measures load/store cost",
		Program: BuildProgram(
			EncodeLDImm(0, 0),   // 0x200
			EncodeADDImm(0, 1),  // 0x202 loop
			EncodeLDI(0x300),    // 0x204
			EncodeMisc(7, 0x55), // 0x206
			EncodeLDI(0x300),    // 0x208
			EncodeMisc(7, 0x65), // 0x20A
			EncodeSEImm(0, 40),  // 0x20C
			EncodeJP(0x202),     // 0x20E
			EncodeHalt(),        // 0x210
		),
		ExpectedResult: 40,
	}
}

// 5. BCD Convert - decimal decomposition of 255
func bcdConvert() Benchmark {
	return Benchmark{
		Name:        "bcd_convert",
		Description: "30 BCD conversions of 255 read back into V0-V2",
		Program: BuildProgram(
			EncodeLDImm(3, 0),   // 0x200
			EncodeLDImm(0, 255), // 0x202 loop
			EncodeLDI(0x300),    // 0x204
			EncodeMisc(0, 0x33), // 0x206 LD B, V0
			EncodeMisc(2, 0x65), // 0x208 LD V2, [I]
			EncodeADDImm(3, 1),  // 0x20A
			EncodeSEImm(3, 30),  // 0x20C
			EncodeJP(0x202),     // 0x20E
			EncodeHalt(),        // 0x210
		),
		ExpectedResult: 2,
	}
}

// 6. Timer Wait - busy-waits on the delay timer
func timerWait() Benchmark {
	return Benchmark{
		Name:        "timer_wait",
		Description: "Polls DT from 30 down to 0 - halts after 31 frames",
		Program: BuildProgram(
			EncodeLDImm(0, 30),  // 0x200
			EncodeMisc(0, 0x15), // 0x202 LD DT, V0
			EncodeMisc(0, 0x07), // 0x204 loop: LD V0, DT
			EncodeSEImm(0, 0),   // 0x206
			EncodeJP(0x204),     // 0x208
			EncodeHalt(),        // 0x20A
		),
		ExpectedResult: 0,
	}
}
