package cpu

// executeBranch executes a branch, saving the return address in lr when
// linking. The target is the instruction address + 8 + offset.
func (cpu *Cpu) executeBranch(pc uint32, code Code) {
	link, offset := code.BranchDecode()
	if link {
		cpu.Write(REG_LR, pc+4)
	}
	cpu.setRegister(REG_PC, pc+8+offset)
}
