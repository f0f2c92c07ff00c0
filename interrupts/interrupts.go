package interrupts

/**
 * Separate package exists mainly in order to avoid cyclic imports:
 * the bus, the rcp devices and the cpu all need to agree on these values.
 */

// Flag is a single bit in the MI interrupt pending / mask registers.
// every RCP device owns exactly one of them.
type Flag uint32

// MI interrupt flags, in MI_INTR bit order
const (
	SP Flag = 1 << iota // RSP break or software interrupt
	SI                  // SI DMA to/from PIF RAM finished
	AI                  // audio buffer consumed
	VI                  // vertical interrupt line reached
	PI                  // cartridge DMA finished
	DP                  // RDP full sync

	// FlagMask covers all defined flags
	FlagMask Flag = SP | SI | AI | VI | PI | DP
)

var flagNames = [...]string{"SP", "SI", "AI", "VI", "PI", "DP"}

func (f Flag) String() string {
	s := ""
	for i, n := range flagNames {
		if f&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += n
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

/********************************
 * COP0 exception codes (Cause bits 6:2)
 ********************************/

// ExceptionCode is the value stored in the Cause ExcCode field
type ExceptionCode uint32

const (
	// Int - interrupt
	Int ExceptionCode = 0
	// Mod - TLB modification
	Mod ExceptionCode = 1
	// TLBL - TLB miss on load or fetch
	TLBL ExceptionCode = 2
	// TLBS - TLB miss on store
	TLBS ExceptionCode = 3
	// AdEL - address error on load or fetch
	AdEL ExceptionCode = 4
	// AdES - address error on store
	AdES ExceptionCode = 5
	// IBE - bus error on fetch
	IBE ExceptionCode = 6
	// DBE - bus error on data access
	DBE ExceptionCode = 7
	// Sys - SYSCALL
	Sys ExceptionCode = 8
	// Bp - BREAK
	Bp ExceptionCode = 9
	// RI - reserved instruction
	RI ExceptionCode = 10
	// CpU - coprocessor unusable
	CpU ExceptionCode = 11
	// Ov - integer overflow
	Ov ExceptionCode = 12
	// Tr - trap instruction
	Tr ExceptionCode = 13
	// FPE - floating point exception
	FPE ExceptionCode = 15
	// Watch - watchpoint
	Watch ExceptionCode = 23
)

var exceptionNames = map[ExceptionCode]string{
	Int: "Int", Mod: "Mod", TLBL: "TLBL", TLBS: "TLBS", AdEL: "AdEL", AdES: "AdES",
	IBE: "IBE", DBE: "DBE", Sys: "Sys", Bp: "Bp", RI: "RI", CpU: "CpU",
	Ov: "Ov", Tr: "Tr", FPE: "FPE", Watch: "WATCH",
}

func (e ExceptionCode) String() string {
	if n, ok := exceptionNames[e]; ok {
		return n
	}
	return "Exc?"
}
