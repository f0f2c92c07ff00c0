package bus

import (
	"bufio"
	"fmt"
	"os"
)

// DumpRDRAM writes RDRAM as hex words, four per line, into file path
func (b *Bus) DumpRDRAM(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for a := uint32(0); a < uint32(b.RDRAM.Len()); a += 16 {
		fmt.Fprintf(w, "%08X : %08X %08X %08X %08X\n", a,
			b.RDRAM.Read32(a), b.RDRAM.Read32(a+4), b.RDRAM.Read32(a+8), b.RDRAM.Read32(a+12))
	}
	return w.Flush()
}
