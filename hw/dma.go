package hw

import "nescore/emu/log"

// oamDMA handles the DMA transfer of OAM (sprites attributes) to the PPU.
// While a transfer is in progress the CPU is stalled.
type oamDMA struct {
	page   uint8
	addr   uint8
	data   uint8
	active bool

	// DMA can only be started on an even cycle, we use a dummy cycle to align
	// the transfer.
	dummy bool
}

func (dma *oamDMA) reset() {
	*dma = oamDMA{dummy: true}
}

func (dma *oamDMA) start(page uint8) {
	log.ModDMA.InfoZ("Write to OAMDMA reg").Hex8("page", page).End()
	dma.page = page
	dma.addr = 0x00
	dma.active = true
	dma.dummy = true
}

// step runs one CPU cycle of the transfer.
func (dma *oamDMA) step(b *Bus) {
	const (
		even = 0
		odd  = 1
	)

	if dma.dummy {
		if b.systemClock%2 == odd {
			dma.dummy = false
			log.ModDMA.InfoZ("Begin PPU DMA transfer").
				Hex8("page", dma.page).
				Uint64("clock", b.systemClock).
				End()
		}
		return
	}

	switch b.systemClock % 2 {
	case even:
		// Read from CPU bus
		dma.data = b.Read8(uint16(dma.page)<<8|uint16(dma.addr), false)

	case odd:
		// Write to PPU OAM
		b.ppu.WriteOAMDMA(dma.data)
		dma.addr++
		// When this wraps around we know that 256 bytes have been written.
		if dma.addr == 0x00 {
			log.ModDMA.InfoZ("Ending PPU DMA transfer").
				Hex8("page", dma.page).
				Uint64("clock", b.systemClock).
				End()
			dma.active = false
			dma.dummy = true
		}
	}
}
