package mappers

// NROM has no registers.
//
// CPU $8000-$BFFF: first 16 KB of ROM.
// CPU $C000-$FFFF: last 16 KB of ROM (NROM-256) or mirror of $8000-$BFFF (NROM-128).
// PPU $0000-$1FFF: 8 KB of CHR ROM (or RAM).
