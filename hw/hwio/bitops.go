package hwio

// PageCrossed reports whether a and b are on different 256-byte pages.
func PageCrossed(a, b uint16) bool {
	return a>>8 != b>>8
}
