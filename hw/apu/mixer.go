package apu

// mix combines the channels outputs into a single sample, roughly in the
// [0, 1] range. It uses the non-linear approximations of the NES mixer:
//
//	pulse = 95.88 / (8128 / (square1 + square2) + 100)
//	tnd   = 159.79 / (1 / (triangle/8227 + noise/12241 + dmc/22638) + 100)
func mix(sq1, sq2, tri, noise, dmc uint8) float32 {
	var pulse, tnd float32

	if sum := float32(sq1) + float32(sq2); sum != 0 {
		pulse = 95.88 / (8128.0/sum + 100.0)
	}

	if sum := float32(tri)/8227.0 + float32(noise)/12241.0 + float32(dmc)/22638.0; sum != 0 {
		tnd = 159.79 / (1.0/sum + 100.0)
	}

	return pulse + tnd
}
