package emu

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// An AudioSink consumes the samples produced by the APU.
type AudioSink interface {
	WriteSamples(samples []float32) error
}

const wavBitDepth = 16

// WAVWriter is an AudioSink encoding samples into a 16-bit mono PCM WAV
// stream.
type WAVWriter struct {
	enc   *wav.Encoder
	buf   *audio.IntBuffer
	wrote bool
}

// NewWAVWriter returns a WAVWriter writing to w. Close must be called to
// finalize the WAV headers.
func NewWAVWriter(w io.WriteSeeker, sampleRate int) *WAVWriter {
	return &WAVWriter{
		enc: wav.NewEncoder(w, sampleRate, wavBitDepth, 1, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}
}

// WriteSamples implements AudioSink.
func (ww *WAVWriter) WriteSamples(samples []float32) error {
	ww.buf.Data = ww.buf.Data[:0]
	for _, s := range samples {
		ww.buf.Data = append(ww.buf.Data, pcm16(s))
	}
	ww.wrote = true
	return ww.enc.Write(ww.buf)
}

// Close updates the WAV headers. It doesn't close the underlying writer.
func (ww *WAVWriter) Close() error {
	if !ww.wrote {
		// Headers are only written along with the first samples.
		ww.buf.Data = ww.buf.Data[:0]
		if err := ww.enc.Write(ww.buf); err != nil {
			return err
		}
	}
	return ww.enc.Close()
}

// pcm16 converts a sample in the [-1, 1] range to a signed 16-bit value.
func pcm16(s float32) int {
	switch {
	case s > 1:
		s = 1
	case s < -1:
		s = -1
	}
	return int(s * 32767)
}
