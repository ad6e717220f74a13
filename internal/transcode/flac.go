package transcode

import (
	"bytes"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

const wavFormatPCM = 1

// DecodeFLAC decodes a FLAC stream to linear PCM bytes by re-encoding each
// frame through go-audio/wav into an in-memory buffer, then handing back
// just the data-chunk bytes (headerLen points past the 44-byte WAV header
// the encoder produced). FLAC carries no equivalent of a fixed header in
// the source container, so headerLen is always relative to the
// intermediate WAV representation this function builds. container is that
// whole synthetic WAV buffer: samples is a sub-slice of it, so a caller
// that embeds into samples in place must hold onto container to recover
// the bytes ahead of headerLen when reassembling the output file.
func DecodeFLAC(data []byte) (samples []byte, headerLen, sampleRate, channels, bitsPerSample int, container []byte, err error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, 0, 0, nil, stegoerr.Wrap("transcode", "decode_flac", stegoerr.ErrFormat)
	}

	sampleRate = int(stream.Info.SampleRate)
	bitsPerSample = int(stream.Info.BitsPerSample)
	channels = int(stream.Info.NChannels)

	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, bitsPerSample, channels, wavFormatPCM)

	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitsPerSample,
	}

	var frameData []int
	for {
		frame, ferr := stream.ParseNext()
		if ferr == io.EOF {
			break
		}
		if ferr != nil {
			return nil, 0, 0, 0, 0, nil, stegoerr.Wrap("transcode", "decode_flac", stegoerr.ErrFormat)
		}
		frameData = frameData[:0]
		for i := 0; i < frame.Subframes[0].NSamples; i++ {
			for _, subframe := range frame.Subframes {
				frameData = append(frameData, int(subframe.Samples[i]))
			}
		}
		intBuf.Data = frameData
		if err := enc.Write(intBuf); err != nil {
			return nil, 0, 0, 0, 0, nil, stegoerr.Wrap("transcode", "decode_flac", stegoerr.ErrFormat)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, 0, 0, 0, 0, nil, stegoerr.Wrap("transcode", "decode_flac", stegoerr.ErrFormat)
	}

	wavBytes := ws.Bytes()
	off, size, derr := findWAVDataChunk(wavBytes)
	if derr != nil {
		return nil, 0, 0, 0, 0, nil, stegoerr.Wrap("transcode", "decode_flac", stegoerr.ErrFormat)
	}

	logf("INFO", "DecodeFLAC", "decoded %d Hz/%d ch/%d bit, %d PCM bytes", sampleRate, channels, bitsPerSample, size)
	return wavBytes[off : off+size], off, sampleRate, channels, bitsPerSample, wavBytes, nil
}
