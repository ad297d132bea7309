package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WAV container IO for uncompressed PCM. Only format 1 (linear PCM) is
// supported; everything the wizard writes is mono 16-bit little-endian.

const wavHeaderSize = 44

// EncodeWAV writes buf as a RIFF/WAVE stream with a fmt and data chunk.
// A buffer with zero frames produces a valid WAV with an empty data chunk.
func EncodeWAV(w io.Writer, buf Buffer) error {
	dataLen := len(buf.Data)
	blockAlign := buf.BlockAlign()
	byteRate := buf.SampleRate * blockAlign

	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(buf.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(buf.BitsPerSample))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := w.Write(buf.Data); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

// DecodeWAV parses a RIFF/WAVE stream, walking chunks until the data
// chunk is found.
func DecodeWAV(r io.Reader) (Buffer, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Buffer{}, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Buffer{}, fmt.Errorf("not a valid WAV file")
	}

	var buf Buffer
	haveFmt := false
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF {
				return Buffer{}, fmt.Errorf("WAV file has no data chunk")
			}
			return Buffer{}, fmt.Errorf("failed to read chunk header: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkLen := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			fmtChunk := make([]byte, chunkLen)
			if _, err := io.ReadFull(r, fmtChunk); err != nil {
				return Buffer{}, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			if format := binary.LittleEndian.Uint16(fmtChunk[0:2]); format != 1 {
				return Buffer{}, fmt.Errorf("unsupported WAV format %d (want PCM)", format)
			}
			buf.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			buf.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			buf.BitsPerSample = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return Buffer{}, fmt.Errorf("WAV data chunk precedes fmt chunk")
			}
			buf.Data = make([]byte, chunkLen)
			if _, err := io.ReadFull(r, buf.Data); err != nil {
				return Buffer{}, fmt.Errorf("failed to read WAV data: %w", err)
			}
			return buf, nil
		default:
			// Skip unknown chunks (LIST, fact, ...).
			if _, err := io.CopyN(io.Discard, r, int64(chunkLen)); err != nil {
				return Buffer{}, fmt.Errorf("failed to skip %s chunk: %w", chunkID, err)
			}
		}
	}
}

// WriteWAVFile writes buf to path as a WAV file.
func WriteWAVFile(path string, buf Buffer) error {
	var out bytes.Buffer
	if err := EncodeWAV(&out, buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadWAVFile decodes the WAV file at path.
func ReadWAVFile(path string) (Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()
	return DecodeWAV(file)
}
