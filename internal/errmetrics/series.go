package errmetrics

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadSeries reads a series of values from path. Files with a .bin extension
// are raw little-endian float32 grids; anything else is whitespace-separated text.
func ReadSeries(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".bin") {
		return ReadBinary(file)
	}
	return ReadText(file)
}

// ReadBinary decodes consecutive little-endian float32 values.
func ReadBinary(r io.Reader) ([]float64, error) {
	br := bufio.NewReader(r)
	var out []float64
	var buf [4]byte
	for {
		_, err := io.ReadFull(br, buf[:])
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated float32 at value %d", len(out)+1)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))))
	}
}

// ReadText parses whitespace-separated numbers.
func ReadText(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var out []float64
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(out)+1, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
