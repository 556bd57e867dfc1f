package pipeline

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// bytecodeWords repacks a SPIR-V byte stream into the little-endian 32-bit
// words the driver consumes.
func bytecodeWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, errors.Newf("SPIR-V byte stream is %d bytes, not a multiple of 4", len(b))
	}

	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode, nil
}

// loadShaderCode reads a compiled shader from disk. A missing or unreadable
// file is fatal to pipeline creation.
func loadShaderCode(shaderDir, name string) ([]uint32, error) {
	path := filepath.Join(shaderDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read shader %s", path)
	}

	return bytecodeWords(raw)
}
