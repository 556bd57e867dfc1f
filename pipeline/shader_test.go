package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBytecodeWordsPacksLittleEndian(t *testing.T) {
	words, err := bytecodeWords([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00})
	if err != nil {
		t.Fatal(err)
	}

	// 0x07230203 is the SPIR-V magic number.
	want := []uint32{0x07230203, 0x00010000}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %#08x, want %#08x", i, words[i], want[i])
		}
	}
}

func TestBytecodeWordsRejectsRaggedStream(t *testing.T) {
	if _, err := bytecodeWords([]byte{0x03, 0x02, 0x23}); err == nil {
		t.Error("bytecodeWords accepted a stream that is not a whole number of words")
	}
}

func TestLoadShaderCode(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := loadShaderCode(dir, "vert.spv"); err == nil {
			t.Error("loadShaderCode succeeded on a missing file")
		}
	})

	t.Run("reads and repacks an existing file", func(t *testing.T) {
		raw := []byte{0x03, 0x02, 0x23, 0x07}
		if err := os.WriteFile(filepath.Join(dir, "frag.spv"), raw, 0o644); err != nil {
			t.Fatal(err)
		}

		words, err := loadShaderCode(dir, "frag.spv")
		if err != nil {
			t.Fatal(err)
		}
		if len(words) != 1 || words[0] != 0x07230203 {
			t.Errorf("got %#v, want the SPIR-V magic word", words)
		}
	})
}
