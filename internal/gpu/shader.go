package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// CompileWGSL compiles the WGSL source of shader name into SPIR-V words.
// name only labels errors and logs.
func CompileWGSL(name, source string) ([]uint32, error) {
	code, err := naga.Compile(source)
	if err != nil {
		logger().Warn("gpu: shader compile failed", "shader", name, "err", err)
		return nil, fmt.Errorf("gpu: compile %s: %w", name, err)
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fmt.Errorf("gpu: compile %s: %d bytes is not whole SPIR-V words", name, len(code))
	}

	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[4*i:])
	}
	logger().Debug("gpu: shader compiled", "shader", name, "words", len(words))
	return words, nil
}
