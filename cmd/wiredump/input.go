package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// readInput returns the bytes named by args: a file path, or stdin when
// args is empty or "-". Hex input may contain whitespace between digits.
func readInput(args []string, stdin io.Reader, isHex bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !isHex {
		return data, nil
	}

	decoded, err := hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return decoded, nil
}
