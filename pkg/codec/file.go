package codec

import (
	"fmt"
	"os"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
)

// ImportDiagram reads the diagram file at path. See [Read].
func ImportDiagram(path string, opts ...Option) (*circuit.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, opts...)
}

// ExportDiagram writes g to path, creating or truncating the file.
func ExportDiagram(g *circuit.Graph, path string, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
