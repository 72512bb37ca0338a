package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/bookrel/internal/model"
)

// Renderer writes graphs as JSON
type Renderer struct {
	pretty bool
}

// NewRenderer creates a renderer; pretty indents the output
func NewRenderer(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Encode writes g to w. Nil node or edge lists render as [].
func (r *Renderer) Encode(w io.Writer, g *model.Graph) error {
	out := model.EmptyGraph()
	if g != nil {
		if g.Nodes != nil {
			out.Nodes = g.Nodes
		}
		if g.Edges != nil {
			out.Edges = g.Edges
		}
	}

	enc := json.NewEncoder(w)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

// RenderJSON writes g to path, creating parent directories as needed
func (r *Renderer) RenderJSON(g *model.Graph, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := r.Encode(f, g); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode graph: %w", err)
	}
	return f.Close()
}
