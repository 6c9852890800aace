package pipeline

import (
	"io"

	"github.com/matzehuels/pipelayout/pkg/errors"
	"github.com/matzehuels/pipelayout/pkg/graph"
)

// Load reads a pipeline document from path. A path of "-" reads from stdin.
func Load(path string, stdin io.Reader) (*graph.Pipeline, error) {
	if path == "-" {
		return graph.ReadPipeline(stdin)
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return graph.ReadPipelineFile(path)
}
