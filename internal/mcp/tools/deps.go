package tools

import (
	"github.com/usestring/json2go/internal/batch"
	"github.com/usestring/json2go/internal/config"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config
	Folder *batch.Folder
}
