package mcpsrv

import (
	"github.com/usestring/json2go/internal/batch"
	"github.com/usestring/json2go/internal/config"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config *config.Config
	Folder *batch.Folder
}
