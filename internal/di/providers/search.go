package providers

import (
	"github.com/samber/do/v2"

	"github.com/sushestargate/stargate-server/internal/config"
	"github.com/sushestargate/stargate-server/internal/logger"
	"github.com/sushestargate/stargate-server/internal/search"
)

// ActivityIndexHandle wraps the audit search index with shutdown capability.
type ActivityIndexHandle struct {
	*search.ActivityIndex
}

// Shutdown implements do.Shutdownable.
func (h *ActivityIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideActivityIndex provides the Bleve index over the audit log.
func ProvideActivityIndex(i do.Injector) (*ActivityIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewActivityIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Component("search"),
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Activity search index initialized", "documents", docCount)

	return &ActivityIndexHandle{ActivityIndex: index}, nil
}
