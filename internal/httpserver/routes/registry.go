package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/gemshub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

type entry struct {
	name string
	reg  Registrar
}

var registry []entry

// Register adds a named route group, called from each file's init.
func Register(name string, reg Registrar) {
	registry = append(registry, entry{name: name, reg: reg})
}

// RegisterAll mounts every group on r. Called once from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		e.reg(r, d)
		d.Logger.Debug("routes registered", logger.String("group", e.name))
	}
}
