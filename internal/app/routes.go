package app

import (
	"github.com/vancomm/stagehunt/internal/handlers"
)

func (a *App) loadRoutes() {
	hunt := handlers.NewHuntHandler(
		a.log, a.host, a.tracker, a.config.NewUpgrader(),
	)
	hunt.Register(a.router)
}
