package datasource

import (
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/bus"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

type BarDataSource interface {
	GetNext() (common.Bar, error)
}

// CreateBarDispatcher pulls one bar per call and posts it on the router,
// sized for Router.ExecLoop.
func CreateBarDispatcher(r *bus.Router, ds BarDataSource) func() error {
	return func() error {
		bar, err := ds.GetNext()
		if err != nil {
			return err
		}
		return r.Post(bus.BarEvent, bar)
	}
}
