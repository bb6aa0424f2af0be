package mapsnapengine

// MapObserver receives notifications about map lifecycle events. The map
// calls it on whatever goroutine is pumping the run loop.
type MapObserver interface {
	OnStyleLoaded(styleURL string)
	OnStyleLoadFailed(styleURL string, err error)
	OnRenderFinished()
}

type nullObserver struct{}

func (nullObserver) OnStyleLoaded(styleURL string)                {}
func (nullObserver) OnStyleLoadFailed(styleURL string, err error) {}
func (nullObserver) OnRenderFinished()                            {}

// NullObserver returns an observer that ignores every event.
func NullObserver() MapObserver {
	return nullObserver{}
}
