package shared

// TickCounter is the monotonically increasing world tick
type TickCounter interface {
	CurrentTick() int64
}

// WorldTicks counts world ticks. Advance is called once per world tick by the driver.
type WorldTicks struct {
	tick int64
}

// NewWorldTicks starts counting from start (restored worlds resume their count)
func NewWorldTicks(start int64) *WorldTicks {
	if start < 0 {
		start = 0
	}
	return &WorldTicks{tick: start}
}

func (w *WorldTicks) CurrentTick() int64 {
	return w.tick
}

// Advance moves the counter forward by one and returns the new value
func (w *WorldTicks) Advance() int64 {
	w.tick++
	return w.tick
}
