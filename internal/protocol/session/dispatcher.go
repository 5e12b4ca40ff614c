package session

import "sync"

// Dispatcher delivers events to an Observer on its own goroutine, in push
// order. Push never blocks the caller and never drops an event.
type Dispatcher struct {
	obs Observer

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool

	done chan struct{}
}

func NewDispatcher(obs Observer) *Dispatcher {
	d := &Dispatcher{
		obs:  obs,
		done: make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.loop()
	return d
}

func (d *Dispatcher) Push(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue = append(d.queue, ev)
	d.cond.Signal()
}

// Close stops accepting events; already queued events are still delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
}

// Done is closed once every queued event has been delivered after Close.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 && d.closed {
			d.mu.Unlock()
			return
		}
		batch := d.queue
		d.queue = nil
		d.mu.Unlock()

		for _, ev := range batch {
			d.deliver(ev)
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	if d.obs == nil {
		return
	}
	switch ev.Kind {
	case EventCommand:
		entry := ev.Entry
		d.obs.OnCommand(&entry)
		d.obs.OnColorChanged(ev.Color)
	case EventColor:
		d.obs.OnColorChanged(ev.Color)
	case EventDisconnected:
		d.obs.OnCommand(nil)
	}
}
