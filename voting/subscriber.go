package voting

// Subscriber handles event subscriptions.
type Subscriber struct {
	done               chan struct{}
	snapshotHandler    func(SnapshotCreated)
	delegatedHandler   func(DelegationEstablished)
	undelegatedHandler func(DelegationRemoved)
}

// OnSnapshotCreated sets the handler for SnapshotCreated events
func OnSnapshotCreated(fn func(SnapshotCreated)) func(*Subscriber) {
	return func(s *Subscriber) { s.snapshotHandler = fn }
}

// OnDelegationEstablished sets the handler for DelegationEstablished events
func OnDelegationEstablished(fn func(DelegationEstablished)) func(*Subscriber) {
	return func(s *Subscriber) { s.delegatedHandler = fn }
}

// OnDelegationRemoved sets the handler for DelegationRemoved events
func OnDelegationRemoved(fn func(DelegationRemoved)) func(*Subscriber) {
	return func(s *Subscriber) { s.undelegatedHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the
// dispatch loop. Returns a closer function that waits for all events to be
// processed.
//
// The subscriber processes events until the events channel closes, then the
// closer function confirms all processing is complete. Use defer closer()
// right after construction to guarantee cleanup before exit.
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:               make(chan struct{}),
		snapshotHandler:    func(SnapshotCreated) {},       // nop by default
		delegatedHandler:   func(DelegationEstablished) {}, // nop by default
		undelegatedHandler: func(DelegationRemoved) {},     // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	// Start the dispatch loop immediately
	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case SnapshotCreated:
				s.snapshotHandler(e)
			case DelegationEstablished:
				s.delegatedHandler(e)
			case DelegationRemoved:
				s.undelegatedHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}
