package conduct

import "context"

// ChannelWatcher adapts an existing byte channel to the Watcher interface,
// for definition sources that already produce bytes (message consumers,
// test fixtures).
type ChannelWatcher struct {
	src    <-chan []byte
	direct bool
}

// NewChannelWatcher wraps a channel behind a forwarding goroutine that
// honors context cancellation.
func NewChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src}
}

// NewSyncChannelWatcher hands the source channel to the Loader directly,
// with no goroutine in between. Pair with the Loader's SyncMode so tests
// control exactly when each value is consumed.
func NewSyncChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src, direct: true}
}

// Watch returns the channel of definition bytes.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.direct {
		return w.src, nil
	}

	out := make(chan []byte)
	go forward(ctx, w.src, out)
	return out, nil
}

func forward(ctx context.Context, src <-chan []byte, out chan<- []byte) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-src:
			if !ok {
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}
}
