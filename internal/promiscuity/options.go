package promiscuity

// Option configures a single search call.
type Option func(*options)

type options struct {
	maxDequeues int // 0 means unlimited
}

// WithMaxDequeues caps the number of frontier pops (and depth-first child visits)
// a search may perform. Non-positive values mean no cap.
func WithMaxDequeues(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxDequeues = n
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
