package axis

import "time"

type AxisClientOptioner func(o *axisOptions)

func WithConnectTimeout(dur time.Duration) AxisClientOptioner {
	return func(o *axisOptions) {
		o.connectTimeout = dur
	}
}

type axisOptions struct {
	connectTimeout time.Duration
}
