package base

import "time"

type Client interface {
	Timing(name string, value time.Duration, tags map[string]string)
	Incr(name string, tags map[string]string)
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	// Flush sends anything that is buffered, it is called before the process exits.
	Flush() error
}
