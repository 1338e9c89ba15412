// Package stopwatch provides a tiny wall-clock timing helper, promoting
// the inline time.Now()/time.Since() pairs the algorithm layer already
// uses into a reusable type; the CLI driver uses it to time each run.
package stopwatch

import "time"

// Stopwatch measures elapsed wall-clock time from the moment it is
// started until Stop or Elapsed is called.
type Stopwatch struct {
	start time.Time
}

// New returns a Stopwatch already started.
func New() *Stopwatch {
	return &Stopwatch{start: time.Now()}
}

// Elapsed returns the time elapsed since the Stopwatch was started,
// without stopping it.
func (s *Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Reset restarts the Stopwatch from the current instant.
func (s *Stopwatch) Reset() {
	s.start = time.Now()
}

// Stop returns the elapsed duration since the Stopwatch was started or
// last reset.
func (s *Stopwatch) Stop() time.Duration {
	return time.Since(s.start)
}
