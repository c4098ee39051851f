package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Spinner represents an animated spinner for long operations. It only
// animates when output is a color terminal; otherwise Start prints the
// message once.
type Spinner struct {
	frames  []string
	current int
	message string
	stop    chan struct{}
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewSpinner creates a new spinner
func NewSpinner(message string) *Spinner {
	return &Spinner{
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	if !supportsColor {
		fmt.Fprintf(Output, "%s...\n", s.message)
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(Output, "\r%s %s %s",
					ColorProgress(s.frames[s.current]),
					s.message,
					strings.Repeat(" ", 20), // Clear extra characters
				)
				s.current = (s.current + 1) % len(s.frames)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and prints the final status
func (s *Spinner) Stop(success bool, message string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	if supportsColor {
		fmt.Fprint(Output, "\r\033[K")
	}
	if success {
		fmt.Fprintf(Output, "%s %s\n", ColorSuccess("✓"), message)
	} else {
		fmt.Fprintf(Output, "%s %s\n", ColorError("✗"), message)
	}
}

// UpdateMessage updates the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Step is the outcome of one analysis run by a Tracker.
type Step struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Tracker times a sequence of named steps and reports their outcome.
type Tracker struct {
	mu        sync.Mutex
	steps     []Step
	started   time.Time
	startTime time.Time
	current   string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{startTime: time.Now()}
}

// Begin marks the start of a step.
func (t *Tracker) Begin(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = name
	t.started = time.Now()
	ShowHeader(name)
}

// End records the outcome of the current step.
func (t *Tracker) End(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, Step{Name: t.current, Err: err, Duration: time.Since(t.started)})
}

// Failed returns the number of steps that ended with an error.
func (t *Tracker) Failed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range t.steps {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Steps returns the recorded steps in order.
func (t *Tracker) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Step(nil), t.steps...)
}

// Finish prints one line per step followed by the total time.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(Output)
	failed := 0
	for _, s := range t.steps {
		if s.Err != nil {
			failed++
			fmt.Fprintf(Output, "  %s %s (%s)\n", ColorError("✗"), s.Name, formatDuration(s.Duration))
			continue
		}
		fmt.Fprintf(Output, "  %s %s (%s)\n", ColorSuccess("✓"), s.Name, formatDuration(s.Duration))
	}
	fmt.Fprintf(Output, "\n%d of %d analyses succeeded in %s\n",
		len(t.steps)-failed, len(t.steps), formatDuration(time.Since(t.startTime)))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
