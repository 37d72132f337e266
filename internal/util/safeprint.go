package util

import (
	"fmt"
	"strings"
	"sync"
)

// SafePrinter serializes terminal output across goroutines. Watch sessions,
// the orchestrator and the CLI all print through the same instance so status
// lines never interleave mid-write.
type SafePrinter struct {
	mu        sync.Mutex
	suspended bool
}

// Default is the shared printer used across the application.
var Default = &SafePrinter{}

func (s *SafePrinter) Print(a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Print(a...)
}

func (s *SafePrinter) Printf(format string, a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Printf(format, a...)
}

func (s *SafePrinter) Println(a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Println(a...)
}

// PrintBlock prints a multi-line block atomically, guaranteeing a trailing
// newline. Used for document previews and bulk refresh summaries.
func (s *SafePrinter) PrintBlock(block string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Print(block)
	if !strings.HasSuffix(block, "\n") {
		fmt.Print("\n")
	}
}

// ClearLine clears the current line and returns the cursor to the start.
func (s *SafePrinter) ClearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Print("\r\x1b[K")
}

// Suspend silences all prints until Resume is called. The dashboard suspends
// the printer while it owns the screen.
func (s *SafePrinter) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = true
}

// Resume re-enables printing after Suspend.
func (s *SafePrinter) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = false
}
