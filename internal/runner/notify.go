package runner

import (
	"fmt"
	"io"
	"sync"
)

// Notifier displays one message per reportable event.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// WriterNotifier prints info messages to Out and errors to Err.
type WriterNotifier struct {
	Out io.Writer
	Err io.Writer
}

func (w *WriterNotifier) Info(msg string) {
	fmt.Fprintln(w.Out, msg)
}

func (w *WriterNotifier) Error(msg string) {
	fmt.Fprintln(w.Err, msg)
}

// Message is one recorded notification.
type Message struct {
	Error bool
	Text  string
}

// Collector records notifications in order. Safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	msgs []Message
}

func (c *Collector) Info(msg string)  { c.add(false, msg) }
func (c *Collector) Error(msg string) { c.add(true, msg) }

func (c *Collector) add(isErr bool, msg string) {
	c.mu.Lock()
	c.msgs = append(c.msgs, Message{Error: isErr, Text: msg})
	c.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.msgs...)
}

// Discard drops every message.
type Discard struct{}

func (Discard) Info(string)  {}
func (Discard) Error(string) {}
