// Package prompt provides the confirmation and alert surface used to gate
// destructive actions and to report outcomes to the user.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter asks the user yes/no questions and shows notices.
// Confirm blocks until the user answers.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// Terminal prompts on a line-oriented terminal.
//
// Confirm accepts "y" or "yes" in any case; anything else, including EOF,
// is a refusal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a terminal prompter. Pass the same *bufio.Reader the
// caller reads commands from so buffered input is not lost between them.
func NewTerminal(in *bufio.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(message string) bool {
	fmt.Fprintf(t.out, "%s [y/N] ", message)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Alert implements Prompter.
func (t *Terminal) Alert(message string) {
	fmt.Fprintf(t.out, "! %s\n", message)
}

// Static answers every confirmation the same way. It backs non-interactive
// commands, where --yes decides the answer up front.
type Static struct {
	Answer bool
	Out    io.Writer
}

// Confirm implements Prompter.
func (s Static) Confirm(string) bool { return s.Answer }

// Alert implements Prompter. A nil Out discards the message.
func (s Static) Alert(message string) {
	if s.Out != nil {
		fmt.Fprintln(s.Out, message)
	}
}

// Scripted replays queued answers and records everything it was shown.
// An exhausted queue answers false.
type Scripted struct {
	mu       sync.Mutex
	answers  []bool
	alerts   []string
	confirms []string
}

// NewScripted returns a prompter that answers confirmations in order.
func NewScripted(answers ...bool) *Scripted {
	return &Scripted{answers: answers}
}

// Queue appends answers for later confirmations.
func (s *Scripted) Queue(answers ...bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answers...)
}

// Discard drops answers that were queued but never asked for.
func (s *Scripted) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = nil
}

// Confirm implements Prompter.
func (s *Scripted) Confirm(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirms = append(s.confirms, message)
	if len(s.answers) == 0 {
		return false
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer
}

// Alert implements Prompter.
func (s *Scripted) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, message)
}

// Alerts returns the alerts shown so far.
func (s *Scripted) Alerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.alerts...)
}

// Confirms returns the confirmation messages shown so far.
func (s *Scripted) Confirms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.confirms...)
}

// LastAlert returns the most recent alert, or "" if none.
func (s *Scripted) LastAlert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.alerts) == 0 {
		return ""
	}
	return s.alerts[len(s.alerts)-1]
}
