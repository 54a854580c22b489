package command

import "context"

// FakePublisher records sent commands for test assertions.
type FakePublisher struct {
	// Commands contains all commands that were sent.
	Commands []Command

	// Payloads contains the JSON payloads that were sent.
	Payloads [][]byte

	// SendError, if set, will be returned by Send.
	SendError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Send records the command.
func (f *FakePublisher) Send(_ context.Context, cmd Command) error {
	if f.SendError != nil {
		return f.SendError
	}

	payload, err := FormatPayload(cmd)
	if err != nil {
		return err
	}
	f.Commands = append(f.Commands, cmd)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded commands.
func (f *FakePublisher) Reset() {
	f.Commands = nil
	f.Payloads = nil
	f.SendError = nil
	f.Closed = false
	f.Connected = false
}
