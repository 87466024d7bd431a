package mqtt

import (
	"github.com/sweeney/feeder-control/internal/logic"
)

// FakeDispenser records dispense commands and system events for test
// assertions.
type FakeDispenser struct {
	// Commands contains all dispense commands in issue order.
	Commands []logic.Command

	// Writes records every actuator topic write in order, so tests can
	// assert the amount-before-run ordering.
	Writes []FakeWrite

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// DispenseError, if set, will be returned by Dispense.
	DispenseError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	topics Topics
}

// FakeWrite is one recorded actuator write.
type FakeWrite struct {
	Topic   string
	Payload string
}

// NewFakeDispenser creates a FakeDispenser for testing, scoped to the
// "test" account.
func NewFakeDispenser() *FakeDispenser {
	return &FakeDispenser{topics: Topics{Account: "test"}}
}

// Dispense records the command and the two actuator writes it implies.
func (f *FakeDispenser) Dispense(cmd logic.Command) error {
	if f.DispenseError != nil {
		return f.DispenseError
	}

	f.Commands = append(f.Commands, cmd)
	f.Writes = append(f.Writes,
		FakeWrite{Topic: f.topics.DispenseAmount(cmd.Species), Payload: string(FormatAmount(cmd.Amount))},
		FakeWrite{Topic: f.topics.DispenseRun(cmd.Species), Payload: string(FormatRun())},
	)
	return nil
}

// PublishSystem records the system event.
func (f *FakeDispenser) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the dispenser as closed.
func (f *FakeDispenser) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake is "connected".
func (f *FakeDispenser) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded commands and events.
func (f *FakeDispenser) Reset() {
	f.Commands = nil
	f.Writes = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.DispenseError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
