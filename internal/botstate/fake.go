package botstate

import "context"

// FakeReader returns scripted pin values.
type FakeReader struct {
	// Values maps pin to value. Pins not present report ok=false.
	Values map[int]float64

	// ReadError, if set, will be returned by PinValue.
	ReadError error

	// Calls counts PinValue calls.
	Calls int
}

// PinValue returns the scripted value for pin.
func (f *FakeReader) PinValue(_ context.Context, pin int) (float64, bool, error) {
	f.Calls++
	if f.ReadError != nil {
		return 0, false, f.ReadError
	}
	v, ok := f.Values[pin]
	return v, ok, nil
}
