package model

// Event is implemented by every payload the kafka gateway publishes.
type Event interface {
	GetId() string
}
