package notifications

// Notifier delivers human-facing messages. Trading never depends on delivery
// succeeding; failures are logged and forgotten.
type Notifier interface {
	Notify(text string) error
	SendFile(path, caption string) error
}

// NopNotifier discards everything. Used when no channel is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(string) error           { return nil }
func (NopNotifier) SendFile(string, string) error { return nil }
