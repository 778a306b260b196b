package memocache

// Trigger names the operation that produced a write event.
type Trigger string

const (
	TriggerExecute    Trigger = "execute"
	TriggerInvalidate Trigger = "invalidate"
	TriggerUpdate     Trigger = "update"
)

// WriteEvent describes a completed write. Before and After are nil when the
// corresponding value is unknown or absent (an invalidation has no After; an
// execute write has no Before since the pipeline does not re-read the old
// entry just for observers).
type WriteEvent[V any] struct {
	Trigger Trigger
	Key     string
	Before  *V
	After   *V
}

// Observer receives write events. Observers run fire-and-forget on their own
// goroutine: they are never awaited, cannot affect the call's return value,
// and a panic is recovered and logged.
type Observer[V any] func(ev WriteEvent[V])

func notify[V any](log Logger, observers []Observer[V], ev WriteEvent[V]) {
	for _, obs := range observers {
		obs := obs
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("observer panicked", Fields{
						"trigger": string(ev.Trigger),
						"key":     ev.Key,
						"panic":   r,
					})
				}
			}()
			obs(ev)
		}()
	}
}
