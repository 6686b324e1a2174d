package tagcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A tag was observed for the first time and created at version.
	TagCreated(name string, version int64)

	// A tag was touched; every entry depending on it is now stale.
	TagTouched(name string, version int64)

	// A read found an entry whose snapshot of tag differs from the live version.
	// The entry is left in place.
	EntryStale(storageKey, tag string)

	// An unreadable entry was deleted on read.
	// reason ∈ {"corrupt", "value_decode"}
	EntrySelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// A backend call failed; the error was returned to the caller.
	StoreError(op string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) TagCreated(string, int64)     {}
func (NopHooks) TagTouched(string, int64)     {}
func (NopHooks) EntryStale(string, string)    {}
func (NopHooks) EntrySelfHeal(string, string) {}
func (NopHooks) ProviderSetRejected(string)   {}
func (NopHooks) StoreError(string, error)     {}
