package tagcache

import "sort"

// Taggable is anything that can name the cache tag it invalidates, such as a
// domain object whose tag derives from its identity.
type Taggable interface {
	CacheTag() string
}

// Tag is a raw tag name usable wherever a Taggable is accepted.
type Tag string

func (t Tag) CacheTag() string { return string(t) }

// Tags converts names to Taggables.
func Tags(names ...string) []Taggable {
	out := make([]Taggable, len(names))
	for i, n := range names {
		out[i] = Tag(n)
	}
	return out
}

// Entry accumulates the tags a value computed in TaggedFetch depends on.
// Adding a tag twice has no effect. An Entry is only valid during the miss
// handler it was passed to.
type Entry struct {
	deps map[string]struct{}
}

func newEntry() *Entry { return &Entry{deps: make(map[string]struct{})} }

// Depend adds one tag.
func (e *Entry) Depend(name string) *Entry {
	e.deps[name] = struct{}{}
	return e
}

// DependAll adds every listed tag.
func (e *Entry) DependAll(names ...string) *Entry {
	return e.Merge(names)
}

// Merge adds every tag of names.
func (e *Entry) Merge(names []string) *Entry {
	for _, n := range names {
		e.deps[n] = struct{}{}
	}
	return e
}

// DependOn adds the tag of each ref. Nil refs are skipped.
func (e *Entry) DependOn(refs ...Taggable) *Entry {
	for _, r := range refs {
		if r != nil {
			e.deps[r.CacheTag()] = struct{}{}
		}
	}
	return e
}

// Depends returns the accumulated tags, sorted.
func (e *Entry) Depends() []string {
	out := make([]string, 0, len(e.deps))
	for n := range e.deps {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
