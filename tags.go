package tagcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/tagcache/internal/util"
	ts "github.com/unkn0wn-root/tagcache/tagstore"
)

const maxTagLen = 0xFFFF

// tagManager owns tag versions: lazy creation on first read and the
// max(now, old+1) bump on touch.
type tagManager struct {
	store ts.Store
	ns    string
	now   func() time.Time
	log   Logger
	hooks Hooks
}

func (m *tagManager) key(name string) string { return util.Key("tag", m.ns, name) }

func (m *tagManager) nowSeconds() int64 { return m.now().Unix() }

func validTag(name string) error {
	switch {
	case name == "":
		return ErrEmptyTag
	case len(name) > maxTagLen:
		return ErrTagTooLong
	}
	return nil
}

func (m *tagManager) read(ctx context.Context, name string) (int64, error) {
	if err := validTag(name); err != nil {
		return 0, err
	}
	k := m.key(name)
	v, ok, err := m.store.Get(ctx, k)
	if err != nil {
		return 0, m.fail("tag.get", k, err)
	}
	if ok {
		return v, nil
	}
	return m.create(ctx, name)
}

// readMany resolves every distinct name with one GetMany and creates the
// missing ones one by one.
func (m *tagManager) readMany(ctx context.Context, names []string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(names))
	byKey := make(map[string]string, len(names))
	for _, n := range names {
		if err := validTag(n); err != nil {
			return nil, err
		}
		k := m.key(n)
		if _, dup := byKey[k]; dup {
			continue
		}
		byKey[k] = n
		keys = append(keys, k)
	}

	found, err := m.store.GetMany(ctx, keys)
	if err != nil {
		return nil, m.fail("tag.get_many", "", err)
	}
	for _, k := range keys {
		name := byKey[k]
		if v, ok := found[k]; ok {
			out[name] = v
			continue
		}
		v, err := m.create(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// create stores the current time as the first version of name. When another
// writer got there first its version wins.
func (m *tagManager) create(ctx context.Context, name string) (int64, error) {
	k := m.key(name)
	v := m.nowSeconds()
	added, err := m.store.Add(ctx, k, v)
	if err != nil {
		return 0, m.fail("tag.add", k, err)
	}
	if added {
		m.hooks.TagCreated(name, v)
		m.log.Debug("tag created", Fields{"tag": name, "version": v})
		return v, nil
	}

	cur, ok, err := m.store.Get(ctx, k)
	if err != nil {
		return 0, m.fail("tag.get", k, err)
	}
	if ok {
		return cur, nil
	}
	// the winning writer's key vanished before we could read it; store ours
	if err := m.store.Set(ctx, k, v); err != nil {
		return 0, m.fail("tag.set", k, err)
	}
	m.hooks.TagCreated(name, v)
	return v, nil
}

func (m *tagManager) touch(ctx context.Context, name string) (int64, error) {
	if err := validTag(name); err != nil {
		return 0, err
	}
	k := m.key(name)
	now := m.nowSeconds()

	if t, ok := m.store.(ts.Toucher); ok {
		v, err := t.Touch(ctx, k, now)
		if err != nil {
			return 0, m.fail("tag.touch", k, err)
		}
		m.hooks.TagTouched(name, v)
		m.log.Debug("tag touched", Fields{"tag": name, "version": v})
		return v, nil
	}

	old, err := m.read(ctx, name)
	if err != nil {
		return 0, err
	}
	v := ts.NextVersion(old, now)
	if err := m.store.Set(ctx, k, v); err != nil {
		return 0, m.fail("tag.set", k, err)
	}
	m.hooks.TagTouched(name, v)
	m.log.Debug("tag touched", Fields{"tag": name, "old": old, "version": v})
	return v, nil
}

func (m *tagManager) fail(op, key string, err error) error {
	m.hooks.StoreError(op, err)
	m.log.Warn("tag store error", Fields{"op": op, "key": key, "err": err})
	return storeErr(op, key, err)
}
