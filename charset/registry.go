package charset

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
)

// Registry resolves charset names and aliases. Lookup ignores ASCII case;
// the canonical name keeps the case it was registered with.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex // serializes Register
	byKey     *xsync.Map[string, *Charset]
	canonical *xsync.Map[string, *Charset]
	// resolved caches names found through the IANA index.
	resolved *xsync.Map[string, *Charset]
}

// NewRegistry returns a registry holding charsets.
func NewRegistry(charsets ...*Charset) (*Registry, error) {
	r := &Registry{
		byKey:     xsync.NewMap[string, *Charset](),
		canonical: xsync.NewMap[string, *Charset](),
		resolved:  xsync.NewMap[string, *Charset](),
	}
	for _, cs := range charsets {
		if err := r.Register(cs); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func key(name string) string { return strings.ToLower(name) }

// Register adds cs under its name and aliases. Nothing is added if any of
// them is already taken.
func (r *Registry) Register(cs *Charset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{cs.Name()}, cs.aliases...)
	for _, n := range names {
		if prev, ok := r.byKey.Load(key(n)); ok {
			return fmt.Errorf("%w: %s of %s is taken by %s", ErrDuplicateCharset, n, cs.Name(), prev.Name())
		}
	}
	for _, n := range names {
		r.byKey.Store(key(n), cs)
	}
	r.canonical.Store(cs.Name(), cs)
	r.resolved.Clear()
	Logger().Debug("registered charset", zap.String("name", cs.Name()), zap.Int("aliases", len(cs.aliases)))
	return nil
}

// ForName returns the charset registered under name or one of its aliases.
// Names the registry does not know are looked up in the IANA character set
// index and resolved to a registered charset for the same encoding.
func (r *Registry) ForName(name string) (*Charset, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	k := key(name)
	if cs, ok := r.byKey.Load(k); ok {
		return cs, nil
	}
	if cs, ok := r.resolved.Load(k); ok {
		return cs, nil
	}
	if cs := r.resolveIANA(name); cs != nil {
		Logger().Debug("resolved charset through IANA index", zap.String("name", name), zap.String("charset", cs.Name()))
		r.resolved.Store(k, cs)
		return cs, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharset, name)
}

func (r *Registry) resolveIANA(name string) *Charset {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil
	}
	for _, index := range []*ianaindex.Index{ianaindex.IANA, ianaindex.MIME} {
		canonical, err := index.Name(enc)
		if err != nil {
			continue
		}
		if cs, ok := r.byKey.Load(key(canonical)); ok {
			return cs
		}
	}
	return nil
}

// IsSupported reports whether ForName would succeed. It fails only for an
// illegal name.
func (r *Registry) IsSupported(name string) (bool, error) {
	_, err := r.ForName(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnsupportedCharset):
		return false, nil
	}
	return false, err
}

// Available maps every canonical name and alias to its charset.
func (r *Registry) Available() map[string]*Charset {
	m := make(map[string]*Charset)
	r.canonical.Range(func(name string, cs *Charset) bool {
		m[name] = cs
		for _, a := range cs.aliases {
			m[a] = cs
		}
		return true
	})
	return m
}

// Names returns the canonical names sorted without regard to case.
func (r *Registry) Names() []string {
	names := slices.Collect(maps.Keys(r.Charsets()))
	slices.SortFunc(names, compareNames)
	return names
}

// Charsets maps every canonical name to its charset.
func (r *Registry) Charsets() map[string]*Charset {
	m := make(map[string]*Charset, r.canonical.Size())
	r.canonical.Range(func(name string, cs *Charset) bool {
		m[name] = cs
		return true
	})
	return m
}

func compareNames(a, b string) int {
	return cmp.Or(strings.Compare(key(a), key(b)), strings.Compare(a, b))
}

var (
	_defaultRegistry atomic.Pointer[Registry]

	_builtinRegistry = sync.OnceValue(func() *Registry {
		r, err := NewRegistry()
		if err != nil {
			panic(err)
		}
		for _, def := range Builtin() {
			cs, err := New(def)
			if err != nil {
				panic(err)
			}
			if err := r.Register(cs); err != nil {
				panic(err)
			}
		}
		return r
	})
)

// Default returns the registry the package-level lookups use. Unless
// SetDefault installed another, that is the registry of built-in charsets,
// built on first use.
func Default() *Registry {
	if r := _defaultRegistry.Load(); r != nil {
		return r
	}
	return _builtinRegistry()
}

// SetDefault replaces the registry the package-level lookups use. A nil r
// restores the built-in registry.
func SetDefault(r *Registry) {
	_defaultRegistry.Store(r)
}

// ForName looks name up in the Default registry.
func ForName(name string) (*Charset, error) { return Default().ForName(name) }

// IsSupported asks the Default registry.
func IsSupported(name string) (bool, error) { return Default().IsSupported(name) }

// Available returns the Default registry's names and aliases.
func Available() map[string]*Charset { return Default().Available() }

// Names returns the Default registry's canonical names.
func Names() []string { return Default().Names() }

// DefaultCharset returns UTF-8.
func DefaultCharset() *Charset {
	cs, err := ForName("UTF-8")
	if err != nil {
		panic(err)
	}
	return cs
}

// MustForName is ForName for names known to be supported. It panics otherwise.
func MustForName(name string) *Charset {
	cs, err := ForName(name)
	if err != nil {
		panic(err)
	}
	return cs
}
