package compression

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// MaxMagicLen is the number of leading bytes needed to identify any registered codec.
const MaxMagicLen = 4

// UnsupportedCodecError is returned when a codec name is not registered.
type UnsupportedCodecError struct {
	Name      string
	Available []string
}

func (e *UnsupportedCodecError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unsupported compression %q: no codecs registered", e.Name)
	}
	return fmt.Sprintf("unsupported compression %q (available: %v)", e.Name, e.Available)
}

type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// NewDefaultRegistry returns a registry holding gzip, zstd and lz4.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(gzipCodec())
	r.Register(zstdCodec())
	r.Register(lz4Codec())
	return r
}

func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[codec.Name] = codec
}

// Lookup returns the codec registered under name. An empty name selects Default.
func (r *Registry) Lookup(name string) (Codec, error) {
	if name == "" {
		name = Default
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.codecs[name]
	if !ok {
		return Codec{}, &UnsupportedCodecError{Name: name, Available: r.available()}
	}
	return codec, nil
}

// Detect returns the codec whose magic prefix matches the start of prefix.
// At least two bytes are required for any match.
func (r *Registry) Detect(prefix []byte) (Codec, bool) {
	if len(prefix) < 2 {
		return Codec{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.available() {
		codec := r.codecs[name]
		if bytes.HasPrefix(prefix, codec.Magic) {
			return codec, true
		}
	}
	return Codec{}, false
}

func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available()
}

func (r *Registry) available() []string {
	names := lo.Keys(r.codecs)
	slices.Sort(names)
	return names
}

var defaultRegistry = NewDefaultRegistry()

// Lookup resolves name against the default registry.
func Lookup(name string) (Codec, error) {
	return defaultRegistry.Lookup(name)
}

// Detect sniffs prefix against the default registry.
func Detect(prefix []byte) (Codec, bool) {
	return defaultRegistry.Detect(prefix)
}

// Available lists the codecs of the default registry.
func Available() []string {
	return defaultRegistry.Available()
}
