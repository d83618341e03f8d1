package journal

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Codec maps action types to stable names and encodes their payloads as CBOR.
type Codec struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewCodec creates an empty codec.
func NewCodec() *Codec {
	return &Codec{
		byName: make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
}

// Register associates name with the dynamic type of sample. It panics if
// either the name or the type is already registered.
func (c *Codec) Register(name string, sample any) {
	if name == "" || sample == nil {
		panic("journal.Codec: name and sample are required")
	}
	t := reflect.TypeOf(sample)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byName[name]; exists {
		panic(fmt.Sprintf("journal.Codec: name %q already registered", name))
	}
	if existing, exists := c.byType[t]; exists {
		panic(fmt.Sprintf("journal.Codec: type %s already registered as %q", t, existing))
	}
	c.byName[name] = t
	c.byType[t] = name
}

// Encode returns the registered name of action and its CBOR payload.
func (c *Codec) Encode(action any) (string, []byte, error) {
	c.mu.RLock()
	name, ok := c.byType[reflect.TypeOf(action)]
	c.mu.RUnlock()
	if !ok {
		return "", nil, fmt.Errorf("%w: %T", ErrUnknownActionType, action)
	}

	payload, err := cbor.Marshal(action)
	if err != nil {
		return "", nil, fmt.Errorf("journal: encode %s: %w", name, err)
	}
	return name, payload, nil
}

// Decode rebuilds an action from its registered name and CBOR payload.
func (c *Codec) Decode(name string, payload []byte) (any, error) {
	c.mu.RLock()
	t, ok := c.byName[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActionType, name)
	}

	ptr := reflect.New(t)
	if err := cbor.Unmarshal(payload, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("journal: decode %s: %w", name, err)
	}
	return ptr.Elem().Interface(), nil
}

// Known reports whether action's type is registered.
func (c *Codec) Known(action any) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byType[reflect.TypeOf(action)]
	return ok
}
