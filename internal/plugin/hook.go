package plugin

import (
	"sort"
	"sync"
)

// HookType distinguishes Actions (no return value) from Filters (data transform)
type HookType int

const (
	HookTypeAction HookType = iota
	HookTypeFilter
)

// HookContext is passed to every hook handler
type HookContext struct {
	Event  string
	Input  map[string]interface{}
	output map[string]interface{}
}

// SetOutput sets transformed data (Filter hooks only)
func (c *HookContext) SetOutput(data map[string]interface{}) {
	c.output = data
}

// GetOutput returns the transformed data, falling back to the input
func (c *HookContext) GetOutput() map[string]interface{} {
	if c.output != nil {
		return c.output
	}
	return c.Input
}

// HookHandler handles one hook invocation
type HookHandler func(ctx *HookContext) error

type hookEntry struct {
	name     string
	handler  HookHandler
	priority int
	hookType HookType
}

// HookManager registers and dispatches hooks (thread-safe)
type HookManager struct {
	hooks  map[string][]hookEntry
	mu     sync.RWMutex
	logger Logger
}

// NewHookManager creates a new HookManager
func NewHookManager(logger Logger) *HookManager {
	return &HookManager{
		hooks:  make(map[string][]hookEntry),
		logger: logger,
	}
}

// Register registers an Action hook
func (hm *HookManager) Register(event string, name string, handler HookHandler, priority int) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.hooks[event] = append(hm.hooks[event], hookEntry{
		name:     name,
		handler:  handler,
		priority: priority,
		hookType: HookTypeAction,
	})
	hm.sortHooks(event)
}

// RegisterFilter registers a Filter hook
func (hm *HookManager) RegisterFilter(event string, name string, handler HookHandler, priority int) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.hooks[event] = append(hm.hooks[event], hookEntry{
		name:     name,
		handler:  handler,
		priority: priority,
		hookType: HookTypeFilter,
	})
	hm.sortHooks(event)
}

// Do runs all Action hooks for an event. A failing handler is logged and
// never blocks the others.
func (hm *HookManager) Do(event string, data map[string]interface{}) {
	hm.mu.RLock()
	entries := make([]hookEntry, len(hm.hooks[event]))
	copy(entries, hm.hooks[event])
	hm.mu.RUnlock()

	for _, entry := range entries {
		ctx := &HookContext{
			Event: event,
			Input: data,
		}
		if err := entry.handler(ctx); err != nil {
			hm.logger.Error("Hook error [%s] handler=%s: %v", event, entry.name, err)
		}
	}
}

// Apply runs Filter hooks for an event, chaining each handler's output into
// the next handler's input
func (hm *HookManager) Apply(event string, data map[string]interface{}) map[string]interface{} {
	hm.mu.RLock()
	entries := make([]hookEntry, len(hm.hooks[event]))
	copy(entries, hm.hooks[event])
	hm.mu.RUnlock()

	current := data
	for _, entry := range entries {
		ctx := &HookContext{
			Event: event,
			Input: current,
		}
		if err := entry.handler(ctx); err != nil {
			hm.logger.Error("Filter error [%s] handler=%s: %v", event, entry.name, err)
			continue
		}
		current = ctx.GetOutput()
	}
	return current
}

// Unregister removes all hooks registered under a name
func (hm *HookManager) Unregister(name string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	for event, entries := range hm.hooks {
		filtered := entries[:0]
		for _, e := range entries {
			if e.name != name {
				filtered = append(filtered, e)
			}
		}
		hm.hooks[event] = filtered
	}
}

// sortHooks orders hooks by ascending priority. Caller must hold the lock.
func (hm *HookManager) sortHooks(event string) {
	sort.SliceStable(hm.hooks[event], func(i, j int) bool {
		return hm.hooks[event][i].priority < hm.hooks[event][j].priority
	})
}
