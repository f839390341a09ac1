package behaviour

import (
	"OceanMirror/internal/renderer"
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownScript = errors.New("unknown script")

// ScriptConstructor builds a behaviour that drives target. Scene files name
// scripts; the runtime attaches one instance per prop.
type ScriptConstructor func(target *renderer.Model) PlayerBehaviour

var scriptRegistry = make(map[string]ScriptConstructor)

func RegisterScript(name string, constructor ScriptConstructor) {
	scriptRegistry[name] = constructor
}

func GetAvailableScripts() []string {
	names := make([]string, 0, len(scriptRegistry))
	for name := range scriptRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func CreateScript(name string, target *renderer.Model) (PlayerBehaviour, error) {
	constructor, exists := scriptRegistry[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScript, name)
	}
	return constructor(target), nil
}
