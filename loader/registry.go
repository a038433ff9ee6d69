// Package loader resolves cross-file module imports for quest programs.
// registry.go holds the queryable module registry built by a loading session.
package loader

import (
	"errors"
	"fmt"

	"github.com/avolkhin/questline/parser/quest"
)

// Export-resolution failure reasons. ResolveExport wraps these so callers
// can distinguish them with errors.Is.
var (
	ErrModuleNotFound = errors.New("module not found")
	ErrNodeNotFound   = errors.New("node not found in module")
	ErrNotExported    = errors.New("node is not exported")
)

// Registry indexes loaded modules by canonical file path and by declared
// module name. Entries are add-only. When two distinct files declare the
// same module name, both stay registered under their file keys; name lookup
// deterministically answers with the first-registered file.
type Registry struct {
	byPath map[string]*LoadedModule
	byName map[string]*LoadedModule
	order  []string // canonical paths in registration order
}

func NewRegistry() *Registry {
	return &Registry{
		byPath: map[string]*LoadedModule{},
		byName: map[string]*LoadedModule{},
	}
}

func (r *Registry) add(lm *LoadedModule) {
	if _, exists := r.byPath[lm.Path]; exists {
		return
	}
	r.byPath[lm.Path] = lm
	r.order = append(r.order, lm.Path)
	if _, exists := r.byName[lm.Module.Name]; !exists {
		r.byName[lm.Module.Name] = lm
	}
}

// ModuleByName looks up a module by its declared name.
func (r *Registry) ModuleByName(name string) (*LoadedModule, bool) {
	lm, ok := r.byName[name]
	return lm, ok
}

// ModuleByPath looks up a module by its canonical file path.
func (r *Registry) ModuleByPath(path string) (*LoadedModule, bool) {
	lm, ok := r.byPath[path]
	return lm, ok
}

// AllModules returns every loaded module in registration order.
func (r *Registry) AllModules() []*LoadedModule {
	modules := make([]*LoadedModule, 0, len(r.order))
	for _, path := range r.order {
		modules = append(modules, r.byPath[path])
	}
	return modules
}

// Len reports the number of registered files.
func (r *Registry) Len() int {
	return len(r.order)
}

// ResolveExport resolves a node exported by a named module. The error
// distinguishes an unknown module, an unknown node, and a node that exists
// but is not on the module's export list.
func (r *Registry) ResolveExport(moduleName, nodeID string) (quest.Node, error) {
	lm, ok := r.byName[moduleName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, moduleName)
	}
	node, ok := lm.Module.Nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNodeNotFound, moduleName, nodeID)
	}
	for _, exported := range lm.Module.Exports {
		if exported == nodeID {
			return node, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrNotExported, moduleName, nodeID)
}

// ModuleReport is the result of checking one module's export list.
type ModuleReport struct {
	Name   string
	Path   string
	Errors []string
}

// ValidateModules checks that every declared export names an existing node.
// Modules are reported in registration order; only modules with problems
// appear in the result.
func (r *Registry) ValidateModules() []ModuleReport {
	var reports []ModuleReport
	for _, path := range r.order {
		lm := r.byPath[path]
		var errs []string
		for _, exported := range lm.Module.Exports {
			if _, ok := lm.Module.Nodes[exported]; !ok {
				errs = append(errs, fmt.Sprintf("export %q does not name a node in module %q", exported, lm.Module.Name))
			}
		}
		if len(errs) > 0 {
			reports = append(reports, ModuleReport{Name: lm.Module.Name, Path: path, Errors: errs})
		}
	}
	return reports
}
