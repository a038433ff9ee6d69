// Package loader resolves cross-file module imports for quest programs.
//
// Loading performs a parse-only dependency walk over the file-identity graph.
// Import cycles between modules are a supported feature: the walk marks each
// file as in-progress before descending and simply skips files it is already
// inside of or has finished, so every file is parsed exactly once and the
// walk always terminates.
package loader

import (
	"fmt"

	"github.com/avolkhin/questline/parser/quest"
)

// ModuleHost is the file-system capability the loader depends on but does
// not implement. ReadFile fails when the path is missing; Resolve turns a
// specifier written in source into an absolute path relative to the
// importing file.
type ModuleHost interface {
	ReadFile(path string) (string, error)
	Resolve(fromFile, specifier string) (string, error)
}

// LoadedModule is one registry entry: the parsed module plus the canonical
// path it was loaded from.
type LoadedModule struct {
	Module *quest.Module
	Path   string
}

// Result of a loading session: the entry program and the module registry.
type Result struct {
	Program  *quest.Program
	Registry *Registry
}

// visit markers for the dependency walk. The three-state marker is what
// makes cycles safe: an in-progress file is skipped, not re-entered.
type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

type loader struct {
	host  ModuleHost
	reg   *Registry
	state map[string]visitState
}

// LoadQuest parses the entry file as a program, then walks its imports (and
// transitively every discovered module's imports) building the registry.
func LoadQuest(entryPath string, host ModuleHost) (*Result, error) {
	src, err := host.ReadFile(entryPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", entryPath, err)
	}
	prog, err := quest.ParseProgramFile(src, entryPath)
	if err != nil {
		return nil, err
	}
	reg, err := LoadImports(prog, entryPath, host)
	if err != nil {
		return nil, err
	}
	return &Result{Program: prog, Registry: reg}, nil
}

// LoadImports builds a registry for an already-parsed program whose source
// lives at entryPath. Import specifiers are resolved against that path.
func LoadImports(prog *quest.Program, entryPath string, host ModuleHost) (*Registry, error) {
	l := &loader{
		host:  host,
		reg:   NewRegistry(),
		state: map[string]visitState{entryPath: inProgress},
	}
	if err := l.walk(entryPath, prog.Imports); err != nil {
		return nil, err
	}
	l.state[entryPath] = done
	return l.reg, nil
}

// walk descends into the imports of one file using an explicit stack so deep
// import chains cannot exhaust the call stack. A file stays in-progress
// until every import below it has been handled; its exit frame then marks
// it done.
func (l *loader) walk(fromFile string, imports []*quest.Import) error {
	type frame struct {
		fromFile string
		imp      *quest.Import // nil for an exit frame
		exit     string        // file to mark done
	}

	var stack []frame
	push := func(from string, imps []*quest.Import) {
		// Reverse so the stack pops imports in declaration order.
		for i := len(imps) - 1; i >= 0; i-- {
			stack = append(stack, frame{fromFile: from, imp: imps[i]})
		}
	}
	push(fromFile, imports)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.imp == nil {
			l.state[f.exit] = done
			continue
		}

		path, err := l.host.Resolve(f.fromFile, f.imp.Path)
		if err != nil {
			return fmt.Errorf("resolving import %q from %s: %w", f.imp.Path, f.fromFile, err)
		}

		// An in-progress file is a cycle; a done file is already
		// registered. Either way the branch terminates here.
		if l.state[path] != unvisited {
			continue
		}
		l.state[path] = inProgress

		src, err := l.host.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		mod, err := quest.ParseModuleFile(src, path)
		if err != nil {
			return err
		}
		l.reg.add(&LoadedModule{Module: mod, Path: path})

		stack = append(stack, frame{exit: path})
		push(path, mod.Imports)
	}
	return nil
}
