// Package engine executes parsed quest programs as a state machine over the
// quest graph. Each interpreter owns its state exclusively; concurrent play
// sessions need independent instances.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avolkhin/questline/loader"
	"github.com/avolkhin/questline/parser/quest"
)

// QuestState is one immutable snapshot of a play session. Transitions
// replace the state wholesale; nothing mutates a snapshot in place.
type QuestState struct {
	SessionID   string
	CurrentNode string
	History     []string
	IsComplete  bool
	EndingTitle string
}

// QuestInfo is the static header of the loaded program.
type QuestInfo struct {
	Name string
	Goal string
}

// Interpreter walks a quest graph in response to player choices.
type Interpreter struct {
	sessionID string
	program   *quest.Program
	registry  *loader.Registry // nil when no modules are attached
	state     QuestState
}

// New builds an interpreter positioned at the program's start node.
func New(prog *quest.Program) *Interpreter {
	return NewWithRegistry(prog, nil)
}

// NewWithRegistry attaches a module registry so qualified targets resolve.
func NewWithRegistry(prog *quest.Program, reg *loader.Registry) *Interpreter {
	in := &Interpreter{
		sessionID: uuid.NewString(),
		program:   prog,
		registry:  reg,
	}
	in.Reset()
	return in
}

// Interpret parses source text and returns a ready interpreter. When host is
// non-nil the program's imports are loaded relative to filename.
func Interpret(src, filename string, host loader.ModuleHost) (*Interpreter, error) {
	prog, err := quest.ParseProgramFile(src, filename)
	if err != nil {
		return nil, err
	}
	var reg *loader.Registry
	if host != nil {
		reg, err = loader.LoadImports(prog, filename, host)
		if err != nil {
			return nil, err
		}
	}
	return NewWithRegistry(prog, reg), nil
}

// SessionID identifies this play session.
func (in *Interpreter) SessionID() string {
	return in.sessionID
}

// State returns a snapshot of the current state. The history slice is copied
// so callers cannot reach into interpreter internals.
func (in *Interpreter) State() QuestState {
	st := in.state
	st.History = append([]string(nil), in.state.History...)
	return st
}

// QuestInfo returns the program's name and goal text.
func (in *Interpreter) QuestInfo() QuestInfo {
	return QuestInfo{Name: in.program.Name, Goal: in.program.Goal}
}

// CurrentNode resolves the node the session is positioned at.
func (in *Interpreter) CurrentNode() (quest.Node, error) {
	return in.resolve(in.state.CurrentNode)
}

// AvailableChoices returns the ordered options of the current node, or nil
// when the current node is not an action node.
func (in *Interpreter) AvailableChoices() []quest.Choice {
	node, err := in.resolve(in.state.CurrentNode)
	if err != nil {
		return nil
	}
	if action, ok := node.(*quest.ActionNode); ok {
		return append([]quest.Choice(nil), action.Options...)
	}
	return nil
}

// MoveToNode transitions to target. On failure the state is left unchanged
// and the error names the reason. On success the previous current node is
// appended to history and completion is derived from the target variant.
func (in *Interpreter) MoveToNode(target string) error {
	node, err := in.resolve(target)
	if err != nil {
		return fmt.Errorf("cannot move to %q: %w", target, err)
	}

	next := QuestState{
		SessionID:   in.sessionID,
		CurrentNode: target,
		History:     append(append([]string(nil), in.state.History...), in.state.CurrentNode),
	}
	if ending, ok := node.(*quest.EndingNode); ok {
		next.IsComplete = true
		next.EndingTitle = ending.Title
	}
	in.state = next
	return nil
}

// ExecuteChoice takes the option at index on the current action node. Any
// rejection leaves the state untouched.
func (in *Interpreter) ExecuteChoice(index int) error {
	node, err := in.resolve(in.state.CurrentNode)
	if err != nil {
		return err
	}
	action, ok := node.(*quest.ActionNode)
	if !ok {
		return fmt.Errorf("current node %q is a %s node, not an action node", in.state.CurrentNode, node.Kind())
	}
	if index < 0 || index >= len(action.Options) {
		return fmt.Errorf("choice index %d out of range: valid range is 0..%d", index, len(action.Options)-1)
	}
	return in.MoveToNode(action.Options[index].Target)
}

// Reset restores the session to the program's start node with empty history.
func (in *Interpreter) Reset() {
	in.state = QuestState{
		SessionID:   in.sessionID,
		CurrentNode: in.program.Graph.Start,
	}
}

// resolve maps a raw target to its node definition: local ids look up the
// program graph, qualified ids go through the module registry's export
// check.
func (in *Interpreter) resolve(target string) (quest.Node, error) {
	if modName, nodeID, ok := quest.SplitQualified(target); ok {
		if in.registry == nil {
			return nil, fmt.Errorf("qualified target %q but no modules are loaded", target)
		}
		return in.registry.ResolveExport(modName, nodeID)
	}
	node, ok := in.program.Graph.Nodes[target]
	if !ok {
		return nil, fmt.Errorf("node %q does not exist", target)
	}
	return node, nil
}
