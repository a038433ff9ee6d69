package quest

import (
	"errors"
	"strings"
	"testing"
)

const sampleQuest = `
quest ForestTrail;
goal "Reach the old watchtower";

graph {
    start: camp;
    nodes {
        camp: {
            type: initial;
            description: "You wake at the camp.";
            transitions: [crossroads];
        }
        crossroads: {
            type: action;
            description: "A fork in the trail.";
            options: [
                ("Take the river path", river_end),
                ("Climb the ridge", ridge_end)
            ];
        }
        river_end: {
            type: ending;
            title: "Swept Away";
            description: "The river had other plans.";
        }
        ridge_end: {
            type: ending;
            title: "The Watchtower";
            description: "You made it before nightfall.";
        }
    }
}
end;
`

func TestParseProgram(t *testing.T) {
	prog, err := ParseProgram(sampleQuest)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if prog.Name != "ForestTrail" {
		t.Fatalf("expected quest name 'ForestTrail', got %q", prog.Name)
	}
	if prog.Goal != "Reach the old watchtower" {
		t.Fatalf("unexpected goal %q", prog.Goal)
	}
	if prog.Graph.Start != "camp" {
		t.Fatalf("expected start 'camp', got %q", prog.Graph.Start)
	}
	if len(prog.Graph.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(prog.Graph.Nodes))
	}
	wantOrder := []string{"camp", "crossroads", "river_end", "ridge_end"}
	for i, id := range wantOrder {
		if prog.Graph.Order[i] != id {
			t.Fatalf("declaration order: expected %q at %d, got %q", id, i, prog.Graph.Order[i])
		}
	}

	initial, ok := prog.Graph.Nodes["camp"].(*InitialNode)
	if !ok {
		t.Fatalf("expected camp to be initial, got %T", prog.Graph.Nodes["camp"])
	}
	if len(initial.Transitions) != 1 || initial.Transitions[0] != "crossroads" {
		t.Fatalf("unexpected transitions %v", initial.Transitions)
	}

	action, ok := prog.Graph.Nodes["crossroads"].(*ActionNode)
	if !ok {
		t.Fatalf("expected crossroads to be action, got %T", prog.Graph.Nodes["crossroads"])
	}
	if len(action.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(action.Options))
	}
	if action.Options[0].Text != "Take the river path" || action.Options[0].Target != "river_end" {
		t.Fatalf("unexpected first option %#v", action.Options[0])
	}

	ending, ok := prog.Graph.Nodes["ridge_end"].(*EndingNode)
	if !ok {
		t.Fatalf("expected ridge_end to be ending, got %T", prog.Graph.Nodes["ridge_end"])
	}
	if ending.Title != "The Watchtower" {
		t.Fatalf("unexpected title %q", ending.Title)
	}
}

func TestParseProgramWithImportsAndQualifiedTargets(t *testing.T) {
	src := `
quest Crossing;
goal "Cross the border";
import Village from "./village.quest";
graph {
    start: gate;
    nodes {
        gate: {
            type: initial;
            transitions: [@Village.square];
        }
    }
}
end;
`
	prog, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(prog.Imports))
	}
	imp := prog.Imports[0]
	if imp.Name != "Village" || imp.Path != "./village.quest" {
		t.Fatalf("unexpected import %#v", imp)
	}
	initial := prog.Graph.Nodes["gate"].(*InitialNode)
	if initial.Transitions[0] != "@Village.square" {
		t.Fatalf("qualified target not collapsed to raw form: %q", initial.Transitions[0])
	}
}

func TestParseModule(t *testing.T) {
	src := `
module Village;
import Castle from "./castle.quest";
nodes {
    square: {
        type: action;
        description: "The village square.";
        options: [("Visit the castle", @Castle.hall)];
    }
    well: {
        type: ending;
        title: "A Quiet Life";
        description: "You stayed by the well.";
    }
}
export [square];
`
	mod, err := ParseModuleFile(src, "village.quest")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if mod.Name != "Village" {
		t.Fatalf("unexpected module name %q", mod.Name)
	}
	if len(mod.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(mod.Nodes))
	}
	if len(mod.Exports) != 1 || mod.Exports[0] != "square" {
		t.Fatalf("unexpected exports %v", mod.Exports)
	}
	if len(mod.Imports) != 1 || mod.Imports[0].Name != "Castle" {
		t.Fatalf("unexpected imports %v", mod.Imports)
	}
}

func TestParseModuleBodyOrderIndependent(t *testing.T) {
	src := `
module M;
export [a];
nodes {
    a: { type: ending; title: "Done"; }
}
`
	mod, err := ParseModuleFile(src, "")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(mod.Exports) != 1 || len(mod.Nodes) != 1 {
		t.Fatalf("unexpected module %#v", mod)
	}
}

func TestParseAnyDispatch(t *testing.T) {
	prog, mod, err := ParseAny(sampleQuest)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if prog == nil || mod != nil {
		t.Fatalf("expected program, got prog=%v mod=%v", prog, mod)
	}

	prog, mod, err = ParseAny(`module Empty;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if mod == nil || prog != nil {
		t.Fatalf("expected module, got prog=%v mod=%v", prog, mod)
	}
}

func TestParseDuplicateNodeKeepsLast(t *testing.T) {
	src := `
quest Twice;
goal "g";
graph {
    start: a;
    nodes {
        a: { type: initial; transitions: [b]; }
        b: { type: ending; title: "First"; }
        b: { type: ending; title: "Second"; }
    }
}
end;
`
	prog, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ending := prog.Graph.Nodes["b"].(*EndingNode)
	if ending.Title != "Second" {
		t.Fatalf("expected last declaration to win, got title %q", ending.Title)
	}
	if len(prog.Graph.Redefined) != 1 || prog.Graph.Redefined[0] != "b" {
		t.Fatalf("expected redefinition of 'b' recorded, got %v", prog.Graph.Redefined)
	}
	if len(prog.Graph.Order) != 2 {
		t.Fatalf("declaration order should not repeat ids: %v", prog.Graph.Order)
	}
}

func TestParseRepeatedClauseKeepsFinal(t *testing.T) {
	src := `
quest R;
goal "g";
graph {
    start: a;
    nodes {
        a: {
            type: initial;
            description: "first";
            description: "second";
            transitions: [b];
        }
        b: { type: ending; title: "End"; }
    }
}
end;
`
	prog, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if desc := prog.Graph.Nodes["a"].Describe(); desc != "second" {
		t.Fatalf("expected final description to be retained, got %q", desc)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"missing semicolon", `quest X goal "g"; graph {} end;`, "expected ';'"},
		{"missing goal", `quest X; graph {} end;`, "expected 'goal'"},
		{"unknown clause", `quest X; goal "g"; graph { nodes { a: { type: initial; color: "red"; } } } end;`, "unknown clause"},
		{"missing type clause", `quest X; goal "g"; graph { nodes { a: { description: "d"; } } } end;`, "no type clause"},
		{"bad node type", `quest X; goal "g"; graph { nodes { a: { type: loop; } } } end;`, "expected 'initial', 'action', or 'ending'"},
		{"trailing tokens", `quest X; goal "g"; graph {} end; extra`, "expected end of input"},
		{"module stray token", `module M; 42`, "expected 'import', 'nodes', or 'export'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseAny(tc.src)
			if err == nil {
				t.Fatal("expected parse error, got nil")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestParseErrorCarriesPosition(t *testing.T) {
	src := "quest X;\ngoal \"g\"\ngraph {} end;"
	_, err := ParseProgramFile(src, "broken.quest")
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Position.File != "broken.quest" || parseErr.Position.Line != 3 {
		t.Fatalf("unexpected position %v", parseErr.Position)
	}
}

func TestSplitQualified(t *testing.T) {
	cases := []struct {
		target string
		module string
		node   string
		ok     bool
	}{
		{"@Village.square", "Village", "square", true},
		{"local_node", "", "", false},
		{"@Mod.", "", "", false},
		{"@.node", "", "", false},
		{"@nodot", "", "", false},
	}
	for _, tc := range cases {
		mod, node, ok := SplitQualified(tc.target)
		if ok != tc.ok || mod != tc.module || node != tc.node {
			t.Fatalf("SplitQualified(%q) = %q, %q, %v", tc.target, mod, node, ok)
		}
	}
}
