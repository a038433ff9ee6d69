package dot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avolkhin/questline/parser/quest"
)

const ferryQuest = `
quest Ferry;
goal "Cross the river";
import Docks from "./docks.quest";
graph {
    start: bank;
    nodes {
        bank: {
            type: initial;
            description: "The river bank.";
            transitions: [choice];
        }
        choice: {
            type: action;
            description: "A ferryman waits.";
            options: [
                ("Pay the fare", crossed),
                ("Ask at the docks", @Docks.office)
            ];
        }
        crossed: {
            type: ending;
            title: "Across";
            description: "The far shore.";
        }
    }
}
end;
`

func parseFerry(t *testing.T) *quest.Program {
	t.Helper()
	prog, err := quest.ParseProgram(ferryQuest)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func TestGenerateShapesAndEdges(t *testing.T) {
	doc, err := Generate(parseFerry(t))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"digraph Ferry {",
		`label="Cross the river";`,
		"bank [shape=circle, penwidth=2];",
		"choice [shape=box];",
		`crossed [shape=doublecircle, label="crossed\nAcross"];`,
		"bank -> choice;",
		"choice -> crossed;",
		`choice -> "@Docks.office" [style=dashed];`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q\n%s", want, doc)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	prog := parseFerry(t)
	first, err := Generate(prog)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Generate(prog)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatal("output varied across runs")
		}
	}
}

func TestGenerateNilProgram(t *testing.T) {
	if _, err := Generate(nil); err == nil {
		t.Fatal("expected error for nil program")
	}
}

func TestWriteFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ferry.dot")
	if err := WriteFile(parseFerry(t), path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph Ferry {") {
		t.Errorf("unexpected file contents: %s", data)
	}
}
