// Package generator emits .quest skeleton files for new quests, modules,
// and nodes.
package generator

import (
	"fmt"
	"os"
	"strings"
)

// GenerateQuest writes a minimal playable quest named after name.
func GenerateQuest(name string) {
	questTemplate := fmt.Sprintf(`quest %s;
goal "Describe the goal of %s";

graph {
    start: opening;

    nodes {
        opening: {
            type: initial;
            description: "The story begins here.";
            transitions: [finale];
        }

        finale: {
            type: ending;
            title: "The End";
            description: "The story concludes.";
        }
    }
}
end;
`, name, strings.ToLower(name))

	filename := fmt.Sprintf("%s.quest", strings.ToLower(name))
	if err := os.WriteFile(filename, []byte(questTemplate), 0644); err != nil {
		fmt.Printf("Error writing quest template: %v\n", err)
		return
	}

	fmt.Printf("Quest %s generated at %s\n", name, filename)
}

// GenerateModule writes a module skeleton under modules/.
func GenerateModule(name string) {
	moduleTemplate := fmt.Sprintf(`module %s;

nodes {
    scene: {
        type: action;
        description: "A reusable scene in %s.";
        options: [
            ("Continue", @%s.outcome)
        ];
    }

    outcome: {
        type: ending;
        title: "Outcome";
        description: "The scene resolves.";
    }
}

export [scene, outcome];
`, name, name, name)

	os.MkdirAll("modules", 0755)
	filename := fmt.Sprintf("modules/%s.quest", strings.ToLower(name))
	if err := os.WriteFile(filename, []byte(moduleTemplate), 0644); err != nil {
		fmt.Printf("Error writing module template: %v\n", err)
		return
	}

	fmt.Printf("Module %s generated at %s\n", name, filename)
}

// GenerateNode appends a node skeleton to an existing module file and
// exports it. Module bodies accept repeated nodes and export blocks, so a
// plain append keeps the file parseable.
func GenerateNode(filename, id, nodeType string) {
	var body string
	switch nodeType {
	case "initial":
		body = fmt.Sprintf(`
nodes {
    %s: {
        type: initial;
        description: "Describe %s.";
        transitions: [];
    }
}

export [%s];
`, id, id, id)
	case "ending":
		body = fmt.Sprintf(`
nodes {
    %s: {
        type: ending;
        title: "%s";
        description: "Describe %s.";
    }
}

export [%s];
`, id, strings.Title(id), id, id)
	default:
		body = fmt.Sprintf(`
nodes {
    %s: {
        type: action;
        description: "Describe %s.";
        options: [];
    }
}

export [%s];
`, id, id, id)
	}

	existing, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", filename, err)
		return
	}

	if err := os.WriteFile(filename, append(existing, body...), 0644); err != nil {
		fmt.Printf("Error writing node template: %v\n", err)
		return
	}

	fmt.Printf("Node %s appended to %s\n", id, filename)
}
