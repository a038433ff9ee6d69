package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesPlayableProject(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "lanternfall")

	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, file := range []string{
		ConfigFile,
		"main.quest",
		"modules/village.quest",
		"README.md",
		".gitignore",
	} {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			t.Errorf("expected %s to exist: %v", file, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "main.quest"))
	if err != nil {
		t.Fatalf("reading main.quest: %v", err)
	}
	if strings.Contains(string(data), "{{.ProjectName}}") {
		t.Error("template placeholder left unexpanded in main.quest")
	}
}

func TestCheckPassesOnFreshProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	reports, err := Check(dir, cfg)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports (quest + module), got %d", len(reports))
	}
	for _, r := range reports {
		if !r.Valid() {
			t.Errorf("%s failed validation: %v", r.Path, r.Errors)
		}
	}
}

func TestCheckReportsParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.quest", "quest Broken goal")

	reports, err := Check(dir, DefaultConfig())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Valid() {
		t.Fatal("expected broken.quest to fail validation")
	}
	if !strings.Contains(reports[0].Errors[0], "expected") {
		t.Errorf("want a parse error, got %q", reports[0].Errors[0])
	}
}

func TestCheckReportsDanglingExport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lore.quest", `
module Lore;
nodes {
    stone: {
        type: ending;
        title: "The Stone";
        description: "An old stone.";
    }
}
export [stone, phantom];
`)

	reports, err := Check(dir, DefaultConfig())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(reports) != 1 || reports[0].Kind != "module" {
		t.Fatalf("expected one module report, got %+v", reports)
	}
	if len(reports[0].Errors) != 1 || !strings.Contains(reports[0].Errors[0], "phantom") {
		t.Errorf("want one error naming phantom, got %v", reports[0].Errors)
	}
}

func TestCheckReportsUnreachableNode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "island.quest", `
quest Island;
goal "Reach the shore";
graph {
    start: beach;
    nodes {
        beach: {
            type: initial;
            description: "Waves lap the sand.";
            transitions: [rescued];
        }
        rescued: {
            type: ending;
            title: "Rescued";
            description: "A boat arrives.";
        }
        cave: {
            type: ending;
            title: "Lost";
            description: "Nobody finds the cave.";
        }
    }
}
end;
`)

	reports, err := Check(dir, DefaultConfig())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if reports[0].Valid() {
		t.Fatal("expected validation errors")
	}
	if !strings.Contains(reports[0].Errors[0], "unreachable") {
		t.Errorf("want unreachable error, got %v", reports[0].Errors)
	}
}

func TestFindQuestFilesSkipsHiddenAndDedupes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.quest", "module A;\n")
	writeFile(t, dir, "notes.txt", "not a quest")
	writeFile(t, filepath.Join(dir, ".git"), "b.quest", "module B;\n")
	writeFile(t, filepath.Join(dir, "modules"), "c.quest", "module C;\n")

	// "." overlaps "modules"; c.quest must appear once.
	files, err := FindQuestFiles(dir, []string{".", "modules"})
	if err != nil {
		t.Fatalf("FindQuestFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	for _, f := range files {
		if strings.Contains(f, ".git") {
			t.Errorf("hidden directory was not skipped: %s", f)
		}
	}
}

func TestOSHostResolveRelativeToImporter(t *testing.T) {
	host := OSHost{}
	got, err := host.Resolve("/proj/sub/main.quest", "../modules/v.quest")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "/proj/modules/v.quest" {
		t.Errorf("Resolve = %q, want /proj/modules/v.quest", got)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
