package project

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkhin/questline/engine"
	"github.com/avolkhin/questline/loader"
	"github.com/avolkhin/questline/parser/quest"
)

//go:embed templates/*
var templates embed.FS

// Init creates a new questline project with a playable starter quest.
func Init(name string) error {
	dirs := []string{
		name,
		filepath.Join(name, "modules"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	templateFiles := map[string]string{
		ConfigFile:              "templates/questline.yaml",
		"main.quest":            "templates/main.quest",
		"modules/village.quest": "templates/village.quest",
		"README.md":             "templates/README.md",
		".gitignore":            "templates/gitignore",
	}
	for filePath, templatePath := range templateFiles {
		if err := writeTemplateFile(name, filePath, templatePath, name); err != nil {
			return fmt.Errorf("failed to write %s: %w", filePath, err)
		}
	}
	return nil
}

func writeTemplateFile(projectDir, filePath, templatePath, projectName string) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return err
	}
	text := strings.ReplaceAll(string(content), "{{.ProjectName}}", projectName)
	return os.WriteFile(filepath.Join(projectDir, filePath), []byte(text), 0644)
}

// FileReport is the validation outcome for one .quest file.
type FileReport struct {
	Path     string
	Kind     string // "quest" or "module"
	Errors   []string
	Warnings []string
}

// Valid reports whether the file passed every check.
func (r FileReport) Valid() bool {
	return len(r.Errors) == 0
}

// Check finds every .quest file under the configured directories, parses
// each, loads imports through the OS host, and runs structural validation.
// It returns one report per file in walk order.
func Check(root string, cfg Config) ([]FileReport, error) {
	files, err := FindQuestFiles(root, cfg.Dirs)
	if err != nil {
		return nil, err
	}

	var reports []FileReport
	for _, file := range files {
		reports = append(reports, checkFile(file))
	}
	return reports, nil
}

func checkFile(path string) FileReport {
	host := OSHost{}
	src, err := host.ReadFile(path)
	if err != nil {
		return FileReport{Path: path, Kind: "quest", Errors: []string{err.Error()}}
	}

	prog, mod, err := quest.ParseAnyFile(src, path)
	if err != nil {
		return FileReport{Path: path, Kind: "quest", Errors: []string{err.Error()}}
	}

	// Modules get their export lists checked standalone; the engine checks
	// cross-module references from the quest side.
	if mod != nil {
		report := FileReport{Path: path, Kind: "module"}
		for _, exported := range mod.Exports {
			if _, ok := mod.Nodes[exported]; !ok {
				report.Errors = append(report.Errors, fmt.Sprintf("export %q does not name a node in module %q", exported, mod.Name))
			}
		}
		return report
	}

	report := FileReport{Path: path, Kind: "quest"}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	reg, err := loader.LoadImports(prog, abs, host)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return report
	}
	result := engine.NewWithRegistry(prog, reg).Validate()
	report.Errors = append(report.Errors, result.Errors...)
	report.Warnings = append(report.Warnings, result.Warnings...)
	for _, mr := range reg.ValidateModules() {
		report.Errors = append(report.Errors, mr.Errors...)
	}
	return report
}

// FindQuestFiles walks dirs under root collecting .quest files, skipping
// hidden directories. Overlapping dirs report each file once.
func FindQuestFiles(root string, dirs []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, dir := range dirs {
		base := filepath.Join(root, dir)
		if _, err := os.Stat(base); err != nil {
			continue
		}
		err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if name := info.Name(); strings.HasPrefix(name, ".") && path != base {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".quest") || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
