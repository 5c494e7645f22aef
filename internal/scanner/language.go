package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// languageDetector recognises a project by a marker file in its root.
type languageDetector struct {
	language string
	markers  []string
	// refine may override the language and report a framework.
	refine func(dir, language string) (string, string)
}

var languageDetectors = []languageDetector{
	{language: "go", markers: []string{"go.mod"}},
	{language: "rust", markers: []string{"Cargo.toml"}},
	{language: "javascript", markers: []string{"package.json"}, refine: refineNode},
	{language: "python", markers: []string{"pyproject.toml", "requirements.txt", "setup.py"}, refine: refinePython},
	{language: "ruby", markers: []string{"Gemfile"}},
	{language: "java", markers: []string{"pom.xml"}},
	{language: "kotlin", markers: []string{"build.gradle.kts"}},
	{language: "java", markers: []string{"build.gradle"}},
	{language: "php", markers: []string{"composer.json"}},
	{language: "elixir", markers: []string{"mix.exs"}},
	{language: "swift", markers: []string{"Package.swift"}},
}

// nodeFrameworks is checked in order; meta-frameworks come before the
// libraries they build on.
var nodeFrameworks = []struct{ pkg, name string }{
	{"next", "next"},
	{"nuxt", "nuxt"},
	{"@angular/core", "angular"},
	{"svelte", "svelte"},
	{"vue", "vue"},
	{"react", "react"},
	{"express", "express"},
}

var pythonFrameworks = []string{"django", "fastapi", "flask"}

// DetectLanguage reports the primary language and framework of the project
// rooted at dir. Both are empty when nothing is recognised.
func DetectLanguage(dir string) (language, framework string) {
	for _, d := range languageDetectors {
		if !anyExists(dir, d.markers) {
			continue
		}
		if d.refine != nil {
			return d.refine(dir, d.language)
		}
		return d.language, ""
	}
	return "", ""
}

func anyExists(dir string, names []string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func refineNode(dir, language string) (string, string) {
	if anyExists(dir, []string{"tsconfig.json"}) {
		language = "typescript"
	}

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil || !gjson.ValidBytes(data) {
		return language, ""
	}

	deps := make(map[string]struct{})
	for _, key := range []string{"dependencies", "devDependencies", "peerDependencies"} {
		gjson.GetBytes(data, key).ForEach(func(name, _ gjson.Result) bool {
			deps[name.String()] = struct{}{}
			return true
		})
	}
	for _, fw := range nodeFrameworks {
		if _, ok := deps[fw.pkg]; ok {
			return language, fw.name
		}
	}
	return language, ""
}

func refinePython(dir, language string) (string, string) {
	for _, name := range []string{"requirements.txt", "pyproject.toml", "setup.py"} {
		if fw := scanPythonFile(filepath.Join(dir, name)); fw != "" {
			return language, fw
		}
	}
	return language, ""
}

func scanPythonFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	found := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, fw := range pythonFrameworks {
			if mentionsPackage(line, fw) {
				found[fw] = true
			}
		}
	}
	for _, fw := range pythonFrameworks {
		if found[fw] {
			return fw
		}
	}
	return ""
}

// mentionsPackage reports whether line names pkg as a whole word, as in
// "django>=4", `"fastapi[all]"` or "flask == 3.0".
func mentionsPackage(line, pkg string) bool {
	for i := 0; ; {
		j := strings.Index(line[i:], pkg)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(pkg)
		if (start == 0 || !isNameByte(line[start-1])) && (end == len(line) || !isNameByte(line[end])) {
			return true
		}
		i = end
	}
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_' || b == '-'
}
