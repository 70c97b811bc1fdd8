// Package ecosystem holds the catalog of project ecosystems sweep recognizes
// and the rules for classifying a directory as a project root.
package ecosystem

// Display names for the built-in ecosystems.
const (
	NodeJS     = "Node.js"
	NextJS     = "Next.js"
	Python     = "Python"
	Rust       = "Rust"
	Go         = "Go"
	JavaMaven  = "Java/Maven"
	JavaGradle = "Java/Gradle"
	DotNet     = ".NET"
	Flutter    = "Flutter"
	Ruby       = "Ruby"
)

// RecurringArtifact is the artifact name that may appear at any depth
// inside a project rather than only at its root.
const RecurringArtifact = "__pycache__"

// Rule describes one ecosystem: the marker files that identify a project
// root and the artifact directories that are safe to regenerate.
type Rule struct {
	Name      string
	Markers   []string
	Artifacts []string
}

// Registry is an ordered, read-only catalog of rules. Catalog order is
// match priority, except that the override rule is always tried first.
type Registry struct {
	rules    []Rule
	override string
}

// defaultRules is the built-in catalog. Next.js shares package.json with
// Node.js and is promoted ahead of it by Default.
var defaultRules = []Rule{
	{NodeJS, []string{"package.json"}, []string{"node_modules"}},
	{NextJS, []string{"next.config.js", "next.config.mjs", "next.config.ts"}, []string{".next", "node_modules"}},
	{Python, []string{"pyproject.toml", "setup.py", "setup.cfg", "requirements.txt"}, []string{".venv", "venv", "__pycache__", ".tox", ".mypy_cache", ".pytest_cache"}},
	{Rust, []string{"Cargo.toml"}, []string{"target"}},
	{Go, []string{"go.mod"}, []string{"vendor"}},
	{JavaMaven, []string{"pom.xml"}, []string{"target"}},
	{JavaGradle, []string{"build.gradle", "build.gradle.kts"}, []string{"build", ".gradle"}},
	{DotNet, []string{"*.csproj", "*.sln"}, []string{"bin", "obj"}},
	{Flutter, []string{"pubspec.yaml"}, []string{"build", ".dart_tool"}},
	{Ruby, []string{"Gemfile"}, []string{"vendor/bundle"}},
}

// Default returns the built-in registry with Next.js as the override rule.
func Default() *Registry {
	return New(defaultRules, NextJS)
}

// New builds a registry from rules. override names the rule evaluated
// before all others; an empty override disables the promotion.
func New(rules []Rule, override string) *Registry {
	copied := make([]Rule, len(rules))
	for i, r := range rules {
		copied[i] = Rule{
			Name:      r.Name,
			Markers:   append([]string(nil), r.Markers...),
			Artifacts: append([]string(nil), r.Artifacts...),
		}
	}
	return &Registry{rules: copied, override: override}
}

// Rules returns a copy of the catalog in declaration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Override returns the name of the rule evaluated first.
func (r *Registry) Override() string {
	return r.override
}

// Lookup returns the rule with the given display name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}

// ArtifactNames returns every artifact name in the catalog, deduplicated,
// in first-seen order.
func (r *Registry) ArtifactNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, rule := range r.rules {
		for _, a := range rule.Artifacts {
			if !seen[a] {
				seen[a] = true
				names = append(names, a)
			}
		}
	}
	return names
}
