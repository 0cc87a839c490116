package codegen

// ImportKind classifies how a component's local name entered the import
// table (spec §3 ComponentInfo).
type ImportKind int

const (
	ImportDefault ImportKind = iota
	ImportNamed
	ImportNamespace
)

// ComponentInfo describes one imported component binding.
type ComponentInfo struct {
	ImportSpecifierKind ImportKind
	ImportedLocalName   string
	ImportedExportedName string // only set for ImportNamed
	SourceURL            string // the import's source specifier, as written
}

// markdownMarker tracks Markdown-region nesting depth (spec §3 invariant 3).
type markdownMarker struct {
	active bool
	scope  string
	count  int
}

func (m *markdownMarker) enter(scope string) {
	if !m.active {
		m.active = true
		m.scope = scope
		m.count = 0
	}
	m.count++
}

func (m *markdownMarker) leave() {
	if !m.active {
		return
	}
	m.count--
	if m.count <= 0 {
		m.active = false
		m.count = 0
		m.scope = ""
	}
}

func (m *markdownMarker) insideMarkdown() bool { return m.active && m.count > 0 }

// orderedSet is an insertion-ordered set of strings, deduplicated by exact
// equality (spec §3 importStatements/exportStatements).
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(item string) {
	if s.seen[item] {
		return
	}
	s.seen[item] = true
	s.items = append(s.items, item)
}

func (s *orderedSet) remove(item string) {
	if !s.seen[item] {
		return
	}
	delete(s.seen, item)
	for i, it := range s.items {
		if it == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) list() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// CodegenState lives for one document compile (spec §3). It must not be
// reused across documents (spec §5).
type CodegenState struct {
	Components              map[string]ComponentInfo
	ComponentImports         map[string][]string // local name -> raw import source lines, for client-only removal
	CustomElementCandidates  map[string]string   // synthesized module alias -> runtime URL
	Declarations             map[string]bool

	importStatements *orderedSet
	exportStatements *orderedSet

	CSS []string

	markers markdownMarker

	Filename string
	FileID   string

	GetStaticPaths string
	Script         string

	propExportWarning string

	projectRoot string
}

// NewState creates a fresh CodegenState for a single document compile.
func NewState(filename, fileID string) *CodegenState {
	return &CodegenState{
		Components:              make(map[string]ComponentInfo),
		ComponentImports:         make(map[string][]string),
		CustomElementCandidates:  make(map[string]string),
		Declarations:             make(map[string]bool),
		importStatements:         newOrderedSet(),
		exportStatements:         newOrderedSet(),
		Filename:                 filename,
		FileID:                   fileID,
	}
}

func (s *CodegenState) addImport(line string)  { s.importStatements.add(line) }
func (s *CodegenState) removeImport(line string) { s.importStatements.remove(line) }
func (s *CodegenState) addExport(line string)  { s.exportStatements.add(line) }

// Imports returns the deduplicated, insertion-ordered import lines.
func (s *CodegenState) Imports() []string { return s.importStatements.list() }

// Exports returns the deduplicated, insertion-ordered export lines.
func (s *CodegenState) Exports() []string { return s.exportStatements.list() }

// lookupComponent looks a tag's local name up in the imported-components
// table only. resolveComponent calls it before consulting declarations,
// which is how invariant 2 (spec §3) is honored: components wins over
// declarations unless the name is capitalized and present only in
// declarations.
func (s *CodegenState) lookupComponent(name string) (ComponentInfo, bool) {
	ci, ok := s.Components[name]
	return ci, ok
}

func (s *CodegenState) isDeclared(name string) bool {
	return s.Declarations[name]
}
