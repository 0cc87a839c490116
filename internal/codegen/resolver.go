package codegen

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ComponentClass is the result of resolving a tag name against the
// frontmatter symbol table (spec §4.4).
type ComponentClass int

const (
	ClassImported ComponentClass = iota
	ClassFrontmatterDefined
	ClassCustomElement
	ClassFragment
)

// ResolvedComponent is what ComponentResolver produces for one tag.
type ResolvedComponent struct {
	Class      ComponentClass
	LocalName  string    // the identifier to reference in emitted code
	Info       ComponentInfo
	RuntimeURL string // only set for ClassImported
	Namespace  string // set when the tag used dotted namespace access, e.g. "NS.Card"
}

func customElementName(tag string) bool {
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	return strings.Contains(tag, "-")
}

func isCapitalized(tag string) bool {
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

// resolveComponent implements ComponentResolver (spec §4.4).
func (s *CodegenState) resolveComponent(tag string) (*ResolvedComponent, error) {
	lookupName := tag
	namespace := ""
	if idx := strings.Index(tag, "."); idx >= 0 {
		namespace = tag[:idx]
		lookupName = tag[:idx]
	}

	if ci, ok := s.lookupComponent(lookupName); ok {
		rc := &ResolvedComponent{Class: ClassImported, LocalName: lookupName, Info: ci, Namespace: namespace}
		url, err := s.runtimeURL(ci)
		if err != nil {
			return nil, err
		}
		rc.RuntimeURL = url
		return rc, nil
	}

	if customElementName(tag) {
		return &ResolvedComponent{Class: ClassCustomElement, LocalName: tag}, nil
	}

	if isCapitalized(lookupName) && s.isDeclared(lookupName) {
		return &ResolvedComponent{Class: ClassFrontmatterDefined, LocalName: lookupName}, nil
	}

	if tag == "Fragment" {
		return &ResolvedComponent{Class: ClassFragment, LocalName: "Fragment"}, nil
	}

	return nil, fmt.Errorf(`Unable to render "%s" because it is undefined`, tag)
}

// runtimeURL synthesizes the runtime URL for an imported component (spec
// §4.4): join the import's source URL against the source file's URL, strip
// the project-root prefix, collapse/normalize the extension, and prepend
// "/_astro/".
func (s *CodegenState) runtimeURL(ci ComponentInfo) (string, error) {
	base, err := url.Parse("file://" + s.Filename)
	if err != nil {
		return "", fmt.Errorf("parsing source filename as URL: %w", err)
	}
	ref, err := url.Parse(ci.SourceURL)
	if err != nil {
		return "", fmt.Errorf("parsing import specifier %q as URL: %w", ci.SourceURL, err)
	}
	resolved := base.ResolveReference(ref)

	p := resolved.Path
	if s.projectRoot != "" {
		p = strings.TrimPrefix(p, s.projectRoot)
	}
	p = collapseJSExtension(p)
	return "/_astro/" + strings.TrimPrefix(p, "/"), nil
}

var jsLikeExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

func collapseJSExtension(p string) string {
	ext := path.Ext(p)
	if jsLikeExtensions[ext] {
		return strings.TrimSuffix(p, ext) + ".js"
	}
	return p + ".js"
}
