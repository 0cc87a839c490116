package codegen

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

const (
	tmplCustomElement = "wrapper_custom_element"
	tmplHydrated      = "wrapper_hydrated"
	tmplPlain         = "wrapper_plain"
)

const templatePattern = "templates/*.gtpl"

//go:embed templates/*.gtpl
var wrapperTemplatesFS embed.FS

var (
	wrapperTmpl   *template.Template
	wrapperOnce   sync.Once
	wrapperInitErr error
)

// validateWrapperTemplates ensures every wrapper form named in §4.6.1 is
// present, the same way the teacher's validateTemplates keeps its dispatch
// templates in sync with its IR node kinds.
func validateWrapperTemplates() error {
	required := []string{tmplCustomElement, tmplHydrated, tmplPlain}
	for _, name := range required {
		if wrapperTmpl.Lookup(name) == nil {
			return fmt.Errorf("required wrapper template %q not found", name)
		}
	}
	return nil
}

func ensureWrapperTemplates() error {
	wrapperOnce.Do(func() {
		t, err := template.New(tmplCustomElement).ParseFS(wrapperTemplatesFS, templatePattern)
		if err != nil {
			wrapperInitErr = err
			return
		}
		wrapperTmpl = t
		wrapperInitErr = validateWrapperTemplates()
	})
	return wrapperInitErr
}

// wrapperData feeds one of the three §4.6.1 component-wrapper templates.
type wrapperData struct {
	TagLiteral           string
	Identifier           string
	MethodLiteral        string
	DisplayName          string
	ComponentURL         string
	ComponentExportValue string
	Value                string
}

func renderWrapper(name string, data wrapperData) (string, error) {
	if err := ensureWrapperTemplates(); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := wrapperTmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("rendering wrapper template %q: %w", name, err)
	}
	return b.String(), nil
}
