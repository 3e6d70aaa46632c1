package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Language represents a source dialect
type Language string

const (
	LanguageJavaScript Language = "javascript" // .js .jsx .mjs, JSX enabled
	LanguageTSX        Language = "tsx"
	LanguageTypeScript Language = "typescript" // .ts, no JSX
	LanguageUnknown    Language = "unknown"
)

// ParsedFile is a parsed source file. The syntax tree stays alive until
// Close is called.
type ParsedFile struct {
	Path     string
	Language Language
	Source   []byte
	// HasErrors is set when tree-sitter recovered from syntax errors.
	HasErrors bool

	tree *sitter.Tree
}

// Root returns the root node of the syntax tree
func (f *ParsedFile) Root() *sitter.Node {
	return f.tree.RootNode()
}

// Text returns the source text spanned by n
func (f *ParsedFile) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Source)
}

// Close releases the syntax tree
func (f *ParsedFile) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}
