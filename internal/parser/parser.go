package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser parses component source files using tree-sitter
type Parser struct {
	jsParser  *sitter.Parser
	tsxParser *sitter.Parser
	tsParser  *sitter.Parser
}

// NewParser creates a new parser with all dialects loaded
func NewParser() *Parser {
	jsParser := sitter.NewParser()
	jsParser.SetLanguage(javascript.GetLanguage())

	tsxParser := sitter.NewParser()
	tsxParser.SetLanguage(tsx.GetLanguage())

	tsParser := sitter.NewParser()
	tsParser.SetLanguage(typescript.GetLanguage())

	return &Parser{
		jsParser:  jsParser,
		tsxParser: tsxParser,
		tsParser:  tsParser,
	}
}

// ParseFile parses a single file
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*ParsedFile, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}

	return p.ParseContent(ctx, filePath, content, lang)
}

// ParseContent parses source content. The caller must Close the result.
// tree-sitter parsers are not safe for concurrent use, so a Parser must not
// be shared between goroutines.
func (p *Parser) ParseContent(ctx context.Context, filePath string, content []byte, lang Language) (*ParsedFile, error) {
	var parser *sitter.Parser
	switch lang {
	case LanguageJavaScript:
		parser = p.jsParser
	case LanguageTSX:
		parser = p.tsxParser
	case LanguageTypeScript:
		parser = p.tsParser
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParsedFile{
		Path:      filePath,
		Language:  lang,
		Source:    content,
		HasErrors: tree.RootNode().HasError(),
		tree:      tree,
	}, nil
}

// Walk visits node and its descendants in document order. Children of a
// node are skipped when fn returns false for it.
func Walk(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()

	for {
		if fn(cursor.CurrentNode()) && cursor.GoToFirstChild() {
			continue
		}

		for {
			if cursor.GoToNextSibling() {
				break
			}
			if !cursor.GoToParent() {
				return
			}
		}
	}
}

// IsMarkup reports whether n is a JSX element, self-closing element or fragment
func IsMarkup(n *sitter.Node) bool {
	switch n.Type() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	return false
}

// ContainsMarkup reports whether any node below n is markup
func ContainsMarkup(n *sitter.Node) bool {
	found := false
	Walk(n, func(c *sitter.Node) bool {
		if found {
			return false
		}
		if IsMarkup(c) {
			found = true
			return false
		}
		return true
	})
	return found
}

// NamedChildren returns the named children of n, skipping comments
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DetectLanguage detects the dialect from the file extension
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".js", ".jsx", ".mjs":
		return LanguageJavaScript
	case ".tsx":
		return LanguageTSX
	case ".ts":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
