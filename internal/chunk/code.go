package chunk

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// ChunkCode keeps an entire code file as a single chunk. Splitting
// code breaks semantic coherence, so only the keyword list reflects
// internal structure: declaration names extracted from the AST when a
// grammar is available, regex-extracted identifiers otherwise.
func ChunkCode(ctx context.Context, relPath, text string, opts Options) []Chunk {
	if len(text) == 0 {
		return nil
	}

	names := declarationNames(ctx, relPath, []byte(text))

	return []Chunk{{
		Section:  "Code",
		Keywords: mergeKeywords(names, text, opts.MaxKeywords),
		Text:     truncate(text, opts.MaxChunkChars),
	}}
}

// declarationNames parses source and collects identifiers declared at
// function, method, type, and class level, in source order. Returns
// nil when the language has no grammar or parsing fails; callers fall
// back to regex keyword extraction.
func declarationNames(ctx context.Context, relPath string, source []byte) []string {
	lang := languageFor(relPath)
	if lang == nil {
		return nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	var names []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if declarationNodeTypes[n.Type()] {
			if name := nodeName(n, source); name != "" {
				names = append(names, name)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return names
}

// nodeName finds a declaration's identifier: the "name" field when the
// grammar exposes one, otherwise the first identifier-like child.
func nodeName(n *sitter.Node, source []byte) string {
	if named := n.ChildByFieldName("name"); named != nil {
		return named.Content(source)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "identifier", "type_identifier", "field_identifier", "property_identifier":
			return child.Content(source)
		}
	}
	return ""
}
