package driver

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/lexer"
	"mesozoic/internal/source"
	"mesozoic/internal/token"
)

// TokenizeResult is the token view of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	// Contextual is true when the tokens came from a successful parse, which
	// resolves regex literals, template continuations and JSX text.
	Contextual bool
}

// Tokenize returns the tokens of path. The parser drives the lexer when the
// file parses; otherwise the raw lexer stream is returned with its errors.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	pr, err := Parse(path, ParseOptions{MaxDiagnostics: maxDiagnostics, CaptureTokens: true})
	if err != nil {
		return nil, err
	}
	if pr.Tree != nil {
		return &TokenizeResult{
			FileSet:    pr.FileSet,
			File:       pr.File,
			Tokens:     pr.Tree.Tokens,
			Bag:        pr.Bag,
			Contextual: true,
		}, nil
	}

	// Парсер упал: отдаём сырой поток лексера. Его ошибки не собираем,
	// парсер уже сообщил о тех же местах.
	lx := lexer.New(pr.File, lexer.Options{})
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return &TokenizeResult{
		FileSet: pr.FileSet,
		File:    pr.File,
		Tokens:  tokens,
		Bag:     pr.Bag,
	}, nil
}
