// Package token defines lexical token kinds and trivia for TypeScript, JSX and
// JavaScript sources.
// Invariants:
//   - Token.Text is the raw source text of the token; Token.Span matches it exactly.
//   - Only reserved words get keyword kinds. Contextual keywords (let, async,
//     type, interface, as, satisfies, ...) are Ident and recognized by the parser
//     with Token.Is.
//   - '>' is always lexed alone. The parser asks the lexer to rescan it into
//     '>>', '>=', '>>>=' ... when it parses a binary expression, so nested
//     generic argument lists close cleanly.
//   - Regular expressions, template continuations and JSX text depend on
//     parser context and are produced by explicit rescan calls.
//   - Comments travel as leading Trivia of the next significant token and never
//     appear in the token stream.
package token
