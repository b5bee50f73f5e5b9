package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexUnterminatedRegExp       Code = 1006
	LexBadEscape                Code = 1007
	LexLegacyOctal              Code = 1008
	LexInvalidUTF8              Code = 1009

	// Парсерные
	SynInfo                 Code = 2000
	SynUnexpectedToken      Code = 2001
	SynExpectSemicolon      Code = 2002
	SynExpectIdentifier     Code = 2003
	SynExpectExpression     Code = 2004
	SynExpectType           Code = 2005
	SynUnclosedParen        Code = 2006
	SynUnclosedBrace        Code = 2007
	SynUnclosedBracket      Code = 2008
	SynTypeSyntaxInJS       Code = 2009
	SynUnterminatedJSX      Code = 2010
	SynJSXMismatchedTag     Code = 2011
	SynJSXNotEnabled        Code = 2012
	SynDecoratorsDisabled   Code = 2013
	SynAmbientBody          Code = 2014
	SynInvalidAssignTarget  Code = 2015
	SynStrictWith           Code = 2016
	SynStrictDeleteIdent    Code = 2017
	SynDuplicateDeclaration Code = 2018
	SynModifierNotAllowed   Code = 2019
	SynRestNotLast          Code = 2020
	SynUnterminatedType     Code = 2021
	SynUnexpectedEOF        Code = 2022
	SynImportNotTopLevel    Code = 2023
	SynMissingInitializer   Code = 2024
	SynInvalidLabel         Code = 2025
	SynParserPanic          Code = 2099

	// Конфигурация
	CfgInfo                Code = 3000
	CfgDialectConflict     Code = 3001
	CfgImportSourceClassic Code = 3002
	CfgUnknownTarget       Code = 3003
	CfgInvalidDefine       Code = 3004
	CfgInvalidStrip        Code = 3005
	CfgInvalidUTF8         Code = 3006
	CfgUnknownDialect      Code = 3007
	CfgUnknownRuntime      Code = 3008

	// Трансформация (fold)
	FoldInfo            Code = 4000
	FoldUnsupported     Code = 4001
	FoldPragmaIgnored   Code = 4002
	FoldUnknownNode     Code = 4003
	FoldTypeLeaked      Code = 4004
	FoldPanic           Code = 4005
	FoldHygieneConflict Code = 4006

	// Генерация кода
	EmitInfo              Code = 5000
	EmitUnknownNode       Code = 5001
	EmitInvalidOutput     Code = 5002
	EmitSourceMapMismatch Code = 5003
	EmitPanic             Code = 5004
	EmitSpanOutOfRange    Code = 5005

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexUnterminatedTemplate:     "Unterminated template literal",
		LexUnterminatedRegExp:       "Unterminated regular expression",
		LexBadEscape:                "Invalid escape sequence",
		LexLegacyOctal:              "Legacy octal literal in strict code",
		LexInvalidUTF8:              "Invalid UTF-8 sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynExpectType:               "Expected type",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynTypeSyntaxInJS:           "Type syntax is not allowed in JavaScript",
		SynUnterminatedJSX:          "Unterminated JSX element",
		SynJSXMismatchedTag:         "Mismatched JSX closing tag",
		SynJSXNotEnabled:            "JSX is not enabled for this dialect",
		SynDecoratorsDisabled:       "Decorators are not enabled",
		SynAmbientBody:              "Implementation not allowed in ambient context",
		SynInvalidAssignTarget:      "Invalid assignment target",
		SynStrictWith:               "'with' is not allowed in strict mode",
		SynStrictDeleteIdent:        "Deleting an identifier is not allowed in strict mode",
		SynDuplicateDeclaration:     "Duplicate declaration",
		SynModifierNotAllowed:       "Modifier not allowed here",
		SynRestNotLast:              "Rest element must be last",
		SynUnterminatedType:         "Unterminated type expression",
		SynUnexpectedEOF:            "Unexpected end of input",
		SynImportNotTopLevel:        "Import and export must be at top level",
		SynMissingInitializer:       "Missing initializer in declaration",
		SynInvalidLabel:             "Undefined label",
		SynParserPanic:              "Internal parser failure",
		CfgInfo:                     "Configuration information",
		CfgDialectConflict:          "Dialect override conflicts with specifier",
		CfgImportSourceClassic:      "JSX import source requires the automatic runtime",
		CfgUnknownTarget:            "Unknown target version",
		CfgInvalidDefine:            "Invalid define replacement",
		CfgInvalidStrip:             "Invalid conditional strip expression",
		CfgInvalidUTF8:              "Source text is not valid UTF-8",
		CfgUnknownDialect:           "Unknown syntax dialect",
		CfgUnknownRuntime:           "Unknown JSX runtime",
		FoldInfo:                    "Transform information",
		FoldUnsupported:             "Construct is not supported by the transform",
		FoldPragmaIgnored:           "JSX pragma ignored",
		FoldUnknownNode:             "Transform met an unknown node",
		FoldTypeLeaked:              "Type syntax survived erasure",
		FoldPanic:                   "Internal transform failure",
		FoldHygieneConflict:         "Generated binding could not be renamed",
		EmitInfo:                    "Emit information",
		EmitUnknownNode:             "Emitter met an unknown node",
		EmitInvalidOutput:           "Emitted text failed validation",
		EmitSourceMapMismatch:       "Source map registry mismatch",
		EmitPanic:                   "Internal emit failure",
		EmitSpanOutOfRange:          "Span outside of registered source",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("FLD%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Kind maps the code onto the pipeline's error taxonomy.
func (c Code) Kind() Kind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 3000:
		return KindSyntax
	case ic >= 3000 && ic < 4000:
		return KindConfiguration
	case ic >= 4000 && ic < 5000:
		return KindTransformInvariant
	case ic >= 5000 && ic < 6000:
		return KindEmitInvariant
	}
	return KindUnknown
}

// Kind is the category a diagnostic falls into.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSyntax
	KindTransformInvariant
	KindEmitInvariant
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindTransformInvariant:
		return "TransformInvariantError"
	case KindEmitInvariant:
		return "EmitInvariantError"
	case KindConfiguration:
		return "ConfigurationError"
	}
	return "Error"
}
