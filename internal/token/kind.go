package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident is any identifier, including contextual keywords (let, async, type, as ...).
	Ident
	// PrivateName is a class private name: #x.
	PrivateName

	// NumberLit is a numeric literal in any radix.
	NumberLit
	// BigIntLit is a numeric literal with the n suffix.
	BigIntLit
	// StringLit is a single or double quoted string.
	StringLit
	// NoSubstTemplate is a template literal without substitutions: `abc`.
	NoSubstTemplate
	// TemplateHead is the `abc${ part of a template.
	TemplateHead
	// TemplateMiddle is the }abc${ part of a template.
	TemplateMiddle
	// TemplateTail is the }abc` part of a template.
	TemplateTail
	// RegExpLit is /body/flags. Produced only by Lexer.ReScanSlash.
	RegExpLit
	// JSXText is raw text between JSX tags. Produced only by Lexer.NextJSXChild.
	JSXText

	LBrace           // {
	RBrace           // }
	LParen           // (
	RParen           // )
	LBracket         // [
	RBracket         // ]
	Dot              // .
	DotDotDot        // ...
	Semicolon        // ;
	Comma            // ,
	Lt               // <
	Gt               // >
	LtEq             // <=
	GtEq             // >=
	EqEq             // ==
	BangEq           // !=
	EqEqEq           // ===
	BangEqEq         // !==
	Plus             // +
	Minus            // -
	Star             // *
	StarStar         // **
	Slash            // /
	Percent          // %
	PlusPlus         // ++
	MinusMinus       // --
	Shl              // <<
	Shr              // >>
	UShr             // >>>
	Amp              // &
	Pipe             // |
	Caret            // ^
	Bang             // !
	Tilde            // ~
	AndAnd           // &&
	OrOr             // ||
	QuestionQuestion // ??
	Question         // ?
	QuestionDot      // ?.
	Colon            // :
	At               // @
	Arrow            // =>

	Assign                 // =
	PlusAssign             // +=
	MinusAssign            // -=
	StarAssign             // *=
	StarStarAssign         // **=
	SlashAssign            // /=
	PercentAssign          // %=
	ShlAssign              // <<=
	ShrAssign              // >>=
	UShrAssign             // >>>=
	AmpAssign              // &=
	PipeAssign             // |=
	CaretAssign            // ^=
	AndAndAssign           // &&=
	OrOrAssign             // ||=
	QuestionQuestionAssign // ??=

	// Reserved words. Contextual keywords stay Ident.
	KwBreak
	KwCase
	KwCatch
	KwClass
	KwConst
	KwContinue
	KwDebugger
	KwDefault
	KwDelete
	KwDo
	KwElse
	KwEnum
	KwExport
	KwExtends
	KwFalse
	KwFinally
	KwFor
	KwFunction
	KwIf
	KwImport
	KwIn
	KwInstanceof
	KwNew
	KwNull
	KwReturn
	KwSuper
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwVar
	KwVoid
	KwWhile
	KwWith

	kindCount
)

var kindNames = [...]string{
	Invalid:                "Invalid",
	EOF:                    "EOF",
	Ident:                  "Ident",
	PrivateName:            "PrivateName",
	NumberLit:              "NumberLit",
	BigIntLit:              "BigIntLit",
	StringLit:              "StringLit",
	NoSubstTemplate:        "NoSubstTemplate",
	TemplateHead:           "TemplateHead",
	TemplateMiddle:         "TemplateMiddle",
	TemplateTail:           "TemplateTail",
	RegExpLit:              "RegExpLit",
	JSXText:                "JSXText",
	LBrace:                 "{",
	RBrace:                 "}",
	LParen:                 "(",
	RParen:                 ")",
	LBracket:               "[",
	RBracket:               "]",
	Dot:                    ".",
	DotDotDot:              "...",
	Semicolon:              ";",
	Comma:                  ",",
	Lt:                     "<",
	Gt:                     ">",
	LtEq:                   "<=",
	GtEq:                   ">=",
	EqEq:                   "==",
	BangEq:                 "!=",
	EqEqEq:                 "===",
	BangEqEq:               "!==",
	Plus:                   "+",
	Minus:                  "-",
	Star:                   "*",
	StarStar:               "**",
	Slash:                  "/",
	Percent:                "%",
	PlusPlus:               "++",
	MinusMinus:             "--",
	Shl:                    "<<",
	Shr:                    ">>",
	UShr:                   ">>>",
	Amp:                    "&",
	Pipe:                   "|",
	Caret:                  "^",
	Bang:                   "!",
	Tilde:                  "~",
	AndAnd:                 "&&",
	OrOr:                   "||",
	QuestionQuestion:       "??",
	Question:               "?",
	QuestionDot:            "?.",
	Colon:                  ":",
	At:                     "@",
	Arrow:                  "=>",
	Assign:                 "=",
	PlusAssign:             "+=",
	MinusAssign:            "-=",
	StarAssign:             "*=",
	StarStarAssign:         "**=",
	SlashAssign:            "/=",
	PercentAssign:          "%=",
	ShlAssign:              "<<=",
	ShrAssign:              ">>=",
	UShrAssign:             ">>>=",
	AmpAssign:              "&=",
	PipeAssign:             "|=",
	CaretAssign:            "^=",
	AndAndAssign:           "&&=",
	OrOrAssign:             "||=",
	QuestionQuestionAssign: "??=",
	KwBreak:                "break",
	KwCase:                 "case",
	KwCatch:                "catch",
	KwClass:                "class",
	KwConst:                "const",
	KwContinue:             "continue",
	KwDebugger:             "debugger",
	KwDefault:              "default",
	KwDelete:               "delete",
	KwDo:                   "do",
	KwElse:                 "else",
	KwEnum:                 "enum",
	KwExport:               "export",
	KwExtends:              "extends",
	KwFalse:                "false",
	KwFinally:              "finally",
	KwFor:                  "for",
	KwFunction:             "function",
	KwIf:                   "if",
	KwImport:               "import",
	KwIn:                   "in",
	KwInstanceof:           "instanceof",
	KwNew:                  "new",
	KwNull:                 "null",
	KwReturn:               "return",
	KwSuper:                "super",
	KwSwitch:               "switch",
	KwThis:                 "this",
	KwThrow:                "throw",
	KwTrue:                 "true",
	KwTry:                  "try",
	KwTypeof:               "typeof",
	KwVar:                  "var",
	KwVoid:                 "void",
	KwWhile:                "while",
	KwWith:                 "with",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwBreak && k <= KwWith
}

// IsAssign reports whether k is = or a compound assignment operator.
func (k Kind) IsAssign() bool {
	return k >= Assign && k <= QuestionQuestionAssign
}

// IsIdentName reports whether a token of kind k may be used as a property
// name after '.', in object literals and in import/export specifiers.
func (k Kind) IsIdentName() bool {
	return k == Ident || k.IsKeyword()
}

// CompoundBase maps a compound assignment to its binary operator (+= → +).
func (k Kind) CompoundBase() (Kind, bool) {
	switch k {
	case PlusAssign:
		return Plus, true
	case MinusAssign:
		return Minus, true
	case StarAssign:
		return Star, true
	case StarStarAssign:
		return StarStar, true
	case SlashAssign:
		return Slash, true
	case PercentAssign:
		return Percent, true
	case ShlAssign:
		return Shl, true
	case ShrAssign:
		return Shr, true
	case UShrAssign:
		return UShr, true
	case AmpAssign:
		return Amp, true
	case PipeAssign:
		return Pipe, true
	case CaretAssign:
		return Caret, true
	case AndAndAssign:
		return AndAnd, true
	case OrOrAssign:
		return OrOr, true
	case QuestionQuestionAssign:
		return QuestionQuestion, true
	}
	return Invalid, false
}
