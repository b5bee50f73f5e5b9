package ast

// Kind identifies the shape of a Node. The layout of Node.Kids for each kind
// is given next to the constant; "?" marks an optional slot holding NoNodeID
// when absent.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram // Kids: statements

	// Statements
	KindExprStmt   // [expr]
	KindVarDecl    // Text: var|let|const|using; Kids: declarators
	KindDeclarator // [binding, init?]; Type: annotation
	KindFuncDecl   // [name?, params, body?]; Type: return type; TArgs: type params
	KindClassDecl  // [name?, super?, body]; TArgs: type params; Aux: implements
	KindBlock      // Kids: statements
	KindEmpty
	KindDebugger
	KindIf              // [test, cons, alt?]
	KindFor             // [init?, test?, update?, body]
	KindForIn           // [left, right, body]
	KindForOf           // [left, right, body]; FlagAwait
	KindWhile           // [test, body]
	KindDoWhile         // [body, test]
	KindReturn          // [arg?]
	KindBreak           // [label?]
	KindContinue        // [label?]
	KindThrow           // [arg]
	KindTry             // [block, catch?, finally?]
	KindCatch           // [param?, body]
	KindSwitch          // [discriminant, cases...]
	KindCase            // [test?, stmts...]
	KindLabeled         // [label, body]
	KindWith            // [object, body]
	KindImport          // [source, attrs?, specifiers...]; FlagTypeOnly
	KindImportDefault   // [local]
	KindImportNamespace // [local]
	KindImportSpec      // [imported, local]; FlagTypeOnly
	KindImportEquals    // [name, reference]; reference is ExternalRef or an entity name
	KindExternalRef     // [string] require("x")
	KindExportNamed     // [source?, attrs?, specifiers...]; FlagTypeOnly
	KindExportSpec      // [local, exported]; FlagTypeOnly
	KindExportAll       // [source, attrs?, exported?]; FlagTypeOnly
	KindExportDecl      // [declaration]
	KindExportDefault   // [declaration or expression]
	KindExportAssign    // [expr] export = x
	KindEnum            // [name, members...]; FlagConst, FlagDeclare
	KindEnumMember      // [key, init?]
	KindNamespace       // [name, body?]; body is Block or a nested Namespace; FlagDeclare, FlagGlobal

	// Class members and functions
	KindClassBody   // Kids: members
	KindMethod      // [key, params, body?]; Text: method|get|set|constructor; Type: return; TArgs
	KindProperty    // [key, value?]; Type: annotation
	KindStaticBlock // [block]
	KindParams      // Kids: params
	KindParam       // [binding, default?]; Type: annotation; modifiers in Flags

	// Expressions
	KindIdent          // Text: name; Mark: hygiene mark
	KindPrivateName    // Text: #name
	KindLiteral        // Op: literal token kind; Text: raw source
	KindTemplate       // [quasi, expr, quasi, ..., quasi]
	KindTemplateElem   // Text: raw chars between delimiters
	KindTaggedTemplate // [tag, template]; TArgs
	KindArray          // Kids: elements (Hole, Spread or expr)
	KindHole
	KindObject      // Kids: ObjProp, Method, Spread
	KindObjProp     // [key, value]; FlagComputed, FlagShorthand
	KindSpread      // [expr]
	KindFuncExpr    // same layout as FuncDecl
	KindArrow       // [params, body]; FlagAsync, FlagExprBody; Type: return; TArgs
	KindClassExpr   // same layout as ClassDecl
	KindUnary       // Op; [arg]
	KindUpdate      // Op; [arg]; FlagPrefix
	KindBinary      // Op; [left, right]
	KindAssign      // Op; [target, value]
	KindConditional // [test, cons, alt]
	KindCall        // [callee, args...]; FlagOptional; TArgs
	KindNew         // [callee, args...]; FlagHasArgs; TArgs
	KindMember      // [object, property]; FlagOptional
	KindIndex       // [object, index]; FlagOptional
	KindOptChain    // [chain] top of a chain holding at least one ?.
	KindSeq         // Kids: expressions
	KindParen       // [expr]
	KindAwait       // [arg]
	KindYield       // [arg?]; FlagDelegate
	KindThis
	KindSuper
	KindMetaProp   // Text: new.target | import.meta
	KindImportCall // [source, options?]
	KindRaw        // Text: JavaScript emitted verbatim (defines)

	// Patterns
	KindArrayPattern  // Kids: Hole, RestElement or target
	KindObjectPattern // Kids: ObjProp (value is a target) or RestElement
	KindAssignPattern // [target, default]
	KindRestElement   // [target]

	// JSX
	KindJSXElement       // [name, attrs, children]; TArgs
	KindJSXFragment      // [children]
	KindJSXAttrs         // Kids: JSXAttr, JSXSpreadAttr
	KindJSXChildren      // Kids: JSXText, JSXExprContainer, JSXSpreadChild, JSXElement, JSXFragment
	KindJSXName          // Text: tag name, may contain '-' or ':'
	KindJSXMemberName    // [object, property]
	KindJSXAttr          // [name, value?]
	KindJSXSpreadAttr    // [expr]
	KindJSXText          // Text: raw text
	KindJSXExprContainer // [expr?]
	KindJSXSpreadChild   // [expr]

	// Decorators
	KindDecorator // [expr]

	// TypeScript expression wrappers
	KindAs            // [expr]; Type
	KindSatisfies     // [expr]; Type
	KindTypeAssert    // [expr]; Type  (<T>expr)
	KindNonNull       // [expr]
	KindInstantiation // [expr]; TArgs  (f<T>)

	// Type level. Everything from here on must be gone after erasure.
	kindTypeStart
	KindInterface         // [name, extends?, body]; TArgs
	KindTypeAlias         // [name, type]; TArgs
	KindExportAsNamespace // [name]
	KindTypeRef           // [name]; TArgs; name is Ident or TypeQualified
	KindTypeQualified     // [left, right]
	KindTypeKeyword       // Text: any, number, string, void, ...
	KindTypeUnion         // Kids: members
	KindTypeIntersection  // Kids: members
	KindTypeArray         // [elem]
	KindTypeTuple         // Kids: elements
	KindTypeNamedMember   // [name, type]; FlagOptional, FlagRest
	KindTypeOptional      // [type]
	KindTypeRest          // [type]
	KindTypeFunction      // [params]; Type: return; TArgs; FlagAbstract for constructor types
	KindTypeConstructor   // [params]; Type: return; TArgs
	KindTypeLiteral       // Kids: members
	KindTypeProperty      // [key]; Type; FlagOptional, FlagReadonly, FlagComputed
	KindTypeMethod        // [key, params]; Type: return; TArgs; FlagOptional
	KindTypeCallSig       // [params]; Type: return; TArgs
	KindTypeConstructSig  // [params]; Type: return; TArgs
	KindTypeIndexSig      // [param]; Type; FlagReadonly, FlagStatic
	KindTypeLit           // [literal]
	KindTypeTemplate      // [quasi, type, quasi, ...]
	KindTypeQuery         // [name]; TArgs
	KindTypeOperator      // Text: keyof|unique|readonly; [type]
	KindTypeIndexed       // [object, index]
	KindTypeConditional   // [check, extends, true, false]
	KindTypeInfer         // [param]
	KindTypeMapped        // [param, nameType?, valueType?]; Text: readonly/optional modifiers
	KindTypeParen         // [type]
	KindTypePredicate     // [name, type?]; FlagAsserts
	KindTypeImport        // [source, qualifier?]; TArgs
	KindTypeParams        // Kids: TypeParam
	KindTypeParam         // [name, constraint?, default?]; Text: modifiers
	KindTypeArgs          // Kids: types
	KindHeritage          // Kids: expressions with TArgs (implements / interface extends)
	KindIndexSignature    // class member [param]; Type
	KindOverload          // function or method signature without body

	kindCount
)

// IsType reports whether nodes of this kind belong to the type level.
func (k Kind) IsType() bool {
	return k > kindTypeStart && k < kindCount
}

// IsFunction reports whether the kind introduces a function scope.
func (k Kind) IsFunction() bool {
	switch k {
	case KindFuncDecl, KindFuncExpr, KindArrow, KindMethod:
		return true
	}
	return false
}

// IsTSWrapper reports whether the kind wraps an expression only to attach type
// information (as, satisfies, <T>x, x!, f<T>).
func (k Kind) IsTSWrapper() bool {
	switch k {
	case KindAs, KindSatisfies, KindTypeAssert, KindNonNull, KindInstantiation:
		return true
	}
	return false
}
