package ast

var kindNames = [...]string{
	KindInvalid:           "Invalid",
	KindProgram:           "Program",
	KindExprStmt:          "ExprStmt",
	KindVarDecl:           "VarDecl",
	KindDeclarator:        "Declarator",
	KindFuncDecl:          "FuncDecl",
	KindClassDecl:         "ClassDecl",
	KindBlock:             "Block",
	KindEmpty:             "Empty",
	KindDebugger:          "Debugger",
	KindIf:                "If",
	KindFor:               "For",
	KindForIn:             "ForIn",
	KindForOf:             "ForOf",
	KindWhile:             "While",
	KindDoWhile:           "DoWhile",
	KindReturn:            "Return",
	KindBreak:             "Break",
	KindContinue:          "Continue",
	KindThrow:             "Throw",
	KindTry:               "Try",
	KindCatch:             "Catch",
	KindSwitch:            "Switch",
	KindCase:              "Case",
	KindLabeled:           "Labeled",
	KindWith:              "With",
	KindImport:            "Import",
	KindImportDefault:     "ImportDefault",
	KindImportNamespace:   "ImportNamespace",
	KindImportSpec:        "ImportSpec",
	KindImportEquals:      "ImportEquals",
	KindExternalRef:       "ExternalRef",
	KindExportNamed:       "ExportNamed",
	KindExportSpec:        "ExportSpec",
	KindExportAll:         "ExportAll",
	KindExportDecl:        "ExportDecl",
	KindExportDefault:     "ExportDefault",
	KindExportAssign:      "ExportAssign",
	KindEnum:              "Enum",
	KindEnumMember:        "EnumMember",
	KindNamespace:         "Namespace",
	KindClassBody:         "ClassBody",
	KindMethod:            "Method",
	KindProperty:          "Property",
	KindStaticBlock:       "StaticBlock",
	KindParams:            "Params",
	KindParam:             "Param",
	KindIdent:             "Ident",
	KindPrivateName:       "PrivateName",
	KindLiteral:           "Literal",
	KindTemplate:          "Template",
	KindTemplateElem:      "TemplateElem",
	KindTaggedTemplate:    "TaggedTemplate",
	KindArray:             "Array",
	KindHole:              "Hole",
	KindObject:            "Object",
	KindObjProp:           "ObjProp",
	KindSpread:            "Spread",
	KindFuncExpr:          "FuncExpr",
	KindArrow:             "Arrow",
	KindClassExpr:         "ClassExpr",
	KindUnary:             "Unary",
	KindUpdate:            "Update",
	KindBinary:            "Binary",
	KindAssign:            "Assign",
	KindConditional:       "Conditional",
	KindCall:              "Call",
	KindNew:               "New",
	KindMember:            "Member",
	KindIndex:             "Index",
	KindOptChain:          "OptChain",
	KindSeq:               "Seq",
	KindParen:             "Paren",
	KindAwait:             "Await",
	KindYield:             "Yield",
	KindThis:              "This",
	KindSuper:             "Super",
	KindMetaProp:          "MetaProp",
	KindImportCall:        "ImportCall",
	KindRaw:               "Raw",
	KindArrayPattern:      "ArrayPattern",
	KindObjectPattern:     "ObjectPattern",
	KindAssignPattern:     "AssignPattern",
	KindRestElement:       "RestElement",
	KindJSXElement:        "JSXElement",
	KindJSXFragment:       "JSXFragment",
	KindJSXAttrs:          "JSXAttrs",
	KindJSXChildren:       "JSXChildren",
	KindJSXName:           "JSXName",
	KindJSXMemberName:     "JSXMemberName",
	KindJSXAttr:           "JSXAttr",
	KindJSXSpreadAttr:     "JSXSpreadAttr",
	KindJSXText:           "JSXText",
	KindJSXExprContainer:  "JSXExprContainer",
	KindJSXSpreadChild:    "JSXSpreadChild",
	KindDecorator:         "Decorator",
	KindAs:                "As",
	KindSatisfies:         "Satisfies",
	KindTypeAssert:        "TypeAssert",
	KindNonNull:           "NonNull",
	KindInstantiation:     "Instantiation",
	KindInterface:         "Interface",
	KindTypeAlias:         "TypeAlias",
	KindExportAsNamespace: "ExportAsNamespace",
	KindTypeRef:           "TypeRef",
	KindTypeQualified:     "TypeQualified",
	KindTypeKeyword:       "TypeKeyword",
	KindTypeUnion:         "TypeUnion",
	KindTypeIntersection:  "TypeIntersection",
	KindTypeArray:         "TypeArray",
	KindTypeTuple:         "TypeTuple",
	KindTypeNamedMember:   "TypeNamedMember",
	KindTypeOptional:      "TypeOptional",
	KindTypeRest:          "TypeRest",
	KindTypeFunction:      "TypeFunction",
	KindTypeConstructor:   "TypeConstructor",
	KindTypeLiteral:       "TypeLiteral",
	KindTypeProperty:      "TypeProperty",
	KindTypeMethod:        "TypeMethod",
	KindTypeCallSig:       "TypeCallSig",
	KindTypeConstructSig:  "TypeConstructSig",
	KindTypeIndexSig:      "TypeIndexSig",
	KindTypeLit:           "TypeLit",
	KindTypeTemplate:      "TypeTemplate",
	KindTypeQuery:         "TypeQuery",
	KindTypeOperator:      "TypeOperator",
	KindTypeIndexed:       "TypeIndexed",
	KindTypeConditional:   "TypeConditional",
	KindTypeInfer:         "TypeInfer",
	KindTypeMapped:        "TypeMapped",
	KindTypeParen:         "TypeParen",
	KindTypePredicate:     "TypePredicate",
	KindTypeImport:        "TypeImport",
	KindTypeParams:        "TypeParams",
	KindTypeParam:         "TypeParam",
	KindTypeArgs:          "TypeArgs",
	KindHeritage:          "Heritage",
	KindIndexSignature:    "IndexSignature",
	KindOverload:          "Overload",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
