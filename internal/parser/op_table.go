package parser

import (
	"mesozoic/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precNone           = 0
	precNullish        = 1  // ??
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precBitwiseOr      = 4  // |
	precBitwiseXor     = 5  // ^
	precBitwiseAnd     = 6  // &
	precEquality       = 7  // == != === !==
	precRelational     = 8  // < > <= >= instanceof in as satisfies
	precShift          = 9  // << >> >>>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
	precExponent       = 12 // ** (правоассоциативный)
)

// binaryPrec возвращает приоритет и ассоциативность оператора
// Возвращает (приоритет, правоассоциативный)
func (p *Parser) binaryPrec(k token.Kind) (int, bool) {
	if k == token.KwIn && p.noIn {
		return -1, false
	}
	prec := BinaryPrec(k)
	if prec == precNone {
		return -1, false // не бинарный оператор
	}
	return prec, k == token.StarStar
}

// BinaryPrec exposes the operator table to the emitter so that both sides
// agree on when parentheses are needed.
func BinaryPrec(k token.Kind) int {
	switch k {
	case token.QuestionQuestion:
		return precNullish
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwInstanceof, token.KwIn:
		return precRelational
	case token.Shl, token.Shr, token.UShr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	case token.StarStar:
		return precExponent
	}
	return precNone
}
