// Package fuzztests houses Go fuzz harnesses for the transpile pipeline
// (source -> lexer -> parser -> fold -> emit). They look for panics, hangs
// and broken structural invariants on arbitrary input.
//
// Назначение: прогонять байты через лексер, парсер и Transpile.
//
// Не делает: генерацию корпусов, запись файлов.
package fuzztests
