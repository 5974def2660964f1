// Package token defines the lexical token vocabulary produced by the Ace
// lexer (an external collaborator per spec.md §1 — only its output shape,
// the token stream, belongs to the core).
package token

import "github.com/ajmd17/ace-lang-sub001/internal/diagnostics"

// Type identifies a lexical token kind.
type Type int

const (
	ILLEGAL Type = iota
	EOF
	NEWLINE

	// Literals
	IDENT
	INT
	FLOAT
	STRING

	// Keywords
	KEYWORD_LET
	KEYWORD_CONST
	KEYWORD_FUNC
	KEYWORD_IF
	KEYWORD_ELSE
	KEYWORD_WHILE
	KEYWORD_RETURN
	KEYWORD_YIELD
	KEYWORD_TRY
	KEYWORD_CATCH
	KEYWORD_THROW
	KEYWORD_TRUE
	KEYWORD_FALSE
	KEYWORD_NULL
	KEYWORD_MODULE
	KEYWORD_IMPORT
	KEYWORD_LOCAL_IMPORT
	KEYWORD_META
	KEYWORD_TYPE
	KEYWORD_NEW
	KEYWORD_HAS

	// Operators / punctuation
	ASSIGN
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	LT
	GT
	LTE
	GTE
	EQ
	NEQ
	AND
	OR
	BITNOT

	COMMA
	SEMICOLON
	COLON
	DOT
	ARROW
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
)

var keywords = map[string]Type{
	"let":          KEYWORD_LET,
	"const":        KEYWORD_CONST,
	"func":         KEYWORD_FUNC,
	"if":           KEYWORD_IF,
	"else":         KEYWORD_ELSE,
	"while":        KEYWORD_WHILE,
	"return":       KEYWORD_RETURN,
	"yield":        KEYWORD_YIELD,
	"try":          KEYWORD_TRY,
	"catch":        KEYWORD_CATCH,
	"throw":        KEYWORD_THROW,
	"true":         KEYWORD_TRUE,
	"false":        KEYWORD_FALSE,
	"null":         KEYWORD_NULL,
	"module":       KEYWORD_MODULE,
	"import":       KEYWORD_IMPORT,
	"local_import": KEYWORD_LOCAL_IMPORT,
	"meta":         KEYWORD_META,
	"type":         KEYWORD_TYPE,
	"new":          KEYWORD_NEW,
	"has":          KEYWORD_HAS,
}

// LookupIdent classifies ident as a keyword type or plain IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Token is a single lexeme with its source location.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string
	Loc     diagnostics.Location
}
