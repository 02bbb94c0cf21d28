package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(src string) []Token {
	l := New("test", src)
	var toks []Token
	for tok := range l.Tokens {
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect("dec x = 3")
	require.Len(t, toks, 5) // dec x = 3 EOF
	assert.Equal(t, KwDec, toks[0].Type)
	assert.Equal(t, Identifier, toks[1].Type)
	assert.Equal(t, Assign, toks[2].Type)
	assert.Equal(t, Number, toks[3].Type)
}

func TestNumberAndHex(t *testing.T) {
	toks := collect("3.14 0xAB 0x0")
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, Number, toks[0].Type)
	assert.Equal(t, "3.14", toks[0].Text)
	assert.Equal(t, HexLiteral, toks[1].Type)
	assert.Equal(t, "0xAB", toks[1].Text)
	assert.Equal(t, HexLiteral, toks[2].Type)
}

func TestStringLiterals(t *testing.T) {
	toks := collect(`"hello" 'world'`)
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, StringLiteral, toks[0].Type)
	assert.Equal(t, `"hello"`, toks[0].Text)
	assert.Equal(t, StringLiteral, toks[1].Type)
	assert.Equal(t, `'world'`, toks[1].Text)
}

func TestCommentsAdvanceLine(t *testing.T) {
	toks := collect("dec x = 1 # a\nmultiline\ncomment # dec y = 2")
	var lines []int
	for _, tok := range toks {
		lines = append(lines, tok.Line)
	}
	// "dec y" after the comment should be on line 3 (two newlines consumed
	// inside the comment).
	foundY := false
	for _, tok := range toks {
		if tok.Type == Identifier && tok.Text == "y" {
			assert.Equal(t, 3, tok.Line)
			foundY = true
		}
	}
	assert.True(t, foundY)
}

func TestOperatorsAndPunctuation(t *testing.T) {
	toks := collect("== != <= >= < > [ ] . , ^")
	types := []Type{Eq, Neq, Le, Ge, Lt, Gt, LBracket, RBracket, Dot, Comma, Caret, EOF}
	require.Len(t, toks, len(types))
	for i, want := range types {
		assert.Equal(t, want, toks[i].Type, "token %d", i)
	}
}

func TestUnterminatedStringIsUnknown(t *testing.T) {
	toks := collect(`"unterminated`)
	require.NotEmpty(t, toks)
	assert.Equal(t, Unknown, toks[0].Type)
}
