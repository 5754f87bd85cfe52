// Package token splits raw command lines into the word and operator
// sequence the rest of the shell consumes.
package token

import (
	"github.com/anmitsu/go-shlex"
)

// Operator literals recognized by the shell.
const (
	Pipe        = "|"
	RedirectIn  = "<"
	RedirectOut = ">"
)

// Token is one word or operator from a command line. Op is set only when
// the operator character appeared unquoted in the input; a word that
// merely spells an operator after quote removal keeps Op false.
type Token struct {
	Text string
	Op   bool
}

// IsOperator reports whether the token is a live shell operator.
func (t Token) IsOperator() bool {
	return t.Op
}

// Tokens is the ordered word/operator sequence for one input line.
type Tokens []Token

// Len returns the number of tokens.
func (t Tokens) Len() int {
	return len(t)
}

// Get returns the text of the token at index i, or false when i is out
// of range.
func (t Tokens) Get(i int) (string, bool) {
	if i < 0 || i >= len(t) {
		return "", false
	}
	return t[i].Text, true
}

// Strings returns the token texts as a plain slice.
func (t Tokens) Strings() []string {
	out := make([]string, len(t))
	for i, tok := range t {
		out[i] = tok.Text
	}
	return out
}

// Words builds a token sequence of plain words with no operators.
func Words(texts ...string) Tokens {
	toks := make(Tokens, len(texts))
	for i, w := range texts {
		toks[i] = Token{Text: w}
	}
	return toks
}

// Tokenize splits line into words and operators. Word splitting and quote
// removal follow POSIX shlex rules; |, < and > become standalone operator
// tokens whether or not they are surrounded by whitespace, but only when
// they appear outside quotes and unescaped.
func Tokenize(line string) (Tokens, error) {
	var (
		toks    Tokens
		start   int
		quote   rune
		escaped bool
	)

	// Everything between two operator cuts is one shlex word segment.
	flush := func(end int) error {
		words, err := shlex.Split(line[start:end], true)
		if err != nil {
			return err
		}
		for _, w := range words {
			toks = append(toks, Token{Text: w})
		}
		return nil
	}

	for i, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '|' || r == '<' || r == '>':
			if err := flush(i); err != nil {
				return nil, err
			}
			toks = append(toks, Token{Text: string(r), Op: true})
			start = i + 1
		}
	}

	// An unterminated quote reaches here with quote still open; the final
	// segment carries it and shlex reports the error.
	if err := flush(len(line)); err != nil {
		return nil, err
	}
	return toks, nil
}
