// Package shell turns token sequences into executable pipeline specs.
//
// Grammar, informally:
//
//	pipeline := command ( "|" command )*
//	command  := ( WORD | "<" WORD | ">" WORD )+
//
// Only tokens the tokenizer marked as operators participate in the
// grammar; a quoted or escaped "|" is an ordinary word.
//
// Redirection operators bind to the command currently being accumulated;
// a pipe closes it and opens the next one. Operators never nest: two
// adjacent operators are a syntax error and the whole line is rejected
// before any process is launched.
package shell

import (
	"fmt"
	"strings"

	"github.com/laevatin/pipesh/core/token"
)

// Command is one pipeline stage: a program invocation plus optional file
// redirects. Redirect paths are never part of Argv.
type Command struct {
	Argv       []string
	InputPath  string
	OutputPath string
}

// Pipeline is an ordered chain of commands connected by pipes.
type Pipeline []Command

// Parse scans toks left to right and builds the pipeline. A sequence with
// no tokens yields a nil pipeline and no error; the caller launches
// nothing.
func Parse(toks token.Tokens) (Pipeline, error) {
	if toks.Len() == 0 {
		return nil, nil
	}

	var (
		pipeline Pipeline
		cur      Command
	)

	for i := 0; i < toks.Len(); i++ {
		tok := toks[i]
		switch {
		case tok.Op && tok.Text == token.Pipe:
			if len(cur.Argv) == 0 {
				return nil, fmt.Errorf("syntax error: missing command before %q", token.Pipe)
			}
			pipeline = append(pipeline, cur)
			cur = Command{}

		case tok.Op:
			if i+1 >= toks.Len() {
				return nil, fmt.Errorf("syntax error: missing filename after %q", tok.Text)
			}
			name := toks[i+1]
			if name.IsOperator() {
				return nil, fmt.Errorf("syntax error: unexpected %q after %q", name.Text, tok.Text)
			}
			if tok.Text == token.RedirectIn {
				cur.InputPath = name.Text
			} else {
				cur.OutputPath = name.Text
			}
			i++

		default:
			cur.Argv = append(cur.Argv, tok.Text)
		}
	}

	if len(cur.Argv) == 0 {
		if len(pipeline) > 0 {
			return nil, fmt.Errorf("syntax error: missing command after %q", token.Pipe)
		}
		return nil, fmt.Errorf("syntax error: empty command")
	}

	return append(pipeline, cur), nil
}

// String renders the pipeline in canonical form, mainly for diagnostics
// and tests.
func (p Pipeline) String() string {
	stages := make([]string, 0, len(p))
	for _, c := range p {
		stages = append(stages, c.String())
	}
	return strings.Join(stages, " | ")
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(c.Argv, " "))
	if c.InputPath != "" {
		fmt.Fprintf(&b, " < %s", c.InputPath)
	}
	if c.OutputPath != "" {
		fmt.Fprintf(&b, " > %s", c.OutputPath)
	}
	return b.String()
}
