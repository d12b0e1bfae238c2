// Package aiger reads and writes combinational AIGs in the ASCII AIGER
// ("aag") format. Parsing is done by gini's logic/aiger reader; this
// package checks the header, translates gini's circuit into an aig.Graph
// and maps gini's errors onto its own.
package aiger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-air/gini/logic"
	gaiger "github.com/go-air/gini/logic/aiger"
	"github.com/go-air/gini/z"
	"github.com/vk/burstcut/internal/aig"
)

var (
	ErrBadHeader      = errors.New("bad header")
	ErrLatches        = errors.New("latches are not supported")
	ErrTooLarge       = errors.New("too many variables")
	ErrBadLiteral     = errors.New("malformed literal")
	ErrLitOutOfBounds = errors.New("literal out of bounds")
	ErrSignedDef      = errors.New("definition is negated")
	ErrMultiplyDef    = errors.New("variable multiply defined")
	ErrUndefinedLit   = errors.New("literal not defined")
	ErrCombLoop       = errors.New("combinational logic has a loop")
	ErrPrematureEOF   = errors.New("premature EOF")
)

// MaxVariables bounds the header's M. The reader sizes its tables from M
// before any definition is seen, so an unchecked header could ask for an
// arbitrary amount of memory.
var MaxVariables uint64 = 1 << 22

var giniErrors = map[error]error{
	gaiger.BadHeader:          ErrBadHeader,
	gaiger.BinaryMismatch:     ErrBadHeader,
	gaiger.BadUInt:            ErrBadLiteral,
	gaiger.UnexpectedChar:     ErrBadLiteral,
	gaiger.LitOOB:             ErrLitOutOfBounds,
	gaiger.SignedInput:        ErrSignedDef,
	gaiger.SignedAnd:          ErrSignedDef,
	gaiger.SignedLatch:        ErrSignedDef,
	gaiger.AndMultiplyDefined: ErrMultiplyDef,
	gaiger.UndefinedLit:       ErrUndefinedLit,
	gaiger.CombLoop:           ErrCombLoop,
	gaiger.PrematureEOF:       ErrPrematureEOF,
	io.EOF:                    ErrPrematureEOF,
	io.ErrUnexpectedEOF:       ErrPrematureEOF,
}

func wrap(err error) error {
	if ours, ok := giniErrors[err]; ok {
		return fmt.Errorf("aiger: %w: %w", ours, err)
	}
	return fmt.Errorf("aiger: %w", err)
}

// File is a parsed AIGER file.
type File struct {
	Graph       *aig.Graph
	Inputs      []aig.Signal
	Outputs     []aig.Signal
	InputNames  map[int]string
	OutputNames map[int]string
}

type header struct {
	m, i, l, o, a uint64
}

// parseHeader accepts "aag M I L O A" optionally followed by the AIGER 1.9
// B C J F counts, which must all be zero.
func parseHeader(s string) (header, error) {
	f := strings.Fields(s)
	if len(f) < 6 || len(f) > 10 || f[0] != "aag" {
		return header{}, fmt.Errorf("aiger: %q: %w", s, ErrBadHeader)
	}
	vals := make([]uint64, len(f)-1)
	for i := range vals {
		v, err := strconv.ParseUint(f[i+1], 10, 32)
		if err != nil {
			return header{}, fmt.Errorf("aiger: %q: %w", s, ErrBadHeader)
		}
		vals[i] = v
	}
	h := header{m: vals[0], i: vals[1], l: vals[2], o: vals[3], a: vals[4]}
	for _, v := range vals[5:] {
		if v != 0 {
			return header{}, fmt.Errorf("aiger: %q: properties: %w", s, ErrLatches)
		}
	}
	if h.i+h.l+h.a > h.m {
		return header{}, fmt.Errorf("aiger: M=%d smaller than I+L+A: %w", h.m, ErrBadHeader)
	}
	return h, nil
}

// ReadAscii parses an aag file into a new graph. Definitions may appear in
// any order; they are created in dependency order.
func ReadAscii(in io.Reader) (*File, error) {
	br := bufio.NewReader(in)
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return nil, fmt.Errorf("aiger: reading header: %w", ErrPrematureEOF)
		}
		return nil, fmt.Errorf("aiger: reading header: %w", err)
	}
	h, err := parseHeader(line)
	if err != nil {
		return nil, err
	}
	if h.l != 0 {
		return nil, fmt.Errorf("aiger: %d latches: %w", h.l, ErrLatches)
	}
	if h.m > MaxVariables {
		return nil, fmt.Errorf("aiger: M=%d exceeds %d: %w", h.m, MaxVariables, ErrTooLarge)
	}

	t, err := gaiger.ReadAscii(io.MultiReader(strings.NewReader(line), br))
	if err != nil {
		return nil, wrap(err)
	}
	return translate(t)
}

// translate copies gini's circuit into an aig.Graph. gini numbers its
// variables in topological order with variable 1 as the constant, so one
// pass over the variables sees every fanin before its gate.
func translate(t *gaiger.T) (*File, error) {
	if len(t.Latches) > 0 {
		return nil, fmt.Errorf("aiger: %d latches: %w", len(t.Latches), ErrLatches)
	}
	s := t.S
	g := aig.NewCap(s.Len())
	sigs := make([]aig.Signal, s.Len())
	sigs[s.T.Var()] = aig.False.Xor(s.T.IsPos())

	lit := func(m z.Lit) aig.Signal {
		return sigs[m.Var()].Xor(!m.IsPos())
	}

	f := &File{
		Graph:       g,
		InputNames:  make(map[int]string),
		OutputNames: make(map[int]string),
	}
	for i, m := range t.Inputs {
		sigs[m.Var()] = g.CreatePI()
		f.Inputs = append(f.Inputs, sigs[m.Var()])
		if nm, ok := t.InputName(i); ok {
			f.InputNames[i] = nm
		}
	}
	for i := 1; i < s.Len(); i++ {
		m := s.At(i)
		if s.Type(m) != logic.SAnd {
			continue
		}
		a, b := s.Ins(m)
		sigs[m.Var()] = g.CreateAnd(lit(a), lit(b))
	}
	for i, m := range t.Outputs {
		o := lit(m)
		g.CreatePO(o)
		f.Outputs = append(f.Outputs, o)
		if nm, ok := t.OutputName(i); ok {
			f.OutputNames[i] = nm
		}
	}
	return f, nil
}

// WriteAscii writes g in aag format. Node n becomes AIGER variable n, and
// every gate is written whether or not an output reaches it.
func WriteAscii(w io.Writer, g *aig.Graph) error {
	bw := bufio.NewWriter(w)
	lit := func(s aig.Signal) uint64 {
		l := 2 * uint64(s.Node)
		if s.Complement {
			l++
		}
		return l
	}
	fmt.Fprintf(bw, "aag %d %d 0 %d %d\n", g.Size()-1, g.NumPIs(), g.NumPOs(), g.NumGates())
	for _, n := range g.Inputs() {
		fmt.Fprintf(bw, "%d\n", 2*uint64(n))
	}
	for _, s := range g.Outputs() {
		fmt.Fprintf(bw, "%d\n", lit(s))
	}
	g.ForeachNode(func(n aig.Node) bool {
		if g.IsAnd(n) {
			fmt.Fprintf(bw, "%d %d %d\n", 2*uint64(n), lit(g.Fanin(n, 0)), lit(g.Fanin(n, 1)))
		}
		return true
	})
	return bw.Flush()
}
