package enumscan

import (
	"fmt"
	"strings"
)

const (
	keywordNamespace = "namespace"
	keywordEnum      = "enum"
	keywordClass     = "class"
	tokenAssign      = "="
	tokenBlockEnd    = "};"
	scopeSeparator   = "::"
)

// ReverseTable maps an enum value back to the member that declared it.
type ReverseTable map[uint64]string

// Result maps a fully-qualified enum name (ns.with.dots.EnumName) to its reverse table.
type Result map[string]ReverseTable

// Stats summarizes a scan.
type Stats struct {
	Tokens     int // tokens in the input stream
	Enums      int // blocks closed by "};"
	Members    int // assignments recorded across all closed blocks
	Collisions int // members whose value was already taken by an earlier member of the same block
}

// state is the scan record carried between tokens. It is owned by a single
// scan call.
type state struct {
	namespace string
	enumName  string
	members   map[string]uint64
	reverse   ReverseTable
	collided  int
}

func newState() state {
	return state{
		members: make(map[string]uint64),
		reverse: make(ReverseTable),
	}
}

// qualifiedName joins the namespace (with "::" rewritten to ".") and the enum name.
// An empty namespace yields a leading period.
func (s *state) qualifiedName() string {
	return strings.ReplaceAll(s.namespace, scopeSeparator, ".") + "." + s.enumName
}

// Tokenize splits text on runs of whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Extract tokenizes text and scans it.
func Extract(text string) (Result, error) {
	return Scan(Tokenize(text))
}

// ExtractBytes scans raw file contents and reports counts.
func ExtractBytes(data []byte) (Result, Stats, error) {
	return ScanStats(Tokenize(string(data)))
}

// Scan walks the token stream once and returns one reverse table per enum
// block closed by a literal "};" token. Blocks that are never closed are
// dropped. Running out of tokens where one is required, or an unparseable
// value, aborts the scan.
func Scan(tokens []string) (Result, error) {
	result, _, err := ScanStats(tokens)
	return result, err
}

// ScanStats is Scan that also reports counts for diagnostics.
func ScanStats(tokens []string) (Result, Stats, error) {
	result := make(Result)
	stats := Stats{Tokens: len(tokens)}
	st := newState()
	c := NewCursor(tokens)

	for !c.Done() {
		tok, _ := c.Current()

		if tok == keywordNamespace {
			name, err := c.Next()
			if err != nil {
				return nil, stats, fmt.Errorf("namespace name: %w", err)
			}
			st.namespace = name
			tok = name
		}

		if tok == keywordEnum {
			name, err := c.Next()
			if err != nil {
				return nil, stats, fmt.Errorf("enum name: %w", err)
			}
			if name == keywordClass {
				if name, err = c.Next(); err != nil {
					return nil, stats, fmt.Errorf("enum class name: %w", err)
				}
			}
			st.enumName = name
			c.Advance(1)
		}

		if next, ok := c.Peek(1); ok && next == tokenAssign {
			member, _ := c.Current()
			c.Advance(2)
			lit, err := c.expectCurrent()
			if err != nil {
				return nil, stats, fmt.Errorf("value of %s: %w", member, err)
			}
			value, err := ParseLiteral(lit)
			if err != nil {
				return nil, stats, fmt.Errorf("value of %s at token %d: %w", member, c.Pos(), err)
			}
			if _, taken := st.reverse[value]; taken {
				st.collided++
			}
			st.members[member] = value
			st.reverse[value] = member
		}

		if cur, ok := c.Current(); ok && cur == tokenBlockEnd {
			result[st.qualifiedName()] = st.reverse
			stats.Members += len(st.members)
			stats.Collisions += st.collided
			st = newState()
		}

		c.Advance(1)
	}

	stats.Enums = len(result)
	return result, stats, nil
}
