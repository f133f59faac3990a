package enumscan

// Test Plan for Scan:
// - End-to-end: namespace foo { enum class Bar { X = 1, Y = 2, }; } -> foo.Bar
// - Plain enum (no class keyword) is recognized
// - Nested namespace text "a::b" is rewritten to "a.b"
// - N closed blocks produce N entries
// - Hex and decimal literals produce identical entries
// - Value collision keeps the later member
// - Enum without a preceding namespace is keyed ".Name"
// - Namespace is cleared after each block, so the second enum loses it
// - Unterminated trailing block is dropped without error
// - Value without trailing comma before "};" still closes the block
// - Truncated namespace/enum/assignment returns ErrUnexpectedEOF
// - Invalid literal returns ErrInvalidLiteral and no result
// - Empty input yields an empty result
// - Stats count enums, members and collisions

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_EndToEnd(t *testing.T) {
	t.Parallel()

	result, err := Extract("namespace foo { enum class Bar { X = 1, Y = 2, }; }")
	require.NoError(t, err)

	expected := Result{"foo.Bar": {1: "X", 2: "Y"}}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected Result
	}{
		{
			name:     "plain enum",
			input:    "namespace app { enum Color { Red = 0, Green = 1, }; }",
			expected: Result{"app.Color": {0: "Red", 1: "Green"}},
		},
		{
			name:     "scoped namespace",
			input:    "namespace app::gui::detail { enum class Mode { On = 1, Off = 2, }; }",
			expected: Result{"app.gui.detail.Mode": {1: "On", 2: "Off"}},
		},
		{
			name:     "round trip",
			input:    "namespace n { enum class E { A = 1, B = 2, }; }",
			expected: Result{"n.E": {1: "A", 2: "B"}},
		},
		{
			name:     "hex literal",
			input:    "namespace n { enum class E { A = 0x10, }; }",
			expected: Result{"n.E": {16: "A"}},
		},
		{
			name:     "upper case hex prefix",
			input:    "namespace n { enum class E { A = 0X1f, }; }",
			expected: Result{"n.E": {31: "A"}},
		},
		{
			name:     "full unsigned 64-bit range",
			input:    "namespace n { enum class E : uint64_t { Max = 0xFFFFFFFFFFFFFFFF, High = 9223372036854775808, }; }",
			expected: Result{"n.E": {18446744073709551615: "Max", 9223372036854775808: "High"}},
		},
		{
			name:     "collision keeps later member",
			input:    "namespace n { enum class E { A = 1, B = 1, }; }",
			expected: Result{"n.E": {1: "B"}},
		},
		{
			name:     "missing namespace",
			input:    "enum class Lonely { A = 3, };",
			expected: Result{".Lonely": {3: "A"}},
		},
		{
			name:     "last value without comma",
			input:    "namespace n { enum class E { A = 1, B = 2 }; }",
			expected: Result{"n.E": {1: "A", 2: "B"}},
		},
		{
			name:     "enum with no members",
			input:    "namespace n { enum class Empty { }; }",
			expected: Result{"n.Empty": {}},
		},
		{
			name:     "unterminated block is dropped",
			input:    "namespace n { enum class E { A = 1, B = 2,",
			expected: Result{},
		},
		{
			name:     "empty input",
			input:    "   \n\t ",
			expected: Result{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := Extract(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestExtract_HexAndDecimalAgree(t *testing.T) {
	t.Parallel()

	hex, err := Extract("namespace n { enum class E { A = 0x10, }; }")
	require.NoError(t, err)
	dec, err := Extract("namespace n { enum class E { A = 16, }; }")
	require.NoError(t, err)

	assert.Equal(t, dec, hex)
	assert.Equal(t, ReverseTable{16: "A"}, hex["n.E"])
}

func TestExtract_CountsClosedBlocks(t *testing.T) {
	t.Parallel()

	input := `
namespace game::ui {
    enum class Button { Ok = 0, Cancel = 1, };
}
namespace game::ui {
    enum Layer { Back = 0x0, Front = 0x1, };
}
namespace net {
    enum class Code { Ping = 10, Pong = 11, };
}
`
	result, err := Extract(input)
	require.NoError(t, err)

	assert.Len(t, result, 3)
	assert.Contains(t, result, "game.ui.Button")
	assert.Contains(t, result, "game.ui.Layer")
	assert.Contains(t, result, "net.Code")
}

func TestExtract_NamespaceResetAfterBlock(t *testing.T) {
	t.Parallel()

	// Namespace is not brace scoped: after the first "};" it is cleared, so
	// the second enum in the same namespace body is keyed without it.
	input := "namespace n { enum class A { X = 1, }; enum class B { Y = 2, }; }"

	result, err := Extract(input)
	require.NoError(t, err)

	expected := Result{
		"n.A": {1: "X"},
		".B":  {2: "Y"},
	}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_UnterminatedAfterClosed(t *testing.T) {
	t.Parallel()

	// Current behavior: the trailing open block is dropped silently.
	input := "namespace n { enum class A { X = 1, }; } namespace m { enum class B { Y = 2,"

	result, err := Extract(input)
	require.NoError(t, err)
	assert.Equal(t, Result{"n.A": {1: "X"}}, result)
}

func TestExtract_UnexpectedEOF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "namespace at end", input: "namespace"},
		{name: "enum at end", input: "enum"},
		{name: "enum class at end", input: "enum class"},
		{name: "assignment without value", input: "namespace n { enum class E { A ="},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := Extract(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnexpectedEOF)
			assert.Nil(t, result)
		})
	}
}

func TestExtract_InvalidLiteralIsFatal(t *testing.T) {
	t.Parallel()

	input := "namespace n { enum class A { X = 1, }; enum class B { Y = Foo::Bar, }; }"

	result, err := Extract(input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLiteral)
	assert.Nil(t, result)
}

func TestScanStats(t *testing.T) {
	t.Parallel()

	input := "namespace n { enum class A { X = 1, Y = 1, Z = 2, }; } namespace m { enum B { Q = 7, }; }"

	result, stats, err := ScanStats(Tokenize(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, len(Tokenize(input)), stats.Tokens)
	assert.Equal(t, 2, stats.Enums)
	assert.Equal(t, 4, stats.Members)
	assert.Equal(t, 1, stats.Collisions)
}

func TestScan_DoesNotMutateTokens(t *testing.T) {
	t.Parallel()

	tokens := Tokenize("namespace n { enum class E { A = 1, }; }")
	before := append([]string(nil), tokens...)

	_, err := Scan(tokens)
	require.NoError(t, err)
	assert.Equal(t, before, tokens)
}
