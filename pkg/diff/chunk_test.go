package diff_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofmtchanged/pkg/diff"
)

func TestBuildChunks(t *testing.T) {
	t.Parallel()

	src := []string{"a", "b", "c", "d"}
	dst := []string{"a", "B", "c", "e", "f"}

	chunks, err := diff.BuildChunks(diff.Opcodes(src, dst), src, dst)
	require.NoError(t, err)
	assert.Equal(t, []diff.Chunk{
		{OriginLine: 1, Original: []string{"a"}, Replacement: []string{"a"}},
		{OriginLine: 2, Original: []string{"b"}, Replacement: []string{"B"}},
		{OriginLine: 3, Original: []string{"c"}, Replacement: []string{"c"}},
		{OriginLine: 4, Original: []string{"d"}, Replacement: []string{"e", "f"}},
	}, chunks)
}

func TestBuildChunksRejectsMismatchedOpcodes(t *testing.T) {
	t.Parallel()

	src := []string{"a", "b"}
	_, err := diff.BuildChunks([]diff.Opcode{eq(0, 1, 0, 1)}, src, src)
	require.ErrorIs(t, err, diff.ErrMalformedDiff)
}

func TestBuildChunksTiling(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(17, 19))
	alphabet := []string{"x", "y", "z", "}", "\t"}
	randomLines := func() []string {
		lines := make([]string, rng.IntN(20))
		for i := range lines {
			lines[i] = alphabet[rng.IntN(len(alphabet))]
		}
		return lines
	}

	for range 100 {
		src, dst := randomLines(), randomLines()
		chunks, err := diff.BuildChunks(diff.Opcodes(src, dst), src, dst)
		require.NoError(t, err)

		next := 1
		var original, replacement []string
		for _, chunk := range chunks {
			assert.Equal(t, next, chunk.OriginLine)
			next += len(chunk.Original)
			original = append(original, chunk.Original...)
			replacement = append(replacement, chunk.Replacement...)
		}
		assert.Equal(t, len(src)+1, next)
		assert.Equal(t, src, nilToEmpty(original))
		assert.Equal(t, dst, nilToEmpty(replacement))

		// Selecting nothing yields the source, selecting everything the destination.
		assert.Equal(t, src, nilToEmpty(slices.Collect(diff.ChooseLines(chunks, nil))))
		all := make([]int, len(src)+1)
		for i := range all {
			all[i] = i + 1
		}
		assert.Equal(t, dst, nilToEmpty(slices.Collect(diff.ChooseLines(chunks, all))))
	}
}

func nilToEmpty(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}

func TestChooseLines(t *testing.T) {
	t.Parallel()

	chunks := []diff.Chunk{
		{OriginLine: 1, Original: []string{"original first line"}, Replacement: []string{"original first line"}},
		{OriginLine: 2, Original: []string{"original second line"}, Replacement: []string{"changed second line"}},
		{OriginLine: 3, Original: []string{"original third line"}, Replacement: []string{"original third line"}},
	}

	tests := []struct {
		name   string
		edited []int
		want   []string
	}{
		{
			name:   "edited line inside the changed chunk",
			edited: []int{2},
			want:   []string{"original first line", "changed second line", "original third line"},
		},
		{
			name:   "edited line before the changed chunk",
			edited: []int{1},
			want:   []string{"original first line", "original second line", "original third line"},
		},
		{
			name:   "edited line after the changed chunk",
			edited: []int{3},
			want:   []string{"original first line", "original second line", "original third line"},
		},
		{
			name: "nothing edited",
			want: []string{"original first line", "original second line", "original third line"},
		},
		{
			name:   "unsorted edited lines",
			edited: []int{3, 2},
			want:   []string{"original first line", "changed second line", "original third line"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, slices.Collect(diff.ChooseLines(chunks, tc.edited)))
		})
	}
}

func TestChooseLinesInsertion(t *testing.T) {
	t.Parallel()

	chunks := []diff.Chunk{
		{OriginLine: 1, Original: []string{"a"}, Replacement: []string{"a"}},
		{OriginLine: 2, Original: nil, Replacement: []string{"inserted"}},
		{OriginLine: 2, Original: []string{"b"}, Replacement: []string{"b"}},
	}

	assert.Equal(t, []string{"a", "inserted", "b"}, slices.Collect(diff.ChooseLines(chunks, []int{2})))
	assert.Equal(t, []string{"a", "b"}, slices.Collect(diff.ChooseLines(chunks, []int{1})))
}

func TestDumpChunks(t *testing.T) {
	t.Parallel()

	chunks := []diff.Chunk{
		{OriginLine: 1, Original: []string{"a"}, Replacement: []string{"a"}},
		{OriginLine: 2, Original: []string{"b"}, Replacement: []string{"B"}},
		{OriginLine: 3, Original: []string{"c"}, Replacement: []string{"C"}},
	}

	dump := diff.DumpChunks(chunks, []int{2})
	assert.Contains(t, dump, "* chunk at line 2 (1 -> 1 lines)")
	assert.Contains(t, dump, "  chunk at line 3 (1 -> 1 lines)")
	assert.Contains(t, dump, "  -b\n  +B\n")
	assert.NotContains(t, dump, "chunk at line 1")
}
