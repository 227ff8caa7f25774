package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := GenerateCode(Alphabet, 0)
	assert.Error(t, err)

	_, err = GenerateCode("", 4)
	assert.Error(t, err)
}

func TestGenerateLengthAndAlphabet(t *testing.T) {
	t.Parallel()

	ref, err := Generate()
	require.NoError(t, err)
	assert.Len(t, ref, Length)

	for i := 0; i < len(ref); i++ {
		assert.NotEqual(t, -1, strings.IndexByte(Alphabet, ref[i]), "invalid character %q", ref[i])
	}
}

func TestGenerateCodeUnevenAlphabet(t *testing.T) {
	t.Parallel()

	// 3 does not divide 256, so the rejection path is exercised
	code, err := GenerateCode("abc", 64)
	require.NoError(t, err)
	assert.Len(t, code, 64)
	assert.Empty(t, strings.Trim(code, "abc"))
}

func TestGenerateUniqueWithinSmallBatch(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref, err := Generate()
		require.NoError(t, err)
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
}
