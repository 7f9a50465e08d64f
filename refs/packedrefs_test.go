package refs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-run/gitmeta/githash"
	"github.com/arborist-run/gitmeta/refs"
)

func TestParsePackedRefs_BasicRecords(t *testing.T) {
	src := "# pack-refs with: peeled fully-peeled sorted\n" +
		"1111111111111111111111111111111111111111 refs/heads/master\n" +
		"^2222222222222222222222222222222222222222\n" +
		"3333333333333333333333333333333333333333 refs/tags/v1\n"

	refsMap, err := refs.ParsePackedRefs(strings.NewReader(src), githash.SHA1)
	require.NoError(t, err)
	assert.Equal(t, "1111111111111111111111111111111111111111", refsMap["refs/heads/master"])
	assert.Equal(t, "3333333333333333333333333333333333333333", refsMap["refs/tags/v1"])
	assert.Len(t, refsMap, 2)
}

func TestParsePackedRefs_MissingHeaderIsFatal(t *testing.T) {
	src := "1111111111111111111111111111111111111111 refs/heads/master\n"
	_, err := refs.ParsePackedRefs(strings.NewReader(src), githash.SHA1)
	require.Error(t, err)
	assert.ErrorIs(t, err, refs.ErrPackedRefsInvalid)
}

func TestParsePackedRefs_EmptyFileIsEmptyMap(t *testing.T) {
	refsMap, err := refs.ParsePackedRefs(strings.NewReader(""), githash.SHA1)
	require.NoError(t, err)
	assert.Empty(t, refsMap)
}

func TestParsePackedRefs_ThirdTokenIgnoresLine(t *testing.T) {
	src := "# pack-refs with: peeled\n" +
		"1111111111111111111111111111111111111111 refs/heads/master extra\n"
	refsMap, err := refs.ParsePackedRefs(strings.NewReader(src), githash.SHA1)
	require.NoError(t, err)
	assert.Empty(t, refsMap)
}

func TestParsePackedRefs_OnlyRefsPrefixedRecorded(t *testing.T) {
	src := "# pack-refs with: peeled\n" +
		"1111111111111111111111111111111111111111 HEAD\n" +
		"2222222222222222222222222222222222222222 refs/heads/master\n"
	refsMap, err := refs.ParsePackedRefs(strings.NewReader(src), githash.SHA1)
	require.NoError(t, err)
	assert.Len(t, refsMap, 1)
	assert.Equal(t, "2222222222222222222222222222222222222222", refsMap["refs/heads/master"])
}

func TestParsePackedRefs_FirstOccurrenceWins(t *testing.T) {
	src := "# pack-refs with: peeled\n" +
		"1111111111111111111111111111111111111111 refs/heads/master\n" +
		"2222222222222222222222222222222222222222 refs/heads/master\n"
	refsMap, err := refs.ParsePackedRefs(strings.NewReader(src), githash.SHA1)
	require.NoError(t, err)
	assert.Equal(t, "1111111111111111111111111111111111111111", refsMap["refs/heads/master"])
}
