package command

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	for _, raw := range []string{"1", "7", "10"} {
		_, err := parseRating(raw)
		assert.NoError(t, err, raw)
	}
	for _, raw := range []string{"0", "11", "7abc", "-3", ""} {
		_, err := parseRating(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "book ID")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("0", "book ID")
	assert.ErrorContains(t, err, "invalid book ID")
	_, err = parseID("dune", "book ID")
	assert.Error(t, err)
}

func TestCommentFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("comment", "", "")

	assert.Nil(t, commentFlag(cmd))

	require.NoError(t, cmd.Flags().Set("comment", "   "))
	assert.Nil(t, commentFlag(cmd))

	require.NoError(t, cmd.Flags().Set("comment", "A slow but rewarding read"))
	got := commentFlag(cmd)
	require.NotNil(t, got)
	assert.Equal(t, "A slow but rewarding read", *got)
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"auth", "login"},
		{"books", "trending"},
		{"reviews", "create"},
		{"reviews", "like"},
		{"authors", "follow"},
		{"follow"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
