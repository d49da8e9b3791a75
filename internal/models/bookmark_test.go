package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBookmarkFilter_HasCategory(t *testing.T) {
	t.Parallel()

	require.False(t, BookmarkFilter{}.HasCategory())
	require.False(t, BookmarkFilter{Category: CategoryAll}.HasCategory())
	require.True(t, BookmarkFilter{Category: "technology"}.HasCategory())
}
