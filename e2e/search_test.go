//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchFiltersPostsByTitle(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.OutputContainsPlain("4 posts", 5*time.Second), "all posts should load")

	require.NoError(t, tf.Search("esse"))

	require.NoError(t, tf.WaitForE(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), "1 posts")
	}, 3*time.Second, "the list should narrow to one post"))
	require.True(t, tf.SeePlain("qui est esse"))
}

func TestSearchWithNoMatches(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.OutputContainsPlain("4 posts", 5*time.Second), "all posts should load")

	require.NoError(t, tf.Search("zzz"))
	require.True(t, tf.OutputContainsPlain(`No posts match "zzz"`, 3*time.Second))
}
