//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenPostAndGoBack(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.OutputContainsPlain("sunt aut facere repellat", 5*time.Second), "posts should load")

	tf.Down()
	tf.Enter()

	require.NoError(t, tf.WaitForE(func(string) bool {
		return tf.SeePlain("Post details")
	}, 3*time.Second, "post detail should open"))
	require.True(t, tf.OutputContainsPlain("qui est esse", 3*time.Second), "second post should be shown")
	require.True(t, tf.OutputContainsPlain("id labore ex et quam laborum", 3*time.Second), "comments should load")
	require.True(t, tf.OutputContainsPlain("Leanne Graham", 3*time.Second), "author name should load")

	tf.SendKeys(KeyAuthor)
	require.True(t, tf.OutputContainsPlain("Author details", 3*time.Second), "author detail should open")
	require.True(t, tf.OutputContainsPlain("Romaguera-Crona", 3*time.Second), "company should be shown")

	tf.Snapshot()
	tf.Back()
	tf.Back()
	require.True(t, tf.OutputContainsPlain("List of Posts", 3*time.Second), "esc should return to the list")
}

func TestAuthorsTab(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.SendKeys("2")
	require.True(t, tf.OutputContainsPlain("Ervin Howell", 5*time.Second), "authors should load")
	require.True(t, tf.SeePlain("2 authors"), "author count should be shown")
}
