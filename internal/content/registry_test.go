package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Normalize(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		alias string
		want  string
	}{
		{"comment", "postcomment"},
		{"postcomment", "postcomment"},
		{"forumpost", "post"},
		{"post", "post"},
		{"recipe", "recipe"},
		{"question", "question"},
		{"answer", "answer"},
		// Unknown aliases pass through unchanged.
		{"mealplan", "mealplan"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Normalize(tt.alias), "alias %q", tt.alias)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	direct := []string{"post", "recipe", "question"}
	for _, kind := range direct {
		entry, ok := r.Lookup(kind)
		require.True(t, ok, "kind %q", kind)
		assert.False(t, entry.Indirect, "kind %q should be direct", kind)
	}

	indirect := []string{"postcomment", "answer"}
	for _, kind := range indirect {
		entry, ok := r.Lookup(kind)
		require.True(t, ok, "kind %q", kind)
		assert.True(t, entry.Indirect, "kind %q should be indirect", kind)
	}

	_, ok := r.Lookup("mealplan")
	assert.False(t, ok)

	// Lookup is keyed by canonical names only; aliases go through Normalize.
	_, ok = r.Lookup("comment")
	assert.False(t, ok)
}

func TestEntry_RecoverParentID(t *testing.T) {
	r := NewRegistry()

	comment, ok := r.Lookup("postcomment")
	require.True(t, ok)
	answer, ok := r.Lookup("answer")
	require.True(t, ok)
	post, ok := r.Lookup("post")
	require.True(t, ok)

	id, found := comment.RecoverParentID("Comment by alice on Post 7")
	require.True(t, found)
	assert.Equal(t, int64(7), id)

	id, found = answer.RecoverParentID("Answer by bob on Question 123")
	require.True(t, found)
	assert.Equal(t, int64(123), id)

	// A comment preview does not match the answer pattern and vice versa.
	_, found = answer.RecoverParentID("Comment by alice on Post 7")
	assert.False(t, found)

	_, found = comment.RecoverParentID("some free-form preview text")
	assert.False(t, found)

	_, found = comment.RecoverParentID("")
	assert.False(t, found)

	// Direct kinds carry no parent pattern at all.
	_, found = post.RecoverParentID("on Post 7")
	assert.False(t, found)
}
