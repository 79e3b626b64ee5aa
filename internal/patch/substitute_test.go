package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute(t *testing.T) {
	testCases := []struct {
		name            string
		content         string
		search          string
		replace         string
		expectedContent string
		expectedOutcome Outcome
		expectedCount   int
		expectNotFound  bool
	}{
		{
			name:            "replaces every occurrence",
			content:         "SDL_GL_GetDrawableSize(a); SDL_GL_GetDrawableSize(b);",
			search:          "SDL_GL_GetDrawableSize",
			replace:         "SDL_Vulkan_GetDrawableSize",
			expectedContent: "SDL_Vulkan_GetDrawableSize(a); SDL_Vulkan_GetDrawableSize(b);",
			expectedOutcome: Applied,
			expectedCount:   2,
		},
		{
			name:            "already applied leaves content unchanged",
			content:         "SDL_Vulkan_GetDrawableSize(a);",
			search:          "SDL_GL_GetDrawableSize",
			replace:         "SDL_Vulkan_GetDrawableSize",
			expectedContent: "SDL_Vulkan_GetDrawableSize(a);",
			expectedOutcome: AlreadyApplied,
		},
		{
			name:            "missing search string is reported",
			content:         "SDL_GetWindowSize(a);",
			search:          "SDL_GL_GetDrawableSize",
			replace:         "SDL_Vulkan_GetDrawableSize",
			expectedContent: "SDL_GetWindowSize(a);",
			expectNotFound:  true,
		},
		{
			name:            "replacement containing search is not nested",
			content:         "int w; // uses w",
			search:          "w",
			replace:         "w_px",
			expectedContent: "int w_px; // uses w_px",
			expectedOutcome: Applied,
			expectedCount:   2,
		},
		{
			name:            "replacement containing search applied twice",
			content:         "int w_px; // uses w_px",
			search:          "w",
			replace:         "w_px",
			expectedContent: "int w_px; // uses w_px",
			expectedOutcome: AlreadyApplied,
		},
		{
			name:            "partially applied file gets the remaining occurrence",
			content:         "w_px + w",
			search:          "w",
			replace:         "w_px",
			expectedContent: "w_px + w_px",
			expectedOutcome: Applied,
			expectedCount:   1,
		},
		{
			name:            "search containing replacement",
			content:         "foo_bar()",
			search:          "foo_bar",
			replace:         "foo",
			expectedContent: "foo()",
			expectedOutcome: Applied,
			expectedCount:   1,
		},
		{
			name:            "deletion with empty replacement",
			content:         "a; // debug only\nb;",
			search:          " // debug only",
			replace:         "",
			expectedContent: "a;\nb;",
			expectedOutcome: Applied,
			expectedCount:   1,
		},
		{
			name:            "deletion already done is not detectable",
			content:         "a;\nb;",
			search:          " // debug only",
			replace:         "",
			expectedContent: "a;\nb;",
			expectNotFound:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, outcome, count, err := Substitute(tc.content, tc.search, tc.replace)
			assert.Equal(t, tc.expectedContent, got)
			if tc.expectNotFound {
				require.ErrorIs(t, err, ErrSearchNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedOutcome, outcome)
			assert.Equal(t, tc.expectedCount, count)
		})
	}
}

func TestSubstitute_EmptySearch(t *testing.T) {
	_, _, _, err := Substitute("abc", "", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSearchNotFound)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "already-applied", AlreadyApplied.String())
	assert.Equal(t, "warned", Warned.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
