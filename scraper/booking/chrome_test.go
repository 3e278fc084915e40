package booking

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderControlScriptCSS(t *testing.T) {
	script, err := renderControlScript(SignInDismissControl, false)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(script,
		`})("button[aria-label=\"Dismiss sign-in info.\"]", false, false)`), "script tail: %s", tail(script))
	require.NotContains(t, script, "%!", "format verbs left unfilled")
}

func TestRenderControlScriptXPathClick(t *testing.T) {
	script, err := renderControlScript(CookieRejectControl, true)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(script,
		`})("//button[contains(text(), 'Reject')]", true, true)`), "script tail: %s", tail(script))
	require.NotContains(t, script, "%!", "format verbs left unfilled")
}

func TestControlResultDecodes(t *testing.T) {
	var got controlProbe
	require.NoError(t, json.Unmarshal([]byte(`{"present":true,"visible":true,"enabled":true}`), &got))
	require.True(t, got.Present)
	require.True(t, got.Interactive())

	got = controlProbe{}
	require.NoError(t, json.Unmarshal([]byte(`{"present":true,"visible":true,"enabled":false}`), &got))
	require.True(t, got.Present)
	require.False(t, got.Interactive())
}

func tail(s string) string {
	if i := strings.LastIndex(s, "})("); i >= 0 {
		return s[i:]
	}
	return s
}
