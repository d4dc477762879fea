package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNode(t *testing.T) {
	n, err := ParseNode("node.local:11898:true")
	require.NoError(t, err)
	require.Equal(t, NodeAddress{Host: "node.local", Port: 11898, SSL: true}, n)
	require.Equal(t, "node.local:11898:true", n.String())

	n, err = ParseNode("127.0.0.1:80")
	require.NoError(t, err)
	require.False(t, n.SSL)

	for _, bad := range []string{"", "host", ":80", "host:x", "host:0", "a:1:b:c"} {
		_, err := ParseNode(bad)
		require.Error(t, err, bad)
	}
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences("h:1:false")
	require.Equal(t, "usd", p.Currency)
	require.True(t, p.NotificationsEnabled)
	require.True(t, p.AutoOptimize)
	require.Equal(t, AuthHardware, p.AuthMethod)
	require.Equal(t, ThemeDark, p.Theme)
	require.Equal(t, "h:1:false", p.Node)
	require.Empty(t, p.Language)
}
