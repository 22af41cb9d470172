package cfgdot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astcfg/cfgtranslate/ast"
	"github.com/astcfg/cfgtranslate/driver"
)

func TestMarshalContainsNodesAndLabels(t *testing.T) {
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Node{
		&ast.Statement{Code: "x=1"},
	}}}
	g, err := driver.Translate(fn)
	require.NoError(t, err)

	text, err := Marshal(g, "f")
	require.NoError(t, err)
	require.True(t, strings.Contains(text, "digraph"))
	require.True(t, strings.Contains(text, "Statement"))
}
