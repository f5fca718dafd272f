package fancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlanticdynamic/scriptsvc/internal/fancy"
)

func TestTree(t *testing.T) {
	tree := fancy.Tree()
	assert.NotNil(t, tree)

	tree.Root("Root Node")
	child := tree.Child("Child Node")
	child.Child("Grandchild")

	treeString := tree.String()
	assert.Contains(t, treeString, "Root Node")
	assert.Contains(t, treeString, "Child Node")
	assert.Contains(t, treeString, "Grandchild")
}

func TestBranchNode(t *testing.T) {
	branchNode := fancy.BranchNode("Results", "(2)")
	assert.NotNil(t, branchNode)

	treeString := branchNode.String()
	assert.Contains(t, treeString, "Results")
	assert.Contains(t, treeString, "(2)")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		max    int
		expect string
	}{
		{"shorter than max", "short", 20, "short"},
		{"exactly max", "exactly-ten", 11, "exactly-ten"},
		{"longer than max", "this string is too long", 10, "this st..."},
		{"tiny max", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, fancy.TruncateString(tt.input, tt.max))
		})
	}
}
