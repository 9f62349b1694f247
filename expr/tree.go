package expr

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Tree renders an expression as an ASCII tree for defect reports and
// verbose CLI output.
func Tree(e Expr) string {
	root := treeprint.New()
	addNode(root, e)
	return root.String()
}

func addNode(t treeprint.Tree, e Expr) {
	switch ex := e.(type) {
	case Const:
		t.AddNode(fmt.Sprintf("Const(%d)", ex.Value))
	case Add:
		branch := t.AddBranch("Add")
		addNode(branch, ex.Left)
		addNode(branch, ex.Right)
	case Mul:
		branch := t.AddBranch("Mul")
		addNode(branch, ex.Left)
		addNode(branch, ex.Right)
	case Byte:
		branch := t.AddBranch("Byte")
		addNode(branch, ex.Value)
		addNode(branch, ex.Index)
	}
}
