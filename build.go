package fdt

import "fmt"

// buildTree drives a tokenDecoder to assemble a Node tree. The stack
// starts with a synthetic sentinel container (never exposed) standing in
// for "nothing open yet": BeginNode pushes a new node, Prop appends to
// the stack top (or fails with ErrPropertyBeforeNode if only the sentinel
// is on the stack), EndNode pops and appends the popped node to the new
// top's children (or fails with ErrUnbalancedTree if only the sentinel is
// on the stack, i.e. there is nothing open to close). End must be reached
// with only the sentinel left on the stack, holding exactly one child --
// the completed root; any other shape is ErrUnbalancedTree.
func buildTree(dec *tokenDecoder) (*Node, error) {
	sentinel := &Node{}
	stack := []*Node{sentinel}

	for {
		tok, err := dec.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenNop:
			continue

		case TokenBeginNode:
			stack = append(stack, &Node{Name: tok.Name})

		case TokenProp:
			if len(stack) <= 1 {
				return nil, fmt.Errorf("fdt: property %q: %w", tok.PropName, ErrPropertyBeforeNode)
			}
			top := stack[len(stack)-1]
			top.Properties = append(top.Properties, Property{
				Name:  tok.PropName,
				Value: classifyProperty(tok.PropValue),
			})

		case TokenEndNode:
			if len(stack) <= 1 {
				return nil, fmt.Errorf("fdt: end-node with no open node: %w", ErrUnbalancedTree)
			}
			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, popped)

		case TokenEnd:
			if len(stack) != 1 || len(sentinel.Children) != 1 {
				return nil, fmt.Errorf("fdt: end token with tree unbalanced: %w", ErrUnbalancedTree)
			}
			return sentinel.Children[0], nil
		}
	}
}
