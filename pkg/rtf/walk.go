package rtf

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(e Element) error

// Walk performs a pre-order traversal starting at root.
// If walkFunc returns a non-nil error, the walk stops and returns it.
func Walk(root Element, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	group, ok := root.(*Group)
	if !ok {
		return nil
	}

	for _, child := range group.Children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}
