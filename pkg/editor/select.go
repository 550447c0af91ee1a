package editor

import "github.com/matzehuels/logicdiagram/pkg/ids"

// Selection is not part of the diagram text, so none of these methods
// record history.

// SelectConnected adds every element reachable from seed through wires to
// the selection and returns the reached elements.
func (e *Editor) SelectConnected(seed ids.UID) ([]ids.UID, error) {
	_, g, err := e.active()
	if err != nil {
		return nil, err
	}
	if !g.Has(seed) || seed.Kind == ids.Wire {
		return nil, unknownElement(seed)
	}
	return g.SelectConnected(seed), nil
}

// Select sets the selection state of uids.
func (e *Editor) Select(uids []ids.UID, selected bool) error {
	_, g, err := e.active()
	if err != nil {
		return err
	}
	for _, uid := range uids {
		if uid.Kind == ids.Wire || !g.Has(uid) {
			return unknownElement(uid)
		}
	}
	g.SetSelected(uids, selected)
	return nil
}

// SelectAll selects every element.
func (e *Editor) SelectAll() error {
	_, g, err := e.active()
	if err != nil {
		return err
	}
	g.SelectAll()
	return nil
}

// SelectNone clears the selection.
func (e *Editor) SelectNone() error {
	_, g, err := e.active()
	if err != nil {
		return err
	}
	g.SelectNone()
	return nil
}

// Selected returns the selected elements.
func (e *Editor) Selected() ([]ids.UID, error) {
	_, g, err := e.active()
	if err != nil {
		return nil, err
	}
	return g.Selected(), nil
}
