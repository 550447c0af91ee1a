package tree

import (
	"slices"

	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// SetTag adds key to the solution tag dictionary or updates its value.
// New keys are appended.
func (t *Tree) SetTag(key, value string) error {
	if err := errors.ValidateTag(key, value); err != nil {
		return err
	}
	s := t.solution
	if i := s.tagIndex(key); i >= 0 {
		s.tags[i].Value = value
		return nil
	}
	s.tags = append(s.tags, Tag{Key: key, Value: value})
	return nil
}

// Tag returns the value of key.
func (t *Tree) Tag(key string) (string, bool) {
	i := t.solution.tagIndex(key)
	if i < 0 {
		return "", false
	}
	return t.solution.tags[i].Value, true
}

// DeleteTag removes key and every binding to it.
func (t *Tree) DeleteTag(key string) error {
	s := t.solution
	i := s.tagIndex(key)
	if i < 0 {
		return errors.New(errors.ErrCodeUnknownTag, "unknown tag %q", key)
	}
	s.tags = slices.Delete(s.tags, i, i+1)
	for _, d := range t.Diagrams() {
		for uid, bound := range d.bindings {
			if bound == key {
				delete(d.bindings, uid)
			}
		}
	}
	return nil
}

// BindTag binds the Input or Output element uid of d to the tag key.
// A live diagram must contain the element. An existing binding of uid is
// replaced.
func (t *Tree) BindTag(d *Diagram, uid ids.UID, key string) error {
	if d == nil || !t.contains(d) {
		return errors.New(errors.ErrCodeUnknownNode, "diagram is not in the tree")
	}
	if !uid.Kind.IsIO() {
		return errors.New(errors.ErrCodeWrongKind, "only Input and Output elements take tags, not %s", uid.Kind)
	}
	if t.solution.tagIndex(key) < 0 {
		return errors.New(errors.ErrCodeUnknownTag, "unknown tag %q", key)
	}
	if d.live != nil && !d.live.Has(uid) {
		return errors.New(errors.ErrCodeUnknownElement, "unknown element %s", uid)
	}
	d.bindings[uid] = key
	return nil
}

// UnbindTag removes the tag binding of uid in d, if any.
func (t *Tree) UnbindTag(d *Diagram, uid ids.UID) error {
	if d == nil || !t.contains(d) {
		return errors.New(errors.ErrCodeUnknownNode, "diagram is not in the tree")
	}
	delete(d.bindings, uid)
	return nil
}
