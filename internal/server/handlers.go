package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/logicdiagram/pkg/buildinfo"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/editor"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
	"github.com/matzehuels/logicdiagram/pkg/store"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

// =============================================================================
// Tree
// =============================================================================

// TreeView is the JSON form of the solution tree.
type TreeView struct {
	Name     string        `json:"name"`
	Tags     []tree.Tag    `json:"tags"`
	Projects []ProjectView `json:"projects"`
	Active   string        `json:"active,omitempty"`
}

// ProjectView is one project of a TreeView.
type ProjectView struct {
	UID      string        `json:"uid"`
	Name     string        `json:"name"`
	Diagrams []DiagramView `json:"diagrams"`
}

// DiagramView is one diagram of a ProjectView.
type DiagramView struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func viewOf(t *tree.Tree) TreeView {
	v := TreeView{Name: t.Solution().Name(), Tags: t.Solution().Tags(), Projects: []ProjectView{}}
	if v.Tags == nil {
		v.Tags = []tree.Tag{}
	}
	if d := t.Active(); d != nil {
		v.Active = d.UID().String()
	}
	for _, p := range t.Solution().Projects() {
		pv := ProjectView{UID: p.UID().String(), Name: p.Name(), Diagrams: []DiagramView{}}
		for _, d := range p.Diagrams() {
			pv.Diagrams = append(pv.Diagrams, DiagramView{UID: d.UID().String(), Name: d.Name(), Active: d.IsActive()})
		}
		v.Projects = append(v.Projects, pv)
	}
	return v
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) getSolution(w http.ResponseWriter, _ *http.Request) {
	writeText(w, tree.Serialize(s.editor.Tree()))
}

func (s *Server) getTree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(s.editor.Tree()))
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) addProject(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.editor.Tree().AddProject(req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"uid": p.UID().String(), "name": p.Name()})
}

func (s *Server) addDiagram(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req nameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t := s.editor.Tree()
	projects := t.Solution().Projects()
	if index >= len(projects) {
		s.writeError(w, r, errors.New(errors.ErrCodeUnknownNode, "no project at index %d", index))
		return
	}
	d, err := t.AddDiagram(projects[index], req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"uid": d.UID().String(), "name": d.Name()})
}

type switchRequest struct {
	UID     string `json:"uid,omitempty"`
	Project string `json:"project,omitempty"`
	Diagram string `json:"diagram,omitempty"`
}

func (s *Server) switchDiagram(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t := s.editor.Tree()
	var d *tree.Diagram
	if req.UID != "" {
		uid, err := parseTreeUID(req.UID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		n, err := t.Lookup(uid)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var ok bool
		if d, ok = n.(*tree.Diagram); !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeWrongKind, "%s is not a diagram", req.UID))
			return
		}
	} else {
		var err error
		if d, err = t.Find(req.Project, req.Diagram); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if err := s.editor.Switch(d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(t))
}

// =============================================================================
// Diagram
// =============================================================================

func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	text, err := s.editor.Text()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, text)
}

func (s *Server) putDiagram(w http.ResponseWriter, r *http.Request) {
	text, err := readText(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.editor.Load(text); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.getDiagram(w, r)
}

type elementRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Server) insertElement(w http.ResponseWriter, r *http.Request) {
	var req elementRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kind, ok := ids.ParseKind(req.Kind)
	if !ok || !kind.IsElement() {
		s.writeError(w, r, errors.New(errors.ErrCodeUnknownKind, "unknown element kind %q", req.Kind))
		return
	}
	uid, err := s.editor.InsertElement(kind, req.X, req.Y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"uid": uid.String()})
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) moveElement(w http.ResponseWriter, r *http.Request) {
	uid, err := uidParam(r, "uid")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.editor.Move(uid, req.DX, req.DY); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteElement(w http.ResponseWriter, r *http.Request) {
	uid, err := uidParam(r, "uid")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.editor.Delete(uid); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectConnected(w http.ResponseWriter, r *http.Request) {
	uid, err := uidParam(r, "uid")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reached, err := s.editor.SelectConnected(uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"selected": uidStrings(reached)})
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request) {
	sel, err := s.editor.Selected()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"selected": uidStrings(sel)})
}

type wireRequest struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (s *Server) insertWire(w http.ResponseWriter, r *http.Request) {
	var req wireRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.editor.InsertWire(req.X1, req.Y1, req.X2, req.Y2)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"uid": ids.UID{Kind: ids.Wire, ID: id}.String()})
}

type attachRequest struct {
	Element string `json:"element"`
	Role    string `json:"role"`
}

func (s *Server) attach(w http.ResponseWriter, r *http.Request) {
	wire, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req attachRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	uid, err := codec.ParseUID(req.Element)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.editor.Connect(wire, uid, role); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type detachRequest struct {
	Role string `json:"role"`
}

func (s *Server) detach(w http.ResponseWriter, r *http.Request) {
	wire, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req detachRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prev, err := s.editor.Disconnect(wire, role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := map[string]string{"element": ""}
	if !prev.IsZero() {
		resp["element"] = prev.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteWire(w http.ResponseWriter, r *http.Request) {
	wire, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.editor.DeleteWire(wire); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	applied, err := s.editor.Undo()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"applied": applied})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	applied, err := s.editor.Redo()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"applied": applied})
}

// =============================================================================
// Documents
// =============================================================================

type saveRequest struct {
	ID string `json:"id,omitempty"`
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	body, err := readText(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(body) != "" {
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
			return
		}
	}
	doc := store.NewDocument(s.editor.Tree())
	doc.ID = req.ID
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := doc.Tree(tree.WithDefaults(s.editor.Tree().Defaults()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.editor = editor.New(t, s.editor.Options())
	writeJSON(w, http.StatusOK, viewOf(t))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
