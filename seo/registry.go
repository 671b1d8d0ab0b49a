package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
)

// ContentTypeJSONLD is the script type search engines read structured data from.
const ContentTypeJSONLD = "application/ld+json"

// Node is one script element in the document head, tagged with its slot.
type Node struct {
	Slot    string
	Type    string
	Content string
}

// Registry is the document head seen as a set of structured-data nodes keyed
// by slot. At most one node exists per slot at any time.
type Registry struct {
	mu    sync.Mutex
	nodes []*Node
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Upsert serializes payload and stores it in the node for slot, creating and
// appending the node if the slot has none yet. A payload that cannot be
// serialized leaves the registry unchanged.
func (r *Registry) Upsert(slot string, payload any) error {
	content, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize %s payload: %w", slot, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.find(slot)
	if node == nil {
		node = &Node{Slot: slot, Type: ContentTypeJSONLD}
		r.nodes = append(r.nodes, node)
	}
	node.Content = string(content)
	return nil
}

// Remove deletes the node for slot. It reports whether a node was present.
func (r *Registry) Remove(slot string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.nodes {
		if n.Slot == slot {
			r.nodes = append(r.nodes[:i], r.nodes[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Lookup(slot string) (Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := r.find(slot); n != nil {
		return *n, true
	}
	return Node{}, false
}

// Nodes returns a copy of the head nodes in insertion order.
func (r *Registry) Nodes() []Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, *n)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

func (r *Registry) find(slot string) *Node {
	for _, n := range r.nodes {
		if n.Slot == slot {
			return n
		}
	}
	return nil
}

var scriptTemplate = template.Must(template.New("jsonld").Parse(
	`{{range .}}<script type="application/ld+json" id="{{.Slot}}">{{.Content}}</script>
{{end}}`))

type scriptNode struct {
	Slot    string
	Content template.JS
}

// WriteHTML renders every node as a script element. Only JSON-LD nodes are
// ever created, so the type attribute is fixed in the template.
func (r *Registry) WriteHTML(w io.Writer) error {
	return scriptTemplate.Execute(w, r.scriptNodes())
}

// HTML is WriteHTML for use inside page templates.
func (r *Registry) HTML() template.HTML {
	var b strings.Builder
	if err := r.WriteHTML(&b); err != nil {
		return ""
	}
	return template.HTML(b.String())
}

func (r *Registry) scriptNodes() []scriptNode {
	nodes := r.Nodes()
	out := make([]scriptNode, 0, len(nodes))
	for _, n := range nodes {
		// json.Marshal escapes <, > and &, so the content cannot end the element.
		out = append(out, scriptNode{Slot: n.Slot, Content: template.JS(n.Content)})
	}
	return out
}
