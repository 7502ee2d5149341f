package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"mark2cure/models"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gorm.io/gorm"
)

// Graph is an undirected multigraph of named nodes with attributes and keyed
// parallel edges. Nodes and edges are reported in insertion order.
type Graph struct {
	Directed   bool
	Multigraph bool
	Attrs      [][2]any

	g   *multi.UndirectedGraph
	ids map[string]int64
}

type Edge struct {
	Source string
	Target string
	Key    any
	Data   map[string]any
}

type concept struct {
	id    int64
	name  string
	attrs map[string]any
}

func (c *concept) ID() int64 { return c.id }

// keyedLine carries an edge on one of the parallel lines between two nodes.
// The edge keeps the orientation it was added with.
type keyedLine struct {
	from, to graph.Node
	uid      int64
	edge     Edge
}

func (l keyedLine) From() graph.Node { return l.from }
func (l keyedLine) To() graph.Node   { return l.to }
func (l keyedLine) ID() int64        { return l.uid }

func (l keyedLine) ReversedLine() graph.Line {
	l.from, l.to = l.to, l.from
	return l
}

func NewMultiGraph() *Graph {
	return &Graph{Multigraph: true, g: multi.NewUndirectedGraph(), ids: map[string]int64{}}
}

func (g *Graph) concept(n string) *concept {
	if id, ok := g.ids[n]; ok {
		return g.g.Node(id).(*concept)
	}
	c := &concept{id: g.g.NewNode().ID(), name: n, attrs: map[string]any{}}
	g.g.AddNode(c)
	g.ids[n] = c.id
	return c
}

// AddNode adds n or merges attrs into an existing node.
func (g *Graph) AddNode(n string, attrs map[string]any) {
	c := g.concept(n)
	for k, v := range attrs {
		c.attrs[k] = v
	}
}

func (g *Graph) Node(n string) (map[string]any, bool) {
	id, ok := g.ids[n]
	if !ok {
		return nil, false
	}
	return g.g.Node(id).(*concept).attrs, true
}

// AddEdge adds an edge between u and v, adding missing nodes.
func (g *Graph) AddEdge(u, v string, key any, attrs map[string]any) {
	from, to := g.concept(u), g.concept(v)
	if attrs == nil {
		attrs = map[string]any{}
	}
	line := g.g.NewLine(from, to)
	g.g.SetLine(keyedLine{
		from: from,
		to:   to,
		uid:  line.ID(),
		edge: Edge{Source: u, Target: v, Key: key, Data: attrs},
	})
}

func (g *Graph) sortedNodes() []graph.Node {
	nodes := graph.NodesOf(g.g.Nodes())
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return nodes
}

func (g *Graph) Nodes() []string {
	nodes := g.sortedNodes()
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.(*concept).name)
	}
	return out
}

func (g *Graph) Edges() []Edge {
	var lines []keyedLine
	for _, u := range g.sortedNodes() {
		for _, v := range graph.NodesOf(g.g.From(u.ID())) {
			if v.ID() < u.ID() {
				continue
			}
			for _, l := range graph.LinesOf(g.g.Lines(u.ID(), v.ID())) {
				lines = append(lines, l.(keyedLine))
			}
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].uid < lines[j].uid })

	out := make([]Edge, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.edge)
	}
	return out
}

// LinkAttrs names the keys NodeLinkData writes node ids, edge endpoints and
// edge keys under.
type LinkAttrs struct {
	ID     string
	Source string
	Target string
	Key    string
}

var DefaultLinkAttrs = LinkAttrs{ID: "id", Source: "source", Target: "target", Key: "key"}

type NodeLink struct {
	Directed   bool             `json:"directed"`
	Multigraph bool             `json:"multigraph"`
	Graph      [][2]any         `json:"graph"`
	Nodes      []map[string]any `json:"nodes"`
	Edges      []map[string]any `json:"edges"`
}

// NodeLinkData serializes g into node-link form. Edge keys are written under
// "id". The source, target and key names must be distinct; the key name only
// counts for multigraphs.
func NodeLinkData(g *Graph, attrs LinkAttrs) (*NodeLink, error) {
	key := ""
	if g.Multigraph {
		key = attrs.Key
	}
	if attrs.Source == attrs.Target || (g.Multigraph && (key == attrs.Source || key == attrs.Target)) {
		return nil, fmt.Errorf("attribute names are not unique: %w", models.ErrInvalidArgument)
	}

	nodes, edges := g.sortedNodes(), g.Edges()
	out := &NodeLink{
		Directed:   g.Directed,
		Multigraph: g.Multigraph,
		Graph:      g.Attrs,
		Nodes:      make([]map[string]any, 0, len(nodes)),
		Edges:      make([]map[string]any, 0, len(edges)),
	}
	if out.Graph == nil {
		out.Graph = [][2]any{}
	}
	for _, n := range nodes {
		c := n.(*concept)
		node := make(map[string]any, len(c.attrs)+1)
		for k, v := range c.attrs {
			node[k] = v
		}
		node[attrs.ID] = c.name
		out.Nodes = append(out.Nodes, node)
	}
	for _, e := range edges {
		edge := make(map[string]any, len(e.Data)+3)
		for k, v := range e.Data {
			edge[k] = v
		}
		edge[attrs.Source] = e.Source
		edge[attrs.Target] = e.Target
		if g.Multigraph {
			edge["id"] = e.Key
		}
		out.Edges = append(out.Edges, edge)
	}
	return out, nil
}

type conceptRow struct {
	DocumentID uint   `gorm:"column:document_id"`
	Type       string `gorm:"column:type"`
	Text       string `gorm:"column:text"`
}

type Network struct {
	db *gorm.DB
}

func NewNetwork(db *gorm.DB) *Network {
	return &Network{db: db}
}

// Group builds the co-annotation graph of a group. Nodes are the concepts
// users marked in the group's documents, with their type and mention count.
// Every pair of concepts found in the same document is joined by an edge
// keyed by that document's pk.
func (n *Network) Group(ctx context.Context, groupPK uint) (*Graph, error) {
	var group models.Group
	if err := n.db.WithContext(ctx).First(&group, groupPK).Error; err != nil {
		return nil, wrap("load group", err)
	}

	var rows []conceptRow
	err := n.db.WithContext(ctx).Table("annotations").
		Select("sections.document_id AS document_id, annotations.type AS type, annotations.text AS text").
		Joins("JOIN views ON views.id = annotations.view_id").
		Joins("JOIN sections ON sections.id = views.section_id").
		Where("annotations.kind = ? AND sections.document_id IN (?)", models.AnnotationEntity, groupDocuments(ctx, n.db, groupPK)).
		Order("sections.document_id ASC, annotations.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("group concepts", err)
	}

	g := NewMultiGraph()
	g.Attrs = [][2]any{{"group", group.Stub}}

	perDoc := map[uint]map[string]bool{}
	var docs []uint
	for _, r := range rows {
		concept := strings.ToLower(strings.TrimSpace(r.Text))
		if concept == "" {
			continue
		}
		count := 0
		if d, ok := g.Node(concept); ok {
			count, _ = d["count"].(int)
		}
		g.AddNode(concept, map[string]any{"type": r.Type, "count": count + 1})

		if perDoc[r.DocumentID] == nil {
			perDoc[r.DocumentID] = map[string]bool{}
			docs = append(docs, r.DocumentID)
		}
		perDoc[r.DocumentID][concept] = true
	}

	for _, doc := range docs {
		concepts := make([]string, 0, len(perDoc[doc]))
		for c := range perDoc[doc] {
			concepts = append(concepts, c)
		}
		sort.Strings(concepts)
		for i := 0; i < len(concepts); i++ {
			for j := i + 1; j < len(concepts); j++ {
				g.AddEdge(concepts[i], concepts[j], doc, nil)
			}
		}
	}
	return g, nil
}
