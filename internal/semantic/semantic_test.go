package semantic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	t.Parallel()

	id, err := ParseIdentifier("doc://com.example.Kit/documentation/Kit/foo()#Overview")
	require.NoError(t, err)
	assert.Equal(t, Identifier{BundleID: "com.example.Kit", Path: "/documentation/Kit/foo()", Fragment: "Overview"}, id)
	assert.Equal(t, "doc://com.example.Kit/documentation/Kit/foo()#Overview", id.String())
	assert.Equal(t, "/documentation/kit/foo()#Overview", id.URL())
	assert.Equal(t, "foo()", id.LastPathComponent())
	assert.Empty(t, id.WithoutFragment().Fragment)

	_, err = ParseIdentifier("https://example.com/a")
	assert.Error(t, err)
	_, err = ParseIdentifier("doc:relative")
	assert.Error(t, err)
}

func TestIdentifier_MapKeyJSON(t *testing.T) {
	t.Parallel()

	in := map[Identifier]string{NewIdentifier("b", "documentation/b", ""): "B"}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"doc://b/documentation/b":"B"}`, string(data))

	var out map[Identifier]string
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestURLReadableFragment(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"Overview", "Overview"},
		{"Getting Started", "Getting-Started"},
		{"  Use `init()` now? ", "Use-init()-now"},
		{"a - b", "a-b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, URLReadableFragment(tt.in), tt.in)
	}
}

type kindName struct{}

func (kindName) VisitSymbol(*Symbol) string                   { return "symbol" }
func (kindName) VisitArticle(*Article) string                 { return "article" }
func (kindName) VisitTutorial(*Tutorial) string               { return "tutorial" }
func (kindName) VisitTutorialArticle(*TutorialArticle) string { return "tutorialArticle" }
func (kindName) VisitTechnology(*Technology) string           { return "technology" }
func (kindName) VisitIntro(*Intro) string                     { return "intro" }
func (kindName) VisitStep(*Step) string                       { return "step" }
func (kindName) VisitAssessments(*Assessments) string         { return "assessments" }

func TestWalk_DispatchesEveryKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		node Node
		want string
	}{
		{&Symbol{}, "symbol"},
		{&Article{}, "article"},
		{&Tutorial{}, "tutorial"},
		{&TutorialArticle{}, "tutorialArticle"},
		{&Technology{}, "technology"},
		{&Intro{}, "intro"},
		{&Step{}, "step"},
		{&Assessments{}, "assessments"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Walk[string](tt.node, kindName{}))
	}
}

func TestModel(t *testing.T) {
	t.Parallel()

	m := NewModel()
	a := &Article{ID: NewIdentifier("b", "/documentation/b/a", ""), Title: "A"}
	s := &Symbol{ID: NewIdentifier("b", "/documentation/b/s", "")}
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(s))
	assert.Error(t, m.Add(a))

	m.AddAnchor(a.ID.WithFragment("Usage"), "Usage")
	title, ok := m.Anchor(a.ID.WithFragment("Usage"))
	assert.True(t, ok)
	assert.Equal(t, "Usage", title)
	m.AddAnchor(s.ID.WithFragment("Overview"), "Overview")
	m.AddAnchor(a.ID.WithFragment("Usage"), "How to use")
	assert.Equal(t, []Identifier{a.ID.WithFragment("Usage"), s.ID.WithFragment("Overview")}, m.Anchors())

	_, ok = m.Page(a.ID.WithFragment("Usage"))
	assert.False(t, ok, "a fragment names an anchor, not its page")

	got, ok := m.Page(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, []Identifier{a.ID, s.ID}, m.Identifiers())
	assert.Equal(t, 2, m.Len())
}

func TestSymbolKindNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Instance Method", KindMethod.DisplayName())
	assert.Equal(t, "Instance Methods", KindMethod.GroupTitle())
	assert.Equal(t, "Symbol", SymbolKind("weird").DisplayName())
	assert.True(t, KindModule.IsModule())
}
