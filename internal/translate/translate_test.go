package translate

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftlang/swift-docc-sub005/internal/assets"
	"github.com/swiftlang/swift-docc-sub005/internal/ledger"
	"github.com/swiftlang/swift-docc-sub005/internal/metrics"
	"github.com/swiftlang/swift-docc-sub005/internal/precompute"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
	"github.com/swiftlang/swift-docc-sub005/internal/topicgraph"
	"github.com/swiftlang/swift-docc-sub005/internal/variant"
)

var (
	swift = variant.Language("swift")
	objc  = variant.Language("occ")
)

func id(path string) semantic.Identifier {
	return semantic.NewIdentifier("com.example", "/documentation/"+path, "")
}

func tutorialID(path string) semantic.Identifier {
	return semantic.NewIdentifier("com.example", "/tutorials/"+path, "")
}

type mapResolver map[string]semantic.Identifier

func (m mapResolver) Resolve(link string, _ semantic.Identifier) (semantic.Identifier, error) {
	if id, ok := m[link]; ok {
		return id, nil
	}
	return semantic.Identifier{}, &semantic.UnresolvedError{Link: link}
}

type externalMap map[semantic.Identifier]struct {
	ref  render.Reference
	deps ledger.Dependencies
}

func (m externalMap) Lookup(id semantic.Identifier) (render.Reference, ledger.Dependencies, bool) {
	e, ok := m[id]
	return e.ref, e.deps, ok
}

// memStore serves assets from memory. Assets without data fail to read.
type memStore struct {
	names map[string]bool
	data  map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{names: make(map[string]bool), data: make(map[string][]byte)}
}

func (s *memStore) add(name string, data []byte) {
	s.names[name] = true
	if data != nil {
		s.data[name] = data
	}
}

func (s *memStore) Resolve(name string, _ semantic.Identifier) (assets.Asset, bool) {
	if !s.names[name] {
		return assets.Asset{}, false
	}
	kind := assets.Classify(name)
	return assets.Asset{
		Name:     name,
		Kind:     kind,
		Variants: []assets.Variant{{Path: name, URL: "/assets/" + name, Traits: []string{"1x", "light"}}},
	}, true
}

func (s *memStore) Read(a assets.Asset) ([]byte, error) {
	data, ok := s.data[a.Name]
	if !ok {
		return nil, fmt.Errorf("reading %s: permission denied", a.Name)
	}
	return data, nil
}

type countingRecorder struct {
	metrics.NoopRecorder

	mu       sync.Mutex
	degraded map[string]int
	lookups  map[metrics.Source]int
	pages    int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{degraded: make(map[string]int), lookups: make(map[metrics.Source]int)}
}

func (r *countingRecorder) IncDegraded(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded[reason]++
}

func (r *countingRecorder) IncReferenceLookup(source metrics.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[source]++
}

func (r *countingRecorder) IncPage(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages++
}

type fixture struct {
	model    *semantic.Model
	graph    *topicgraph.Graph
	resolver mapResolver
	assets   *memStore
	external externalMap
	recorder *countingRecorder
}

func newFixture() *fixture {
	return &fixture{
		model:    semantic.NewModel(),
		graph:    topicgraph.New(),
		resolver: make(mapResolver),
		assets:   newMemStore(),
		external: make(externalMap),
		recorder: newCountingRecorder(),
	}
}

// symbol adds a Swift symbol page, a graph node for it and a doc: link
// named after its title.
func (f *fixture) symbol(t *testing.T, path, title string, kind semantic.SymbolKind) *semantic.Symbol {
	t.Helper()
	s := &semantic.Symbol{
		ID:        id(path),
		Languages: []string{"swift"},
		Kind:      variant.New(swift, kind),
		Title:     variant.New(swift, title),
	}
	require.NoError(t, f.model.Add(s))
	f.graph.Add(topicgraph.Node{ID: s.ID, Title: title, Kind: string(kind), Languages: s.Languages})
	f.resolver["doc:"+title] = s.ID
	return s
}

func (f *fixture) page(t *testing.T, p semantic.Page) {
	t.Helper()
	require.NoError(t, f.model.Add(p))
}

func (f *fixture) env() *Environment {
	return NewEnvironment(Environment{
		Model:    f.model,
		Graph:    f.graph,
		Resolver: f.resolver,
		Assets:   f.assets,
		External: f.external,
		Recorder: f.recorder,
	})
}

func (f *fixture) translate(t *testing.T, id semantic.Identifier) *render.Node {
	t.Helper()
	env := f.env()
	p, ok := env.Model.Page(id)
	require.True(t, ok, "no page %s", id)
	node, err := New(env, id).Translate(p)
	require.NoError(t, err)
	return node
}

func referenceKeys(n *render.Node) []string {
	keys := make([]string, 0, len(n.References))
	for k := range n.References {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// overview returns the blocks of the page's Overview or Discussion section
// without its heading.
func overview(t *testing.T, n *render.Node) []render.Block {
	t.Helper()
	sections := n.PrimaryContentSections.Default()
	require.NotEmpty(t, sections)
	content, ok := sections[len(sections)-1].(render.ContentSection)
	require.True(t, ok, "got %T", sections[len(sections)-1])
	require.NotEmpty(t, content.Content)
	return content.Content[1:]
}

func TestTranslate_SimpleSymbolPage(t *testing.T) {
	t.Parallel()

	f := newFixture()
	foo := f.symbol(t, "Kit/foo()", "foo()", semantic.KindFunc)
	a := f.symbol(t, "Kit/foo()/a", "a", semantic.KindProperty)
	b := f.symbol(t, "Kit/foo()/b", "b", semantic.KindMethod)
	f.graph.AddEdge(foo.ID, a.ID)
	f.graph.AddEdge(foo.ID, b.ID)
	foo.Topics = []semantic.TaskGroup{{Title: "Members", Links: []string{"doc:a", "doc:b"}}}

	node := f.translate(t, foo.ID)

	assert.Equal(t, render.KindSymbol, node.Kind)
	assert.Equal(t, "foo()", node.Metadata.Title.Default())
	assert.Equal(t, "Function", node.Metadata.RoleHeading.Default())
	assert.Empty(t, node.Metadata.Platforms)

	topics := node.TopicSections.Default()
	require.Len(t, topics, 1)
	assert.Equal(t, "Members", topics[0].Title)
	assert.Equal(t, []string{a.ID.String(), b.ID.String()}, topics[0].Identifiers)
	assert.False(t, topics[0].Generated)

	assert.Equal(t, []string{a.ID.String(), b.ID.String()}, referenceKeys(node))
	for _, ref := range node.References {
		topic, ok := ref.(render.TopicReference)
		require.True(t, ok)
		assert.False(t, topic.IsBeta)
	}
	assert.Empty(t, node.MissingReferences())
}

func TestTranslate_ExternalDependenciesSpliced(t *testing.T) {
	t.Parallel()

	f := newFixture()
	other := semantic.NewIdentifier("org.other", "/documentation/Other", "")
	f.resolver["doc:Other"] = other
	f.external[other] = struct {
		ref  render.Reference
		deps ledger.Dependencies
	}{
		ref: render.TopicReference{Identifier: other.String(), Title: variant.Value("Other"), URL: "/documentation/other", Kind: render.KindSymbol},
		deps: ledger.Dependencies{Links: []render.LinkReference{
			{Identifier: "https://one.example", Title: "One", URL: "https://one.example"},
			{Identifier: "https://two.example", Title: "Two", URL: "https://two.example"},
		}},
	}
	page := &semantic.Article{ID: id("Kit/Links"), Title: "Links", Discussion: "See <doc:Other>."}
	f.page(t, page)

	node := f.translate(t, page.ID)

	assert.Equal(t, []string{other.String(), "https://one.example", "https://two.example"}, referenceKeys(node))
	link, ok := node.References["https://two.example"].(render.LinkReference)
	require.True(t, ok)
	assert.Equal(t, "Two", link.Title)
}

func TestTranslate_DuplicateExternalLinkKeepsOneRecord(t *testing.T) {
	t.Parallel()

	f := newFixture()
	page := &semantic.Article{
		ID:         id("Kit/Links"),
		Title:      "Links",
		Discussion: "Read [the docs](https://example.com) or [the site](https://example.com).",
	}
	f.page(t, page)

	node := f.translate(t, page.ID)

	var links []render.LinkReference
	for _, ref := range node.References {
		if l, ok := ref.(render.LinkReference); ok {
			links = append(links, l)
		}
	}
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", links[0].Identifier)
	assert.Equal(t, "the docs", links[0].Title)

	para, ok := overview(t, node)[0].(render.Paragraph)
	require.True(t, ok)
	var refs []render.Inline
	for _, in := range para.InlineContent {
		if in.Type == render.InlineReference {
			refs = append(refs, in)
		}
	}
	require.Len(t, refs, 2)
	assert.Equal(t, "https://example.com", refs[0].Identifier)
	assert.Empty(t, refs[0].OverridingTitle)
	assert.Equal(t, "https://example.com", refs[1].Identifier)
	assert.Equal(t, "the site", refs[1].OverridingTitle)
}

func TestTranslate_MissingAssetOmitted(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.assets.add("present.png", nil)
	page := &semantic.Article{
		ID:         id("Kit/Figures"),
		Title:      "Figures",
		Discussion: "Before ![Missing](missing.png) after.\n\n![Present](present.png)",
	}
	f.page(t, page)

	node := f.translate(t, page.ID)

	assert.Equal(t, []string{"present.png"}, referenceKeys(node))
	blocks := overview(t, node)
	require.Len(t, blocks, 2)
	first, ok := blocks[0].(render.Paragraph)
	require.True(t, ok)
	for _, in := range first.InlineContent {
		assert.NotEqual(t, render.InlineImage, in.Type)
	}
	assert.Contains(t, render.PlainText(first.InlineContent), "after.")
	img, ok := node.References["present.png"].(render.ImageReference)
	require.True(t, ok)
	assert.Equal(t, "Present", img.Alt)
}

func TestTranslate_AutomaticCurationMergesAndDropsEmptyGroups(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	open := f.symbol(t, "Kit/Box/open()", "open()", semantic.KindMethod)
	closeFn := f.symbol(t, "Kit/Box/close()", "close()", semantic.KindMethod)
	size := f.symbol(t, "Kit/Box/size", "size", semantic.KindProperty)
	factory := f.symbol(t, "Kit/Box/make()", "make()", semantic.KindTypeMethod)
	for _, c := range []*semantic.Symbol{open, closeFn, size, factory} {
		f.graph.AddEdge(box.ID, c.ID)
	}
	box.Topics = []semantic.TaskGroup{
		{Title: "Instance Methods", Links: []string{"doc:open()"}},
		{Title: "Broken", Links: []string{"doc:Nowhere"}},
	}
	f.page(t, &semantic.Article{
		ID:     id("Kit/Guide"),
		Title:  "Guide",
		Topics: []semantic.TaskGroup{{Title: "Factories", Links: []string{"doc:make()"}}},
	})

	node := f.translate(t, box.ID)

	topics := node.TopicSections.Default()
	require.Len(t, topics, 2)
	assert.Equal(t, "Instance Methods", topics[0].Title)
	assert.Equal(t, []string{open.ID.String(), closeFn.ID.String()}, topics[0].Identifiers)
	assert.False(t, topics[0].Generated)
	assert.Equal(t, "Instance Properties", topics[1].Title)
	assert.Equal(t, []string{size.ID.String()}, topics[1].Identifiers)
	assert.True(t, topics[1].Generated)

	assert.NotContains(t, node.References, factory.ID.String())
	assert.Equal(t, 1, f.recorder.degraded["unresolved_link"])
	assert.Empty(t, node.MissingReferences())
}

func TestTranslate_AutomaticCurationIsStable(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	for i := range 6 {
		kind := semantic.KindMethod
		if i%2 == 0 {
			kind = semantic.KindProperty
		}
		c := f.symbol(t, fmt.Sprintf("Kit/Box/m%d", i), fmt.Sprintf("m%d", i), kind)
		f.graph.AddEdge(box.ID, c.ID)
	}

	first := f.translate(t, box.ID).TopicSections.Default()
	second := f.translate(t, box.ID).TopicSections.Default()
	assert.Equal(t, first, second)
}

func TestTranslate_ArticleCurationAndRoleHeading(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)

	collection := &semantic.Article{
		ID:     id("Kit/Collection"),
		Title:  "Collection",
		Topics: []semantic.TaskGroup{{Title: "Types", Links: []string{"doc:Box"}}},
	}
	guide := &semantic.Article{ID: id("Kit/Guide"), Discussion: "# Getting Started\n\nLearn the basics."}
	intro := &semantic.Article{ID: id("Kit/Intro"), Title: "Intro"}
	explicit := &semantic.Article{
		ID:       id("Kit/Explicit"),
		Title:    "Explicit",
		PageKind: semantic.PageKindArticle,
		Topics:   collection.Topics,
	}
	for _, a := range []*semantic.Article{collection, guide, intro, explicit} {
		f.page(t, a)
	}
	f.graph.Add(topicgraph.Node{ID: guide.ID, Title: "Getting Started", Kind: topicgraph.KindArticle})
	f.graph.Add(topicgraph.Node{ID: intro.ID, Title: "Intro", Kind: topicgraph.KindArticle})
	f.graph.Add(topicgraph.Node{ID: collection.ID, Title: "Collection", Kind: topicgraph.KindArticle})
	f.graph.AddEdge(guide.ID, intro.ID)
	f.graph.AddEdge(collection.ID, intro.ID)

	node := f.translate(t, collection.ID)
	assert.Equal(t, "API Collection", node.Metadata.RoleHeading.Default())
	assert.Equal(t, render.RoleCollectionGroup, node.Metadata.Role)
	topics := node.TopicSections.Default()
	require.Len(t, topics, 1)
	assert.Equal(t, []string{box.ID.String()}, topics[0].Identifiers)

	node = f.translate(t, guide.ID)
	assert.Equal(t, "Article", node.Metadata.RoleHeading.Default())
	assert.Equal(t, "Getting Started", node.Metadata.Title.Default())
	topics = node.TopicSections.Default()
	require.Len(t, topics, 1)
	assert.Equal(t, "Articles", topics[0].Title)
	assert.Equal(t, []string{intro.ID.String()}, topics[0].Identifiers)
	assert.True(t, topics[0].Generated)
	for _, b := range overview(t, node) {
		if h, ok := b.(render.Heading); ok {
			assert.NotEqual(t, 1, h.Level, "leading title heading kept")
		}
	}

	node = f.translate(t, explicit.ID)
	assert.Equal(t, "Article", node.Metadata.RoleHeading.Default())
	assert.Equal(t, render.RoleArticle, node.Metadata.Role)
}

func TestTranslate_SeeAlsoFromSiblings(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	open := f.symbol(t, "Kit/Box/open()", "open()", semantic.KindMethod)
	closeFn := f.symbol(t, "Kit/Box/close()", "close()", semantic.KindMethod)
	f.graph.AddEdge(box.ID, open.ID)
	f.graph.AddEdge(box.ID, closeFn.ID)

	node := f.translate(t, open.ID)

	seeAlso := node.SeeAlsoSections.Default()
	require.Len(t, seeAlso, 1)
	assert.Equal(t, "Instance Methods", seeAlso[0].Title)
	assert.Equal(t, []string{closeFn.ID.String()}, seeAlso[0].Identifiers)
	assert.True(t, seeAlso[0].Generated)
	assert.Equal(t, render.Hierarchy{Paths: [][]string{{box.ID.String()}}}, node.Hierarchy)
	assert.Contains(t, node.References, box.ID.String())
}

func TestTranslate_VariantFiltering(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	box.Languages = []string{"swift", "occ"}
	box.Title.Set(objc, "KTBox")
	swiftOnly := f.symbol(t, "Kit/Box/swiftOnly", "swiftOnly", semantic.KindMethod)
	both := f.symbol(t, "Kit/Box/both", "both", semantic.KindMethod)
	both.Languages = []string{"swift", "occ"}
	box.Topics = []semantic.TaskGroup{{Title: "Members", Links: []string{"doc:swiftOnly", "doc:both"}}}

	node := f.translate(t, box.ID)

	assert.Equal(t, []string{swiftOnly.ID.String(), both.ID.String()}, node.TopicSections.Get(swift)[0].Identifiers)
	require.True(t, node.TopicSections.HasOverride(objc))
	assert.Equal(t, []string{both.ID.String()}, node.TopicSections.Get(objc)[0].Identifiers)
	assert.Equal(t, "KTBox", node.Metadata.Title.Get(objc))
	require.Len(t, node.Variants, 2)
	assert.Equal(t, []variant.Trait{objc}, node.Variants[1].Traits)
	assert.Contains(t, node.References, swiftOnly.ID.String())
}

func TestTranslate_SingleLanguagePageKeepsEveryTopic(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	objcOnly := f.symbol(t, "Kit/Box/objcOnly", "objcOnly", semantic.KindMethod)
	objcOnly.Languages = []string{"occ"}
	box.Topics = []semantic.TaskGroup{{Title: "Members", Links: []string{"doc:objcOnly"}}}

	node := f.translate(t, box.ID)

	assert.Equal(t, []string{objcOnly.ID.String()}, node.TopicSections.Default()[0].Identifiers)
	assert.Nil(t, node.Variants)
}

func TestTranslate_RelationshipsAndUnresolved(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	container := f.symbol(t, "Kit/Container", "Container", semantic.KindProtocol)
	box.Relationships = variant.New(swift, []semantic.RelationshipGroup{{
		Kind: semantic.ConformsTo,
		Targets: []semantic.RelationshipTarget{
			{Identifier: container.ID, Constraints: []semantic.Constraint{{Kind: semantic.ConformanceConstraint, LHS: "Element", RHS: "Equatable"}}},
			{Unresolved: &semantic.Unresolved{Topic: "doc://org.swift/Hashable", Title: "Hashable"}},
			{Unresolved: &semantic.Unresolved{}},
		},
	}})

	node := f.translate(t, box.ID)

	groups := node.RelationshipSections.Default()
	require.Len(t, groups, 1)
	assert.Equal(t, []string{container.ID.String(), "doc://org.swift/Hashable"}, groups[0].Identifiers)

	unresolved, ok := node.References["doc://org.swift/Hashable"].(render.UnresolvedReference)
	require.True(t, ok)
	assert.Equal(t, "Hashable", unresolved.Title)

	topic, ok := node.References[container.ID.String()].(render.TopicReference)
	require.True(t, ok)
	assert.NotNil(t, topic.Conformance)
}

func TestTranslate_TopicDependenciesFollowedOneLevel(t *testing.T) {
	t.Parallel()

	f := newFixture()
	a := f.symbol(t, "Kit/A", "A", semantic.KindStruct)
	b := f.symbol(t, "Kit/B", "B", semantic.KindStruct)
	c := f.symbol(t, "Kit/C", "C", semantic.KindStruct)
	d := f.symbol(t, "Kit/D", "D", semantic.KindStruct)
	a.Discussion = variant.New(swift, semantic.Markup("Uses <doc:B>."))
	b.Abstract = variant.New(swift, semantic.Markup("Wraps <doc:C>. See [docs](https://b.example)."))
	c.Abstract = variant.New(swift, semantic.Markup("Holds <doc:D>."))

	node := f.translate(t, a.ID)

	assert.Contains(t, node.References, b.ID.String())
	assert.Contains(t, node.References, c.ID.String())
	assert.Contains(t, node.References, "https://b.example")
	assert.NotContains(t, node.References, d.ID.String())
}

func TestTranslate_SampleCodeDownload(t *testing.T) {
	t.Parallel()

	f := newFixture()
	data := []byte("zip bytes")
	f.assets.add("sample.zip", data)
	page := &semantic.Article{
		ID:           id("Kit/Sample"),
		Title:        "Sample",
		PageKind:     semantic.PageKindSampleCode,
		CallToAction: "sample.zip",
	}
	f.page(t, page)

	node := f.translate(t, page.ID)

	assert.Equal(t, "Sample Code", node.Metadata.RoleHeading.Default())
	require.NotNil(t, node.SampleCodeDownload)
	assert.Equal(t, "sample.zip", node.SampleCodeDownload.Action.Identifier)
	assert.Equal(t, "Download", node.SampleCodeDownload.Action.OverridingTitle)

	sum := sha512.Sum512(data)
	download, ok := node.References["sample.zip"].(render.DownloadReference)
	require.True(t, ok)
	assert.Equal(t, hex.EncodeToString(sum[:]), download.Checksum)
	assert.Equal(t, "/assets/sample.zip", download.URL)
}

func TestTranslate_DownloadChecksumFailureDropsOnlyThatReference(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.assets.add("project.zip", nil)
	f.assets.add("hero.png", nil)
	tut := &semantic.Tutorial{
		ID:           tutorialID("Kit/Basics"),
		Intro:        &semantic.Intro{Title: "Basics", Content: "Start here.", Image: "hero.png"},
		ProjectFiles: "project.zip",
	}
	f.page(t, tut)

	node := f.translate(t, tut.ID)

	require.NotEmpty(t, node.Sections)
	hero, ok := node.Sections[0].(render.IntroSection)
	require.True(t, ok)
	assert.Empty(t, hero.ProjectFiles)
	assert.Equal(t, "hero.png", hero.Image)
	assert.Equal(t, []string{"hero.png"}, referenceKeys(node))
	assert.Equal(t, 1, f.recorder.degraded["checksum"])
}

func tutorialFixture(t *testing.T) (*fixture, *semantic.Technology, *semantic.Tutorial) {
	t.Helper()
	f := newFixture()
	for _, name := range []string{"hero.png", "chapter.png", "intro.mov", "poster.png", "box.png"} {
		f.assets.add(name, nil)
	}
	f.assets.add("main.swift", []byte("let box = Box()\nbox.open()\n"))
	f.assets.add("project.zip", []byte("project"))

	tech := &semantic.Technology{
		ID:    tutorialID("Kit"),
		Intro: &semantic.Intro{Title: "Kit Tutorials", Content: "Learn Kit.", Image: "hero.png"},
		Volumes: []semantic.Volume{{
			Name: "Essentials",
			Chapters: []semantic.Chapter{{
				Name:          "Getting Started",
				Content:       "Begin here.",
				Image:         "chapter.png",
				TutorialLinks: []string{"doc:Basics", "doc:Nowhere"},
			}},
		}},
	}
	tut := &semantic.Tutorial{
		ID: tutorialID("Kit/Basics"),
		Intro: &semantic.Intro{
			Title:            "Basics",
			Content:          "Start here.",
			Video:            "intro.mov",
			Poster:           "poster.png",
			EstimatedMinutes: 20,
		},
		ProjectFiles: "project.zip",
		Sections: []semantic.TutorialSection{{
			Title:   "Create a Box",
			Content: "Make a box.",
			Media:   "box.png",
			Steps: []*semantic.Step{
				{Content: "Add a file.", Caption: "It compiles.", Code: "main.swift"},
				{Content: "Open it.", Media: "missing.png"},
			},
		}},
		Assessments: &semantic.Assessments{Questions: []semantic.Question{{
			Title: "Which call opens a box?",
			Choices: []semantic.Choice{
				{Content: "`open()`", Correct: true, Justification: "It opens the box."},
				{Content: "`close()`", Justification: "It closes the box."},
			},
		}}},
	}
	f.page(t, tech)
	f.page(t, tut)
	f.resolver["doc:Basics"] = tut.ID
	f.graph.Add(topicgraph.Node{ID: tech.ID, Title: "Kit Tutorials", Kind: topicgraph.KindTechnology})
	f.graph.Add(topicgraph.Node{ID: tut.ID, Title: "Basics", Kind: topicgraph.KindTutorial})
	f.graph.AddEdge(tech.ID, tut.ID)
	return f, tech, tut
}

func TestTranslate_Tutorial(t *testing.T) {
	t.Parallel()

	f, tech, tut := tutorialFixture(t)
	node := f.translate(t, tut.ID)

	assert.Equal(t, render.KindTutorial, node.Kind)
	assert.Equal(t, render.RoleProject, node.Metadata.Role)
	assert.Equal(t, "Basics", node.Metadata.Title.Default())
	assert.Equal(t, "Kit Tutorials", node.Metadata.Category)
	assert.Equal(t, "20min", node.Metadata.EstimatedTime)
	assert.Equal(t, [][]string{{tech.ID.String()}}, node.Hierarchy.Paths)

	require.Len(t, node.Sections, 3)
	hero, ok := node.Sections[0].(render.IntroSection)
	require.True(t, ok)
	assert.Equal(t, "intro.mov", hero.Video)
	assert.Equal(t, "project.zip", hero.ProjectFiles)
	assert.Equal(t, 20, hero.EstimatedTimeInMinutes)

	tasks, ok := node.Sections[1].(render.TasksSection)
	require.True(t, ok)
	require.Len(t, tasks.Tasks, 1)
	task := tasks.Tasks[0]
	assert.Equal(t, "Create-a-Box", task.Anchor)
	assert.Equal(t, "box.png", task.Media)
	require.Len(t, task.StepsSection, 2)
	first, ok := task.StepsSection[0].(render.Step)
	require.True(t, ok)
	assert.Equal(t, "main.swift", first.Code)
	second, ok := task.StepsSection[1].(render.Step)
	require.True(t, ok)
	assert.Empty(t, second.Media)

	assessments, ok := node.Sections[2].(render.AssessmentsSection)
	require.True(t, ok)
	require.Len(t, assessments.Assessments, 1)
	choices := assessments.Assessments[0].Choices
	require.Len(t, choices, 2)
	assert.True(t, choices[0].IsCorrect)
	assert.False(t, choices[1].IsCorrect)

	video, ok := node.References["intro.mov"].(render.VideoReference)
	require.True(t, ok)
	assert.Equal(t, "poster.png", video.Poster)
	assert.Contains(t, node.References, "poster.png")

	file, ok := node.References["main.swift"].(render.FileReference)
	require.True(t, ok)
	assert.Equal(t, []string{"let box = Box()", "box.open()"}, file.Content)
	assert.Equal(t, "swift", file.Syntax)

	assert.NotContains(t, node.References, "missing.png")
	assert.Empty(t, node.MissingReferences())
}

func TestTranslate_RepeatedVideoKeepsPoster(t *testing.T) {
	t.Parallel()

	f, _, tut := tutorialFixture(t)
	tut.Sections[0].Media = "intro.mov"
	node := f.translate(t, tut.ID)

	ref, ok := node.References["intro.mov"].(render.VideoReference)
	require.True(t, ok, "got %T", node.References["intro.mov"])
	assert.Equal(t, "poster.png", ref.Poster)
	assert.Contains(t, node.References, "poster.png")
}

func TestTranslate_Technology(t *testing.T) {
	t.Parallel()

	f, tech, tut := tutorialFixture(t)
	node := f.translate(t, tech.ID)

	assert.Equal(t, render.KindOverview, node.Kind)
	assert.Equal(t, render.RoleOverview, node.Metadata.Role)
	require.Len(t, node.Sections, 2)
	volume, ok := node.Sections[1].(render.VolumeSection)
	require.True(t, ok)
	assert.Equal(t, "Essentials", volume.Name)
	require.Len(t, volume.Chapters, 1)
	assert.Equal(t, "chapter.png", volume.Chapters[0].Image)
	assert.Equal(t, []string{tut.ID.String()}, volume.Chapters[0].Tutorials)

	topic, ok := node.References[tut.ID.String()].(render.TopicReference)
	require.True(t, ok)
	assert.Equal(t, render.KindTutorial, topic.Kind)
}

func TestTranslate_TutorialArticle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	page := &semantic.TutorialArticle{
		ID:      tutorialID("Kit/Concepts"),
		Intro:   &semantic.Intro{Title: "Concepts"},
		Content: "Boxes hold things.",
	}
	f.page(t, page)

	node := f.translate(t, page.ID)

	assert.Equal(t, render.KindArticle, node.Kind)
	assert.Equal(t, "Concepts", node.Metadata.Title.Default())
	require.Len(t, node.Sections, 2)
	_, ok := node.Sections[1].(render.ContentAndMediaSection)
	assert.True(t, ok)
}

func TestTranslate_InvariantViolations(t *testing.T) {
	t.Parallel()

	f := newFixture()
	broken := &semantic.Tutorial{ID: tutorialID("Kit/Broken")}
	f.page(t, broken)
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	env := f.env()

	node, err := New(env, broken.ID).Translate(broken)
	require.Error(t, err)
	assert.Nil(t, node)
	assert.True(t, IsInvariant(err))
	assert.Contains(t, err.Error(), "tutorial has no intro")

	_, err = New(env, id("Kit/Other")).Translate(box)
	require.Error(t, err)
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, id("Kit/Other"), ie.Identifier)
}

func TestTranslate_InvariantKeepsFirstViolation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	broken := &semantic.Tutorial{ID: tutorialID("Kit/Broken")}
	f.page(t, broken)
	tr := New(f.env(), broken.ID)

	assert.NotPanics(t, func() {
		assert.Nil(t, tr.topicSections(broken, nil, swift))
	})
	require.NotNil(t, tr.err)
	assert.Contains(t, tr.err.Error(), "only symbols and articles have topic groups")

	node, err := tr.Translate(broken)
	assert.Nil(t, node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only symbols and articles have topic groups")
}

func TestTranslate_UsesPrecomputedReferences(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	open := f.symbol(t, "Kit/Box/open()", "open()", semantic.KindMethod)
	f.graph.AddEdge(box.ID, open.ID)

	cold := f.env()
	want, err := New(cold, box.ID).Translate(box)
	require.NoError(t, err)
	require.Zero(t, f.recorder.lookups[metrics.SourceCache])

	cache, err := precompute.Build(context.Background(), cold.Renderer(), f.model.Identifiers(), precompute.Options{Workers: 1})
	require.NoError(t, err)
	warm := NewEnvironment(Environment{
		Model:    f.model,
		Graph:    f.graph,
		Resolver: f.resolver,
		Cache:    cache,
		Recorder: f.recorder,
	})
	got, err := New(warm, box.ID).Translate(box)
	require.NoError(t, err)

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
	assert.Positive(t, f.recorder.lookups[metrics.SourceCache])
}

func TestLookupReference(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)

	cold := f.env()
	rec := LookupReference(cold, box.ID)
	assert.Equal(t, reference.SourceRender, rec.Source)
	topic, ok := rec.Reference.Reference.(render.TopicReference)
	require.True(t, ok)
	assert.Equal(t, "Box", topic.Title.Default())

	cache, err := precompute.Build(context.Background(), cold.Renderer(), f.model.Identifiers(), precompute.Options{Workers: 1})
	require.NoError(t, err)
	warm := NewEnvironment(Environment{Model: f.model, Graph: f.graph, Resolver: f.resolver, Cache: cache})
	assert.Equal(t, reference.SourceCache, LookupReference(warm, box.ID).Source)
}

// randomBundle builds symbols that link to each other, to missing pages, to
// external sites and to images at random.
func randomBundle(t *testing.T, seed uint64, n int) (*fixture, []semantic.Identifier) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	f := newFixture()
	f.assets.add("figure.png", nil)

	root := f.symbol(t, "Kit", "Kit", semantic.KindModule)
	syms := []*semantic.Symbol{root}
	for i := range n {
		kinds := []semantic.SymbolKind{semantic.KindStruct, semantic.KindMethod, semantic.KindProperty, semantic.KindFunc}
		s := f.symbol(t, fmt.Sprintf("Kit/S%d", i), fmt.Sprintf("S%d", i), kinds[rng.IntN(len(kinds))])
		f.graph.AddEdge(syms[rng.IntN(len(syms))].ID, s.ID)
		syms = append(syms, s)
	}

	link := func() string {
		switch rng.IntN(5) {
		case 0:
			return "[gone](doc:Missing)"
		case 1:
			return fmt.Sprintf("[site](https://example.com/%d)", rng.IntN(3))
		case 2:
			return "![figure](figure.png)"
		default:
			return fmt.Sprintf("<doc:%s>", syms[rng.IntN(len(syms))].Title.Default())
		}
	}
	for _, s := range syms {
		var body []string
		for range rng.IntN(4) {
			body = append(body, "See "+link()+".")
		}
		s.Abstract = variant.New(swift, semantic.Markup("Abstract with "+link()+"."))
		s.Discussion = variant.New(swift, semantic.Markup(strings.Join(body, "\n\n")))
		if rng.IntN(2) == 0 {
			g := semantic.TaskGroup{Title: "Related"}
			for range 1 + rng.IntN(3) {
				g.Links = append(g.Links, "doc:"+syms[rng.IntN(len(syms))].Title.Default())
			}
			s.Topics = []semantic.TaskGroup{g}
		}
	}
	return f, f.model.Identifiers()
}

func TestTranslate_ClosureCompleteness(t *testing.T) {
	t.Parallel()

	for seed := range uint64(8) {
		f, ids := randomBundle(t, seed, 12)
		env := f.env()
		for _, pid := range ids {
			p, ok := env.Model.Page(pid)
			require.True(t, ok)
			node, err := New(env, pid).Translate(p)
			require.NoError(t, err, "seed %d page %s", seed, pid)
			assert.Empty(t, node.MissingReferences(), "seed %d page %s", seed, pid)
		}
	}
}

func TestConverter_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	f, ids := randomBundle(t, 42, 30)
	env := f.env()

	sequential, err := (&Converter{Env: env, Workers: 1}).ConvertAll(context.Background(), ids)
	require.NoError(t, err)
	parallel, err := (&Converter{Env: env, Workers: 6}).ConvertAll(context.Background(), ids)
	require.NoError(t, err)

	require.Len(t, parallel, len(sequential))
	for i := range sequential {
		want, err := json.Marshal(sequential[i])
		require.NoError(t, err)
		got, err := json.Marshal(parallel[i])
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got), "page %s", ids[i])
	}
}

func TestConverter_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	box := f.symbol(t, "Kit/Box", "Box", semantic.KindStruct)
	broken := &semantic.Technology{ID: tutorialID("Kit")}
	f.page(t, broken)
	c := &Converter{Env: f.env(), Workers: 2}

	_, err := c.ConvertAll(context.Background(), []semantic.Identifier{box.ID, id("Kit/Missing")})
	require.ErrorIs(t, err, ErrNoPage)

	_, err = c.ConvertAll(context.Background(), []semantic.Identifier{box.ID, broken.ID})
	require.Error(t, err)
	assert.True(t, IsInvariant(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ConvertAll(ctx, []semantic.Identifier{box.ID})
	assert.True(t, errors.Is(err, context.Canceled))
}
