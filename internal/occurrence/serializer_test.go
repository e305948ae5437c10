package occurrence_test

import (
	"context"
	"testing"

	"github.com/jward/rubydex/internal/occurrence"
	"github.com/jward/rubydex/internal/parseadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serialize(t *testing.T, src string, userSpace, interfaceOnly bool) []occurrence.Occurrence {
	t.Helper()
	p := parseadapter.New()
	tree, diags, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Empty(t, diags)
	defer tree.Close()

	s := occurrence.New("deadbeef", []string{"a.rb"}, userSpace, interfaceOnly)
	return s.Serialize(tree.Root(), tree.Source)
}

func findOne(t *testing.T, occs []occurrence.Occurrence, nodeType occurrence.NodeType, name string) occurrence.Occurrence {
	t.Helper()
	for _, o := range occs {
		if o.NodeType == nodeType && o.Name == name {
			return o
		}
	}
	t.Fatalf("no occurrence with node_type=%s name=%s in %+v", nodeType, name, occs)
	return occurrence.Occurrence{}
}

func TestSerialize_ClassAndDefPushScope(t *testing.T) {
	occs := serialize(t, "class Foo\n  def bar\n  end\nend\n", true, false)

	class := findOne(t, occs, occurrence.Class, "Foo")
	assert.Equal(t, occurrence.Assignment, class.Category)
	assert.Empty(t, class.FuzzyRubyScope)

	def := findOne(t, occs, occurrence.Def, "bar")
	assert.Equal(t, occurrence.Assignment, def.Category)
	assert.Equal(t, []string{"Foo"}, def.FuzzyRubyScope)
}

func TestSerialize_ScopeBalancedAfterClass(t *testing.T) {
	occs := serialize(t, "class Foo\nend\nx = 1\n", true, false)

	lvasgn := findOne(t, occs, occurrence.Lvasgn, "x")
	assert.Empty(t, lvasgn.FuzzyRubyScope)
}

func TestSerialize_LocalAssignmentAndUsage(t *testing.T) {
	occs := serialize(t, "def m\n  x = 1\n  puts x\nend\n", true, false)

	asgn := findOne(t, occs, occurrence.Lvasgn, "x")
	usage := findOne(t, occs, occurrence.Lvar, "x")
	assert.Equal(t, occurrence.Assignment, asgn.Category)
	assert.Equal(t, occurrence.Usage, usage.Category)
	assert.Equal(t, []string{"m"}, asgn.FuzzyRubyScope)
	assert.Equal(t, []string{"m"}, usage.FuzzyRubyScope)
}

func TestSerialize_QualifiedConstantClassScope(t *testing.T) {
	occs := serialize(t, "A::B::C\n", true, false)

	c := findOne(t, occs, occurrence.Const, "C")
	assert.Equal(t, occurrence.Usage, c.Category)
	assert.Equal(t, []string{"A", "B"}, c.ClassScope)
}

func TestSerialize_SendWithConstReceiverClassScope(t *testing.T) {
	occs := serialize(t, "Foo.bar\n", true, false)

	send := findOne(t, occs, occurrence.Send, "bar")
	assert.Equal(t, []string{"Foo"}, send.ClassScope)
}

func TestSerialize_CSendSafeNavigation(t *testing.T) {
	occs := serialize(t, "x&.bar\n", true, false)
	findOne(t, occs, occurrence.CSend, "bar")
}

func TestSerialize_AttrAccessorSugar(t *testing.T) {
	occs := serialize(t, "class Foo\n  attr_accessor :name\nend\n", true, false)

	reader := findOne(t, occs, occurrence.Def, "name")
	writer := findOne(t, occs, occurrence.Def, "name=")
	assert.Equal(t, occurrence.Assignment, reader.Category)
	assert.Equal(t, occurrence.Assignment, writer.Category)
}

func TestSerialize_AliasMethod(t *testing.T) {
	occs := serialize(t, "alias new_name old_name\n", true, false)

	to := findOne(t, occs, occurrence.Alias, "new_name")
	from := findOne(t, occs, occurrence.Alias, "old_name")
	assert.Equal(t, occurrence.Assignment, to.Category)
	assert.Equal(t, occurrence.Usage, from.Category)
}

func TestSerialize_ZSuperWithoutArgs(t *testing.T) {
	occs := serialize(t, "def m\n  super\nend\n", true, false)
	findOne(t, occs, occurrence.ZSuper, "m")
}

func TestSerialize_SuperWithArgs(t *testing.T) {
	occs := serialize(t, "def m\n  super(1)\nend\n", true, false)
	findOne(t, occs, occurrence.Super, "m")
}

func TestSerialize_SuperOutsideMethodIsSkipped(t *testing.T) {
	occs := serialize(t, "super\n", true, false)
	for _, o := range occs {
		assert.NotEqual(t, occurrence.ZSuper, o.NodeType)
	}
}

func TestSerialize_InterfaceOnlySkipsBody(t *testing.T) {
	occs := serialize(t, "def m\n  x = 1\nend\n", true, true)

	findOne(t, occs, occurrence.Def, "m")
	for _, o := range occs {
		assert.NotEqual(t, occurrence.Lvasgn, o.NodeType, "body should not be walked in interface-only mode")
	}
}

func TestSerialize_KeywordParameters(t *testing.T) {
	occs := serialize(t, "def m(a, b: 1, *c, **d)\nend\n", true, false)

	findOne(t, occs, occurrence.Arg, "a")
	findOne(t, occs, occurrence.Kwoptarg, "b")
	findOne(t, occs, occurrence.Restarg, "c")
	findOne(t, occs, occurrence.Kwrestarg, "d")
}

func TestColumns_ExpandsInclusiveRange(t *testing.T) {
	o := occurrence.Occurrence{StartColumn: 2, EndColumn: 4}
	assert.Equal(t, []int{2, 3, 4}, o.Columns())
}
