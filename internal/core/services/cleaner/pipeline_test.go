package cleaner

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_EveryNameResolves(t *testing.T) {
	for _, name := range Names() {
		var p Pipeline
		require.NoError(t, p.TryAdd(name), name)
		assert.Equal(t, []string{name}, p.Names())
	}

	p, err := BuildFromSelection(AllSelection())
	require.NoError(t, err)
	assert.Equal(t, 13, p.Len())
}

func TestPipeline_TryAddUnknownKeepsPriorSteps(t *testing.T) {
	var p Pipeline
	require.NoError(t, p.TryAdd("trim"))
	require.NoError(t, p.TryAdd("remove_empty_lines"))

	err := p.TryAdd("not_a_real_transform")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTransformation))

	var unknown *UnknownTransformationError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "not_a_real_transform", unknown.Name)

	assert.Equal(t, []string{"trim", "remove_empty_lines"}, p.Names())
}

func TestBuild_PreservesOrderAndStopsAtFirstError(t *testing.T) {
	p, err := Build([]string{"trim", "remove_all_urls", "trim"})
	require.NoError(t, err)
	assert.Equal(t, "trim->remove_all_urls->trim", p.Signature())

	_, err = Build([]string{"trim", "nope", "also_nope"})
	name, ok := UnknownName(err)
	assert.True(t, ok)
	assert.Equal(t, "nope", name)
}

func TestBuildFromSelection_CanonicalOrder(t *testing.T) {
	sel := NewSelection("trim", "remove_punctuation_marks", "remove_all_urls")
	for i := 0; i < 20; i++ {
		p, err := BuildFromSelection(sel)
		require.NoError(t, err)
		assert.Equal(t, "remove_all_urls->remove_punctuation_marks->trim", p.Signature())
	}

	p, err := BuildFromSelection(sel)
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Apply("hi https://a.com"))

	// Punctuation first destroys the URL before it can be found.
	reversed, err := Build([]string{"remove_punctuation_marks", "remove_all_urls", "trim"})
	require.NoError(t, err)
	assert.Equal(t, "hi httpsacom", reversed.Apply("hi https://a.com"))
}

func TestBuildFromSelection_ReportsLexicallyFirstUnknown(t *testing.T) {
	_, err := BuildFromSelection(NewSelection("zzz", "trim", "aaa"))
	name, ok := UnknownName(err)
	require.True(t, ok)
	assert.Equal(t, "aaa", name)
	assert.EqualError(t, err, `unknown transformation "aaa"`)
}

func TestPipeline_Of(t *testing.T) {
	p := Of(Trim, Transformation(99), RemoveEmptyLines)
	assert.Equal(t, []Transformation{Trim, RemoveEmptyLines}, p.Steps())
}

func TestProcessor_EmptyPipelineIsIdentity(t *testing.T) {
	proc := NewProcessor(nil)
	assert.Equal(t, "  as is \n\n", proc.Process("  as is \n\n"))
	assert.Equal(t, "", proc.Signature())

	proc, err := NewProcessorFromSelection(EmptySelection())
	require.NoError(t, err)
	assert.Equal(t, " x ", proc.Process(" x "))
}

func TestProcessor_FoldsLeftToRight(t *testing.T) {
	proc, err := NewProcessorFromNames([]string{"remove_empty_lines", "convert_multiple_spaces_to_single", "trim"})
	require.NoError(t, err)
	assert.Equal(t, "a\nb c", proc.Process("  a\n\n\nb   c \n"))

	// Collapsing whitespace first turns the blank line into a space.
	proc, err = NewProcessorFromNames([]string{"convert_multiple_spaces_to_single", "remove_empty_lines"})
	require.NoError(t, err)
	assert.Equal(t, "a b", proc.Process("a\n\nb"))

	assert.Equal(t, []string{"x", "a b"}, proc.ProcessBatch([]string{"x", "a\n\n\nb"}))
}

func TestProcessor_OwnsItsPipeline(t *testing.T) {
	var p Pipeline
	require.NoError(t, p.TryAdd("trim"))
	proc := NewProcessor(&p)
	require.NoError(t, p.TryAdd("remove_non_ascii_characters"))

	assert.Equal(t, []string{"trim"}, proc.Names())
	assert.Equal(t, "é", proc.Process(" é "))
}

func TestProcessor_ConcurrentUse(t *testing.T) {
	proc, err := NewProcessorFromSelection(AllSelection())
	require.NoError(t, err)

	inputs := propertySamples
	expected := make([]string, len(inputs))
	for i, in := range inputs {
		expected[i] = proc.Process(in)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64*len(inputs))
	for w := 0; w < 64; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, in := range inputs {
				if got := proc.Process(in); got != expected[i] {
					errs <- got
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	assert.Empty(t, errs)
}
