package hypercube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metquery/marslang/request"
)

var axisOrder = []string{"class", "type", "stream", "levtype", "date", "time", "step", "expver", "domain", "levelist", "param"}

func baseRequest() *request.Request {
	r := request.New("retrieve")
	r.SetValues("class", []string{"rd"})
	r.SetValues("type", []string{"an"})
	r.SetValues("stream", []string{"oper"})
	r.SetValues("levtype", []string{"pl"})
	r.SetValues("date", []string{"20191110"})
	r.SetValues("time", []string{"0000"})
	r.SetValues("step", []string{"0"})
	r.SetValues("expver", []string{"xxxy"})
	r.SetValues("domain", []string{"g"})
	return r
}

func TestHyperCubeSinglePoint(t *testing.T) {
	r := baseRequest()
	r.SetValues("levelist", []string{"500"})
	r.SetValues("param", []string{"138"})

	cube, err := New(r, axisOrder)
	require.NoError(t, err)

	contains, err := cube.Contains(r)
	require.NoError(t, err)
	assert.True(t, contains)
	assert.Equal(t, 1, cube.Size())

	reqs, err := cube.VacantRequests(true)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"500"}, reqs[0].ValuesOrEmpty("levelist"))
}

func TestHyperCubeSubsetClear(t *testing.T) {
	r := baseRequest()
	r.SetValues("levelist", []string{"500", "600"})
	r.SetValues("param", []string{"138"})

	cube, err := New(r, axisOrder)
	require.NoError(t, err)
	assert.Equal(t, 2, cube.Size())
	assert.Equal(t, 2, cube.Count())

	_, err = cube.Contains(r) // two values on levelist: ambiguous point
	assert.Error(t, err)

	r500 := baseRequest()
	r500.SetValues("levelist", []string{"500"})
	r500.SetValues("param", []string{"138"})
	r600 := baseRequest()
	r600.SetValues("levelist", []string{"600"})
	r600.SetValues("param", []string{"138"})

	contains500, err := cube.Contains(r500)
	require.NoError(t, err)
	assert.True(t, contains500)
	contains600, err := cube.Contains(r600)
	require.NoError(t, err)
	assert.True(t, contains600)

	changed, err := cube.Clear(r500)
	require.NoError(t, err)
	assert.True(t, changed)

	contains500, err = cube.Contains(r500)
	require.NoError(t, err)
	assert.False(t, contains500)
	assert.Equal(t, 2, cube.Size())
	assert.Equal(t, 1, cube.Count())

	reqs, err := cube.VacantRequests(true)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"600"}, reqs[0].ValuesOrEmpty("levelist"))

	changed, err = cube.Clear(r600)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, cube.Count())
}

func TestHyperCubeMinimalCoverMerges(t *testing.T) {
	r := baseRequest()
	r.SetValues("levelist", []string{"500", "600"})
	r.SetValues("param", []string{"138", "155"})

	cube, err := New(r, axisOrder)
	require.NoError(t, err)
	assert.Equal(t, 4, cube.Size())
	assert.Equal(t, 4, cube.Count())

	r500138 := baseRequest()
	r500138.SetValues("levelist", []string{"500"})
	r500138.SetValues("param", []string{"138"})
	r600138 := baseRequest()
	r600138.SetValues("levelist", []string{"600"})
	r600138.SetValues("param", []string{"138"})

	changed, err := cube.Clear(r500138)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, cube.Count())

	reqs, err := cube.VacantRequests(true)
	require.NoError(t, err)
	assert.Len(t, reqs, 2)

	changed, err = cube.Clear(r600138)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, cube.Count())

	reqs, err = cube.VacantRequests(true)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"500", "600"}, reqs[0].ValuesOrEmpty("levelist"))
	assert.Equal(t, []string{"155"}, reqs[0].ValuesOrEmpty("param"))
}

func TestHyperCubeIndexOfAndRequestOfRoundTrip(t *testing.T) {
	r := baseRequest()
	r.SetValues("levelist", []string{"500", "600", "700"})
	r.SetValues("param", []string{"138", "155"})

	cube, err := New(r, axisOrder)
	require.NoError(t, err)
	assert.Equal(t, 6, cube.Size())

	for i := 0; i < cube.Size(); i++ {
		point, err := cube.RequestOf(i)
		require.NoError(t, err)
		idx, err := cube.IndexOf(point)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
}

func TestHyperCubeFieldOrdinalNoHoles(t *testing.T) {
	r := baseRequest()
	r.SetValues("levelist", []string{"500", "600", "700"})
	r.SetValues("param", []string{"138"})

	cube, err := New(r, axisOrder)
	require.NoError(t, err)

	mid := baseRequest()
	mid.SetValues("levelist", []string{"600"})
	mid.SetValues("param", []string{"138"})

	first := baseRequest()
	first.SetValues("levelist", []string{"500"})
	first.SetValues("param", []string{"138"})
	_, err = cube.Clear(first)
	require.NoError(t, err)

	ordinal, err := cube.FieldOrdinal(mid, true)
	require.NoError(t, err)
	assert.Equal(t, 0, ordinal) // "500" was cleared, so "600" is now rank 0 among set bits

	rawIdx, err := cube.FieldOrdinal(mid, false)
	require.NoError(t, err)
	assert.Equal(t, 1, rawIdx)
}
