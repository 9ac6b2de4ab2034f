// Package hypercube builds a dense, bitset-indexed Cartesian product
// over the axes of a fully-expanded request, and supports containment,
// clearing, ordinal lookup and minimal-cover reconstruction over the
// resulting set of points.
package hypercube

import (
	"fmt"
	"sort"

	"github.com/metquery/marslang/request"
)

// Axis is one ordered value domain contributing a dimension to a
// HyperCube.
type Axis struct {
	name   string
	values []string
	index  map[string]int
}

func newAxis(name string, values []string) *Axis {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return &Axis{name: name, values: append([]string(nil), values...), index: idx}
}

// Name returns the axis's keyword name.
func (a *Axis) Name() string { return a.name }

// Size returns the number of distinct values on this axis.
func (a *Axis) Size() int { return len(a.values) }

// IndexOf returns v's position on the axis, or -1 if v is not one of
// its values.
func (a *Axis) IndexOf(v string) int {
	if i, ok := a.index[v]; ok {
		return i
	}
	return -1
}

// ValueOf returns the value at position i.
func (a *Axis) ValueOf(i int) (string, error) {
	if i < 0 || i >= len(a.values) {
		return "", fmt.Errorf("hypercube: axis %s has no value at index %d", a.name, i)
	}
	return a.values[i], nil
}

// HyperCube is a dense bitset over the Cartesian product of a
// request's axes. Bit true means "present" (vacant, in archive-speak:
// not yet retrieved); all bits start true.
type HyperCube struct {
	verb string
	axes []*Axis

	strides []int
	size    int

	set   []bool
	count int
}

// New builds a HyperCube from a fully-expanded request. Axes are the
// request's keywords intersected with axisOrder, in axisOrder's
// sequence; any keyword the request carries that axisOrder is silent
// about is appended afterwards, in the request's own keyword order
// (axisOrder documents the "data" axes; everything else - e.g.
// target/source - rides along as an extra axis rather than being
// dropped).
func New(req *request.Request, axisOrder []string) (*HyperCube, error) {
	var axes []*Axis
	seen := make(map[string]bool)

	for _, name := range axisOrder {
		values := req.ValuesOrEmpty(name)
		if len(values) == 0 {
			continue
		}
		axes = append(axes, newAxis(name, values))
		seen[name] = true
	}
	for _, name := range req.Params() {
		if seen[name] {
			continue
		}
		values := req.ValuesOrEmpty(name)
		if len(values) == 0 {
			continue
		}
		axes = append(axes, newAxis(name, values))
		seen[name] = true
	}

	sizes := make([]int, len(axes))
	for i, a := range axes {
		sizes[i] = a.Size()
	}
	strides, total := computeStrides(sizes)

	set := make([]bool, total)
	for i := range set {
		set[i] = true
	}

	return &HyperCube{
		verb:    req.Verb(),
		axes:    axes,
		strides: strides,
		size:    total,
		set:     set,
		count:   total,
	}, nil
}

func computeStrides(sizes []int) ([]int, int) {
	n := len(sizes)
	strides := make([]int, n)
	acc := 1
	for i := n - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= sizes[i]
	}
	return strides, acc
}

// Axes returns the HyperCube's axes, in their fixed order.
func (h *HyperCube) Axes() []*Axis { return append([]*Axis(nil), h.axes...) }

// Size returns the total number of points in the cube.
func (h *HyperCube) Size() int { return h.size }

// IndexOf returns the row-major flat index of point, a request naming
// exactly one value per axis. It returns -1 (no error) if point names
// a value absent from some axis's domain; it errors if point is
// missing an axis keyword entirely or names more than one value for
// one.
func (h *HyperCube) IndexOf(point *request.Request) (int, error) {
	coords := make([]int, len(h.axes))
	for i, a := range h.axes {
		values := point.ValuesOrEmpty(a.name)
		switch len(values) {
		case 0:
			return 0, fmt.Errorf("hypercube: no value for axis %q in request %s", a.name, point.String())
		case 1:
			// fine
		default:
			return 0, fmt.Errorf("hypercube: too many values for axis %q in request %s", a.name, point.String())
		}
		n := a.IndexOf(values[0])
		if n < 0 {
			return -1, nil
		}
		coords[i] = n
	}
	return h.flatIndex(coords), nil
}

func (h *HyperCube) flatIndex(coords []int) int {
	idx := 0
	for i, c := range coords {
		idx += c * h.strides[i]
	}
	return idx
}

func (h *HyperCube) coordinatesOf(idx int) []int {
	coords := make([]int, len(h.axes))
	for i, a := range h.axes {
		coords[i] = (idx / h.strides[i]) % a.Size()
	}
	return coords
}

// RequestOf decomposes a flat index back into a single-point request.
func (h *HyperCube) RequestOf(idx int) (*request.Request, error) {
	if idx < 0 || idx >= h.size {
		return nil, fmt.Errorf("hypercube: index %d out of range [0,%d)", idx, h.size)
	}
	coords := h.coordinatesOf(idx)
	req := request.New(h.verb)
	for i, a := range h.axes {
		v, err := a.ValueOf(coords[i])
		if err != nil {
			return nil, err
		}
		req.SetValue(a.name, v)
	}
	return req, nil
}

// Contains reports whether point is a cube point and its bit is set.
func (h *HyperCube) Contains(point *request.Request) (bool, error) {
	idx, err := h.IndexOf(point)
	if err != nil {
		return false, err
	}
	return idx >= 0 && h.set[idx], nil
}

// Clear flips point's bit false if it was true, returning whether it
// changed.
func (h *HyperCube) Clear(point *request.Request) (bool, error) {
	idx, err := h.IndexOf(point)
	if err != nil {
		return false, err
	}
	return h.clearIndex(idx), nil
}

func (h *HyperCube) clearIndex(idx int) bool {
	if idx < 0 || !h.set[idx] {
		return false
	}
	h.set[idx] = false
	h.count--
	return true
}

// Count returns the number of bits still set (the "vacant" points).
func (h *HyperCube) Count() int { return h.count }

// CountVacant is a synonym for Count: the same true-bit tally, kept
// under both names because the bitset's "present" bit and "vacant"
// (not yet retrieved) bit are the same thing.
func (h *HyperCube) CountVacant() int { return h.count }

// FieldOrdinal returns point's flat index, or (if noHoles) its rank
// counting only set bits strictly before that index.
func (h *HyperCube) FieldOrdinal(point *request.Request, noHoles bool) (int, error) {
	idx, err := h.IndexOf(point)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, fmt.Errorf("hypercube: point not in cube: %s", point.String())
	}
	if !noHoles {
		return idx, nil
	}
	rank := 0
	for i := 0; i < idx; i++ {
		if h.set[i] {
			rank++
		}
	}
	return rank, nil
}

// CoverEntry is one request in a minimal-cover reconstruction, paired
// with the number of cube points it accounts for.
type CoverEntry struct {
	Request *request.Request
	Count   int
}

// VacantRequests reconstructs a minimal list of requests whose union
// covers every point whose bit equals want (true for still-vacant
// points, false for cleared ones).
func (h *HyperCube) VacantRequests(want bool) ([]*request.Request, error) {
	var idxs []int
	for i, v := range h.set {
		if v == want {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return nil, nil
	}

	entries, err := h.cover(idxs)
	if err != nil {
		return nil, err
	}
	out := make([]*request.Request, len(entries))
	for i, e := range entries {
		out[i] = e.Request
	}
	return out, nil
}

// cover implements the minimal-cover reconstruction: pick the axis
// that partitions idxs into the fewest non-empty slices (>1), recurse
// into each slice, and greedily merge each freshly-appended entry into
// an existing one while doing so strictly shrinks the result.
func (h *HyperCube) cover(idxs []int) ([]CoverEntry, error) {
	if len(idxs) <= 1 {
		req, err := h.RequestOf(idxs[0])
		if err != nil {
			return nil, err
		}
		return []CoverEntry{{Request: req, Count: 1}}, nil
	}

	axis := h.pickBestAxis(idxs)
	slices := h.sliceAlongAxis(idxs, axis)

	coords := make([]int, 0, len(slices))
	for c := range slices {
		coords = append(coords, c)
	}
	sort.Ints(coords)

	var result []CoverEntry
	for _, c := range coords {
		sub, err := h.cover(slices[c])
		if err != nil {
			return nil, err
		}
		result = append(result, sub...)
		for {
			next, mergedSomething, err := h.mergeLast(result)
			if err != nil {
				return nil, err
			}
			result = next
			if !mergedSomething {
				break
			}
		}
	}
	return result, nil
}

// pickBestAxis returns the axis index whose partition of idxs yields
// the fewest non-empty slices greater than one.
func (h *HyperCube) pickBestAxis(idxs []int) int {
	best := 0
	bestN := -1
	for axis := range h.axes {
		n := len(h.sliceAlongAxis(idxs, axis))
		if n > 1 && (bestN == -1 || n < bestN) {
			best = axis
			bestN = n
		}
	}
	return best
}

func (h *HyperCube) sliceAlongAxis(idxs []int, axis int) map[int][]int {
	slices := map[int][]int{}
	for _, idx := range idxs {
		coords := h.coordinatesOf(idx)
		slices[coords[axis]] = append(slices[coords[axis]], idx)
	}
	return slices
}

type relation int

const (
	embedded relation = iota
	adjacent
	disjoint
)

// mergeLast inspects the relation between the most recently appended
// entry and every earlier one. It returns true only when it merged an
// ADJACENT pair into the larger side - an EMBEDDED last entry is
// discarded outright (reported as false, so the caller's retry loop
// stops rather than re-scanning a list that didn't actually shrink via
// a merge), and a DISJOINT one is left alone.
func (h *HyperCube) mergeLast(entries []CoverEntry) ([]CoverEntry, bool, error) {
	if len(entries) < 2 {
		return entries, false, nil
	}
	last := len(entries) - 1

	rel := disjoint
	candidateIdx := -1
	candidateSize := -1

	for j := 0; j < last; j++ {
		r, combinedSize, err := h.getRelation(entries[j], entries[last])
		if err != nil {
			return nil, false, err
		}
		if r < rel {
			rel = r
		}
		if r == embedded {
			return entries[:last], false, nil
		}
		if r == adjacent && combinedSize > candidateSize {
			candidateIdx = j
			candidateSize = combinedSize
		}
	}

	if rel == adjacent && candidateIdx != -1 {
		merged := entries[candidateIdx].Request.Clone()
		merged.Merge(entries[last].Request)
		entries[candidateIdx] = CoverEntry{Request: merged, Count: entries[candidateIdx].Count + entries[last].Count}
		return entries[:last], true, nil
	}

	return entries, false, nil
}

// getRelation classifies how additional relates to base: EMBEDDED if
// merging changes nothing (the merged cube's size equals base's size),
// ADJACENT if the sizes add up exactly, DISJOINT otherwise. The merged
// size is computed directly as a product of per-axis value-set
// cardinalities (never by allocating a throwaway HyperCube just to
// read its Count()).
func (h *HyperCube) getRelation(base, additional CoverEntry) (relation, int, error) {
	merged := base.Request.Clone()
	merged.Merge(additional.Request)

	sizeAfter := 1
	for _, a := range h.axes {
		sizeAfter *= len(merged.ValuesOrEmpty(a.name))
	}

	switch {
	case sizeAfter == base.Count:
		return embedded, sizeAfter, nil
	case base.Count+additional.Count == sizeAfter:
		return adjacent, sizeAfter, nil
	default:
		return disjoint, sizeAfter, nil
	}
}
