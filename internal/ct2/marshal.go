package ct2

// Nested token/score/id matrices cross the native boundary flattened into one
// contiguous slice plus per-row lengths. The flat form maps 1:1 onto the C
// arrays the shim consumes, and both directions preserve row order, element
// order and element count exactly, including empty rows and empty strings.

type tokenMatrix struct {
	flat []string
	lens []int
}

type idMatrix struct {
	flat []int32
	lens []int
}

type scoreMatrix struct {
	flat []float32
	lens []int
}

func flattenTokens(rows [][]string) tokenMatrix {
	var n int
	for _, r := range rows {
		n += len(r)
	}
	m := tokenMatrix{
		flat: make([]string, 0, n),
		lens: make([]int, len(rows)),
	}
	for i, r := range rows {
		m.lens[i] = len(r)
		m.flat = append(m.flat, r...)
	}
	return m
}

func (m tokenMatrix) rows() [][]string {
	out := make([][]string, len(m.lens))
	off := 0
	for i, n := range m.lens {
		row := make([]string, n)
		copy(row, m.flat[off:off+n])
		out[i] = row
		off += n
	}
	return out
}

func flattenIDs(rows [][]int32) idMatrix {
	var n int
	for _, r := range rows {
		n += len(r)
	}
	m := idMatrix{
		flat: make([]int32, 0, n),
		lens: make([]int, len(rows)),
	}
	for i, r := range rows {
		m.lens[i] = len(r)
		m.flat = append(m.flat, r...)
	}
	return m
}

func (m idMatrix) rows() [][]int32 {
	out := make([][]int32, len(m.lens))
	off := 0
	for i, n := range m.lens {
		row := make([]int32, n)
		copy(row, m.flat[off:off+n])
		out[i] = row
		off += n
	}
	return out
}

func flattenScores(rows [][]float32) scoreMatrix {
	var n int
	for _, r := range rows {
		n += len(r)
	}
	m := scoreMatrix{
		flat: make([]float32, 0, n),
		lens: make([]int, len(rows)),
	}
	for i, r := range rows {
		m.lens[i] = len(r)
		m.flat = append(m.flat, r...)
	}
	return m
}

func (m scoreMatrix) rows() [][]float32 {
	out := make([][]float32, len(m.lens))
	off := 0
	for i, n := range m.lens {
		row := make([]float32, n)
		copy(row, m.flat[off:off+n])
		out[i] = row
		off += n
	}
	return out
}
