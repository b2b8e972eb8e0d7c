package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			assert.Equal(t, tt.want, m.VertexCount())
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			assert.Equal(t, tt.want, m.TriangleCount())
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	assert.True(t, (&Mesh{}).IsEmpty())
	assert.False(t, (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty())
}

func TestMeshBounds(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		min, max := (&Mesh{}).Bounds()
		assert.Equal(t, [3]float64{}, min)
		assert.Equal(t, [3]float64{}, max)
	})
	t.Run("triangle", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{
			-1, 0, 2,
			3, -4, 2,
			0, 5, -6,
		}}
		min, max := m.Bounds()
		assert.Equal(t, [3]float64{-1, -4, -6}, min)
		assert.Equal(t, [3]float64{3, 5, 2}, max)
	})
}
