package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCoversInputInOrder(t *testing.T) {
	for n := 0; n <= 17; n++ {
		for size := 1; size <= 6; size++ {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				items := make([]int, n)
				for i := range items {
					items[i] = i
				}

				chunks := Chunk(items, size)
				require.Len(t, chunks, BatchCount(n, size))

				var flat []int
				for i, c := range chunks {
					if i < len(chunks)-1 {
						assert.Len(t, c, size)
					} else {
						assert.LessOrEqual(t, len(c), size)
						assert.NotEmpty(t, c)
					}
					flat = append(flat, c...)
				}
				if n == 0 {
					assert.Empty(t, flat)
				} else {
					assert.Equal(t, items, flat)
				}
			})
		}
	}
}

func TestChunkInvalidSize(t *testing.T) {
	assert.Nil(t, Chunk([]string{"a"}, 0))
	assert.Nil(t, Chunk([]string{"a"}, -3))
	assert.Equal(t, 0, BatchCount(5, 0))
}

func TestChunkAppendDoesNotClobberNextChunk(t *testing.T) {
	chunks := Chunk([]int{1, 2, 3, 4}, 2)
	first := append(chunks[0], 99)
	assert.Equal(t, []int{1, 2, 99}, first)
	assert.Equal(t, []int{3, 4}, chunks[1])
}
