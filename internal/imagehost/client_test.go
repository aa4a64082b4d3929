package imagehost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimizedURL(t *testing.T) {
	hosted := "https://res.cloudinary.com/demo/image/upload/v123/games/elden.jpg"
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/w_400,c_fill,q_auto,f_auto/v123/games/elden.jpg",
		OptimizedURL(hosted, 400))
}

func TestOptimizedURLPassesThroughForeignURLs(t *testing.T) {
	assert.Equal(t, "", OptimizedURL("", 400))
	assert.Equal(t, "https://example.com/upload/pic.jpg",
		OptimizedURL("https://example.com/upload/pic.jpg", 400))
}

func TestOptimizedURLReplacesFirstSegmentOnly(t *testing.T) {
	hosted := "https://res.cloudinary.com/demo/image/upload/folder/upload/pic.jpg"
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/w_200,c_fill,q_auto,f_auto/folder/upload/pic.jpg",
		OptimizedURL(hosted, 200))
}
