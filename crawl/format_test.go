package crawl_test

import (
	"testing"

	"github.com/fwojciec/ceibadl/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.tw", crawl.TruncateURL("https://x.tw", 50))
	})

	t.Run("keeps the informative tail", func(t *testing.T) {
		t.Parallel()
		url := "https://ceiba.ntu.edu.tw/modules/index.php?csn=aa11"
		result := crawl.TruncateURL(url, 20)
		assert.Equal(t, "...ndex.php?csn=aa11", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns empty string for non-positive max", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://ceiba.ntu.edu.tw", 0))
		assert.Empty(t, crawl.TruncateURL("https://ceiba.ntu.edu.tw", -1))
	})

	t.Run("returns prefix when max is too small for ellipsis", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", crawl.TruncateURL("https://ceiba.ntu.edu.tw", 3))
		assert.Equal(t, "ab", crawl.TruncateURL("ab", 3))
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("returns consistent hash for same content", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, crawl.ComputeHash([]byte("公告")), crawl.ComputeHash([]byte("公告")))
	})

	t.Run("returns different hashes for different content", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, crawl.ComputeHash([]byte("a")), crawl.ComputeHash([]byte("b")))
	})

	t.Run("returns hex string", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, `^[0-9a-f]+$`, crawl.ComputeHash([]byte("test")))
	})
}
