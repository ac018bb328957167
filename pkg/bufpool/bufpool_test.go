package bufpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_SizeClasses(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantCap int
	}{
		{"record mark only", 4, DefaultSmallSize},
		{"small boundary", DefaultSmallSize, DefaultSmallSize},
		{"medium", DefaultSmallSize + 1, DefaultMediumSize},
		{"large", DefaultMediumSize + 1, DefaultLargeSize},
		{"oversized", DefaultLargeSize + 1, DefaultLargeSize + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Get(tt.size)
			defer Put(buf)
			assert.Len(t, buf, tt.size)
			assert.Equal(t, tt.wantCap, cap(buf))
		})
	}
}

func TestPut_IgnoresForeignSlices(t *testing.T) {
	p := NewPool(nil)
	p.Put(nil)
	p.Put(make([]byte, 100))
	p.Put(make([]byte, DefaultLargeSize*2))

	buf := p.Get(100)
	assert.Equal(t, DefaultSmallSize, cap(buf))
}

func TestPut_RestoresFullLength(t *testing.T) {
	p := NewPool(&Config{SmallSize: 64})
	buf := p.Get(8)
	require.Len(t, buf, 8)
	p.Put(buf)

	again := p.Get(64)
	assert.Len(t, again, 64)
	assert.Equal(t, 64, cap(again))
}

func TestNewPool_CustomSizes(t *testing.T) {
	p := NewPool(&Config{SmallSize: 128, LargeSize: 256 << 10})

	assert.Equal(t, 128, cap(p.Get(100)))
	assert.Equal(t, DefaultMediumSize, cap(p.Get(1000)))
	assert.Equal(t, 256<<10, cap(p.Get(DefaultMediumSize+1)))
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				buf := Get((n*j)%DefaultMediumSize + 1)
				buf[0] = byte(n)
				Put(buf)
			}
		}(i)
	}
	wg.Wait()
}
