package renderer

import (
	"testing"
)

func TestNewUniformCache(t *testing.T) {
	cache := NewUniformCache(0)

	if cache == nil {
		t.Fatal("NewUniformCache returned nil")
	}

	if cache.locations == nil {
		t.Error("locations map should be initialized")
	}
}

func TestUniformCacheClear(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["u_mirrorMatrix"] = 5

	cache.Clear()

	if len(cache.locations) != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestUniformCacheReturnsCachedLocation(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["u_exposure"] = 7

	// A cached name must not reach the GL driver
	if loc := cache.GetLocation("u_exposure"); loc != 7 {
		t.Errorf("GetLocation = %d, want 7", loc)
	}
}

func TestUniformCacheSkipsEmptyArrays(t *testing.T) {
	cache := NewUniformCache(0)

	cache.SetFloats("waveAmplitudes", nil)
	cache.SetVec3Array("waveDirections", []float32{1, 0})

	if len(cache.locations) != 0 {
		t.Error("empty arrays should not look up a location")
	}
}
