package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{16 << 20, "16.0 MB"},
		{3 << 30, "3.0 GB"},
		{5 << 50, "5120.0 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.in), tt.in)
	}
}

func TestGetDatesString(t *testing.T) {
	day := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "empty :(", GetDatesString(0, day))
	assert.Equal(t, "1 Jul 2024", GetDatesString(day, day+3600))
	assert.Equal(t, "1 Jul 2024 - 5 Jul 2024", GetDatesString(day, day+4*86400))
}

func TestCreateThumb(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		src.Set(x, 100, color.RGBA{R: 255, A: 255})
	}
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, src))

	var out bytes.Buffer
	result, err := CreateThumb(100, &in, &out)
	require.NoError(t, err)
	assert.EqualValues(t, 100, result.NewX)
	assert.EqualValues(t, 50, result.NewY)
	assert.EqualValues(t, 400, result.OldX)
	assert.EqualValues(t, out.Len(), result.ThumbSize)

	_, _, err = image.Decode(&out)
	assert.NoError(t, err)
}

func TestCreateThumbRejectsGarbage(t *testing.T) {
	_, err := CreateThumb(100, bytes.NewReader([]byte("not an image")), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestCacheRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use((&CacheRouter{CacheTime: CacheNoCache}).Handler())
	r.GET("/a", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", (&CacheRouter{CacheTime: 600}).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.Equal(t, "no-cache", w.Header().Get("cache-control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/b", nil))
	assert.Equal(t, "private, max-age=600", w.Header().Get("cache-control"))
}
