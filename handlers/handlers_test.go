package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"cloudvault/apperr"
	"cloudvault/config"
	"cloudvault/db"
	"cloudvault/manager"
	"cloudvault/models"
	"cloudvault/storage"
	"cloudvault/store"

	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, err := db.Open(&config.Config{SQLiteFile: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	st := store.New(conn)
	m := manager.New(manager.Deps{
		Store:      st,
		FileBlobs:  storage.NewDiskStorage(&storage.Bucket{Name: "files", Path: filepath.Join(t.TempDir(), "files")}),
		AlbumBlobs: storage.NewDiskStorage(&storage.Bucket{Name: "albums", Path: filepath.Join(t.TempDir(), "albums")}),
	})
	h := New(m, st, nil, maxUpload, 6)

	router := gin.New()
	router.Use(sessions.Sessions("token", gormsessions.NewStore(conn, true, []byte("test-key"))))
	h.Routes(router)
	return router
}

// client keeps the session cookie between requests
type client struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, engine *gin.Engine) *client {
	return &client{t: t, engine: engine, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		cl.cookies[c.Name] = c
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) upload(path, field, filename string, content []byte, fields url.Values) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k := range fields {
		require.NoError(cl.t, mw.WriteField(k, fields.Get(k)))
	}
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(cl.t, err)
	_, err = part.Write(content)
	require.NoError(cl.t, err)
	require.NoError(cl.t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}

func (cl *client) registerAndLogin(username string) {
	w := cl.post("/user/register", url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	require.Equal(cl.t, http.StatusOK, w.Code, w.Body.String())
	w = cl.post("/user/login", url.Values{"username": {username}, "password": {"secret123"}})
	require.Equal(cl.t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func pngBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(apperr.Errorf(apperr.ErrValidation, "x")))
	assert.Equal(t, http.StatusBadRequest, statusFor(apperr.ErrDisallowedExtension))
	assert.Equal(t, http.StatusNotFound, statusFor(apperr.ErrNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(apperr.ErrForbidden))
	assert.Equal(t, http.StatusInternalServerError, statusFor(apperr.ErrIOFailure))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestRegisterValidation(t *testing.T) {
	cl := newClient(t, newEngine(t, 0))
	form := func(user, email, pass, confirm string) url.Values {
		return url.Values{"username": {user}, "email": {email}, "password": {pass}, "confirm_password": {confirm}}
	}

	assert.Equal(t, http.StatusBadRequest, cl.post("/user/register", form("ann", "ann@example.com", "12345", "12345")).Code)
	assert.Equal(t, http.StatusBadRequest, cl.post("/user/register", form("ann", "ann@example.com", "123456", "654321")).Code)
	assert.Equal(t, http.StatusBadRequest, cl.post("/user/register", form("ann", "not-an-email", "123456", "123456")).Code)
	assert.Equal(t, http.StatusOK, cl.post("/user/register", form("ann", "ann@example.com", "123456", "123456")).Code)
	assert.Equal(t, http.StatusBadRequest, cl.post("/user/register", form("ann", "ann2@example.com", "123456", "123456")).Code)
}

func TestLoginAndLogout(t *testing.T) {
	engine := newEngine(t, 0)
	cl := newClient(t, engine)

	assert.Equal(t, http.StatusUnauthorized, cl.get("/file/list").Code)
	cl.registerAndLogin("ann")
	assert.Equal(t, http.StatusOK, cl.get("/file/list").Code)

	status := decode[struct {
		User UserInfo `json:"user"`
	}](t, cl.get("/user/status"))
	assert.Equal(t, "ann", status.User.Username)

	wrong := newClient(t, engine)
	w := wrong.post("/user/login", url.Values{"username": {"ann"}, "password": {"nope-nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = wrong.post("/user/login", url.Values{"username": {"nobody"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusOK, cl.post("/user/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, cl.get("/file/list").Code)
}

func TestFileEndpoints(t *testing.T) {
	engine := newEngine(t, 1024)
	ann := newClient(t, engine)
	ann.registerAndLogin("ann")
	ben := newClient(t, engine)
	ben.registerAndLogin("ben")

	w := ann.upload("/file/upload", "file", "report.pdf", []byte("%PDF quarterly"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	uploaded := decode[struct {
		File FileInfo `json:"file"`
	}](t, w).File
	assert.Equal(t, "pdf", uploaded.FileType)
	assert.Equal(t, "14 B", uploaded.SizeHuman)

	w = ann.upload("/file/upload", "file", "virus.exe", []byte("MZ"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file type not allowed")

	w = ann.upload("/file/upload", "file", "big.txt", bytes.Repeat([]byte("x"), 4096), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	id := strconv.FormatUint(uploaded.ID, 10)
	w = ann.get("/file/download?id=" + id)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF quarterly", w.Body.String())
	assert.Equal(t, `attachment; filename="report.pdf"`, w.Header().Get("Content-Disposition"))

	assert.Equal(t, http.StatusForbidden, ben.get("/file/download?id="+id).Code)
	assert.Equal(t, http.StatusForbidden, ben.post("/file/delete?id="+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, ann.get("/file/download?id=999").Code)
	assert.Equal(t, http.StatusBadRequest, ann.get("/file/download").Code)

	list := decode[struct {
		Files []FileInfo      `json:"files"`
		Stats store.FileStats `json:"stats"`
	}](t, ann.get("/file/list"))
	require.Len(t, list.Files, 1)
	assert.EqualValues(t, 1, list.Stats.Documents)

	assert.Equal(t, http.StatusOK, ann.post("/file/delete?id="+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, ann.get("/file/download?id="+id).Code)
}

func TestAlbumEndpoints(t *testing.T) {
	engine := newEngine(t, 1<<20)
	ann := newClient(t, engine)
	ann.registerAndLogin("ann")
	ben := newClient(t, engine)
	ben.registerAndLogin("ben")

	assert.Equal(t, http.StatusBadRequest, ann.post("/album/create", url.Values{"title": {"  "}}).Code)
	w := ann.post("/album/create", url.Values{"title": {"Trip"}, "description": {"Lisbon"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	album := decode[models.Album](t, w)
	albumID := strconv.FormatUint(album.ID, 10)

	w = ann.upload("/album/add_photo", "photo", "a.png", pngBytes(t, 300, 200), url.Values{"album_id": {albumID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	a := decode[models.Photo](t, w)
	w = ann.upload("/album/add_photo", "photo", "b.png", pngBytes(t, 10, 10), url.Values{"album_id": {albumID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b := decode[models.Photo](t, w)

	w = ann.upload("/album/add_photo", "photo", "doc.pdf", []byte("x"), url.Values{"album_id": {albumID}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ben.upload("/album/add_photo", "photo", "c.png", pngBytes(t, 5, 5), url.Values{"album_id": {albumID}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	type view struct {
		Album  AlbumInfo      `json:"album"`
		Photos []models.Photo `json:"photos"`
	}
	v := decode[view](t, ann.get("/album/view?id="+albumID))
	assert.Equal(t, 2, v.Album.PhotoCount)
	require.NotNil(t, v.Album.CoverPhoto)
	assert.Equal(t, a.StorageName, *v.Album.CoverPhoto)
	assert.Len(t, v.Photos, 2)
	assert.Equal(t, http.StatusNotFound, ben.get("/album/view?id="+albumID).Code)

	w = ann.get("/photo/fetch?id=" + strconv.FormatUint(a.ID, 10) + "&size=30")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	cfg, _, err := image.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	w = ann.get("/photo/fetch?id=" + strconv.FormatUint(a.ID, 10))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngBytes(t, 300, 200), w.Body.Bytes())
	assert.Equal(t, http.StatusNotFound, ben.get("/photo/fetch?id="+strconv.FormatUint(a.ID, 10)).Code)

	w = ann.post("/album/set_cover", url.Values{"album_id": {albumID}, "photo_id": {strconv.FormatUint(b.ID, 10)}})
	assert.Equal(t, http.StatusOK, w.Code)
	w = ann.post("/album/save", url.Values{"album_id": {albumID}, "title": {"Trip 2024"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Trip 2024", decode[models.Album](t, w).Title)
	assert.Equal(t, http.StatusNotFound, ben.post("/album/save", url.Values{"album_id": {albumID}, "title": {"x"}}).Code)

	assert.Equal(t, http.StatusNotFound, ben.post("/photo/delete", url.Values{"photo_id": {strconv.FormatUint(b.ID, 10)}}).Code)
	assert.Equal(t, http.StatusOK, ann.post("/photo/delete", url.Values{"photo_id": {strconv.FormatUint(b.ID, 10)}}).Code)
	v = decode[view](t, ann.get("/album/view?id="+albumID))
	assert.Equal(t, 1, v.Album.PhotoCount)
	assert.Equal(t, a.StorageName, *v.Album.CoverPhoto)

	albums := decode[[]models.Album](t, ann.get("/album/list"))
	assert.Len(t, albums, 1)

	assert.Equal(t, http.StatusNotFound, ben.post("/album/delete", url.Values{"album_id": {albumID}}).Code)
	assert.Equal(t, http.StatusOK, ann.post("/album/delete", url.Values{"album_id": {albumID}}).Code)
	assert.Equal(t, http.StatusNotFound, ann.get("/album/view?id="+albumID).Code)
}
