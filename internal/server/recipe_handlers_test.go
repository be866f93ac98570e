package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"gastronauta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUserWithToken(t *testing.T, s *Server, db *gorm.DB) (models.User, string) {
	t.Helper()
	user := models.User{Username: "chef_maria", Email: "maria@example.com", Password: "pw"}
	require.NoError(t, db.Create(&user).Error)

	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "dish.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestCreateRecipeJSON(t *testing.T) {
	s, app, db := newTestServer(t)
	_, token := seedUserWithToken(t, s, db)

	payload := map[string]string{
		"title":       "Tortilla de patatas",
		"ingredients": "eggs, potatoes, olive oil",
		"steps":       "slice, fry, flip",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeBody(t, resp)
	assert.Equal(t, "Tortilla de patatas", out["title"])
	assert.Empty(t, out["image_path"])
}

func TestCreateRecipeMultipart(t *testing.T) {
	t.Run("With an image in the same request", func(t *testing.T) {
		s, app, db := newTestServer(t)
		_, token := seedUserWithToken(t, s, db)

		req := multipartRequest(t, "/api/recipes", map[string]string{
			"title":       "Paella Valenciana",
			"ingredients": "rice, saffron, rabbit",
			"steps":       "sofrito, rice, rest",
		}, pngBytes(t))
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		out := decodeBody(t, resp)
		imagePath, _ := out["image_path"].(string)
		require.True(t, strings.HasPrefix(imagePath, "/uploads/"), "got %q", imagePath)

		// Original plus thumbnail on disk.
		entries, err := os.ReadDir(s.config.UploadDir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("Image part is optional", func(t *testing.T) {
		s, app, db := newTestServer(t)
		_, token := seedUserWithToken(t, s, db)

		req := multipartRequest(t, "/api/recipes", map[string]string{
			"title":       "Gazpacho",
			"ingredients": "tomatoes, cucumber, bread",
			"steps":       "blend, chill",
		}, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		out := decodeBody(t, resp)
		assert.Empty(t, out["image_path"])
	})

	t.Run("Failed create removes the stored image", func(t *testing.T) {
		s, app, db := newTestServer(t)
		_, token := seedUserWithToken(t, s, db)

		// Missing title fails validation after the image is written.
		req := multipartRequest(t, "/api/recipes", map[string]string{
			"ingredients": "rice",
			"steps":       "boil",
		}, pngBytes(t))
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()

		entries, err := os.ReadDir(s.config.UploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestUploadAvatarCleansUpAfterFailure(t *testing.T) {
	s, app, db := newTestServer(t)
	_, token := seedUserWithToken(t, s, db)

	// Break the profile update so the handler hits its error branch after the
	// files are on disk.
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	req := multipartRequest(t, "/api/users/me/avatar", nil, pngBytes(t))
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	_ = resp.Body.Close()

	entries, err := os.ReadDir(s.config.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
