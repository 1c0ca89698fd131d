package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/civicsnap/pkg/controller/http"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/repository"
	"github.com/secmon-lab/civicsnap/pkg/usecase"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testEnv struct {
	srv  *httptest.Server
	auth *usecase.Auth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewMemory()

	auth, err := usecase.NewAuth(ctx, repo)
	gt.NoError(t, err).Required()

	_, err = auth.CreateAdmin(ctx, &model.Registration{Name: "Admin", Email: "admin@example.com", Password: "admin123"})
	gt.NoError(t, err).Required()
	_, err = auth.Register(ctx, &model.Registration{Name: "Citizen", Email: "citizen@example.com", Password: "citizen1"})
	gt.NoError(t, err).Required()

	server := controller.NewServer(ctx, "", &controller.UseCases{
		Auth:  auth,
		Issue: usecase.NewIssue(ctx, repo),
		Image: usecase.NewImage(ctx, repo),
	}, "")

	srv := httptest.NewServer(server.Handler)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, auth: auth}
}

func (e *testEnv) token(t *testing.T, email, password string) string {
	t.Helper()
	result, err := e.auth.Login(context.Background(), &model.Credentials{Email: email, Password: password})
	gt.NoError(t, err).Required()
	return result.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, r)
	gt.NoError(t, err).Required()
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	var out map[string]any
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
	return resp.StatusCode, out
}

func (e *testEnv) createIssue(t *testing.T, imageURL string) string {
	t.Helper()
	status, out := e.do(t, http.MethodPost, "/api/issues", "", map[string]any{
		"imageUrl": imageURL,
		"location": map[string]any{"latitude": 28.7041, "longitude": 77.1025},
	})
	gt.Equal(t, http.StatusCreated, status)
	return out["data"].(map[string]any)["_id"].(string)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.srv.URL + "/health")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	gt.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
			"name": "New", "email": "new@example.com", "password": "newpass1",
		})
		gt.Equal(t, http.StatusCreated, status)
		gt.Equal(t, true, out["success"])
	})

	t.Run("register twice", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
			"name": "Admin", "email": "admin@example.com", "password": "admin123",
		})
		gt.Equal(t, http.StatusBadRequest, status)
		gt.Equal(t, "User with this email already exists", out["error"])
	})

	t.Run("register validation lists field errors", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
			"name": "", "email": "bad", "password": "1",
		})
		gt.Equal(t, http.StatusBadRequest, status)
		gt.A(t, out["errors"].([]any)).Length(3)
	})

	t.Run("login", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email": "admin@example.com", "password": "admin123",
		})
		gt.Equal(t, http.StatusOK, status)
		data := out["data"].(map[string]any)
		gt.Equal(t, "admin", data["role"])
		gt.Equal(t, "Admin", data["name"])
		gt.NotEqual(t, "", data["token"])
	})

	t.Run("login with wrong password", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email": "admin@example.com", "password": "nope",
		})
		gt.Equal(t, http.StatusUnauthorized, status)
		gt.Equal(t, "Invalid credentials", out["error"])
	})

	t.Run("me", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
		gt.Equal(t, http.StatusUnauthorized, status)

		status, out := env.do(t, http.MethodGet, "/api/auth/me", env.token(t, "citizen@example.com", "citizen1"), nil)
		gt.Equal(t, http.StatusOK, status)
		gt.Equal(t, "citizen", out["data"].(map[string]any)["role"])
	})
}

func TestIssueRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "admin@example.com", "admin123")
	citizen := env.token(t, "citizen@example.com", "citizen1")

	t.Run("create returns issue and analysis", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/issues", "", map[string]any{
			"imageUrl":    "http://localhost/uploads/garbage-heap.png",
			"description": "Overflowing bins",
			"location":    map[string]any{"latitude": 28.7, "longitude": 77.1, "city": "Delhi"},
			"reportedBy":  map[string]any{"name": "Ravi"},
		})
		gt.Equal(t, http.StatusCreated, status)
		analysis := out["aiAnalysis"].(map[string]any)
		gt.Equal(t, "garbage", analysis["category"])
		gt.Equal(t, "moderate", analysis["severity"])
		gt.Equal(t, 0.9, analysis["confidence"])

		issue := out["data"].(map[string]any)
		gt.Equal(t, "reported", issue["status"])
		gt.Equal(t, []any{77.1, 28.7}, issue["location"].(map[string]any)["coordinates"].([]any))
	})

	t.Run("create without image", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/issues", "", map[string]any{
			"location": map[string]any{"latitude": 28.7, "longitude": 77.1},
		})
		gt.Equal(t, http.StatusBadRequest, status)
		gt.Equal(t, []any{"imageUrl is required"}, out["errors"].([]any))
	})

	id := env.createIssue(t, "http://localhost/uploads/pothole.png")

	t.Run("list filters by status", func(t *testing.T) {
		status, out := env.do(t, http.MethodGet, "/api/issues?category=pothole", "", nil)
		gt.Equal(t, http.StatusOK, status)
		gt.Equal(t, 1.0, out["count"])

		status, out = env.do(t, http.MethodGet, "/api/issues?status=resolved", "", nil)
		gt.Equal(t, http.StatusOK, status)
		gt.A(t, out["data"].([]any)).Length(0)
	})

	t.Run("vote", func(t *testing.T) {
		status, out := env.do(t, http.MethodPost, "/api/issues/"+id+"/vote", "", nil)
		gt.Equal(t, http.StatusOK, status)
		gt.Equal(t, 1.0, out["data"].(map[string]any)["votes"])
	})

	t.Run("update requires admin", func(t *testing.T) {
		body := map[string]any{"status": "in_progress"}

		status, _ := env.do(t, http.MethodPatch, "/api/issues/"+id, "", body)
		gt.Equal(t, http.StatusUnauthorized, status)

		status, out := env.do(t, http.MethodPatch, "/api/issues/"+id, citizen, body)
		gt.Equal(t, http.StatusForbidden, status)
		gt.Equal(t, "Admin access required", out["error"])

		status, out = env.do(t, http.MethodPatch, "/api/issues/"+id, admin, body)
		gt.Equal(t, http.StatusOK, status)
		gt.Equal(t, "in_progress", out["data"].(map[string]any)["status"])
	})

	t.Run("invalid status", func(t *testing.T) {
		status, out := env.do(t, http.MethodPatch, "/api/issues/"+id, admin, map[string]any{"status": "closed"})
		gt.Equal(t, http.StatusBadRequest, status)
		gt.Equal(t, "Invalid status", out["error"])
	})

	t.Run("stats", func(t *testing.T) {
		status, out := env.do(t, http.MethodGet, "/api/issues/stats", "", nil)
		gt.Equal(t, http.StatusOK, status)
		data := out["data"].(map[string]any)
		gt.Equal(t, 2.0, data["total"])
		gt.A(t, data["byCategory"].([]any)).Length(2)
	})

	t.Run("delete requires admin", func(t *testing.T) {
		status, _ := env.do(t, http.MethodDelete, "/api/issues/"+id, citizen, nil)
		gt.Equal(t, http.StatusForbidden, status)

		status, out := env.do(t, http.MethodDelete, "/api/issues/"+id, admin, nil)
		gt.Equal(t, http.StatusOK, status)
		gt.Equal(t, "Issue deleted successfully", out["message"])

		status, out = env.do(t, http.MethodGet, "/api/issues/"+id, "", nil)
		gt.Equal(t, http.StatusNotFound, status)
		gt.Equal(t, "Issue not found", out["error"])
	})
}

func uploadBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(controller.UploadField, filename)
	gt.NoError(t, err).Required()
	_, err = part.Write(data)
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()
	return &buf, mw.FormDataContentType()
}

func TestUploadRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("upload and serve", func(t *testing.T) {
		body, contentType := uploadBody(t, "pothole.png", pngHeader)
		resp, err := http.Post(env.srv.URL+"/api/upload/image", contentType, body)
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Data model.UploadResult `json:"data"`
		}
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
		gt.True(t, strings.HasPrefix(out.Data.ImageURL, env.srv.URL+"/uploads/pothole-"))

		img, err := http.Get(out.Data.ImageURL)
		gt.NoError(t, err).Required()
		defer img.Body.Close()
		gt.Equal(t, "image/png", img.Header.Get("Content-Type"))
		got, err := io.ReadAll(img.Body)
		gt.NoError(t, err).Required()
		gt.Equal(t, pngHeader, got)
	})

	t.Run("rejects non-image", func(t *testing.T) {
		body, contentType := uploadBody(t, "notes.png", []byte("just some text"))
		resp, err := http.Post(env.srv.URL+"/api/upload/image", contentType, body)
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing field", func(t *testing.T) {
		resp, err := http.Post(env.srv.URL+"/api/upload/image", "application/json", strings.NewReader("{}"))
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown image", func(t *testing.T) {
		resp, err := http.Get(env.srv.URL + "/uploads/missing.png")
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
