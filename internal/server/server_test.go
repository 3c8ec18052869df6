package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/nick-dorsch/taskboard/internal/board"
	"github.com/nick-dorsch/taskboard/internal/storage"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Server, *board.Board, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	b := board.New(context.Background(), storage.NewAdapter(kv, storage.DefaultKey, quietLogger()), board.WithLogger(quietLogger()))
	return NewServer(b, quietLogger()), b, kv
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Page(t *testing.T) {
	srv, b, _ := newTestServer(t)
	h := srv.Handler()
	ctx := context.Background()

	t.Run("empty board", func(t *testing.T) {
		w := get(t, h, "/")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status OK, got %v", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "<title>TaskBoard</title>") {
			t.Error("page missing title")
		}
		if !strings.Contains(body, board.EmptyMessage(models.FilterAll)) {
			t.Error("page missing empty message for all")
		}
		if strings.Contains(body, "<footer>") {
			t.Error("footer should be hidden with no completed tasks")
		}
	})

	milk, _ := b.Add(ctx, "Buy milk")
	b.Add(ctx, "Walk <dog>")
	b.Toggle(ctx, milk.ID)

	t.Run("lists tasks newest first", func(t *testing.T) {
		body := get(t, h, "/").Body.String()
		dog := strings.Index(body, "Walk &lt;dog&gt;")
		milkIdx := strings.Index(body, "Buy milk")
		if dog == -1 || milkIdx == -1 {
			t.Fatalf("expected both tasks (escaped) in page:\n%s", body)
		}
		if dog > milkIdx {
			t.Error("expected newest task first")
		}
		if !strings.Contains(body, board.CompletionMessage(models.Stats{Completed: 1})) {
			t.Error("expected completion footer")
		}
	})

	t.Run("filter completed", func(t *testing.T) {
		body := get(t, h, "/?filter=completed").Body.String()
		if !strings.Contains(body, "Buy milk") || strings.Contains(body, "Walk &lt;dog&gt;") {
			t.Error("completed filter should show only Buy milk")
		}
		if !strings.Contains(body, `href="/?filter=completed" class="selected"`) {
			t.Error("expected completed link to be selected")
		}
	})

	t.Run("empty active message", func(t *testing.T) {
		b.Toggle(ctx, b.Tasks()[0].ID)
		defer b.Toggle(ctx, b.Tasks()[0].ID)
		body := get(t, h, "/?filter=active").Body.String()
		if !strings.Contains(body, board.EmptyMessage(models.FilterActive)) {
			t.Error("expected active empty message")
		}
	})

	t.Run("unknown filter behaves as all", func(t *testing.T) {
		body := get(t, h, "/?filter=bogus").Body.String()
		if !strings.Contains(body, "Buy milk") || !strings.Contains(body, "Walk &lt;dog&gt;") {
			t.Error("unknown filter should show everything")
		}
	})
}

func TestServer_FormActions(t *testing.T) {
	srv, b, kv := newTestServer(t)
	h := srv.Handler()

	w := postForm(t, h, "/tasks", url.Values{"text": {"  Buy milk  "}, "filter": {"active"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %v", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/?filter=active" {
		t.Errorf("expected redirect to active filter, got %s", loc)
	}
	if len(b.Tasks()) != 1 || b.Tasks()[0].Text != "Buy milk" {
		t.Fatalf("expected trimmed task added, got %+v", b.Tasks())
	}

	w = postForm(t, h, "/tasks", url.Values{"text": {"   "}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Errorf("blank add should redirect home, got %v %s", w.Code, w.Header().Get("Location"))
	}
	if len(b.Tasks()) != 1 {
		t.Error("blank add should be ignored")
	}

	id := string(b.Tasks()[0].ID)
	postForm(t, h, "/tasks/"+id+"/toggle", url.Values{})
	if !b.Tasks()[0].Completed {
		t.Error("expected task completed after toggle")
	}

	stored, _, _ := kv.Get(context.Background(), storage.DefaultKey)
	if !strings.Contains(stored, `"completed":true`) {
		t.Errorf("expected toggle mirrored to storage, got %s", stored)
	}

	postForm(t, h, "/tasks/"+id+"/delete", url.Values{})
	if len(b.Tasks()) != 0 {
		t.Error("expected task deleted")
	}

	w = postForm(t, h, "/tasks/missing/delete", url.Values{})
	if w.Code != http.StatusSeeOther {
		t.Errorf("delete of unknown id should still redirect, got %v", w.Code)
	}
}

func TestServer_API(t *testing.T) {
	srv, b, _ := newTestServer(t)
	h := srv.Handler()

	t.Run("POST /api/tasks", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"text":"Buy milk"}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %v", w.Code)
		}
		var task models.Task
		if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
			t.Fatalf("Failed to unmarshal task: %v", err)
		}
		if task.Text != "Buy milk" || task.Completed || task.ID == "" {
			t.Errorf("unexpected task %+v", task)
		}
	})

	t.Run("POST /api/tasks blank", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"text":"  "}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %v", w.Code)
		}
	})

	t.Run("POST /api/tasks bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %v", w.Code)
		}
	})

	id := string(b.Tasks()[0].ID)

	t.Run("POST /api/tasks/{id}/toggle", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+id+"/toggle", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %v", w.Code)
		}
		var task models.Task
		json.Unmarshal(w.Body.Bytes(), &task)
		if !task.Completed {
			t.Error("expected toggled task to be completed")
		}

		req = httptest.NewRequest(http.MethodPost, "/api/tasks/nope/toggle", nil)
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204 for unknown id, got %v", w.Code)
		}
	})

	t.Run("GET /api/tasks", func(t *testing.T) {
		w := get(t, h, "/api/tasks?filter=active")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status OK, got %v", w.Code)
		}
		var resp listResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to unmarshal list: %v", err)
		}
		if resp.Filter != models.FilterActive {
			t.Errorf("expected filter active, got %s", resp.Filter)
		}
		if len(resp.Tasks) != 0 {
			t.Errorf("expected no active tasks, got %d", len(resp.Tasks))
		}
		if resp.Stats.Total != 1 || resp.Stats.Completed != 1 {
			t.Errorf("unexpected stats %+v", resp.Stats)
		}
	})

	t.Run("GET /api/stats", func(t *testing.T) {
		var stats models.Stats
		if err := json.Unmarshal(get(t, h, "/api/stats").Body.Bytes(), &stats); err != nil {
			t.Fatalf("Failed to unmarshal stats: %v", err)
		}
		if stats != (models.Stats{Total: 1, Active: 0, Completed: 1}) {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("DELETE /api/tasks/{id}", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodDelete, "/api/tasks/"+id, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != http.StatusNoContent {
				t.Errorf("delete %d: expected 204, got %v", i, w.Code)
			}
		}
		if len(b.Tasks()) != 0 {
			t.Error("expected empty board")
		}
	})
}

func TestShutdownWithoutStart(t *testing.T) {
	srv, _, _ := newTestServer(t)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
