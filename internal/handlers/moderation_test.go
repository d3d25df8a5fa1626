package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"mediamod/internal/classifier"
	"mediamod/internal/models"
	"mediamod/internal/moderation"
)

type scriptedClassifier struct {
	verdict models.Verdict
	err     error
}

func (s *scriptedClassifier) Classify(ctx context.Context, item models.MediaItem) (models.Verdict, error) {
	return s.verdict, s.err
}

func newTestApp(clf moderation.Classifier) (*fiber.App, *moderation.Service) {
	svc := moderation.NewService(moderation.NewStore(), clf, nil)
	h := NewModerationHandler(svc)

	app := fiber.New()
	app.Post("/api/items", h.Submit)
	app.Get("/api/items", h.List)
	app.Get("/api/items/counts", h.Counts)
	app.Get("/api/items/:id", h.Get)
	app.Post("/api/items/:id/approve", h.Approve)
	app.Post("/api/items/:id/reject", h.Reject)
	app.Post("/api/items/:id/undo", h.Undo)
	app.Post("/api/items/:id/classify", h.Classify)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var envelope map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q", method, path, raw)
		}
	}
	return resp.StatusCode, envelope
}

func submitBody(id string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"owner_id": "user-1",
		"owner_name": "Dana",
		"media_ref": "https://cdn.example.com/media/%s.jpg",
		"kind": "avatar",
		"title": "Profile shot"
	}`, id, id)
}

func TestSubmitEndpoint(t *testing.T) {
	app, _ := newTestApp(nil)

	code, envelope := doJSON(t, app, "POST", "/api/items", submitBody("7"))
	if code != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	if envelope["status"] != "ok" {
		t.Errorf("envelope = %v", envelope)
	}

	// Duplicate id
	if code, _ := doJSON(t, app, "POST", "/api/items", submitBody("7")); code != fiber.StatusConflict {
		t.Errorf("duplicate submit status = %d, want 409", code)
	}

	// Invalid body
	if code, _ := doJSON(t, app, "POST", "/api/items", `{"id":`); code != fiber.StatusBadRequest {
		t.Errorf("malformed submit status = %d, want 400", code)
	}

	// Invalid kind
	if code, _ := doJSON(t, app, "POST", "/api/items",
		`{"id":"8","owner_id":"u","media_ref":"https://x.example/a.jpg","kind":"gif"}`); code != fiber.StatusBadRequest {
		t.Errorf("invalid kind status = %d, want 400", code)
	}
}

func TestRejectEndpoint(t *testing.T) {
	app, svc := newTestApp(nil)
	doJSON(t, app, "POST", "/api/items", submitBody("7"))

	// Reason is mandatory
	if code, _ := doJSON(t, app, "POST", "/api/items/7/reject", `{}`); code != fiber.StatusBadRequest {
		t.Errorf("reject without reason status = %d, want 400", code)
	}

	code, _ := doJSON(t, app, "POST", "/api/items/7/reject", `{"reason":"Nudity detected"}`)
	if code != fiber.StatusOK {
		t.Fatalf("reject status = %d, want 200", code)
	}

	item, err := svc.Store().Get("7")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if item.Status != models.StatusRejected || item.ModeratorNote != "Nudity detected" {
		t.Errorf("item = %+v", item)
	}

	// Already terminal
	if code, _ := doJSON(t, app, "POST", "/api/items/7/reject", `{"reason":"again"}`); code != fiber.StatusConflict {
		t.Errorf("double reject status = %d, want 409", code)
	}
}

func TestApproveUndoEndpoints(t *testing.T) {
	app, svc := newTestApp(nil)
	doJSON(t, app, "POST", "/api/items", submitBody("a"))

	if code, _ := doJSON(t, app, "POST", "/api/items/a/approve", ""); code != fiber.StatusOK {
		t.Fatalf("approve status = %d, want 200", code)
	}
	if code, _ := doJSON(t, app, "POST", "/api/items/a/approve", ""); code != fiber.StatusConflict {
		t.Errorf("double approve status = %d, want 409", code)
	}
	if code, _ := doJSON(t, app, "POST", "/api/items/a/undo", ""); code != fiber.StatusOK {
		t.Errorf("undo status = %d, want 200", code)
	}
	if code, _ := doJSON(t, app, "POST", "/api/items/a/undo", ""); code != fiber.StatusConflict {
		t.Errorf("undo on pending status = %d, want 409", code)
	}
	if code, _ := doJSON(t, app, "POST", "/api/items/missing/approve", ""); code != fiber.StatusNotFound {
		t.Errorf("approve missing status = %d, want 404", code)
	}

	item, _ := svc.Store().Get("a")
	if item.Status != models.StatusPending {
		t.Errorf("final status = %q, want pending", item.Status)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	app, svc := newTestApp(&scriptedClassifier{
		verdict: models.Verdict{Approved: true, Confidence: 95, Rationale: "clean"},
	})
	doJSON(t, app, "POST", "/api/items", submitBody("9"))

	code, _ := doJSON(t, app, "POST", "/api/items/9/classify", "")
	if code != fiber.StatusOK {
		t.Fatalf("classify status = %d, want 200", code)
	}

	item, _ := svc.Store().Get("9")
	if item.Status != models.StatusApproved {
		t.Errorf("status = %q, want approved", item.Status)
	}
	if item.AIVerdict == nil || item.AIVerdict.Confidence != 95 {
		t.Errorf("aiVerdict = %+v", item.AIVerdict)
	}
}

func TestClassifyEndpointFailure(t *testing.T) {
	app, svc := newTestApp(&scriptedClassifier{
		err: fmt.Errorf("%w: upstream down", classifier.ErrClassificationFailed),
	})
	doJSON(t, app, "POST", "/api/items", submitBody("11"))

	code, envelope := doJSON(t, app, "POST", "/api/items/11/classify", "")
	if code != fiber.StatusBadGateway {
		t.Fatalf("classify failure status = %d, want 502", code)
	}
	if envelope["status"] != "error" {
		t.Errorf("envelope = %v", envelope)
	}

	item, _ := svc.Store().Get("11")
	if item.Status != models.StatusPending {
		t.Errorf("status = %q, want pending after failure", item.Status)
	}
}

func TestListAndCountsEndpoints(t *testing.T) {
	app, _ := newTestApp(nil)
	doJSON(t, app, "POST", "/api/items", submitBody("a"))
	doJSON(t, app, "POST", "/api/items", submitBody("b"))
	doJSON(t, app, "POST", "/api/items/b/approve", "")

	code, envelope := doJSON(t, app, "GET", "/api/items?status=pending", "")
	if code != fiber.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	data := envelope["data"].(map[string]any)
	if items := data["items"].([]any); len(items) != 1 {
		t.Errorf("pending list has %d items, want 1", len(items))
	}

	if code, _ := doJSON(t, app, "GET", "/api/items?status=bogus", ""); code != fiber.StatusBadRequest {
		t.Errorf("bogus status filter = %d, want 400", code)
	}

	code, envelope = doJSON(t, app, "GET", "/api/items/counts", "")
	if code != fiber.StatusOK {
		t.Fatalf("counts status = %d", code)
	}
	counts := envelope["data"].(map[string]any)
	if counts[models.StatusPending].(float64) != 1 || counts[models.StatusApproved].(float64) != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestGetEndpoint(t *testing.T) {
	app, _ := newTestApp(nil)
	doJSON(t, app, "POST", "/api/items", submitBody("a"))

	code, envelope := doJSON(t, app, "GET", "/api/items/a", "")
	if code != fiber.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	item := envelope["data"].(map[string]any)
	if item["id"] != "a" || item["status"] != models.StatusPending {
		t.Errorf("item = %v", item)
	}

	if code, _ := doJSON(t, app, "GET", "/api/items/missing", ""); code != fiber.StatusNotFound {
		t.Errorf("get missing status = %d, want 404", code)
	}
}
