package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quicky-ai/quicky-core/internal/config"
	"github.com/quicky-ai/quicky-core/internal/database"
	"github.com/quicky-ai/quicky-core/internal/models"
	"github.com/quicky-ai/quicky-core/internal/modules/content/extractor"
	"github.com/quicky-ai/quicky-core/internal/modules/processing/summarizer"
	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
)

func init() { gin.SetMode(gin.TestMode) }

const longText = "Quicky turns long articles and videos into short summaries you can skim in seconds."

type stubExtractor struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (s *stubExtractor) Extract(_ context.Context, kind extractor.Kind, reference string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if kind == extractor.KindText {
		return reference, nil
	}
	return s.text, nil
}

type countingGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *countingGenerator) Generate(_ context.Context, _ string, format summarizer.Format) string {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	return summarizer.Canned(format)
}

type fixture struct {
	db  *gorm.DB
	ext *stubExtractor
	gen *countingGenerator
	svc *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	f := &fixture{db: db, ext: &stubExtractor{}, gen: &countingGenerator{}}
	f.svc = NewService(db, f.ext, f.gen, config.Default(config.EnvTesting).Content, nil)
	return f
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, code), "want %s, got %v", code, err)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("some text", summarizer.FormatBullets)
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint("some text", summarizer.FormatBullets))
	assert.NotEqual(t, a, Fingerprint("some text!", summarizer.FormatBullets))
	assert.NotEqual(t, a, Fingerprint("some text", summarizer.FormatNotes))
}

func TestSummarizeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Summarize(ctx, Request{ContentSource: longText})
	requireCode(t, err, apperr.CodeMissingFields)

	_, err = f.svc.Summarize(ctx, Request{ContentType: "paragraph"})
	requireCode(t, err, apperr.CodeMissingFields)

	_, err = f.svc.Summarize(ctx, Request{ContentType: "podcast", ContentSource: longText})
	requireCode(t, err, apperr.CodeUnsupportedType)

	_, err = f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: "short"})
	requireCode(t, err, apperr.CodeTextTooShort)

	_, err = f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText, SessionID: strings.Repeat("s", 101)})
	requireCode(t, err, apperr.CodeInvalidField)

	assert.Zero(t, f.ext.calls, "validation failures never reach the extractor")
}

func TestSummarizeTextLengthBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	padded := "   " + strings.Repeat("x", 49) + "   "
	_, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: padded})
	requireCode(t, err, apperr.CodeTextTooShort)

	res, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: strings.Repeat("x", 50)})
	require.NoError(t, err)
	assert.False(t, res.Cached)
}

func TestSummarizeCachesByTextAndFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := Request{ContentType: "paragraph", ContentSource: longText, Format: "keywords", SessionID: "session-a"}

	first, err := f.svc.Summarize(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.NotZero(t, first.SummaryID)
	assert.Equal(t, summarizer.Canned(summarizer.FormatKeywords), first.Summary)

	req.SessionID = "session-b"
	second, err := f.svc.Summarize(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.SummaryID, second.SummaryID)
	assert.Equal(t, "session-b", second.SessionID)
	assert.Equal(t, 1, f.gen.calls)

	req.Format = "notes"
	third, err := f.svc.Summarize(ctx, req)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, f.gen.calls)
}

func TestSummarizeUnknownFormatFallsBackToBullets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText, Format: " Limerick "})
	require.NoError(t, err)
	assert.Equal(t, summarizer.Format("limerick"), res.Format)
	assert.Equal(t, summarizer.Canned(summarizer.FormatBullets), res.Summary)
	assert.False(t, res.Cached)

	var row models.SummaryModel
	require.NoError(t, f.db.First(&row, res.SummaryID).Error)
	assert.Equal(t, "limerick", row.SummaryFormat)
	assert.Equal(t, Fingerprint(longText, "limerick"), row.ContentHash)

	bullets, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText, Format: "bullets"})
	require.NoError(t, err)
	assert.False(t, bullets.Cached)
	assert.NotEqual(t, res.SummaryID, bullets.SummaryID)

	again, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText, Format: "limerick"})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, res.SummaryID, again.SummaryID)
	assert.Equal(t, 2, f.gen.calls)
}

func TestSummarizeRejectsOverlongFormat(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Summarize(context.Background(), Request{
		ContentType: "paragraph", ContentSource: longText, Format: strings.Repeat("x", maxFormatLen+1),
	})
	requireCode(t, err, apperr.CodeInvalidField)
	assert.Zero(t, f.gen.calls)
}

func TestSummarizeGeneratesSessionID(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Summarize(context.Background(), Request{ContentType: "paragraph", ContentSource: longText})
	require.NoError(t, err)
	assert.Len(t, res.SessionID, 36)
}

func TestSummarizeExtractionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ext.err = apperr.Extraction(apperr.CodeFetchError, apperr.MsgFetchError, errors.New("dial tcp"))
	_, err := f.svc.Summarize(ctx, Request{ContentType: "blog", ContentSource: "https://example.com"})
	requireCode(t, err, apperr.CodeFetchError)

	f.ext.err = errors.New("unexpected")
	_, err = f.svc.Summarize(ctx, Request{ContentType: "blog", ContentSource: "https://example.com"})
	requireCode(t, err, apperr.CodeInternal)

	f.ext.err = nil
	f.ext.text = "  tiny \n"
	_, err = f.svc.Summarize(ctx, Request{ContentType: "video", ContentSource: "https://youtu.be/dQw4w9WgXcQ"})
	requireCode(t, err, apperr.CodeInsufficientContent)

	_, err = f.svc.Summarize(ctx, Request{ContentType: "ebook", ContentSource: "   short  "})
	requireCode(t, err, apperr.CodeInsufficientContent)
}

func TestSummarizeTruncatesAndSnapshots(t *testing.T) {
	f := newFixture(t)
	f.svc.limits.MaxChars = 200
	f.svc.limits.SnapshotChars = 50
	f.ext.text = strings.Repeat("abcdefghij", 100)

	res, err := f.svc.Summarize(context.Background(), Request{ContentType: "blog", ContentSource: "https://example.com/long"})
	require.NoError(t, err)

	var row models.SummaryModel
	require.NoError(t, f.db.First(&row, res.SummaryID).Error)
	assert.Len(t, row.ExtractedContent, 50)
	assert.Equal(t, Fingerprint(f.ext.text[:200], summarizer.FormatBullets), row.ContentHash)
	assert.Equal(t, "https://example.com/long", row.ContentSource)
	assert.Equal(t, "blog", row.ContentType)
}

func TestSummarizeLinksExistingUserOnly(t *testing.T) {
	f := newFixture(t)
	user := models.UserModel{Email: "reader@example.com"}
	require.NoError(t, f.db.Create(&user).Error)

	res, err := f.svc.Summarize(context.Background(), Request{ContentType: "paragraph", ContentSource: longText, UserID: user.ID})
	require.NoError(t, err)
	var row models.SummaryModel
	require.NoError(t, f.db.First(&row, res.SummaryID).Error)
	require.NotNil(t, row.UserID)
	assert.Equal(t, user.ID, *row.UserID)

	res, err = f.svc.Summarize(context.Background(), Request{ContentType: "paragraph", ContentSource: longText + " more", UserID: "ghost"})
	require.NoError(t, err)
	var unlinked models.SummaryModel
	require.NoError(t, f.db.First(&unlinked, res.SummaryID).Error)
	assert.Equal(t, res.SummaryID, unlinked.ID)
	assert.Nil(t, unlinked.UserID)
}

func TestInsertConflictReturnsWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hash := Fingerprint(longText, summarizer.FormatNotes)

	winner := &models.SummaryModel{SessionID: "a", ContentType: "paragraph", ContentSource: longText,
		SummaryFormat: "notes", SummaryText: "winner", ContentHash: hash}
	stored, inserted, err := f.svc.insert(ctx, winner)
	require.NoError(t, err)
	assert.True(t, inserted)

	loser := &models.SummaryModel{SessionID: "b", ContentType: "paragraph", ContentSource: longText,
		SummaryFormat: "notes", SummaryText: "loser", ContentHash: hash}
	got, inserted, err := f.svc.insert(ctx, loser)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "winner", got.SummaryText)

	var count int64
	require.NoError(t, f.db.Model(&models.SummaryModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText})
	require.NoError(t, err)

	liked, err := f.svc.ToggleLike(ctx, res.SummaryID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = f.svc.ToggleLike(ctx, res.SummaryID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = f.svc.ToggleLike(ctx, 999999)
	requireCode(t, err, apperr.CodeNotFound)
}

// HTTP

func newRouter(f *fixture) *gin.Engine {
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestHTTPSummarizeTooShort(t *testing.T) {
	r := newRouter(newFixture(t))
	rec, body := doJSON(t, r, http.MethodPost, "/api/summarize", map[string]string{
		"content_type": "paragraph", "content_source": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TextTooShort", body["code"])
	assert.Equal(t, apperr.MsgTextTooShort, body["error"])
}

func TestHTTPSummarizeTwiceIsCached(t *testing.T) {
	r := newRouter(newFixture(t))
	payload := map[string]string{"content_type": "paragraph", "content_source": longText, "format": "keywords"}

	rec, first := doJSON(t, r, http.MethodPost, "/api/summarize", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, first["success"])
	assert.Equal(t, false, first["cached"])
	assert.NotEmpty(t, first["session_id"])
	assert.NotNil(t, first["summary_id"])

	rec, second := doJSON(t, r, http.MethodPost, "/api/summarize", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, second["cached"])
	assert.Equal(t, first["summary"], second["summary"])
}

func TestHTTPSummarizeMalformedBody(t *testing.T) {
	r := newRouter(newFixture(t))
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), apperr.MsgMissingFields)
}

func TestHTTPSummarizeInternalErrorHidesCause(t *testing.T) {
	f := newFixture(t)
	f.ext.err = errors.New("secret stack detail")
	r := newRouter(f)

	rec, body := doJSON(t, r, http.MethodPost, "/api/summarize", map[string]string{
		"content_type": "blog", "content_source": "https://example.com",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperr.MsgInternal, body["error"])
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestHTTPLike(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	res, err := f.svc.Summarize(context.Background(), Request{ContentType: "paragraph", ContentSource: longText})
	require.NoError(t, err)

	rec, body := doJSON(t, r, http.MethodPost, "/api/summary/"+strconv.FormatUint(uint64(res.SummaryID), 10)+"/like", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["liked"])

	rec, _ = doJSON(t, r, http.MethodPost, "/api/summary/999999/like", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/summary/abc/like", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPListBySession(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)

	rec, body := doJSON(t, r, http.MethodGet, "/api/summaries/empty-session", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []interface{}{}, body["summaries"])

	ctx := context.Background()
	long := strings.Repeat("y", 150)
	_, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText, SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: long, SessionID: "s1", Format: "slides"})
	require.NoError(t, err)
	_, err = f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText + "!", SessionID: "other"})
	require.NoError(t, err)

	rec, body = doJSON(t, r, http.MethodGet, "/api/summaries/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := body["summaries"].([]interface{})
	require.Len(t, items, 2)

	newest := items[0].(map[string]interface{})
	assert.Equal(t, "slides", newest["summary_format"])
	assert.Equal(t, strings.Repeat("y", 100)+"...", newest["content_source"])
	assert.Equal(t, false, newest["liked"])
	assert.NotEmpty(t, newest["created_at"])

	oldest := items[1].(map[string]interface{})
	assert.Equal(t, longText, oldest["content_source"])
}

func TestHTTPListBySessionPaged(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Summarize(ctx, Request{ContentType: "paragraph", ContentSource: longText + strings.Repeat("!", i), SessionID: "paged"})
		require.NoError(t, err)
	}

	rec, body := doJSON(t, r, http.MethodGet, "/api/summaries/paged?page=2&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := body["summaries"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, longText, items[0].(map[string]interface{})["content_source"])

	meta := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["total_page"])
	assert.Equal(t, false, meta["has_next_page"])
	assert.Equal(t, true, meta["has_prev_page"])

	_, body = doJSON(t, r, http.MethodGet, "/api/summaries/paged", nil)
	assert.Len(t, body["summaries"], 3)
	assert.NotContains(t, body, "pagination")
}
