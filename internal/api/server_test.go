package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// 2024-03-14 10:00 UTC
var fixedNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

type serverSuite struct {
	suite.Suite
	handler http.Handler
	closeDB func()
}

func TestServer(t *testing.T) {
	suite.Run(t, new(serverSuite))
}

func (s *serverSuite) SetupTest() {
	conn := testutil.NewTestDB(s.T())
	s.closeDB = func() { testutil.MustClose(s.T(), conn) }

	users := sqlite.NewUserRepository(conn)
	folders := sqlite.NewFolderRepository(conn)
	decks := sqlite.NewDeckRepository(conn)
	cards := sqlite.NewCardRepository(conn)
	tags := sqlite.NewTagRepository(conn)
	sessions := sqlite.NewStudySessionRepository(conn)
	tokens := auth.NewTokens("test-secret-0123456789", time.Hour)

	srv := &Server{
		UserService:    services.NewUserService(users, tokens),
		FolderService:  services.NewFolderService(folders),
		DeckService:    services.NewDeckService(decks, folders, tags, cards),
		CardService:    services.NewCardService(cards, decks),
		TagService:     services.NewTagService(tags),
		StudyService:   services.NewStudyService(cards, decks, folders, users, 10),
		StatsService:   services.NewStatsService(sessions, decks, folders, time.UTC, func() time.Time { return fixedNow }),
		ImportService:  services.NewImportService(cards, decks, 100),
		MaxUploadBytes: 1 << 20,
	}
	s.handler = srv.Routes()
}

func (s *serverSuite) TearDownTest() {
	s.closeDB()
}

func (s *serverSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *serverSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *serverSuite) register(name string) string {
	rec := s.do(http.MethodPost, "/api/auth/register", "", models.Registration{
		Name:     name,
		Email:    name + "@example.com",
		Password: "correct-horse",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var session models.Session
	s.decode(rec, &session)
	s.Require().NotEmpty(session.Token)
	return session.Token
}

func (s *serverSuite) createDeck(token, name string) models.Deck {
	rec := s.do(http.MethodPost, "/api/decks", token, models.DeckInput{Name: name})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var deck models.Deck
	s.decode(rec, &deck)
	return deck
}

func (s *serverSuite) addCard(token string, deckID int64, front string) models.CardResult {
	rec := s.do(http.MethodPost, deckPath(deckID)+"/cards", token, models.CardInput{Front: front, Back: front + "-back"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var result models.CardResult
	s.decode(rec, &result)
	return result
}

func deckPath(id int64) string {
	return "/api/decks/" + itoa(id)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *serverSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body errorBody
	s.decode(rec, &body)
	return body.Error.Code
}

func (s *serverSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/readyz", "", nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code, "no database configured")
}

func (s *serverSuite) TestUnknownRouteIsJSON() {
	rec := s.do(http.MethodGet, "/api/nope", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.errorCode(rec))
	s.Equal("application/json", rec.Header().Get("Content-Type"))
}

func (s *serverSuite) TestAuthRequired() {
	rec := s.do(http.MethodGet, "/api/decks", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("UNAUTHORIZED", s.errorCode(rec))

	rec = s.do(http.MethodGet, "/api/decks", "garbage", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *serverSuite) TestCookieSession() {
	rec := s.do(http.MethodPost, "/api/auth/guest", "", nil)
	s.Require().Equal(http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	s.Require().NotEmpty(cookies)
	s.Equal(tokenCookieName, cookies[0].Name)
	s.True(cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookies[0])
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	s.Require().Equal(http.StatusOK, me.Code, me.Body.String())
	var user models.User
	s.decode(me, &user)
	s.True(user.IsGuest)
}

func (s *serverSuite) TestLoginRejectsWrongPassword() {
	s.register("alice")
	rec := s.do(http.MethodPost, "/api/auth/login", "", models.Credentials{Email: "alice@example.com", Password: "wrong-password"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", models.Credentials{Email: "ALICE@example.com", Password: "correct-horse"})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *serverSuite) TestInvalidBody() {
	token := s.register("alice")
	req := httptest.NewRequest(http.MethodPost, "/api/decks", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("BAD_REQUEST", s.errorCode(rec))

	rec = s.do(http.MethodGet, "/api/decks/abc", token, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *serverSuite) TestDeckProgressFollowsCards() {
	token := s.register("alice")
	deck := s.createDeck(token, "Spanish")

	var ids []int64
	for _, front := range []string{"uno", "dos", "tres", "cuatro"} {
		ids = append(ids, s.addCard(token, deck.ID, front).Card.ID)
	}

	var last models.CardResult
	for _, id := range ids[:3] {
		rec := s.do(http.MethodPatch, deckPath(deck.ID)+"/cards/"+itoa(id), token, map[string]bool{"mastered": true})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		s.decode(rec, &last)
	}
	s.Equal(models.DeckProgress{DeckID: deck.ID, TotalCards: 4, Progress: 75}, last.Deck)

	rec := s.do(http.MethodGet, deckPath(deck.ID), token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var got models.Deck
	s.decode(rec, &got)
	s.Equal(4, got.TotalCards)
	s.Equal(75, got.Progress)

	rec = s.do(http.MethodDelete, deckPath(deck.ID)+"/cards/"+itoa(ids[3]), token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var deleted models.CardResult
	s.decode(rec, &deleted)
	s.Nil(deleted.Card)
	s.Equal(models.DeckProgress{DeckID: deck.ID, TotalCards: 3, Progress: 100}, deleted.Deck)

	rec = s.do(http.MethodPost, deckPath(deck.ID)+"/recompute", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var recomputed models.DeckProgress
	s.decode(rec, &recomputed)
	s.Equal(deleted.Deck, recomputed)
}

func (s *serverSuite) TestOtherUsersAreForbidden() {
	alice := s.register("alice")
	bob := s.register("bob")
	deck := s.createDeck(alice, "Private")
	card := s.addCard(alice, deck.ID, "secret").Card

	rec := s.do(http.MethodGet, deckPath(deck.ID), bob, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("FORBIDDEN", s.errorCode(rec))

	rec = s.do(http.MethodPatch, deckPath(deck.ID)+"/cards/"+itoa(card.ID), bob, map[string]bool{"mastered": true})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, deckPath(deck.ID), bob, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/decks", bob, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())

	rec = s.do(http.MethodGet, deckPath(deck.ID), alice, nil)
	s.Equal(http.StatusOK, rec.Code, "owner still sees the deck")
}

func (s *serverSuite) TestStatsAfterSession() {
	token := s.register("alice")
	deck := s.createDeck(token, "Kanji")
	card := s.addCard(token, deck.ID, "木").Card
	rec := s.do(http.MethodPatch, deckPath(deck.ID)+"/cards/"+itoa(card.ID), token, map[string]bool{"mastered": true})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.addCard(token, deck.ID, "火")

	rec = s.do(http.MethodPost, "/api/study-sessions", token, models.StudySessionInput{
		DeckID:          &deck.ID,
		DurationMinutes: 25,
		CardsReviewed:   2,
		CardsMastered:   1,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var session models.StudySession
	s.decode(rec, &session)
	s.Equal("2024-03-14", session.SessionDate.String())

	rec = s.do(http.MethodGet, "/api/stats", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var stats models.UserStats
	s.decode(rec, &stats)
	s.Equal(25, stats.TodayMinutes)
	s.Equal(1, stats.StreakDays)
	s.Equal(50, stats.OverallProgress)
	s.Require().Len(stats.DailySeries, 7)
	s.Equal("Thu", stats.DailySeries[6].Weekday)
	s.Equal(25, stats.DailySeries[6].Minutes)

	rec = s.do(http.MethodGet, "/api/stats/overall-progress", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"overall_progress":50}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/study-sessions?limit=5", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var listed []models.StudySession
	s.decode(rec, &listed)
	s.Len(listed, 1)
}

func (s *serverSuite) TestRecordSessionValidation() {
	token := s.register("alice")
	rec := s.do(http.MethodPost, "/api/study-sessions", token, models.StudySessionInput{DurationMinutes: 0})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(rec))
}

func (s *serverSuite) TestStudyQueueAndAnswer() {
	token := s.register("alice")
	deck := s.createDeck(token, "Capitals")
	card := s.addCard(token, deck.ID, "France").Card

	rec := s.do(http.MethodGet, "/api/study/decks/"+itoa(deck.ID)+"?mode=mistake_priority", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var queue models.StudyQueue
	s.decode(rec, &queue)
	s.Equal(models.StudyModeMistakePriority, queue.Mode)
	s.Len(queue.Cards, 1)

	rec = s.do(http.MethodGet, "/api/study/decks/"+itoa(deck.ID)+"?mode=shuffle", token, nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	wrong := false
	rec = s.do(http.MethodPost, "/api/study/answers", token, models.Answer{CardID: card.ID, Correct: &wrong})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var answered models.Card
	s.decode(rec, &answered)
	s.Equal(1, answered.MistakeCount)
}

func (s *serverSuite) TestImportCSV() {
	token := s.register("alice")
	deck := s.createDeck(token, "Imported")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cards.csv")
	s.Require().NoError(err)
	_, err = part.Write([]byte("front,back\nhola,hello\nadios,\ngracias,thanks\n"))
	s.Require().NoError(err)
	s.Require().NoError(mw.WriteField("skip_header", "true"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, deckPath(deck.ID)+"/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var summary models.ImportSummary
	s.decode(rec, &summary)
	s.Equal(2, summary.Created)
	s.Equal(1, summary.Skipped)
	s.Len(summary.Errors, 1)
	s.Equal(2, summary.Deck.TotalCards)
	s.Equal(0, summary.Deck.Progress)
}

func (s *serverSuite) TestImportRequiresFile() {
	token := s.register("alice")
	deck := s.createDeck(token, "Imported")

	rec := s.do(http.MethodPost, deckPath(deck.ID)+"/import", token, map[string]string{"file": "nope"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *serverSuite) TestDeleteAccount() {
	token := s.register("alice")
	s.createDeck(token, "Gone")

	rec := s.do(http.MethodDelete, "/api/me", token, nil)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/me", token, nil)
	s.Equal(http.StatusUnauthorized, rec.Code, "tokens of deleted users stop working")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := loggingMiddleware(recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", bearerToken(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", bearerToken(req))
}
