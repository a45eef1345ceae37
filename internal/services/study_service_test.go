package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

type StudyServiceSuite struct {
	suite.Suite
	ctx     context.Context
	cards   *mocks.MockCardRepository
	decks   *mocks.MockDeckRepository
	folders *mocks.MockFolderRepository
	users   *mocks.MockUserRepository
	svc     services.StudyService
}

func (s *StudyServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.cards = &mocks.MockCardRepository{}
	s.decks = &mocks.MockDeckRepository{}
	s.folders = &mocks.MockFolderRepository{}
	s.users = &mocks.MockUserRepository{}
	s.svc = services.NewStudyService(s.cards, s.decks, s.folders, s.users, 2)
	s.decks.On("Get", s.ctx, int64(10)).Return(&models.Deck{ID: 10, UserID: alice}, nil).Maybe()
}

func (s *StudyServiceSuite) TearDownTest() {
	s.cards.AssertExpectations(s.T())
	s.users.AssertExpectations(s.T())
}

func studyCards() []models.Card {
	return []models.Card{
		{ID: 1, DeckID: 10, Position: 0, MistakeCount: 0},
		{ID: 2, DeckID: 10, Position: 1, MistakeCount: 3},
		{ID: 3, DeckID: 10, Position: 2, MistakeCount: 1},
	}
}

func (s *StudyServiceSuite) TestDeckQueueUsesSettingAndBatchSize() {
	settings := models.DefaultSettings(alice)
	settings.StudyMode = models.StudyModeMistakePriority
	s.users.On("Settings", s.ctx, alice).Return(settings, nil)
	s.cards.On("StudyCards", s.ctx, []int64{10}).Return(studyCards(), nil)

	queue, err := s.svc.DeckQueue(s.ctx, alice, 10, "")
	s.Require().NoError(err)
	s.Equal(models.StudyModeMistakePriority, queue.Mode)
	s.Require().Len(queue.Cards, 2)
	s.Equal(int64(2), queue.Cards[0].ID)
	s.Equal(int64(3), queue.Cards[1].ID)
}

func (s *StudyServiceSuite) TestDeckQueueRandomKeepsCards() {
	s.cards.On("StudyCards", s.ctx, []int64{10}).Return(studyCards()[:2], nil)

	queue, err := s.svc.DeckQueue(s.ctx, alice, 10, models.StudyModeRandom)
	s.Require().NoError(err)
	s.ElementsMatch([]int64{1, 2}, []int64{queue.Cards[0].ID, queue.Cards[1].ID})
}

func (s *StudyServiceSuite) TestDeckQueue_InvalidMode() {
	_, err := s.svc.DeckQueue(s.ctx, alice, 10, "spaced")
	requireCode(s.T(), err, errors.ErrCodeValidation)
}

func (s *StudyServiceSuite) TestDeckQueue_ForeignDeck() {
	_, err := s.svc.DeckQueue(s.ctx, bob, 10, "")
	requireCode(s.T(), err, errors.ErrCodeForbidden)
	s.cards.AssertNotCalled(s.T(), "StudyCards", mock.Anything, mock.Anything)
}

func (s *StudyServiceSuite) TestFolderQueue() {
	folderID := int64(3)
	s.folders.On("Get", s.ctx, folderID).Return(&models.Folder{ID: folderID, UserID: alice}, nil)
	s.decks.On("List", s.ctx, models.DeckFilter{UserID: alice, FolderID: &folderID}).
		Return([]models.Deck{{ID: 10}, {ID: 11}}, nil)
	s.cards.On("StudyCards", s.ctx, []int64{10, 11}).Return([]models.Card{}, nil)

	queue, err := s.svc.FolderQueue(s.ctx, alice, folderID, models.StudyModeRandom)
	s.Require().NoError(err)
	s.Empty(queue.Cards)
}

func (s *StudyServiceSuite) TestWrongAnswerCountsMistake() {
	s.cards.On("Get", s.ctx, int64(2)).Return(&models.Card{ID: 2, DeckID: 10, MistakeCount: 3, Mastered: true}, nil)
	s.cards.On("RecordAnswer", s.ctx, mock.MatchedBy(func(c models.Card) bool {
		return c.ID == 2 && c.MistakeCount == 4 && c.Mastered && c.LastReviewedAt != nil
	})).Return(nil)

	card, err := s.svc.Answer(s.ctx, alice, models.Answer{CardID: 2, Correct: testutil.Ptr(false)})
	s.Require().NoError(err)
	s.Equal(4, card.MistakeCount)
	s.True(card.Mastered, "answers never change mastery")
}

func (s *StudyServiceSuite) TestRightAnswerOnlyStampsReview() {
	s.cards.On("Get", s.ctx, int64(2)).Return(&models.Card{ID: 2, DeckID: 10, MistakeCount: 3}, nil)
	s.cards.On("RecordAnswer", s.ctx, mock.MatchedBy(func(c models.Card) bool {
		return c.MistakeCount == 3 && c.LastReviewedAt != nil
	})).Return(nil)

	_, err := s.svc.Answer(s.ctx, alice, models.Answer{CardID: 2, Correct: testutil.Ptr(true)})
	s.NoError(err)
}

func (s *StudyServiceSuite) TestAnswer_ForeignCard() {
	s.cards.On("Get", s.ctx, int64(2)).Return(&models.Card{ID: 2, DeckID: 10}, nil)

	_, err := s.svc.Answer(s.ctx, bob, models.Answer{CardID: 2, Correct: testutil.Ptr(true)})
	requireCode(s.T(), err, errors.ErrCodeForbidden)
	s.cards.AssertNotCalled(s.T(), "RecordAnswer", mock.Anything, mock.Anything)
}

func (s *StudyServiceSuite) TestAnswer_MissingCorrect() {
	_, err := s.svc.Answer(s.ctx, alice, models.Answer{CardID: 2})
	requireCode(s.T(), err, errors.ErrCodeValidation)
}

func TestStudyServiceSuite(t *testing.T) {
	suite.Run(t, new(StudyServiceSuite))
}
