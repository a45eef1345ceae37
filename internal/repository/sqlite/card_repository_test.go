package sqlite_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/testutil"
)

type CardRepositorySuite struct {
	repoSuite
}

func (s *CardRepositorySuite) TestThreeOfFourMasteredIsSeventyFive() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	s.addCards(deck.ID, true, true, true, false)

	got, err := s.cards.RecomputeDeckProgress(s.ctx, deck.ID)
	s.Require().NoError(err)
	s.Equal(models.DeckProgress{DeckID: deck.ID, TotalCards: 4, Progress: 75}, got)

	total, progress := s.deckRow(deck.ID)
	s.Equal(4, total)
	s.Equal(75, progress)
}

func (s *CardRepositorySuite) TestRecomputeIsIdempotent() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	s.addCards(deck.ID, true, false, false)

	first, err := s.cards.RecomputeDeckProgress(s.ctx, deck.ID)
	s.Require().NoError(err)
	second, err := s.cards.RecomputeDeckProgress(s.ctx, deck.ID)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(33, second.Progress)
}

func (s *CardRepositorySuite) TestCreateReturnsUpdatedCounters() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")

	_, p, err := s.cards.Create(s.ctx, models.Card{DeckID: deck.ID, Front: "a", Back: "b", Position: -1, Mastered: true})
	s.Require().NoError(err)
	s.Equal(1, p.TotalCards)
	s.Equal(100, p.Progress)

	_, p, err = s.cards.Create(s.ctx, models.Card{DeckID: deck.ID, Front: "c", Back: "d", Position: -1})
	s.Require().NoError(err)
	s.Equal(2, p.TotalCards)
	s.Equal(50, p.Progress)
}

func (s *CardRepositorySuite) TestDeletingLastCardResetsProgress() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	cards := s.addCards(deck.ID, true)

	total, progress := s.deckRow(deck.ID)
	s.Equal(1, total)
	s.Equal(100, progress)

	p, err := s.cards.Delete(s.ctx, cards[0].ID)
	s.Require().NoError(err)
	s.Equal(0, p.TotalCards)
	s.Equal(0, p.Progress)

	total, progress = s.deckRow(deck.ID)
	s.Equal(0, total)
	s.Equal(0, progress)
	s.True(s.isDeleted("cards", cards[0].ID))

	_, err = s.cards.Get(s.ctx, cards[0].ID)
	s.ErrorIs(err, repository.ErrNotFound)

	_, err = s.cards.Delete(s.ctx, cards[0].ID)
	s.ErrorIs(err, repository.ErrNotFound, "deleting twice is a not-found")
}

func (s *CardRepositorySuite) TestUpdateMasteredRecomputes() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	cards := s.addCards(deck.ID, false, false)

	card := cards[0]
	card.Mastered = true
	card.Note = "learned"
	updated, p, err := s.cards.Update(s.ctx, card)
	s.Require().NoError(err)
	s.True(updated.Mastered)
	s.Equal("learned", updated.Note)
	s.Equal(models.DeckProgress{DeckID: deck.ID, TotalCards: 2, Progress: 50}, p)
}

func (s *CardRepositorySuite) TestCreateAppendsPosition() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	cards := s.addCards(deck.ID, false, false, false)

	s.Equal(0, cards[0].Position)
	s.Equal(1, cards[1].Position)
	s.Equal(2, cards[2].Position)

	explicit, _, err := s.cards.Create(s.ctx, models.Card{DeckID: deck.ID, Front: "x", Back: "y", Position: 10})
	s.Require().NoError(err)
	s.Equal(10, explicit.Position)
}

func (s *CardRepositorySuite) TestCreateOnDeletedDeckFails() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	s.Require().NoError(s.decks.Delete(s.ctx, deck.ID))

	_, _, err := s.cards.Create(s.ctx, models.Card{DeckID: deck.ID, Front: "a", Back: "b", Position: -1})
	s.ErrorIs(err, repository.ErrNotFound)

	var n int
	s.Require().NoError(s.db.GetContext(s.ctx, &n, `SELECT COUNT(*) FROM cards WHERE deck_id = ?`, deck.ID))
	s.Zero(n, "no card is written when the deck is gone")

	_, err = s.cards.RecomputeDeckProgress(s.ctx, deck.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *CardRepositorySuite) TestCreateBatch() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	s.addCards(deck.ID, true)

	batch := make([]models.Card, 250)
	for i := range batch {
		batch[i] = models.Card{Front: "f", Back: "b"}
	}
	n, p, err := s.cards.CreateBatch(s.ctx, deck.ID, batch)
	s.Require().NoError(err)
	s.Equal(250, n)
	s.Equal(251, p.TotalCards)
	s.Equal(0, p.Progress, "1/251 floors to 0")

	var maxPos int
	s.Require().NoError(s.db.GetContext(s.ctx, &maxPos, `SELECT MAX(position) FROM cards WHERE deck_id = ?`, deck.ID))
	s.Equal(250, maxPos)
}

func (s *CardRepositorySuite) TestListIsScopedAndFiltered() {
	ann := s.newUser("ann")
	bob := s.newUser("bob")
	annDeck := s.newDeck(ann.ID, nil, "Spanish")
	bobDeck := s.newDeck(bob.ID, nil, "French")

	_, _, err := s.cards.Create(s.ctx, models.Card{DeckID: annDeck.ID, Front: "hola", Back: "hello", Position: -1, Mastered: true})
	s.Require().NoError(err)
	_, _, err = s.cards.Create(s.ctx, models.Card{DeckID: annDeck.ID, Front: "adios", Back: "bye", Position: -1})
	s.Require().NoError(err)
	_, _, err = s.cards.Create(s.ctx, models.Card{DeckID: bobDeck.ID, Front: "bonjour", Back: "hello", Position: -1})
	s.Require().NoError(err)

	all, err := s.cards.List(s.ctx, models.CardFilter{UserID: ann.ID})
	s.Require().NoError(err)
	s.Len(all, 2)

	found, err := s.cards.List(s.ctx, models.CardFilter{UserID: ann.ID, Search: "hell"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("hola", found[0].Front)

	unmastered, err := s.cards.List(s.ctx, models.CardFilter{UserID: ann.ID, Mastered: testutil.Ptr(false)})
	s.Require().NoError(err)
	s.Require().Len(unmastered, 1)
	s.Equal("adios", unmastered[0].Front)

	paged, err := s.cards.List(s.ctx, models.CardFilter{UserID: ann.ID, Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(paged, 1)
	s.Equal("adios", paged[0].Front)

	tag, err := s.tags.Create(s.ctx, models.Tag{UserID: ann.ID, Name: "lang"})
	s.Require().NoError(err)
	tagIDs := []int64{tag.ID}
	s.Require().NoError(s.decks.Update(s.ctx, *annDeck, &tagIDs))
	tagged, err := s.cards.List(s.ctx, models.CardFilter{UserID: ann.ID, TagID: tag.ID})
	s.Require().NoError(err)
	s.Len(tagged, 2)
}

func (s *CardRepositorySuite) TestRecordAnswerLeavesProgress() {
	user := s.newUser("ann")
	deck := s.newDeck(user.ID, nil, "Spanish")
	cards := s.addCards(deck.ID, true, false)

	reviewed := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	card := cards[1]
	card.MistakeCount = 4
	card.LastReviewedAt = &reviewed
	s.Require().NoError(s.cards.RecordAnswer(s.ctx, card))

	got, err := s.cards.Get(s.ctx, card.ID)
	s.Require().NoError(err)
	s.Equal(4, got.MistakeCount)
	s.Require().NotNil(got.LastReviewedAt)
	s.True(reviewed.Equal(*got.LastReviewedAt))

	_, progress := s.deckRow(deck.ID)
	s.Equal(50, progress)

	s.ErrorIs(s.cards.RecordAnswer(s.ctx, models.Card{ID: 999}), repository.ErrNotFound)
}

func (s *CardRepositorySuite) TestStudyCardsSkipsDeleted() {
	user := s.newUser("ann")
	first := s.newDeck(user.ID, nil, "one")
	second := s.newDeck(user.ID, nil, "two")
	a := s.addCards(first.ID, false, false)
	s.addCards(second.ID, false)

	_, err := s.cards.Delete(s.ctx, a[0].ID)
	s.Require().NoError(err)

	cards, err := s.cards.StudyCards(s.ctx, []int64{first.ID, second.ID})
	s.Require().NoError(err)
	s.Len(cards, 2)

	none, err := s.cards.StudyCards(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *CardRepositorySuite) TestFolderCountersFollowCards() {
	user := s.newUser("ann")
	folder := s.newFolder(user.ID, "Languages")
	spanish := s.newDeck(user.ID, &folder.ID, "Spanish")
	french := s.newDeck(user.ID, &folder.ID, "French")

	s.addCards(spanish.ID, true, true, false)
	cards := s.addCards(french.ID, false)

	total, progress := s.folderRow(folder.ID)
	s.Equal(4, total)
	s.Equal(50, progress)

	_, err := s.cards.Delete(s.ctx, cards[0].ID)
	s.Require().NoError(err)
	total, progress = s.folderRow(folder.ID)
	s.Equal(3, total)
	s.Equal(66, progress)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
