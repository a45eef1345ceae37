package sqlite_test

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/testutil"
)

// repoSuite wires every repository onto one fresh database per test.
type repoSuite struct {
	suite.Suite
	ctx      context.Context
	db       *sqlx.DB
	users    repository.UserRepository
	folders  repository.FolderRepository
	decks    repository.DeckRepository
	cards    repository.CardRepository
	tags     repository.TagRepository
	sessions repository.StudySessionRepository
}

func (s *repoSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.users = sqlite.NewUserRepository(s.db)
	s.folders = sqlite.NewFolderRepository(s.db)
	s.decks = sqlite.NewDeckRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
	s.tags = sqlite.NewTagRepository(s.db)
	s.sessions = sqlite.NewStudySessionRepository(s.db)
}

func (s *repoSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *repoSuite) newUser(name string) *models.User {
	u, err := s.users.Create(s.ctx, models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "hash",
	})
	s.Require().NoError(err)
	return u
}

func (s *repoSuite) newFolder(userID int64, name string) *models.Folder {
	f, err := s.folders.Create(s.ctx, models.Folder{UserID: userID, Name: name})
	s.Require().NoError(err)
	return f
}

func (s *repoSuite) newDeck(userID int64, folderID *int64, name string) *models.Deck {
	d, err := s.decks.Create(s.ctx, models.Deck{UserID: userID, FolderID: folderID, Name: name}, nil)
	s.Require().NoError(err)
	return d
}

// addCards appends one card per entry; true marks it mastered.
func (s *repoSuite) addCards(deckID int64, mastered ...bool) []models.Card {
	out := make([]models.Card, 0, len(mastered))
	for i, m := range mastered {
		c, _, err := s.cards.Create(s.ctx, models.Card{
			DeckID:   deckID,
			Front:    fmt.Sprintf("front %d", i),
			Back:     fmt.Sprintf("back %d", i),
			Position: -1,
			Mastered: m,
		})
		s.Require().NoError(err)
		out = append(out, *c)
	}
	return out
}

// deckRow reads the persisted counters straight from the table.
func (s *repoSuite) deckRow(id int64) (total, progress int) {
	err := s.db.QueryRowContext(s.ctx, `SELECT total_cards, progress FROM decks WHERE id = ?`, id).Scan(&total, &progress)
	s.Require().NoError(err)
	return total, progress
}

func (s *repoSuite) folderRow(id int64) (total, progress int) {
	err := s.db.QueryRowContext(s.ctx, `SELECT total_cards, progress FROM folders WHERE id = ?`, id).Scan(&total, &progress)
	s.Require().NoError(err)
	return total, progress
}

func (s *repoSuite) isDeleted(table string, id int64) bool {
	var deleted bool
	err := s.db.QueryRowContext(s.ctx, `SELECT deleted_at IS NOT NULL FROM `+table+` WHERE id = ?`, id).Scan(&deleted)
	s.Require().NoError(err)
	return deleted
}
