package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/repository"
)

type FolderRepositorySuite struct {
	repoSuite
}

func (s *FolderRepositorySuite) TestCreateListUpdate() {
	ann := s.newUser("ann")
	bob := s.newUser("bob")
	s.newFolder(ann.ID, "Science")
	languages := s.newFolder(ann.ID, "Languages")
	s.newFolder(bob.ID, "Bob's")

	folders, err := s.folders.List(s.ctx, ann.ID)
	s.Require().NoError(err)
	s.Require().Len(folders, 2)

	languages.Name = "Idiomas"
	languages.Description = "spoken"
	s.Require().NoError(s.folders.Update(s.ctx, *languages))

	got, err := s.folders.Get(s.ctx, languages.ID)
	s.Require().NoError(err)
	s.Equal("Idiomas", got.Name)
	s.Equal("spoken", got.Description)
	s.Equal(ann.ID, got.UserID)
}

func (s *FolderRepositorySuite) TestDeleteCascades() {
	user := s.newUser("ann")
	folder := s.newFolder(user.ID, "Languages")
	deck := s.newDeck(user.ID, &folder.ID, "Spanish")
	cards := s.addCards(deck.ID, true)
	outside := s.newDeck(user.ID, nil, "Loose")
	outsideCards := s.addCards(outside.ID, false)

	s.Require().NoError(s.folders.Delete(s.ctx, folder.ID))

	_, err := s.folders.Get(s.ctx, folder.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.True(s.isDeleted("decks", deck.ID))
	s.True(s.isDeleted("cards", cards[0].ID))
	s.False(s.isDeleted("decks", outside.ID))
	s.False(s.isDeleted("cards", outsideCards[0].ID))

	s.ErrorIs(s.folders.Delete(s.ctx, folder.ID), repository.ErrNotFound)
}

func (s *FolderRepositorySuite) TestUpdateMissing() {
	user := s.newUser("ann")
	folder := s.newFolder(user.ID, "Languages")
	s.Require().NoError(s.folders.Delete(s.ctx, folder.ID))

	s.ErrorIs(s.folders.Update(s.ctx, *folder), repository.ErrNotFound)
}

func TestFolderRepositorySuite(t *testing.T) {
	suite.Run(t, new(FolderRepositorySuite))
}
