package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

func TestFolderService(t *testing.T) {
	ctx := context.Background()

	t.Run("create trims name", func(t *testing.T) {
		repo := &mocks.MockFolderRepository{}
		repo.On("Create", ctx, models.Folder{UserID: alice, Name: "Languages"}).Return(&models.Folder{ID: 3, UserID: alice, Name: "Languages"}, nil)

		f, err := services.NewFolderService(repo).Create(ctx, alice, models.FolderInput{Name: " Languages "})
		require.NoError(t, err)
		assert.Equal(t, int64(3), f.ID)
		repo.AssertExpectations(t)
	})

	t.Run("update by non-owner", func(t *testing.T) {
		repo := &mocks.MockFolderRepository{}
		repo.On("Get", ctx, int64(3)).Return(&models.Folder{ID: 3, UserID: alice}, nil)

		_, err := services.NewFolderService(repo).Update(ctx, bob, 3, models.FolderInput{Name: "x"})
		requireCode(t, err, errors.ErrCodeForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("delete missing", func(t *testing.T) {
		repo := &mocks.MockFolderRepository{}
		repo.On("Get", ctx, int64(3)).Return(nil, repository.ErrNotFound)

		err := services.NewFolderService(repo).Delete(ctx, alice, 3)
		requireCode(t, err, errors.ErrCodeNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("delete", func(t *testing.T) {
		repo := &mocks.MockFolderRepository{}
		repo.On("Get", ctx, int64(3)).Return(&models.Folder{ID: 3, UserID: alice}, nil)
		repo.On("Delete", ctx, int64(3)).Return(nil)

		require.NoError(t, services.NewFolderService(repo).Delete(ctx, alice, 3))
		repo.AssertExpectations(t)
	})
}

func TestTagService(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name", func(t *testing.T) {
		repo := &mocks.MockTagRepository{}
		repo.On("Create", ctx, models.Tag{UserID: alice, Name: "verbs"}).Return(nil, repository.ErrDuplicate)

		_, err := services.NewTagService(repo).Create(ctx, alice, models.TagInput{Name: "verbs"})
		requireCode(t, err, errors.ErrCodeConflict)
	})

	t.Run("rename", func(t *testing.T) {
		repo := &mocks.MockTagRepository{}
		repo.On("Get", ctx, int64(4)).Return(&models.Tag{ID: 4, UserID: alice, Name: "old"}, nil)
		repo.On("Rename", ctx, int64(4), "new").Return(nil)

		tag, err := services.NewTagService(repo).Rename(ctx, alice, 4, models.TagInput{Name: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", tag.Name)
		repo.AssertExpectations(t)
	})

	t.Run("delete by non-owner", func(t *testing.T) {
		repo := &mocks.MockTagRepository{}
		repo.On("Get", ctx, int64(4)).Return(&models.Tag{ID: 4, UserID: alice}, nil)

		err := services.NewTagService(repo).Delete(ctx, bob, 4)
		requireCode(t, err, errors.ErrCodeForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
