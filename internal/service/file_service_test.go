package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/T-manDon/alx-files-manager/internal/models"
	"github.com/T-manDon/alx-files-manager/internal/queue"
	"github.com/T-manDon/alx-files-manager/internal/repository"
)

type fakeFileStore struct {
	files map[string]models.File
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string]models.File)}
}

func (f *fakeFileStore) Create(_ context.Context, file models.File) (models.File, error) {
	file.ID = primitive.NewObjectID()
	f.files[file.ID.Hex()] = file
	return file, nil
}

func (f *fakeFileStore) GetOwned(_ context.Context, id string, ownerID primitive.ObjectID) (models.File, error) {
	file, ok := f.files[id]
	if !ok || file.UserID != ownerID {
		return models.File{}, repository.ErrFileNotFound
	}
	return file, nil
}

func (f *fakeFileStore) GetAny(_ context.Context, id string) (models.File, error) {
	file, ok := f.files[id]
	if !ok {
		return models.File{}, repository.ErrFileNotFound
	}
	return file, nil
}

func (f *fakeFileStore) ListByParent(_ context.Context, ownerID primitive.ObjectID, parentID string, page int) ([]models.File, error) {
	matched := make([]models.File, 0)
	for _, file := range f.files {
		if file.UserID != ownerID {
			continue
		}
		if parentID != "" && file.ParentID != parentID {
			continue
		}
		matched = append(matched, file)
	}
	start := page * repository.PageSize
	if start >= len(matched) {
		return []models.File{}, nil
	}
	end := start + repository.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (f *fakeFileStore) SetPublic(_ context.Context, id string, ownerID primitive.ObjectID, value bool) (models.File, error) {
	file, ok := f.files[id]
	if !ok || file.UserID != ownerID {
		return models.File{}, repository.ErrFileNotFound
	}
	file.IsPublic = value
	f.files[id] = file
	return file, nil
}

func newFileFixture(t *testing.T) (*FileService, *fakeFileStore, *fakeEnqueuer, string) {
	t.Helper()
	root := t.TempDir()
	store := newFakeFileStore()
	jobs := &fakeEnqueuer{}
	return NewFileService(store, jobs, root, zerolog.Nop()), store, jobs, root
}

func testUser() models.User {
	return models.User{ID: primitive.NewObjectID(), Email: "bob@dylan.com"}
}

func encode(data string) string {
	return base64.StdEncoding.EncodeToString([]byte(data))
}

func TestUpload_ValidationOrder(t *testing.T) {
	svc, _, _, _ := newFileFixture(t)
	ctx := context.Background()
	owner := testUser()

	_, err := svc.Upload(ctx, owner, UploadInput{})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = svc.Upload(ctx, owner, UploadInput{Name: "notes.txt"})
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = svc.Upload(ctx, owner, UploadInput{Name: "notes.txt", Type: "document"})
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = svc.Upload(ctx, owner, UploadInput{Name: "notes.txt", Type: models.FileTypeFile})
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = svc.Upload(ctx, owner, UploadInput{Name: "notes.txt", Type: models.FileTypeFile, Data: "%%%not-base64%%%"})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestUpload_ParentValidation(t *testing.T) {
	svc, _, _, _ := newFileFixture(t)
	ctx := context.Background()
	owner := testUser()

	_, err := svc.Upload(ctx, owner, UploadInput{
		Name:     "notes.txt",
		Type:     models.FileTypeFile,
		Data:     encode("hello"),
		ParentID: primitive.NewObjectID().Hex(),
	})
	assert.ErrorIs(t, err, ErrParentNotFound)

	// A parent owned by someone else is "not found", never "forbidden".
	stranger := testUser()
	foreign, err := svc.Upload(ctx, stranger, UploadInput{Name: "theirs", Type: models.FileTypeFolder})
	require.NoError(t, err)

	_, err = svc.Upload(ctx, owner, UploadInput{
		Name:     "notes.txt",
		Type:     models.FileTypeFile,
		Data:     encode("hello"),
		ParentID: foreign.ID.Hex(),
	})
	assert.ErrorIs(t, err, ErrParentNotFound)

	plain, err := svc.Upload(ctx, owner, UploadInput{Name: "plain.txt", Type: models.FileTypeFile, Data: encode("x")})
	require.NoError(t, err)

	_, err = svc.Upload(ctx, owner, UploadInput{
		Name:     "notes.txt",
		Type:     models.FileTypeFile,
		Data:     encode("hello"),
		ParentID: plain.ID.Hex(),
	})
	assert.ErrorIs(t, err, ErrParentNotFolder)
}

func TestUpload_FolderWritesNothingToDisk(t *testing.T) {
	svc, _, _, root := newFileFixture(t)

	folder, err := svc.Upload(context.Background(), testUser(), UploadInput{
		Name: "documents",
		Type: models.FileTypeFolder,
	})
	require.NoError(t, err)

	assert.Empty(t, folder.LocalPath)
	assert.Equal(t, models.RootParentID, folder.ParentID)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_FilePersistsBytes(t *testing.T) {
	svc, _, jobs, root := newFileFixture(t)

	file, err := svc.Upload(context.Background(), testUser(), UploadInput{
		Name: "notes.txt",
		Type: models.FileTypeFile,
		Data: encode("Hello Webstack!"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, file.LocalPath)
	assert.Equal(t, root, filepath.Dir(file.LocalPath))

	data, err := os.ReadFile(file.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!", string(data))

	// Plain files never enqueue thumbnail jobs.
	assert.Empty(t, jobs.jobs)
}

func TestUpload_ImageEnqueuesThumbnailJob(t *testing.T) {
	svc, _, jobs, _ := newFileFixture(t)
	owner := testUser()

	file, err := svc.Upload(context.Background(), owner, UploadInput{
		Name: "photo.png",
		Type: models.FileTypeImage,
		Data: encode("pretend-png-bytes"),
	})
	require.NoError(t, err)

	require.Len(t, jobs.jobs, 1)
	job, ok := jobs.jobs[0].(queue.ThumbnailJob)
	require.True(t, ok)
	assert.Equal(t, file.ID.Hex(), job.FileID)
	assert.Equal(t, owner.ID.Hex(), job.UserID)
}

func TestUpload_EnqueueFailureDoesNotFailUpload(t *testing.T) {
	svc, _, jobs, _ := newFileFixture(t)
	jobs.err = assert.AnError

	file, err := svc.Upload(context.Background(), testUser(), UploadInput{
		Name: "photo.png",
		Type: models.FileTypeImage,
		Data: encode("pretend-png-bytes"),
	})
	require.NoError(t, err)
	assert.False(t, file.ID.IsZero())
}

func TestGet_OwnershipScoped(t *testing.T) {
	svc, _, _, _ := newFileFixture(t)
	ctx := context.Background()
	owner := testUser()
	stranger := testUser()

	file, err := svc.Upload(ctx, owner, UploadInput{Name: "secret.txt", Type: models.FileTypeFile, Data: encode("x")})
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner, file.ID.Hex())
	require.NoError(t, err)

	// Foreign and nonexistent ids produce the identical error.
	_, foreignErr := svc.Get(ctx, stranger, file.ID.Hex())
	_, missingErr := svc.Get(ctx, stranger, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, foreignErr, repository.ErrFileNotFound)
	assert.ErrorIs(t, missingErr, repository.ErrFileNotFound)
	assert.Equal(t, missingErr, foreignErr)
}

func TestList_OutOfRangePageIsEmpty(t *testing.T) {
	svc, _, _, _ := newFileFixture(t)
	ctx := context.Background()
	owner := testUser()

	for i := 0; i < 3; i++ {
		_, err := svc.Upload(ctx, owner, UploadInput{Name: "f.txt", Type: models.FileTypeFile, Data: encode("x")})
		require.NoError(t, err)
	}

	files, err := svc.List(ctx, owner, "", 5)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestContent_AccessRules(t *testing.T) {
	svc, _, _, _ := newFileFixture(t)
	ctx := context.Background()
	owner := testUser()
	stranger := testUser()

	private, err := svc.Upload(ctx, owner, UploadInput{Name: "notes.txt", Type: models.FileTypeFile, Data: encode("private-bytes")})
	require.NoError(t, err)

	// Owner reads fine.
	data, contentType, err := svc.Content(ctx, &owner, private.ID.Hex(), "")
	require.NoError(t, err)
	assert.Equal(t, "private-bytes", string(data))
	assert.Contains(t, contentType, "text/plain")

	// Anonymous and foreign viewers both get not-found.
	_, _, err = svc.Content(ctx, nil, private.ID.Hex(), "")
	assert.ErrorIs(t, err, repository.ErrFileNotFound)
	_, _, err = svc.Content(ctx, &stranger, private.ID.Hex(), "")
	assert.ErrorIs(t, err, repository.ErrFileNotFound)

	// Public records are readable without a token.
	public, err := svc.Upload(ctx, owner, UploadInput{Name: "pub.txt", Type: models.FileTypeFile, Data: encode("public-bytes"), IsPublic: true})
	require.NoError(t, err)
	data, _, err = svc.Content(ctx, nil, public.ID.Hex(), "")
	require.NoError(t, err)
	assert.Equal(t, "public-bytes", string(data))
}

func TestContent_FolderHasNoContent(t *testing.T) {
	svc, _, _, _ := newFileFixture(t)
	ctx := context.Background()
	owner := testUser()

	folder, err := svc.Upload(ctx, owner, UploadInput{Name: "docs", Type: models.FileTypeFolder})
	require.NoError(t, err)

	_, _, err = svc.Content(ctx, &owner, folder.ID.Hex(), "")
	assert.ErrorIs(t, err, ErrFolderNoContent)
}

func TestContent_VariantSelection(t *testing.T) {
	svc, store, _, _ := newFileFixture(t)
	ctx := context.Background()
	owner := testUser()

	file, err := svc.Upload(ctx, owner, UploadInput{Name: "photo.png", Type: models.FileTypeImage, Data: encode("original")})
	require.NoError(t, err)

	stored := store.files[file.ID.Hex()]
	require.NoError(t, os.WriteFile(stored.LocalPath+"_100", []byte("tiny"), 0o644))

	data, _, err := svc.Content(ctx, &owner, file.ID.Hex(), "100")
	require.NoError(t, err)
	assert.Equal(t, "tiny", string(data))

	// A variant that was never generated reads as not found.
	_, _, err = svc.Content(ctx, &owner, file.ID.Hex(), "250")
	assert.ErrorIs(t, err, repository.ErrFileNotFound)

	// Unknown size values are rejected the same way.
	_, _, err = svc.Content(ctx, &owner, file.ID.Hex(), "999")
	assert.ErrorIs(t, err, repository.ErrFileNotFound)
}
