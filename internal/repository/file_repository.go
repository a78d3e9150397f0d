package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/T-manDon/alx-files-manager/internal/models"
)

var ErrFileNotFound = errors.New("file not found")

// PageSize is the fixed listing page size. Pages are zero-based and pages
// past the end come back empty rather than failing.
const PageSize = 20

type FileRepository struct {
	files *mongo.Collection
}

func NewFileRepository(db *mongo.Database) *FileRepository {
	return &FileRepository{files: db.Collection("files")}
}

func (r *FileRepository) Create(ctx context.Context, file models.File) (models.File, error) {
	result, err := r.files.InsertOne(ctx, file)
	if err != nil {
		return models.File{}, err
	}
	file.ID = result.InsertedID.(primitive.ObjectID)
	return file, nil
}

// GetOwned fetches a record scoped to its owner. A record owned by someone
// else resolves to ErrFileNotFound, indistinguishable from a missing id.
func (r *FileRepository) GetOwned(ctx context.Context, id string, ownerID primitive.ObjectID) (models.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.File{}, ErrFileNotFound
	}

	var file models.File
	err = r.files.FindOne(ctx, bson.M{"_id": oid, "userId": ownerID}).Decode(&file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.File{}, ErrFileNotFound
		}
		return models.File{}, err
	}
	return file, nil
}

// GetAny fetches a record without ownership scoping. Callers must apply the
// public/owner access rule themselves; only the content path needs this.
func (r *FileRepository) GetAny(ctx context.Context, id string) (models.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.File{}, ErrFileNotFound
	}

	var file models.File
	err = r.files.FindOne(ctx, bson.M{"_id": oid}).Decode(&file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.File{}, ErrFileNotFound
		}
		return models.File{}, err
	}
	return file, nil
}

// ListByParent returns one page of the owner's records under parentID,
// newest first. An empty parentID lists the whole tree for the owner, which
// is what the original index endpoint did when no parent was given.
func (r *FileRepository) ListByParent(ctx context.Context, ownerID primitive.ObjectID, parentID string, page int) ([]models.File, error) {
	if page < 0 {
		page = 0
	}

	filter := bson.M{"userId": ownerID}
	if parentID != "" {
		filter["parentId"] = parentID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(page) * PageSize).
		SetLimit(PageSize)

	cursor, err := r.files.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	files := make([]models.File, 0, PageSize)
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// SetPublic toggles isPublic on an owned record and returns the updated
// document.
func (r *FileRepository) SetPublic(ctx context.Context, id string, ownerID primitive.ObjectID, value bool) (models.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.File{}, ErrFileNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var file models.File
	err = r.files.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": ownerID},
		bson.M{"$set": bson.M{"isPublic": value}},
		opts,
	).Decode(&file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.File{}, ErrFileNotFound
		}
		return models.File{}, err
	}
	return file, nil
}

// ListImages walks every image record; the reconciliation sweep uses it to
// find images whose thumbnails never materialized.
func (r *FileRepository) ListImages(ctx context.Context) ([]models.File, error) {
	cursor, err := r.files.Find(ctx, bson.M{"type": models.FileTypeImage})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	return r.files.CountDocuments(ctx, bson.M{})
}
