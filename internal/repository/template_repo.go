package repository

import (
	"context"
	"time"

	"inspectkit/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TemplateRepo handles MongoDB operations for inspection templates
type TemplateRepo interface {
	Create(ctx context.Context, tpl *model.Template) (string, error)
	GetByID(ctx context.Context, id string) (*model.Template, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Template, error)
	Update(ctx context.Context, tpl *model.Template) error
	Delete(ctx context.Context, id string) error
}

type templateRepo struct {
	collection *mongo.Collection
}

// NewTemplateRepo creates a new template repository
func NewTemplateRepo(db *mongo.Database) TemplateRepo {
	return &templateRepo{
		collection: db.Collection("templates"),
	}
}

func (r *templateRepo) Create(ctx context.Context, tpl *model.Template) (string, error) {
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, tpl)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.Template, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var tpl model.Template
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&tpl)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tpl.ID = id
	return &tpl, nil
}

func (r *templateRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Template, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []*model.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepo) Update(ctx context.Context, tpl *model.Template) error {
	oid, err := primitive.ObjectIDFromHex(tpl.ID)
	if err != nil {
		return err
	}

	tpl.UpdatedAt = time.Now()
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, tpl)
	return err
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
