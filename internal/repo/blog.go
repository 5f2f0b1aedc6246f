package repo

import (
	"context"
	"time"

	"github.com/crucial707/blogfeed/internal/feed"
	"github.com/crucial707/blogfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ========================
// REPOSITORY STRUCT
// ========================

type BlogRepo struct {
	col *mongo.Collection
}

type blogDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    string             `bson:"author"`
	Tags      []string           `bson:"tags"`
	CreatedAt time.Time          `bson:"created_at"`
}

// rankedDoc is a blogDoc plus the field computed by the dashboard pipeline.
type rankedDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	Title           string             `bson:"title"`
	Content         string             `bson:"content"`
	Author          string             `bson:"author"`
	Tags            []string           `bson:"tags"`
	CreatedAt       time.Time          `bson:"created_at"`
	CommonTagsCount int                `bson:"commonTagsCount"`
}

func (d rankedDoc) model() models.RankedBlog {
	b := blogDoc{ID: d.ID, Title: d.Title, Content: d.Content, Author: d.Author, Tags: d.Tags, CreatedAt: d.CreatedAt}
	return models.RankedBlog{Blog: b.model(), CommonTagsCount: d.CommonTagsCount}
}

func (d blogDoc) model() models.Blog {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Blog{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Author:    d.Author,
		Tags:      tags,
		CreatedAt: d.CreatedAt,
	}
}

func NewBlogRepo(db *mongo.Database) *BlogRepo {
	return &BlogRepo{col: db.Collection(BlogsCollection)}
}

// ========================
// CREATE BLOG
// ========================

func (r *BlogRepo) Create(ctx context.Context, b *models.Blog) (string, error) {
	doc := blogDoc{
		Title:     b.Title,
		Content:   b.Content,
		Author:    b.Author,
		Tags:      b.Tags,
		CreatedAt: b.CreatedAt,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", mapErr("insert blog", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ========================
// LIST BLOGS WITH PAGINATION
// ========================

// List returns blogs in insertion order.
func (r *BlogRepo) List(ctx context.Context, skip, limit int) ([]models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr("list blogs", err)
	}
	defer cur.Close(ctx)

	var docs []blogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("list blogs", err)
	}
	blogs := make([]models.Blog, 0, len(docs))
	for _, d := range docs {
		blogs = append(blogs, d.model())
	}
	return blogs, nil
}

// Count returns the number of stored blogs.
func (r *BlogRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapErr("count blogs", err)
	}
	return n, nil
}

// CountByAuthor counts the blogs whose author is username.
func (r *BlogRepo) CountByAuthor(ctx context.Context, username string) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"author": username})
	if err != nil {
		return 0, mapErr("count blogs by author", err)
	}
	return n, nil
}

// ========================
// GET BLOG BY ID
// ========================

func (r *BlogRepo) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc blogDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapErr("get blog", err)
	}
	b := doc.model()
	return &b, nil
}

// ========================
// UPDATE BLOG BY ID
// ========================

// Update rewrites the caller-controlled fields. Author is never touched.
func (r *BlogRepo) Update(ctx context.Context, id string, in models.BlogInput) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	set := bson.M{"title": in.Title, "content": in.Content, "tags": tags}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return mapErr("update blog", err)
	}
	if res.MatchedCount == 0 {
		return mapErr("update blog", mongo.ErrNoDocuments)
	}
	return nil
}

// ========================
// DELETE BLOG BY ID
// ========================

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapErr("delete blog", err)
	}
	if res.DeletedCount == 0 {
		return mapErr("delete blog", mongo.ErrNoDocuments)
	}
	return nil
}

// ========================
// DASHBOARD
// ========================

// Dashboard runs the tag-overlap aggregation for tags.
func (r *BlogRepo) Dashboard(ctx context.Context, tags []string, skip, limit int) ([]models.RankedBlog, error) {
	cur, err := r.col.Aggregate(ctx, feed.Pipeline(tags, skip, limit))
	if err != nil {
		return nil, mapErr("dashboard", err)
	}
	defer cur.Close(ctx)

	var docs []rankedDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("dashboard", err)
	}
	out := make([]models.RankedBlog, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}
