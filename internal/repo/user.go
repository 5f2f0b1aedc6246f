package repo

import (
	"context"
	"time"

	"github.com/crucial707/blogfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	col *mongo.Collection
}

type userDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email"`
	HashedPassword string             `bson:"hashed_password"`
	Role           string             `bson:"role"`
	Tags           []string           `bson:"tags"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d userDoc) model() *models.User {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		Role:           d.Role,
		Tags:           tags,
		CreatedAt:      d.CreatedAt,
	}
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{col: db.Collection(UsersCollection)}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, u *models.User) (string, error) {
	doc := userDoc{
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           u.Role,
		Tags:           u.Tags,
		CreatedAt:      u.CreatedAt,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", mapErr("insert user", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "get user", bson.M{"_id": oid})
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "get user by username", bson.M{"username": username})
}

func (r *UserRepo) findOne(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(op, err)
	}
	return doc.model(), nil
}

// ExistsByUsernameOrEmail reports whether any user already holds username or email.
func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, mapErr("count users", err)
	}
	return n > 0, nil
}

// ==========================
// Update User
// ==========================

// Update applies the set fields with a single $set and returns the stored result.
func (r *UserRepo) Update(ctx context.Context, id string, f models.UserFields) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	if f.Empty() {
		return r.GetByID(ctx, id)
	}

	set := bson.D{}
	if f.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *f.Username})
	}
	if f.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *f.Email})
	}
	if f.HashedPassword != nil {
		set = append(set, bson.E{Key: "hashed_password", Value: *f.HashedPassword})
	}
	if f.SetTags {
		tags := f.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: "tags", Value: tags})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		return nil, mapErr("update user", err)
	}
	return doc.model(), nil
}

// AddTags adds tags with $addToSet and reports whether the stored set changed.
func (r *UserRepo) AddTags(ctx context.Context, id string, tags []string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}
	update := bson.M{"$addToSet": bson.M{"tags": bson.M{"$each": tags}}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return false, mapErr("add tags", err)
	}
	if res.MatchedCount == 0 {
		return false, mapErr("add tags", mongo.ErrNoDocuments)
	}
	return res.ModifiedCount > 0, nil
}

// RemoveTags pulls every listed tag from the user's set.
func (r *UserRepo) RemoveTags(ctx context.Context, id string, tags []string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$pull": bson.M{"tags": bson.M{"$in": tags}}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return mapErr("remove tags", err)
	}
	if res.MatchedCount == 0 {
		return mapErr("remove tags", mongo.ErrNoDocuments)
	}
	return nil
}

// SetRole overwrites a user's role.
func (r *UserRepo) SetRole(ctx context.Context, id, role string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return mapErr("set role", err)
	}
	if res.MatchedCount == 0 {
		return mapErr("set role", mongo.ErrNoDocuments)
	}
	return nil
}
