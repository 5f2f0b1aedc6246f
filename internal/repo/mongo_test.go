package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func userBSON(id primitive.ObjectID, username string, tags ...string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "email", Value: username + "@example.com"},
		{Key: "hashed_password", Value: "hash"},
		{Key: "role", Value: "user"},
		{Key: "tags", Value: tags},
		{Key: "created_at", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// ==========================
// UserRepo
// ==========================

func TestUserRepo_Mongo(t *testing.T) {
	mt := newMock(t)

	mt.Run("create returns hex id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		id, err := NewUserRepo(mt.DB).Create(context.Background(), &models.User{Username: "alice", Email: "a@example.com"})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			mt.Errorf("id %q is not an ObjectID", id)
		}
	})

	mt.Run("create duplicate is conflict", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}))
		_, err := NewUserRepo(mt.DB).Create(context.Background(), &models.User{Username: "alice"})
		if !errors.Is(err, apperr.ErrConflict) {
			mt.Errorf("expected conflict, got %v", err)
		}
	})

	mt.Run("get by id", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.Users", mtest.FirstBatch, userBSON(oid, "bob", "go")))
		u, err := NewUserRepo(mt.DB).GetByID(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("GetByID: %v", err)
		}
		if u.ID != oid.Hex() || u.Username != "bob" || len(u.Tags) != 1 || u.HashedPassword != "hash" {
			mt.Errorf("unexpected user: %+v", u)
		}
	})

	mt.Run("get by username not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.Users", mtest.FirstBatch))
		_, err := NewUserRepo(mt.DB).GetByUsername(context.Background(), "ghost")
		if !errors.Is(err, apperr.ErrNotFound) {
			mt.Errorf("expected not found, got %v", err)
		}
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		_, err := NewUserRepo(mt.DB).GetByID(context.Background(), "xyz")
		if !errors.Is(err, apperr.ErrInvalidArgument) {
			mt.Errorf("expected invalid argument, got %v", err)
		}
	})

	mt.Run("exists", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.Users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))
		ok, err := NewUserRepo(mt.DB).ExistsByUsernameOrEmail(context.Background(), "alice", "a@example.com")
		if err != nil || !ok {
			mt.Errorf("expected exists, got %v %v", ok, err)
		}
	})

	mt.Run("update returns stored document", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: userBSON(oid, "renamed")},
		})
		name := "renamed"
		u, err := NewUserRepo(mt.DB).Update(context.Background(), oid.Hex(), models.UserFields{Username: &name})
		if err != nil {
			mt.Fatalf("Update: %v", err)
		}
		if u.Username != "renamed" {
			mt.Errorf("unexpected user: %+v", u)
		}
	})

	mt.Run("add tags reports modification", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))
		changed, err := NewUserRepo(mt.DB).AddTags(context.Background(), primitive.NewObjectID().Hex(), []string{"go"})
		if err != nil {
			mt.Fatalf("AddTags: %v", err)
		}
		if changed {
			mt.Error("expected no change")
		}
	})

	mt.Run("set role on missing user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := NewUserRepo(mt.DB).SetRole(context.Background(), primitive.NewObjectID().Hex(), "admin")
		if !errors.Is(err, apperr.ErrNotFound) {
			mt.Errorf("expected not found, got %v", err)
		}
	})
}

// ==========================
// BlogRepo
// ==========================

func TestBlogRepo_Mongo(t *testing.T) {
	mt := newMock(t)

	mt.Run("list", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(1, "test.Blogs", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "one"}, {Key: "author", Value: "alice"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "two"}, {Key: "author", Value: "alice"}},
		)
		last := mtest.CreateCursorResponse(0, "test.Blogs", mtest.NextBatch)
		mt.AddMockResponses(first, last)

		blogs, err := NewBlogRepo(mt.DB).List(context.Background(), 0, 10)
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if len(blogs) != 2 || blogs[1].Title != "two" {
			mt.Errorf("unexpected blogs: %+v", blogs)
		}
		if blogs[0].Tags == nil {
			mt.Error("missing tags should decode as an empty slice")
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := NewBlogRepo(mt.DB).Delete(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, apperr.ErrNotFound) {
			mt.Errorf("expected not found, got %v", err)
		}
	})

	mt.Run("count by author", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.Blogs", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))
		n, err := NewBlogRepo(mt.DB).CountByAuthor(context.Background(), "alice")
		if err != nil || n != 3 {
			mt.Errorf("expected 3, got %d %v", n, err)
		}
	})

	mt.Run("dashboard decodes computed count", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "test.Blogs", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "P1"},
			{Key: "tags", Value: bson.A{"a", "b"}},
			{Key: "commonTagsCount", Value: int32(2)},
		})
		last := mtest.CreateCursorResponse(0, "test.Blogs", mtest.NextBatch)
		mt.AddMockResponses(first, last)

		got, err := NewBlogRepo(mt.DB).Dashboard(context.Background(), []string{"a", "b"}, 0, 10)
		if err != nil {
			mt.Fatalf("Dashboard: %v", err)
		}
		if len(got) != 1 || got[0].ID != oid.Hex() || got[0].CommonTagsCount != 2 {
			mt.Errorf("unexpected result: %+v", got)
		}
	})
}

// ==========================
// AuditRepo
// ==========================

func TestAuditRepo_Mongo(t *testing.T) {
	mt := newMock(t)

	mt.Run("log", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := NewAuditRepo(mt.DB).Log(context.Background(), models.AuditEntry{Action: "delete"}); err != nil {
			mt.Errorf("Log: %v", err)
		}
	})
}
