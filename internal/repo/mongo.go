package repo

import (
	"errors"
	"fmt"

	"github.com/crucial707/blogfeed/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names, kept from the original data set.
const (
	UsersCollection = "Users"
	BlogsCollection = "Blogs"
	AuditCollection = "audit_log"
)

// objectID parses a hex identity. Malformed ids are an invalid argument, not a store failure.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", apperr.ErrInvalidArgument, id)
	}
	return oid, nil
}

// mapErr translates driver errors into apperr kinds.
func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
