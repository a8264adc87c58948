package services

import (
	"strings"
	"time"

	"taskboard/errs"
	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clock returns the current time. Tests substitute a fixed one.
type Clock func() time.Time

// SystemClock is UTC wall time truncated to what the store can represent.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// ParseID turns a 24-hex identifier into an ObjectID.
func ParseID(kind, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, errs.Validationf("invalid %s id %q", kind, hex)
	}
	return id, nil
}

// buildComment validates a comment request for either owner type.
func buildComment(req models.CommentRequest, now time.Time) (models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.Comment{}, errs.Validationf("comment content is required")
	}
	authorID, err := ParseID("author", req.AuthorID)
	if err != nil {
		return models.Comment{}, err
	}
	return models.NewComment(content, authorID, now), nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.Validationf("%s is required", field)
	}
	return nil
}

func validIcon(kind models.IconKind, name string) (string, error) {
	if !models.ValidIcon(kind, name) {
		return "", errs.Validationf("unknown %s icon %q", kind, name)
	}
	return models.NormalizeIconName(name), nil
}
