package store

import (
	"context"
	"time"

	"github.com/Maxbrain0/echo_posts/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Posts holds reference to the posts collection.
type Posts struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

func NewPosts(db *mongo.Database, timeout time.Duration) *Posts {
	return &Posts{Collection: db.Collection("posts"), Timeout: timeout}
}

func (s *Posts) List(ctx context.Context) ([]model.Post, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	cur, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, classify("list posts", err)
	}

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, classify("decode posts", err)
	}
	return posts, nil
}

func (s *Posts) FindByID(ctx context.Context, id primitive.ObjectID) (model.Post, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var post model.Post
	if err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return model.Post{}, classify("find post", err)
	}
	return post, nil
}

func (s *Posts) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Post, error) {
	if len(ids) == 0 {
		return []model.Post{}, nil
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	cur, err := s.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, classify("find posts", err)
	}

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, classify("decode posts", err)
	}
	return posts, nil
}

// Insert stores post and sets its server-assigned id.
func (s *Posts) Insert(ctx context.Context, post *model.Post) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	post.Authors = idsOrEmpty(post.Authors)
	res, err := s.Collection.InsertOne(ctx, post)
	if err != nil {
		return classify("insert post", err)
	}

	post.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields $sets the given fields and returns the post as stored after
// the update. Authors are never written here.
func (s *Posts) UpdateFields(ctx context.Context, id primitive.ObjectID, fields PostFields) (model.Post, error) {
	set := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Content != nil {
		set["content"] = *fields.Content
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post model.Post
	err := s.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&post)
	if err != nil {
		return model.Post{}, classify("update post", err)
	}
	return post, nil
}

func (s *Posts) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify("delete post", err)
	}
	if res.DeletedCount == 0 {
		return classify("delete post", mongo.ErrNoDocuments)
	}
	return nil
}

// AddAuthor appends userID to the post's authors unless already present.
func (s *Posts) AddAuthor(ctx context.Context, postID, userID primitive.ObjectID) error {
	return s.updateAuthors(ctx, "add author", postID, bson.M{"$addToSet": bson.M{"authors": userID}})
}

// RemoveAuthor pulls userID from the post's authors.
func (s *Posts) RemoveAuthor(ctx context.Context, postID, userID primitive.ObjectID) error {
	return s.updateAuthors(ctx, "remove author", postID, bson.M{"$pull": bson.M{"authors": userID}})
}

func (s *Posts) updateAuthors(ctx context.Context, op string, postID primitive.ObjectID, update bson.M) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := s.Collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return classify(op, err)
	}
	if res.MatchedCount == 0 {
		return classify(op, mongo.ErrNoDocuments)
	}
	return nil
}
