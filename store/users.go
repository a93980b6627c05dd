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

// Users holds reference to the users collection.
type Users struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

func NewUsers(db *mongo.Database, timeout time.Duration) *Users {
	return &Users{Collection: db.Collection("users"), Timeout: timeout}
}

// EnsureIndexes creates the unique email index.
func (s *Users) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	_, err := s.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return classify("create users email index", err)
	}
	return nil
}

func (s *Users) List(ctx context.Context) ([]model.User, error) {
	return s.find(ctx, "list users", bson.M{})
}

func (s *Users) FindByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	return s.findOne(ctx, "find user", bson.M{"_id": id})
}

func (s *Users) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findOne(ctx, "find user by email", bson.M{"email": email})
}

func (s *Users) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	return s.find(ctx, "find users", bson.M{"_id": bson.M{"$in": ids}})
}

// Insert stores user and sets its server-assigned id.
func (s *Users) Insert(ctx context.Context, user *model.User) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	user.Posts = idsOrEmpty(user.Posts)
	res, err := s.Collection.InsertOne(ctx, user)
	if err != nil {
		return classify("insert user", err)
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields $sets the given fields and returns the stored user. Address
// parts are set individually so a partial address keeps the other part.
func (s *Users) UpdateFields(ctx context.Context, id primitive.ObjectID, fields UserFields) (model.User, error) {
	set := bson.M{}
	for key, value := range map[string]*string{
		"name":           fields.Name,
		"email":          fields.Email,
		"password":       fields.Password,
		"address.city":   fields.City,
		"address.street": fields.Street,
	} {
		if value != nil {
			set[key] = *value
		}
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := s.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return model.User{}, classify("update user", err)
	}
	return user, nil
}

func (s *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify("delete user", err)
	}
	if res.DeletedCount == 0 {
		return classify("delete user", mongo.ErrNoDocuments)
	}
	return nil
}

// AddPost appends postID to the user's posts unless already present.
func (s *Users) AddPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return s.updatePosts(ctx, "add post to user", userID, bson.M{"$addToSet": bson.M{"posts": postID}})
}

// RemovePost pulls postID from the user's posts.
func (s *Users) RemovePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return s.updatePosts(ctx, "remove post from user", userID, bson.M{"$pull": bson.M{"posts": postID}})
}

func (s *Users) updatePosts(ctx context.Context, op string, userID primitive.ObjectID, update bson.M) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := s.Collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return classify(op, err)
	}
	if res.MatchedCount == 0 {
		return classify(op, mongo.ErrNoDocuments)
	}
	return nil
}

func (s *Users) findOne(ctx context.Context, op string, filter bson.M) (model.User, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var user model.User
	if err := s.Collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return model.User{}, classify(op, err)
	}
	return user, nil
}

func (s *Users) find(ctx context.Context, op string, filter bson.M) ([]model.User, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	cur, err := s.Collection.Find(ctx, filter)
	if err != nil {
		return nil, classify(op, err)
	}

	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, classify(op, err)
	}
	return users, nil
}
