package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/mhasan-dev/devgram/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces, shared across handler tests.

type fakePostRepository struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepository() *fakePostRepository {
	return &fakePostRepository{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepository) seed(creatorID uint, caption string) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		CreatorID: creatorID,
		Caption:   caption,
		Tags:      []string{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.posts[post.ID.Hex()] = post
	return post
}

func (f *fakePostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	f.posts[post.ID.Hex()] = post
	return nil
}

func (f *fakePostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post not found")
	}
	return post, nil
}

func (f *fakePostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := []models.Post{}
	for _, id := range ids {
		if p, ok := f.posts[id]; ok {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (f *fakePostRepository) GetPostsByCreator(ctx context.Context, creatorID uint) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := []models.Post{}
	for _, p := range f.posts {
		if p.CreatorID == creatorID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (f *fakePostRepository) sortedPosts() []models.Post {
	posts := []models.Post{}
	for _, p := range f.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

func (f *fakePostRepository) GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := f.sortedPosts()
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakePostRepository) GetPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := f.sortedPosts()
	if skip >= int64(len(posts)) {
		return []models.Post{}, nil
	}
	posts = posts[skip:]
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakePostRepository) SearchPostsByCaption(ctx context.Context, term string) ([]models.Post, error) {
	return f.sortedPosts(), nil
}

func (f *fakePostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("post not found")
	}
	f.posts[id] = post
	return nil
}

func (f *fakePostRepository) DeletePost(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("post not found")
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepository) adjust(id, field string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return fmt.Errorf("post not found")
	}
	if field == "likes" {
		post.LikesCount += delta
	} else {
		post.CommentsCount += delta
	}
	return nil
}

func (f *fakePostRepository) IncrementLikesCount(ctx context.Context, postID string) error {
	return f.adjust(postID, "likes", 1)
}

func (f *fakePostRepository) DecrementLikesCount(ctx context.Context, postID string) error {
	return f.adjust(postID, "likes", -1)
}

func (f *fakePostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	return f.adjust(postID, "comments", 1)
}

func (f *fakePostRepository) DecrementCommentsCount(ctx context.Context, postID string) error {
	return f.adjust(postID, "comments", -1)
}

type fakeReactionRepository struct {
	mu      sync.Mutex
	likes   map[string]time.Time
	unlikes map[string]time.Time
}

func newFakeReactionRepository() *fakeReactionRepository {
	return &fakeReactionRepository{
		likes:   make(map[string]time.Time),
		unlikes: make(map[string]time.Time),
	}
}

func reactionKey(userID uint, postID string) string {
	return fmt.Sprintf("%d|%s", userID, postID)
}

func (f *fakeReactionRepository) LikePost(userID uint, postID string) (repositories.SwapResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := reactionKey(userID, postID)
	if _, ok := f.likes[key]; ok {
		return repositories.SwapResult{}, nil
	}
	f.likes[key] = time.Now()
	_, hadUnlike := f.unlikes[key]
	delete(f.unlikes, key)
	return repositories.SwapResult{Created: true, RemovedOpposite: hadUnlike}, nil
}

func (f *fakeReactionRepository) UnlikePost(userID uint, postID string) (repositories.SwapResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := reactionKey(userID, postID)
	if _, ok := f.unlikes[key]; ok {
		return repositories.SwapResult{}, nil
	}
	f.unlikes[key] = time.Now()
	_, hadLike := f.likes[key]
	delete(f.likes, key)
	return repositories.SwapResult{Created: true, RemovedOpposite: hadLike}, nil
}

func (f *fakeReactionRepository) HasLiked(userID uint, postID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.likes[reactionKey(userID, postID)]
	return ok, nil
}

func (f *fakeReactionRepository) HasUnliked(userID uint, postID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.unlikes[reactionKey(userID, postID)]
	return ok, nil
}

func (f *fakeReactionRepository) GetLikesCount(postID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.likes {
		if strings.HasSuffix(key, "|"+postID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReactionRepository) GetUnlikesCount(postID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.unlikes {
		if strings.HasSuffix(key, "|"+postID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReactionRepository) GetLikedPostIDs(userID uint) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := fmt.Sprintf("%d|", userID)
	ids := []string{}
	for key := range f.likes {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			ids = append(ids, key[len(prefix):])
		}
	}
	return ids, nil
}

type fakeSavedPostRepository struct {
	mu     sync.Mutex
	nextID uint
	saved  map[uint]*models.SavedPost
}

func newFakeSavedPostRepository() *fakeSavedPostRepository {
	return &fakeSavedPostRepository{nextID: 1, saved: make(map[uint]*models.SavedPost)}
}

func (f *fakeSavedPostRepository) SavePost(savedPost *models.SavedPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	savedPost.ID = f.nextID
	savedPost.CreatedAt = time.Now()
	f.nextID++
	f.saved[savedPost.ID] = savedPost
	return nil
}

func (f *fakeSavedPostRepository) GetSavedPostByID(id uint) (*models.SavedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved, ok := f.saved[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return saved, nil
}

func (f *fakeSavedPostRepository) DeleteSavedPost(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.saved[id]; !ok {
		return fmt.Errorf("saved post not found")
	}
	delete(f.saved, id)
	return nil
}

func (f *fakeSavedPostRepository) IsPostSaved(userID uint, postID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.saved {
		if s.UserID == userID && s.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSavedPostRepository) GetSavedPostsByUser(userID uint) ([]models.SavedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := []models.SavedPost{}
	for _, s := range f.saved {
		if s.UserID == userID {
			saved = append(saved, *s)
		}
	}
	return saved, nil
}

type fakeCommentRepository struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]*models.Comment
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{nextID: 1, comments: make(map[uint]*models.Comment)}
}

func (f *fakeCommentRepository) CreateComment(comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	f.nextID++
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepository) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comments := []models.Comment{}
	for _, cm := range f.comments {
		if cm.PostID == postID {
			comments = append(comments, *cm)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

func (f *fakeCommentRepository) DeleteComment(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.comments, id)
	return nil
}

type fakeUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{nextID: 1, users: make(map[uint]*models.User)}
}

func (f *fakeUserRepository) CreateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByUsername(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUsers(limit int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []models.User{}
	for _, u := range f.users {
		users = append(users, *u)
	}
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []models.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeUserRepository) UpdateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionRepository) CreateSession(session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session.CreatedAt = time.Now()
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionRepository) GetSessionByToken(token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepository) GetSessionByUserID(userID uint) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepository) SetLoginTimestamp(token string, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[token]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	session.LoginTimestamp = &ts
	return nil
}

func (f *fakeSessionRepository) DeleteSession(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string]bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string]bool)}
}

func (f *fakeImageStore) Upload(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.objects[name] = true
	return "https://storage.test/" + name, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, name)
	return nil
}
