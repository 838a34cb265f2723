package service

import (
	"context"
	"sync"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"

	"vibemusic/internal/model"
	"vibemusic/internal/queue"
)

// =============================================================================
// TRANSACTOR
// =============================================================================
//
// The repositories below ignore the *sqlx.Tx they receive, so the fake
// transactor only needs to report whether fn succeeded.

type fakeTransactor struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	err := fn(nil)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

// =============================================================================
// USER / PROFILE REPOSITORIES
// =============================================================================

type mockUserRepository struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

type mockProfileRepository struct {
	createFn       func(ctx context.Context, userID int64) error
	getByUserIDFn  func(ctx context.Context, userID int64) (*model.Profile, error)
	updateFn       func(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error)
	bindTelegramFn func(ctx context.Context, userID, chatID int64, username *string) error

	createCalls []int64
	bindCalls   []bindCall
}

type bindCall struct {
	UserID   int64
	ChatID   int64
	Username *string
}

func (m *mockProfileRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	m.createCalls = append(m.createCalls, userID)
	if m.createFn != nil {
		return m.createFn(ctx, userID)
	}
	return nil
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) Update(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, req)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) BindTelegram(ctx context.Context, userID, chatID int64, username *string) error {
	m.bindCalls = append(m.bindCalls, bindCall{UserID: userID, ChatID: chatID, Username: username})
	if m.bindTelegramFn != nil {
		return m.bindTelegramFn(ctx, userID, chatID, username)
	}
	return nil
}

// profilesByID serves GetByUserID from a fixed set.
func profilesByID(profiles ...*model.Profile) func(ctx context.Context, userID int64) (*model.Profile, error) {
	return func(ctx context.Context, userID int64) (*model.Profile, error) {
		for _, p := range profiles {
			if p.UserID == userID {
				return p, nil
			}
		}
		return nil, model.ErrProfileNotFound
	}
}

// =============================================================================
// EDGE STORE
// =============================================================================
//
// edgeStore is an in-memory set with the same insert/delete contract as the
// ON CONFLICT DO NOTHING and DELETE statements. It backs both the follow and
// reaction mocks and is safe for concurrent use.

type edgeKey struct {
	from int64
	kind model.TargetKind
	to   int64
}

type edgeStore struct {
	mu    sync.Mutex
	edges map[edgeKey]bool
}

func newEdgeStore() *edgeStore {
	return &edgeStore{edges: make(map[edgeKey]bool)}
}

func (s *edgeStore) insert(k edgeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edges[k] {
		return false
	}
	s.edges[k] = true
	return true
}

func (s *edgeStore) remove(k edgeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.edges[k] {
		return false
	}
	delete(s.edges, k)
	return true
}

func (s *edgeStore) countTo(kind model.TargetKind, to int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.edges {
		if k.kind == kind && k.to == to {
			n++
		}
	}
	return n
}

func (s *edgeStore) countFrom(kind model.TargetKind, from int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.edges {
		if k.kind == kind && k.from == from {
			n++
		}
	}
	return n
}

// =============================================================================
// FOLLOW REPOSITORY
// =============================================================================

type mockFollowRepository struct {
	store *edgeStore

	createFn       func(ctx context.Context, followerID, followeeID int64) (bool, error)
	deleteFn       func(ctx context.Context, followerID, followeeID int64) (bool, error)
	getFollowersFn func(ctx context.Context, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	checkFollowsFn func(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error)

	createCalls int
	deleteCalls int
}

func newMockFollowRepository() *mockFollowRepository {
	return &mockFollowRepository{store: newEdgeStore()}
}

func followKey(followerID, followeeID int64) edgeKey {
	return edgeKey{from: followerID, to: followeeID}
}

func (m *mockFollowRepository) Create(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followeeID)
	}
	return m.store.insert(followKey(followerID, followeeID)), nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error) {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followeeID)
	}
	return m.store.remove(followKey(followerID, followeeID)), nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.edges[followKey(followerID, followeeID)], nil
}

func (m *mockFollowRepository) CountFollowers(ctx context.Context, q sqlx.QueryerContext, profileID int64) (int, error) {
	return m.store.countTo(0, profileID), nil
}

func (m *mockFollowRepository) CountFollowing(ctx context.Context, q sqlx.QueryerContext, profileID int64) (int, error) {
	return m.store.countFrom(0, profileID), nil
}

func (m *mockFollowRepository) GetFollowers(ctx context.Context, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	if m.getFollowersFn != nil {
		return m.getFollowersFn(ctx, profileID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockFollowRepository) GetFollowing(ctx context.Context, profileID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	return nil, nil, nil
}

func (m *mockFollowRepository) CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
	if m.checkFollowsFn != nil {
		return m.checkFollowsFn(ctx, followerID, followeeIDs)
	}
	return map[int64]bool{}, nil
}

// =============================================================================
// REACTION REPOSITORY
// =============================================================================

type mockReactionRepository struct {
	store *edgeStore

	targetExistsFn func(ctx context.Context, target model.Target) (bool, error)
	createFn       func(ctx context.Context, userID int64, target model.Target) (bool, error)
	deleteFn       func(ctx context.Context, userID int64, target model.Target) (bool, error)

	mu          sync.Mutex
	createCalls int
	deleteCalls int
}

func newMockReactionRepository() *mockReactionRepository {
	return &mockReactionRepository{store: newEdgeStore()}
}

func reactionKey(userID int64, target model.Target) edgeKey {
	return edgeKey{from: userID, kind: target.Kind, to: target.ID}
}

func (m *mockReactionRepository) TargetExists(ctx context.Context, tx *sqlx.Tx, target model.Target) (bool, error) {
	if m.targetExistsFn != nil {
		return m.targetExistsFn(ctx, target)
	}
	return true, nil
}

func (m *mockReactionRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64, target model.Target) (bool, error) {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(ctx, userID, target)
	}
	return m.store.insert(reactionKey(userID, target)), nil
}

func (m *mockReactionRepository) Delete(ctx context.Context, tx *sqlx.Tx, userID int64, target model.Target) (bool, error) {
	m.mu.Lock()
	m.deleteCalls++
	m.mu.Unlock()
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, target)
	}
	return m.store.remove(reactionKey(userID, target)), nil
}

func (m *mockReactionRepository) Count(ctx context.Context, tx *sqlx.Tx, target model.Target) (int, error) {
	return m.store.countTo(target.Kind, target.ID), nil
}

// =============================================================================
// ACTIVITY / IP LOG REPOSITORIES
// =============================================================================

type mockActivityRepository struct {
	mu      sync.Mutex
	created []model.Activity

	createFn     func(ctx context.Context, a *model.Activity) error
	listRecentFn func(ctx context.Context, userID int64, limit int) ([]model.Activity, error)
}

func (m *mockActivityRepository) Create(ctx context.Context, tx *sqlx.Tx, a *model.Activity) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, a); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = int64(len(m.created) + 1)
	a.CreatedAt = time.Now()
	m.created = append(m.created, *a)
	return nil
}

func (m *mockActivityRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Activity, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, userID, limit)
	}
	return []model.Activity{}, nil
}

type mockIPLogRepository struct {
	ips      []string
	created  []model.IPChangeLog
	sinceArg time.Time
}

func (m *mockIPLogRepository) Create(ctx context.Context, entry *model.IPChangeLog) error {
	m.created = append(m.created, *entry)
	return nil
}

func (m *mockIPLogRepository) DistinctIPsSince(ctx context.Context, userID int64, since time.Time) ([]string, error) {
	m.sinceArg = since
	return m.ips, nil
}

// =============================================================================
// QUEUE / TELEGRAM / S3
// =============================================================================

type mockPublisher struct {
	mu        sync.Mutex
	events    []queue.Event
	publishFn func(ctx context.Context, stream string, event queue.Event) (string, error)
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.Event) (string, error) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type mockTelegramClient struct {
	mu     sync.Mutex
	sent   []sentMessage
	sendFn func(ctx context.Context, chatID int64, text string) error
}

func (m *mockTelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text})
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(ctx, chatID, text)
	}
	return nil
}

type mockPresigner struct {
	input *s3.PutObjectInput
	err   error
}

func (m *mockPresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://r2.example/upload?sig=abc", Method: "PUT"}, nil
}

type mockObjectHeader struct {
	input *s3.HeadObjectInput
	size  int64
	err   error
}

func (m *mockObjectHeader) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &s3.HeadObjectOutput{ContentLength: &m.size}, nil
}

type mockUploadInspector struct {
	keys []string
	size int64
	err  error
}

func (m *mockUploadInspector) UploadedSize(ctx context.Context, key string) (int64, error) {
	m.keys = append(m.keys, key)
	return m.size, m.err
}

// =============================================================================
// CONTENT REPOSITORIES
// =============================================================================

type mockArtistRepository struct {
	createFn  func(ctx context.Context, artist *model.Artist) error
	slugCalls []string
}

func (m *mockArtistRepository) Create(ctx context.Context, artist *model.Artist) error {
	m.slugCalls = append(m.slugCalls, artist.Slug)
	if m.createFn != nil {
		return m.createFn(ctx, artist)
	}
	artist.ID = 1
	return nil
}

func (m *mockArtistRepository) GetBySlug(ctx context.Context, slug string, viewerID *int64) (*model.Artist, error) {
	return nil, model.ErrArtistNotFound
}

type mockPostRepository struct {
	createFn  func(ctx context.Context, post *model.Post) error
	existing  map[int64]bool
	slugCalls []string
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	m.slugCalls = append(m.slugCalls, post.Slug)
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id int64, viewerID *int64) (*model.Post, error) {
	if m.existing[id] {
		return &model.Post{ID: id}, nil
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existing[id], nil
}

// mockCommentRepository keeps comments in memory keyed by id.
type mockCommentRepository struct {
	byID      map[int64]*model.Comment
	usernames map[int64]string
	created   []model.Comment
	listFn    func(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error)
}

func newMockCommentRepository() *mockCommentRepository {
	return &mockCommentRepository{byID: map[int64]*model.Comment{}, usernames: map[int64]string{}}
}

func (m *mockCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	c.ID = int64(len(m.byID) + 100)
	c.CreatedAt = time.Now()
	c.Username = m.usernames[c.UserID]
	stored := *c
	m.byID[c.ID] = &stored
	m.created = append(m.created, stored)
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID int64, cursor *string, limit int) ([]model.Comment, *string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, postID, cursor, limit)
	}
	return []model.Comment{}, nil, nil
}

type mockTrackRepository struct {
	created   []model.Track
	createErr error
	getFn     func(ctx context.Context, id int64, viewerID *int64) (*model.Track, error)
}

func (m *mockTrackRepository) Create(ctx context.Context, track *model.Track) error {
	if m.createErr != nil {
		return m.createErr
	}
	track.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *track)
	return nil
}

func (m *mockTrackRepository) GetByID(ctx context.Context, id int64, viewerID *int64) (*model.Track, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id, viewerID)
	}
	return nil, model.ErrTrackNotFound
}
