package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/auth"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *fakeUserRepo) UpsertGoogleUser(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.users {
		if existing.GoogleID == u.GoogleID {
			cp := *existing
			return &cp, nil
		}
	}
	cp := *u
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role models.RoleType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.RoleType = role
	return nil
}

type fakeToken struct {
	userID  uuid.UUID
	expiry  time.Time
	revoked bool
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*fakeToken
	// beforeConsume runs between the lookup and the rotation of a token
	beforeConsume func(token string)
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*fakeToken{}}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token string, userID uuid.UUID, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &fakeToken{userID: userID, expiry: expiry}
	return nil
}

func (r *fakeTokenRepo) GetTokenByValue(_ context.Context, token string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	switch {
	case !ok:
		return uuid.Nil, apperrors.ErrTokenNotFound
	case t.revoked:
		return uuid.Nil, apperrors.ErrTokenRevoked
	case t.expiry.Before(time.Now()):
		return uuid.Nil, apperrors.ErrTokenExpired
	}
	return t.userID, nil
}

func (r *fakeTokenRepo) ConsumeToken(_ context.Context, token string) error {
	if r.beforeConsume != nil {
		r.beforeConsume(token)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || t.revoked || !t.expiry.After(time.Now()) {
		return apperrors.ErrTokenRevoked
	}
	t.revoked = true
	return nil
}

func (r *fakeTokenRepo) RevokeToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) CleanupExpiredTokens(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.revoked || t.expiry.Before(time.Now()) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results []*models.Result
	err     error
	clock   time.Time
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *fakeResultRepo) Create(_ context.Context, res *models.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	res.ID = uuid.New()
	r.clock = r.clock.Add(time.Minute)
	res.CreatedAt = r.clock
	res.UpdatedAt = r.clock
	cp := *res
	r.results = append(r.results, &cp)
	return nil
}

func (r *fakeResultRepo) owned(userID uuid.UUID) []*models.Result {
	var out []*models.Result
	for _, res := range r.results {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out
}

func (r *fakeResultRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.owned(userID) {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, apperrors.ErrResultNotFound
}

func (r *fakeResultRepo) newestFirst(userID uuid.UUID) []*models.Result {
	out := r.owned(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeResultRepo) List(_ context.Context, userID uuid.UUID, offset uint64, limit int) ([]*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.newestFirst(userID)
	if int(offset) >= len(all) {
		return []*models.Result{}, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeResultRepo) Count(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.owned(userID))), nil
}

func (r *fakeResultRepo) ListAll(_ context.Context, userID uuid.UUID) ([]*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.owned(userID), nil
}

func (r *fakeResultRepo) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	all := r.newestFirst(userID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeResultRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, res := range r.results {
		if res.ID == id && res.UserID == userID {
			r.results = append(r.results[:i], r.results[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResultNotFound
}

type fakeNewsletterRepo struct {
	mu   sync.Mutex
	subs map[string]*models.NewsletterSubscriber
	err  error

	statsCalls int
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{subs: map[string]*models.NewsletterSubscriber{}}
}

func (r *fakeNewsletterRepo) FindByEmail(_ context.Context, email string) (*models.NewsletterSubscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.subs[email]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeNewsletterRepo) Create(_ context.Context, s *models.NewsletterSubscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[s.Email]; ok {
		return apperrors.ErrAlreadySubscribed
	}
	s.ID = uuid.New()
	s.IsActive = true
	cp := *s
	r.subs[s.Email] = &cp
	return nil
}

func (r *fakeNewsletterRepo) Reactivate(_ context.Context, id uuid.UUID, source string, at time.Time) (*models.NewsletterSubscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.ID == id && !s.IsActive {
			s.IsActive = true
			s.SubscribedAt = at
			if source != "" {
				s.Source = source
			}
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrAlreadySubscribed
}

func (r *fakeNewsletterRepo) Deactivate(_ context.Context, email string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[email]
	if !ok || !s.IsActive {
		return false, nil
	}
	s.IsActive = false
	s.UnsubscribedAt = &at
	return true, nil
}

func (r *fakeNewsletterRepo) active() []*models.NewsletterSubscriber {
	var out []*models.NewsletterSubscriber
	for _, s := range r.subs {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out
}

func (r *fakeNewsletterRepo) ListActive(_ context.Context, offset uint64, limit int) ([]*models.NewsletterSubscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.active()
	if int(offset) >= len(all) {
		return []*models.NewsletterSubscriber{}, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeNewsletterRepo) CountActive(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.active())), nil
}

func (r *fakeNewsletterRepo) Stats(_ context.Context, since time.Time) (*models.SubscriptionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statsCalls++
	if r.err != nil {
		return nil, r.err
	}
	stats := &models.SubscriptionStats{}
	for _, s := range r.subs {
		stats.Total++
		if s.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if !s.SubscribedAt.Before(since) {
			stats.RecentSubscriptions++
		}
	}
	return stats, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *fakeMailer) SendNewsletterWelcome(to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return m.err
}

func (m *fakeMailer) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

type fakeVerifier struct {
	identities map[string]*auth.GoogleIdentity
}

func (v *fakeVerifier) Verify(_ context.Context, token string) (*auth.GoogleIdentity, error) {
	id, ok := v.identities[token]
	if !ok {
		return nil, auth.ErrInvalidGoogleToken
	}
	return id, nil
}

type fakeGenerator struct {
	prompt string
	answer string
	err    error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.answer, g.err
}

func (g *fakeGenerator) Model() string { return "fake-model" }

var errDB = errors.New("connection refused")
