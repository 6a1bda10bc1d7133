package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-italiane-backend/internal/domains/newsletter/model"
	"newsletter-italiane-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

type fakeRepo struct {
	items map[uuid.UUID]*model.Newsletter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]*model.Newsletter)}
}

func (r *fakeRepo) Create(_ context.Context, n *model.Newsletter) error {
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Newsletter, error) {
	n, ok := r.items[id]
	if !ok {
		return nil, model.ErrNewsletterNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.Newsletter, error) {
	var out []*model.Newsletter
	for _, n := range r.items {
		if n.OwnerID == ownerID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, n *model.Newsletter) error {
	if _, ok := r.items[n.ID]; !ok {
		return model.ErrNewsletterNotFound
	}
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return model.ErrNewsletterNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) UpdateReviewStatus(_ context.Context, id uuid.UUID, status model.ReviewStatus) error {
	n, ok := r.items[id]
	if !ok {
		return model.ErrNewsletterNotFound
	}
	n.ReviewStatus = status
	return nil
}

func (r *fakeRepo) ListByStatus(_ context.Context, status *model.ReviewStatus, page, limit int) ([]*model.Newsletter, int, error) {
	var out []*model.Newsletter
	for _, n := range r.items {
		if status == nil || n.ReviewStatus == *status {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListPendingOlderThan(_ context.Context, cutoff time.Time) ([]*model.Newsletter, error) {
	var out []*model.Newsletter
	for _, n := range r.items {
		if n.ReviewStatus == model.StatusInReview && n.CreatedAt.Before(cutoff) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListApproved(_ context.Context, category *string, page, limit int) ([]*model.Newsletter, int, error) {
	var out []*model.Newsletter
	for _, n := range r.items {
		if n.ReviewStatus != model.StatusApproved {
			continue
		}
		if category != nil && n.Category != *category {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Stats(_ context.Context) (*model.MarketplaceStats, error) {
	return &model.MarketplaceStats{TotalNewsletters: len(r.items)}, nil
}

// fakeCache registra set/get/invalidazioni in memoria.
type fakeCache struct {
	data        map[string][]byte
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// =====================================================
// HELPERS
// =====================================================

func newTestService() (ServiceInterface, *fakeRepo, *fakeCache, *fakeEnqueuer) {
	repo := newFakeRepo()
	cache := newFakeCache()
	enqueuer := &fakeEnqueuer{}
	return NewNewsletterService(repo, cache, enqueuer), repo, cache, enqueuer
}

func creatorActor() shared.Actor {
	return shared.Actor{ID: uuid.New(), Email: "creator@example.it", Role: shared.RoleCreator}
}

func adminActor() shared.Actor {
	return shared.Actor{ID: uuid.New(), Email: "admin@example.it", Role: shared.RoleAdmin}
}

func validRequest() model.CreateNewsletterRequest {
	return model.CreateNewsletterRequest{
		Title:            "Tech Settimanale",
		Description:      "Le notizie tecnologiche della settimana selezionate e commentate, con un occhio al mercato italiano.",
		Category:         "Tecnologia",
		SignupURL:        "https://techsettimanale.it/iscriviti",
		AudienceSize:     800,
		OpenRate:         38,
		CtrRate:          2.4,
		SponsorshipPrice: 90,
		ContactEmail:     "redazione@techsettimanale.it",
		AuthorFirstName:  "Luca",
		AuthorLastName:   "Bianchi",
		AuthorEmail:      "luca@techsettimanale.it",
	}
}

// =====================================================
// CREATE
// =====================================================

func TestCreateNewsletter(t *testing.T) {
	svc, repo, cache, _ := newTestService()
	actor := creatorActor()

	n, err := svc.Create(context.Background(), actor, validRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusInReview, n.ReviewStatus, "new newsletters always start in review")
	assert.Equal(t, actor.ID, n.OwnerID)
	assert.Equal(t, "it", n.Language, "language defaults to it")
	assert.NotEqual(t, uuid.Nil, n.ID)

	stored, err := repo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, stored.Title)

	assert.NotEmpty(t, cache.invalidated, "create invalidates marketplace listings")
}

func TestCreateNewsletterValidationFailureWritesNothing(t *testing.T) {
	svc, repo, _, _ := newTestService()

	req := validRequest()
	req.Title = "A"
	req.OpenRate = 150

	_, err := svc.Create(context.Background(), creatorActor(), req)
	require.Error(t, err)

	var fieldErrs validation.Errors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "title")
	assert.Contains(t, fieldErrs, "open_rate")

	assert.Empty(t, repo.items, "no partial write on validation failure")
}

// =====================================================
// VISIBILITY
// =====================================================

func TestGetNewsletterVisibility(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	t.Run("owner sees own newsletter", func(t *testing.T) {
		got, err := svc.Get(context.Background(), owner, n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.ID, got.ID)
	})

	t.Run("other creator gets not found, not forbidden", func(t *testing.T) {
		_, err := svc.Get(context.Background(), creatorActor(), n.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNewsletterNotFound)
		assert.NotErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		got, err := svc.Get(context.Background(), adminActor(), n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.ID, got.ID)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), owner, uuid.New())
		assert.ErrorIs(t, err, model.ErrNewsletterNotFound)
	})
}

func TestListReturnsOnlyOwnNewsletters(t *testing.T) {
	svc, _, _, _ := newTestService()
	alice := creatorActor()
	bob := creatorActor()

	_, err := svc.Create(context.Background(), alice, validRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, validRequest())
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].OwnerID)
}

// =====================================================
// UPDATE / STATE MACHINE
// =====================================================

func strPtr(s string) *string { return &s }

func TestUpdateApprovedNewsletterMetricEditReturnsToReview(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateReviewStatus(context.Background(), n.ID, model.StatusApproved))

	cadence := "Settimanale"
	result, err := svc.Update(context.Background(), owner, n.ID, model.UpdateNewsletterRequest{Cadence: &cadence})
	require.NoError(t, err)

	assert.True(t, result.ReturnedToReview)
	assert.Equal(t, model.StatusInReview, result.Newsletter.ReviewStatus)

	stored, _ := repo.GetByID(context.Background(), n.ID)
	assert.Equal(t, model.StatusInReview, stored.ReviewStatus, "status change persisted in the same write as the edit")
}

func TestUpdateApprovedNewsletterDescriptiveEditStaysApproved(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateReviewStatus(context.Background(), n.ID, model.StatusApproved))

	result, err := svc.Update(context.Background(), owner, n.ID, model.UpdateNewsletterRequest{
		Description: strPtr("Una nuova descrizione più lunga e accurata di quello che tratta la newsletter ogni settimana."),
	})
	require.NoError(t, err)

	assert.False(t, result.ReturnedToReview)
	assert.Equal(t, model.StatusApproved, result.Newsletter.ReviewStatus)
}

func TestUpdateRejectedNewsletterAnyEditReturnsToReview(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateReviewStatus(context.Background(), n.ID, model.StatusRejected))

	result, err := svc.Update(context.Background(), owner, n.ID, model.UpdateNewsletterRequest{Title: strPtr("Titolo Corretto")})
	require.NoError(t, err)

	assert.True(t, result.ReturnedToReview)
	assert.Equal(t, model.StatusInReview, result.Newsletter.ReviewStatus)
}

func TestUpdateEmptyPatchIsNoOp(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	before, _ := repo.GetByID(context.Background(), n.ID)

	result, err := svc.Update(context.Background(), owner, n.ID, model.UpdateNewsletterRequest{})
	require.NoError(t, err)
	assert.False(t, result.ReturnedToReview)

	after, _ := repo.GetByID(context.Background(), n.ID)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "empty patch does not touch the row")
}

func TestUpdateInvisibleNewsletterIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), creatorActor(), n.ID, model.UpdateNewsletterRequest{Title: strPtr("Hijack")})
	assert.ErrorIs(t, err, model.ErrNewsletterNotFound)
}

// =====================================================
// DELETE
// =====================================================

func TestDeleteNewsletter(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), owner, n.ID))
	assert.Empty(t, repo.items)

	// Ripetere la delete segnala NotFound: la riga non c'è più.
	err = svc.Delete(context.Background(), owner, n.ID)
	assert.ErrorIs(t, err, model.ErrNewsletterNotFound)
}

func TestDeleteInvisibleNewsletterIsNotFound(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), creatorActor(), n.ID)
	assert.ErrorIs(t, err, model.ErrNewsletterNotFound)
	assert.Len(t, repo.items, 1, "row untouched")
}

// =====================================================
// MODERATION
// =====================================================

func TestApproveNewsletter(t *testing.T) {
	svc, repo, _, enqueuer := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), adminActor(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.ReviewStatus)

	stored, _ := repo.GetByID(context.Background(), n.ID)
	assert.Equal(t, model.StatusApproved, stored.ReviewStatus)

	require.Len(t, enqueuer.tasks, 1, "outcome email enqueued")
	assert.Equal(t, shared.TypeSendReviewOutcomeEmail, enqueuer.tasks[0].Type())
}

func TestRejectNewsletterCarriesReason(t *testing.T) {
	svc, _, _, enqueuer := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), adminActor(), n.ID, "Metriche non verificabili")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.ReviewStatus)

	require.Len(t, enqueuer.tasks, 1)
	var payload shared.ReviewOutcomeEmailPayload
	require.NoError(t, json.Unmarshal(enqueuer.tasks[0].Payload(), &payload))
	assert.Equal(t, "rejected", payload.Outcome)
	assert.Equal(t, "Metriche non verificabili", payload.Reason)
}

func TestModerationRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), owner, n.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestModerationOnlyFromInReview(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateReviewStatus(context.Background(), n.ID, model.StatusApproved))

	_, err = svc.Approve(context.Background(), adminActor(), n.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyModerated)
}

func TestModerationSurvivesEnqueueFailure(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{err: errors.New("redis down")}
	svc := NewNewsletterService(repo, newFakeCache(), enqueuer)
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), adminActor(), n.ID)
	require.NoError(t, err, "enqueue failure must not undo the moderation")
	assert.Equal(t, model.StatusApproved, approved.ReviewStatus)
}

func TestAdminListRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, _, err := svc.AdminList(context.Background(), creatorActor(), &model.AdminListNewslettersRequest{})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestExportToExcel(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.Create(context.Background(), creatorActor(), validRequest())
	require.NoError(t, err)

	f, err := svc.ExportToExcel(context.Background(), adminActor(), &model.AdminListNewslettersRequest{})
	require.NoError(t, err)

	rows, err := f.GetRows("Newsletter")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header + one data row")
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, created.ID.String(), rows[1][0])
	assert.Equal(t, string(model.StatusInReview), rows[1][12])
}

func TestExportToExcelRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ExportToExcel(context.Background(), creatorActor(), &model.AdminListNewslettersRequest{})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestStatsRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Stats(context.Background(), creatorActor())
	assert.ErrorIs(t, err, model.ErrForbidden)

	stats, err := svc.Stats(context.Background(), adminActor())
	require.NoError(t, err)
	assert.NotNil(t, stats)
}

// =====================================================
// MARKETPLACE
// =====================================================

func TestMarketplaceListsOnlyApproved(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	approved, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateReviewStatus(context.Background(), approved.ID, model.StatusApproved))

	_, err = svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	items, total, err := svc.Marketplace(context.Background(), &model.MarketplaceListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, approved.ID, items[0].ID)
}

func TestMarketplaceCachesAndInvalidates(t *testing.T) {
	svc, repo, cache, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateReviewStatus(context.Background(), n.ID, model.StatusApproved))

	_, _, err = svc.Marketplace(context.Background(), &model.MarketplaceListRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, cache.data, "first read populates the cache")

	// Una write su una newsletter butta via i listing cachati.
	_, err = svc.Update(context.Background(), owner, n.ID, model.UpdateNewsletterRequest{Title: strPtr("Titolo Nuovo")})
	require.NoError(t, err)
	assert.Empty(t, cache.data, "write path invalidates marketplace cache")
}

func TestMarketplaceServesFromCache(t *testing.T) {
	svc, repo, _, _ := newTestService()
	owner := creatorActor()

	n, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateReviewStatus(context.Background(), n.ID, model.StatusApproved))

	_, total, err := svc.Marketplace(context.Background(), &model.MarketplaceListRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)

	// Svuota il repo: la seconda lettura deve servire dalla cache.
	repo.items = make(map[uuid.UUID]*model.Newsletter)

	items, total, err := svc.Marketplace(context.Background(), &model.MarketplaceListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}
