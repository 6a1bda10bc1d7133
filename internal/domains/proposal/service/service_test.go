package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profilemodel "newsletter-italiane-backend/internal/domains/profile/model"
	"newsletter-italiane-backend/internal/domains/proposal/model"
	"newsletter-italiane-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

type fakeProposalRepo struct {
	proposals map[uuid.UUID]*model.Proposal
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[uuid.UUID]*model.Proposal)}
}

func (r *fakeProposalRepo) GetByIDWithNewsletters(_ context.Context, id uuid.UUID) (*model.Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, model.ErrProposalNotFound
	}
	return p, nil
}

func (r *fakeProposalRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.Proposal, error) {
	var out []*model.Proposal
	for _, p := range r.proposals {
		for _, n := range p.Newsletters {
			if n.OwnerID == ownerID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// fakeDirectory simula profili e directory di login per owner id.
type fakeDirectory struct {
	profiles map[uuid.UUID]*profilemodel.Profile
	users    map[uuid.UUID]*profilemodel.AuthUser
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		profiles: make(map[uuid.UUID]*profilemodel.Profile),
		users:    make(map[uuid.UUID]*profilemodel.AuthUser),
	}
}

func (d *fakeDirectory) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*profilemodel.Profile, error) {
	p, ok := d.profiles[userID]
	if !ok {
		return nil, profilemodel.ErrProfileNotFound
	}
	return p, nil
}

func (d *fakeDirectory) GetUserByID(_ context.Context, id uuid.UUID) (*profilemodel.AuthUser, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, profilemodel.ErrUserNotFound
	}
	return u, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// =====================================================
// HELPERS
// =====================================================

func admin() shared.Actor {
	return shared.Actor{ID: uuid.New(), Email: "admin@example.it", Role: shared.RoleAdmin}
}

func creator() shared.Actor {
	return shared.Actor{ID: uuid.New(), Email: "creator@example.it", Role: shared.RoleCreator}
}

func strPtr(s string) *string { return &s }

func linkedNewsletter(ownerID uuid.UUID, title, authorEmail string) *model.LinkedNewsletter {
	return &model.LinkedNewsletter{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           title,
		AuthorFirstName: "Giulia",
		AuthorLastName:  "Verdi",
		AuthorEmail:     authorEmail,
	}
}

func storeProposal(repo *fakeProposalRepo, newsletters ...*model.LinkedNewsletter) *model.Proposal {
	p := &model.Proposal{
		ID:          uuid.New(),
		BrandName:   "Caffè Torino",
		BrandEmail:  "marketing@caffetorino.it",
		Subject:     "Sponsorizzazione newsletter",
		Message:     "Vorremmo proporre una collaborazione.",
		Budget:      500,
		Status:      model.StatusOpen,
		Newsletters: newsletters,
	}
	repo.proposals[p.ID] = p
	return p
}

// =====================================================
// RESOLUTION TIERS
// =====================================================

func TestResolveContactEmailsTierOrder(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	svc := NewProposalService(repo, dir, &fakeEnqueuer{})

	owner := uuid.New()
	n := linkedNewsletter(owner, "Cucina Vera", "autore@cucinavera.it")
	p := storeProposal(repo, n)

	// Tier 1 presente: vince l'email del profilo.
	dir.profiles[owner] = &profilemodel.Profile{UserID: owner, Email: strPtr("profilo@example.it")}
	dir.users[owner] = &profilemodel.AuthUser{ID: owner, Email: "login@example.it"}

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "profilo@example.it", entries[0].Email)
	assert.Equal(t, "Giulia Verdi", entries[0].Name)
	assert.Equal(t, "Cucina Vera", entries[0].NewsletterTitle)
}

func TestResolveContactEmailsFallsBackToAuthorEmail(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	svc := NewProposalService(repo, dir, &fakeEnqueuer{})

	owner := uuid.New()
	p := storeProposal(repo, linkedNewsletter(owner, "Cucina Vera", "autore@cucinavera.it"))

	// Nessun profilo: tier 2.
	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "autore@cucinavera.it", entries[0].Email)
}

func TestResolveContactEmailsFallsBackToDirectory(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	svc := NewProposalService(repo, dir, &fakeEnqueuer{})

	owner := uuid.New()
	p := storeProposal(repo, linkedNewsletter(owner, "Cucina Vera", ""))

	// Profilo senza email, newsletter senza author_email: tier 3.
	dir.profiles[owner] = &profilemodel.Profile{UserID: owner}
	dir.users[owner] = &profilemodel.AuthUser{ID: owner, Email: "login@example.it"}

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "login@example.it", entries[0].Email)
}

func TestResolveContactEmailsDropsUnresolvable(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	svc := NewProposalService(repo, dir, &fakeEnqueuer{})

	resolvable := uuid.New()
	unresolvable := uuid.New()
	p := storeProposal(repo,
		linkedNewsletter(resolvable, "Cucina Vera", "autore@cucinavera.it"),
		linkedNewsletter(unresolvable, "Senza Contatti", ""),
	)

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err, "unresolvable entries are dropped, never an error")
	require.Len(t, entries, 1)
	assert.Equal(t, "autore@cucinavera.it", entries[0].Email)
}

func TestResolveContactEmailsEmptyListIsValid(t *testing.T) {
	repo := newFakeProposalRepo()
	svc := NewProposalService(repo, newFakeDirectory(), &fakeEnqueuer{})

	p := storeProposal(repo, linkedNewsletter(uuid.New(), "Senza Contatti", ""))

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestResolveContactEmailsDedupe(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	svc := NewProposalService(repo, dir, &fakeEnqueuer{})

	ownerA := uuid.New()
	ownerB := uuid.New()
	p := storeProposal(repo,
		linkedNewsletter(ownerA, "Newsletter A", "condivisa@example.it"),
		linkedNewsletter(ownerB, "Newsletter B", "condivisa@example.it"),
	)

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "same resolved email appears once")
}

func TestResolveContactEmailsTwoOwnersDistinctTiers(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	svc := NewProposalService(repo, dir, &fakeEnqueuer{})

	withProfile := uuid.New()
	withAuthorEmail := uuid.New()
	p := storeProposal(repo,
		linkedNewsletter(withProfile, "Prima", ""),
		linkedNewsletter(withAuthorEmail, "Seconda", "autore@seconda.it"),
	)
	dir.profiles[withProfile] = &profilemodel.Profile{UserID: withProfile, Email: strPtr("profilo@prima.it")}

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	emails := []string{entries[0].Email, entries[1].Email}
	assert.Contains(t, emails, "profilo@prima.it")
	assert.Contains(t, emails, "autore@seconda.it")
}

func TestResolveContactEmailsSkipsMalformedAddresses(t *testing.T) {
	repo := newFakeProposalRepo()
	svc := NewProposalService(repo, newFakeDirectory(), &fakeEnqueuer{})

	p := storeProposal(repo, linkedNewsletter(uuid.New(), "Cucina Vera", "non una email"))

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolveContactEmailsSameOwnerResolvedOnce(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	svc := NewProposalService(repo, dir, &fakeEnqueuer{})

	owner := uuid.New()
	p := storeProposal(repo,
		linkedNewsletter(owner, "Prima", "autore@example.it"),
		linkedNewsletter(owner, "Seconda", "autore@example.it"),
	)

	entries, err := svc.ResolveContactEmails(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =====================================================
// AUTHORIZATION / ERRORS
// =====================================================

func TestResolveContactEmailsRequiresAdmin(t *testing.T) {
	repo := newFakeProposalRepo()
	svc := NewProposalService(repo, newFakeDirectory(), &fakeEnqueuer{})

	p := storeProposal(repo, linkedNewsletter(uuid.New(), "Cucina Vera", "a@b.it"))

	_, err := svc.ResolveContactEmails(context.Background(), creator(), p.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestResolveContactEmailsUnknownProposal(t *testing.T) {
	svc := NewProposalService(newFakeProposalRepo(), newFakeDirectory(), &fakeEnqueuer{})

	_, err := svc.ResolveContactEmails(context.Background(), admin(), uuid.New())
	assert.ErrorIs(t, err, model.ErrProposalNotFound)
}

// =====================================================
// NOTIFY
// =====================================================

func TestNotifyEnqueuesOneTaskPerContact(t *testing.T) {
	repo := newFakeProposalRepo()
	dir := newFakeDirectory()
	enqueuer := &fakeEnqueuer{}
	svc := NewProposalService(repo, dir, enqueuer)

	ownerA := uuid.New()
	ownerB := uuid.New()
	p := storeProposal(repo,
		linkedNewsletter(ownerA, "Prima", "a@example.it"),
		linkedNewsletter(ownerB, "Seconda", "b@example.it"),
	)

	count, err := svc.Notify(context.Background(), admin(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, enqueuer.tasks, 2)

	var payload shared.ProposalContactEmailPayload
	require.NoError(t, json.Unmarshal(enqueuer.tasks[0].Payload(), &payload))
	assert.Equal(t, shared.TypeSendProposalContactEmail, enqueuer.tasks[0].Type())
	assert.Equal(t, "Caffè Torino", payload.BrandName)
	assert.Equal(t, "Sponsorizzazione newsletter", payload.Subject)
}

func TestNotifyRequiresAdmin(t *testing.T) {
	repo := newFakeProposalRepo()
	svc := NewProposalService(repo, newFakeDirectory(), &fakeEnqueuer{})

	p := storeProposal(repo, linkedNewsletter(uuid.New(), "Cucina Vera", "a@b.it"))

	_, err := svc.Notify(context.Background(), creator(), p.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

// =====================================================
// CREATOR VIEW
// =====================================================

func TestListForActorFiltersByOwnership(t *testing.T) {
	repo := newFakeProposalRepo()
	svc := NewProposalService(repo, newFakeDirectory(), &fakeEnqueuer{})

	me := creator()
	storeProposal(repo, linkedNewsletter(me.ID, "Mia", "io@example.it"))
	storeProposal(repo, linkedNewsletter(uuid.New(), "Altrui", "altro@example.it"))

	mine, err := svc.ListForActor(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mia", mine[0].Newsletters[0].Title)
}

func TestListForActorEmptyIsNotNil(t *testing.T) {
	svc := NewProposalService(newFakeProposalRepo(), newFakeDirectory(), &fakeEnqueuer{})

	proposals, err := svc.ListForActor(context.Background(), creator())
	require.NoError(t, err)
	assert.NotNil(t, proposals)
	assert.Empty(t, proposals)
}
