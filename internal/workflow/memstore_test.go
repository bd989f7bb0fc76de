package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/favorite"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/outbox"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
)

// memDB is an in-memory stand-in for the relational schema. memRunner serializes units of work
// and restores a snapshot when one fails, which gives the tests the all-or-nothing semantics
// of a transaction.
type memDB struct {
	accounts      map[string]account.Account
	entries       []ledger.Entry
	listings      map[uuid.UUID]listing.Listing
	owners        map[string]owner.Owner
	users         map[string]user.User
	clients       map[string]user.Client
	purchases     map[uuid.UUID]purchase.Purchase
	packages      map[string]purchase.Package
	favorites     map[favoriteKey]time.Time
	conversations map[uuid.UUID]messaging.Conversation
	messages      []messaging.Message
	outbox        []outbox.Message

	failListingCreate error
	failOutboxCreate  error
}

type favoriteKey struct {
	clientID   string
	propertyID uuid.UUID
}

func newMemDB() *memDB {
	return &memDB{
		accounts:      make(map[string]account.Account),
		listings:      make(map[uuid.UUID]listing.Listing),
		owners:        make(map[string]owner.Owner),
		users:         make(map[string]user.User),
		clients:       make(map[string]user.Client),
		purchases:     make(map[uuid.UUID]purchase.Purchase),
		packages:      make(map[string]purchase.Package),
		favorites:     make(map[favoriteKey]time.Time),
		conversations: make(map[uuid.UUID]messaging.Conversation),
	}
}

func (db *memDB) clone() *memDB {
	c := newMemDB()
	for k, v := range db.accounts {
		c.accounts[k] = v
	}
	c.entries = append([]ledger.Entry(nil), db.entries...)
	for k, v := range db.listings {
		c.listings[k] = v
	}
	for k, v := range db.owners {
		c.owners[k] = v
	}
	for k, v := range db.users {
		c.users[k] = v
	}
	for k, v := range db.clients {
		c.clients[k] = v
	}
	for k, v := range db.purchases {
		c.purchases[k] = v
	}
	for k, v := range db.packages {
		c.packages[k] = v
	}
	for k, v := range db.favorites {
		c.favorites[k] = v
	}
	for k, v := range db.conversations {
		c.conversations[k] = v
	}
	c.messages = append([]messaging.Message(nil), db.messages...)
	c.outbox = append([]outbox.Message(nil), db.outbox...)
	c.failListingCreate = db.failListingCreate
	c.failOutboxCreate = db.failOutboxCreate
	return c
}

type memRunner struct {
	mu     sync.Mutex
	db     *memDB
	stores Stores
}

func newMemRunner(db *memDB) *memRunner {
	return &memRunner{db: db, stores: newMemStores(db)}
}

func (r *memRunner) InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.db.clone()
	defer func() {
		if p := recover(); p != nil {
			*r.db = *snapshot
			panic(p)
		}
		if err != nil {
			*r.db = *snapshot
		}
	}()
	return fn(ctx, r.stores)
}

// read runs fn under the runner lock, for assertions
func (r *memRunner) read(fn func(db *memDB)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.db)
}

func newMemStores(db *memDB) Stores {
	return Stores{
		Accounts:      &memAccounts{db},
		Ledger:        &memLedger{db},
		Listings:      &memListings{db},
		Owners:        &memOwners{db},
		Users:         &memUsers{db},
		Purchases:     &memPurchases{db},
		Packages:      &memPackages{db},
		Favorites:     &memFavorites{db},
		Conversations: &memConversations{db},
		Outbox:        &memOutbox{db},
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memAccounts struct{ db *memDB }

func (r *memAccounts) Create(_ context.Context, a *account.Account) error {
	r.db.accounts[a.OwnerID] = *a
	return nil
}

func (r *memAccounts) GetByOwnerID(_ context.Context, ownerID string) (*account.Account, error) {
	a, ok := r.db.accounts[ownerID]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "account", ID: ownerID}
	}
	return &a, nil
}

func (r *memAccounts) Update(_ context.Context, a *account.Account) error {
	stored, ok := r.db.accounts[a.OwnerID]
	if !ok || stored.Version != a.Version-1 {
		return account.ErrConcurrentModification{OwnerID: a.OwnerID}
	}
	if a.Balance < 0 {
		return errNegativeBalance
	}
	r.db.accounts[a.OwnerID] = *a
	return nil
}

func (r *memAccounts) LockForUpdate(ctx context.Context, ownerID string) (*account.Account, error) {
	return r.GetByOwnerID(ctx, ownerID)
}

func (r *memAccounts) WithTx(pgx.Tx) account.Repository { return r }

var errNegativeBalance = errors.New("accounts_balance_check violated")

type memLedger struct{ db *memDB }

func (r *memLedger) Append(_ context.Context, e *ledger.Entry) error {
	r.db.entries = append(r.db.entries, *e)
	return nil
}

func (r *memLedger) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*ledger.Entry, error) {
	var out []*ledger.Entry
	for i := len(r.db.entries) - 1; i >= 0; i-- {
		if r.db.entries[i].OwnerID == ownerID {
			e := r.db.entries[i]
			out = append(out, &e)
		}
	}
	if offset >= len(out) {
		return []*ledger.Entry{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memLedger) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, e := range r.db.entries {
		if e.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *memLedger) WithTx(pgx.Tx) ledger.Repository { return r }

type memListings struct{ db *memDB }

func (r *memListings) Create(_ context.Context, l *listing.Listing) error {
	if r.db.failListingCreate != nil {
		return r.db.failListingCreate
	}
	r.db.listings[l.ID] = *l
	return nil
}

func (r *memListings) GetByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, ok := r.db.listings[id]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "listing", ID: id.String()}
	}
	return &l, nil
}

func (r *memListings) LockForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return r.GetByID(ctx, id)
}

func (r *memListings) UpdateStatus(_ context.Context, l *listing.Listing) error {
	stored, ok := r.db.listings[l.ID]
	if !ok {
		return shared.ErrNotFound{Entity: "listing", ID: l.ID.String()}
	}
	stored.Status = l.Status
	stored.UpdatedAt = l.UpdatedAt
	r.db.listings[l.ID] = stored
	return nil
}

func (r *memListings) Search(_ context.Context, f listing.SearchFilter) ([]*listing.Listing, int64, error) {
	var out []*listing.Listing
	for _, l := range r.db.listings {
		if l.Status != listing.StatusAvailable {
			continue
		}
		if f.Term != "" && !strings.Contains(strings.ToLower(l.Title+" "+l.Address), strings.ToLower(f.Term)) {
			continue
		}
		l := l
		out = append(out, &l)
	}
	return out, int64(len(out)), nil
}

func (r *memListings) ListByOwner(_ context.Context, ownerID string) ([]*listing.Listing, error) {
	var out []*listing.Listing
	for _, l := range r.db.listings {
		if l.OwnerID == ownerID {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r *memListings) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*listing.Listing, error) {
	out := make([]*listing.Listing, 0, len(ids))
	for _, id := range ids {
		if l, ok := r.db.listings[id]; ok {
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r *memListings) Count(context.Context) (int64, error) {
	return int64(len(r.db.listings)), nil
}

func (r *memListings) WithTx(pgx.Tx) listing.Repository { return r }

type memOwners struct{ db *memDB }

func (r *memOwners) Create(_ context.Context, o *owner.Owner) error {
	r.db.owners[o.UserID] = *o
	return nil
}

func (r *memOwners) GetByUserID(_ context.Context, userID string) (*owner.Owner, error) {
	o, ok := r.db.owners[userID]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "owner", ID: userID}
	}
	return &o, nil
}

func (r *memOwners) LockForUpdate(ctx context.Context, userID string) (*owner.Owner, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memOwners) SaveVerificationSubmission(_ context.Context, o *owner.Owner) error {
	if _, ok := r.db.owners[o.UserID]; !ok {
		return shared.ErrNotFound{Entity: "owner", ID: o.UserID}
	}
	r.db.owners[o.UserID] = *o
	return nil
}

func (r *memOwners) ConfirmVerification(_ context.Context, userID string, verifiedAt time.Time) (bool, error) {
	o, ok := r.db.owners[userID]
	if !ok || o.VerificationStatus != owner.VerificationPending {
		return false, nil
	}
	o.VerificationStatus = owner.VerificationVerified
	o.VerifiedAt = &verifiedAt
	r.db.owners[userID] = o
	return true, nil
}

func (r *memOwners) UpdateContact(_ context.Context, userID, phone, picture string) error {
	o, ok := r.db.owners[userID]
	if !ok {
		return shared.ErrNotFound{Entity: "owner", ID: userID}
	}
	o.PhoneNumber = phone
	o.ProfilePictureURL = picture
	r.db.owners[userID] = o
	return nil
}

func (r *memOwners) ListPendingVerification(context.Context) ([]*owner.Owner, error) {
	var out []*owner.Owner
	for _, o := range r.db.owners {
		if o.VerificationStatus == owner.VerificationPending {
			o := o
			out = append(out, &o)
		}
	}
	return out, nil
}

func (r *memOwners) CountPendingVerification(ctx context.Context) (int64, error) {
	pending, _ := r.ListPendingVerification(ctx)
	return int64(len(pending)), nil
}

func (r *memOwners) WithTx(pgx.Tx) owner.Repository { return r }

type memUsers struct{ db *memDB }

func (r *memUsers) Create(_ context.Context, u *user.User) error {
	r.db.users[u.ID] = *u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "user", ID: id}
	}
	return &u, nil
}

func (r *memUsers) UpdateName(_ context.Context, id, name string) error {
	u, ok := r.db.users[id]
	if !ok {
		return shared.ErrNotFound{Entity: "user", ID: id}
	}
	u.Name = name
	r.db.users[id] = u
	return nil
}

func (r *memUsers) CountByRoles(_ context.Context, roles ...shared.Role) (int64, error) {
	var n int64
	for _, u := range r.db.users {
		for _, role := range roles {
			if u.Role == role {
				n++
			}
		}
	}
	return n, nil
}

func (r *memUsers) CreateClient(_ context.Context, c *user.Client) error {
	r.db.clients[c.UserID] = *c
	return nil
}

func (r *memUsers) GetClient(_ context.Context, userID string) (*user.Client, error) {
	c, ok := r.db.clients[userID]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "client", ID: userID}
	}
	return &c, nil
}

func (r *memUsers) UpdateClientPicture(_ context.Context, userID, picture string) error {
	c, ok := r.db.clients[userID]
	if !ok {
		return shared.ErrNotFound{Entity: "client", ID: userID}
	}
	c.ProfilePictureURL = picture
	r.db.clients[userID] = c
	return nil
}

func (r *memUsers) WithTx(pgx.Tx) user.Repository { return r }

type memPurchases struct{ db *memDB }

func (r *memPurchases) Create(_ context.Context, p *purchase.Purchase) error {
	stored := *p
	stored.Package = nil
	r.db.purchases[p.ID] = stored
	return nil
}

func (r *memPurchases) GetByID(_ context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	p, ok := r.db.purchases[id]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "purchase", ID: id.String()}
	}
	return &p, nil
}

func (r *memPurchases) ConfirmPending(_ context.Context, id uuid.UUID, confirmedAt time.Time) (*purchase.Purchase, bool, error) {
	p, ok := r.db.purchases[id]
	if !ok || p.Status != purchase.StatusPending {
		return nil, false, nil
	}
	p.Status = purchase.StatusConfirmed
	p.ConfirmedAt = &confirmedAt
	r.db.purchases[id] = p
	return &p, true, nil
}

func (r *memPurchases) ListByOwner(_ context.Context, ownerID string) ([]*purchase.Purchase, error) {
	var out []*purchase.Purchase
	for _, p := range r.db.purchases {
		if p.OwnerID == ownerID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPurchases) ListPending(context.Context) ([]*purchase.Purchase, error) {
	var out []*purchase.Purchase
	for _, p := range r.db.purchases {
		if p.Status == purchase.StatusPending {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *memPurchases) CountPending(ctx context.Context) (int64, error) {
	pending, _ := r.ListPending(ctx)
	return int64(len(pending)), nil
}

func (r *memPurchases) WithTx(pgx.Tx) purchase.Repository { return r }

type memPackages struct{ db *memDB }

func (r *memPackages) List(context.Context) ([]*purchase.Package, error) {
	var out []*purchase.Package
	for _, p := range r.db.packages {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *memPackages) GetByID(_ context.Context, id string) (*purchase.Package, error) {
	p, ok := r.db.packages[id]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "package", ID: id}
	}
	return &p, nil
}

func (r *memPackages) WithTx(pgx.Tx) purchase.PackageRepository { return r }

type memFavorites struct{ db *memDB }

func (r *memFavorites) Add(_ context.Context, f *favorite.Favorite) error {
	key := favoriteKey{f.ClientID, f.PropertyID}
	if _, ok := r.db.favorites[key]; !ok {
		r.db.favorites[key] = f.CreatedAt
	}
	return nil
}

func (r *memFavorites) Remove(_ context.Context, clientID string, propertyID uuid.UUID) (bool, error) {
	key := favoriteKey{clientID, propertyID}
	if _, ok := r.db.favorites[key]; !ok {
		return false, nil
	}
	delete(r.db.favorites, key)
	return true, nil
}

func (r *memFavorites) ListPropertyIDs(_ context.Context, clientID string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0)
	for k := range r.db.favorites {
		if k.clientID == clientID {
			out = append(out, k.propertyID)
		}
	}
	return out, nil
}

func (r *memFavorites) WithTx(pgx.Tx) favorite.Repository { return r }

type memConversations struct{ db *memDB }

func (r *memConversations) FindByKey(_ context.Context, propertyID uuid.UUID, a, b string) (*messaging.Conversation, error) {
	for _, c := range r.db.conversations {
		if c.PropertyID == propertyID && c.ParticipantA == a && c.ParticipantB == b {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound{Entity: "conversation", ID: propertyID.String()}
}

func (r *memConversations) CreateIfAbsent(ctx context.Context, c *messaging.Conversation) (bool, error) {
	if _, err := r.FindByKey(ctx, c.PropertyID, c.ParticipantA, c.ParticipantB); err == nil {
		return false, nil
	}
	r.db.conversations[c.ID] = *c
	return true, nil
}

func (r *memConversations) GetByID(_ context.Context, id uuid.UUID) (*messaging.Conversation, error) {
	c, ok := r.db.conversations[id]
	if !ok {
		return nil, shared.ErrNotFound{Entity: "conversation", ID: id.String()}
	}
	return &c, nil
}

func (r *memConversations) Touch(_ context.Context, id uuid.UUID, updatedAt time.Time) error {
	c, ok := r.db.conversations[id]
	if !ok {
		return shared.ErrNotFound{Entity: "conversation", ID: id.String()}
	}
	c.UpdatedAt = updatedAt
	r.db.conversations[id] = c
	return nil
}

func (r *memConversations) ListForUser(_ context.Context, userID string) ([]*messaging.Conversation, error) {
	var out []*messaging.Conversation
	for _, c := range r.db.conversations {
		if c.HasParticipant(userID) {
			c := c
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memConversations) AddMessage(_ context.Context, m *messaging.Message) error {
	r.db.messages = append(r.db.messages, *m)
	return nil
}

func (r *memConversations) ListMessages(_ context.Context, conversationID uuid.UUID) ([]*messaging.Message, error) {
	out := make([]*messaging.Message, 0)
	for _, m := range r.db.messages {
		if m.ConversationID == conversationID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *memConversations) MarkRead(_ context.Context, conversationID uuid.UUID, readerID string) (int64, error) {
	var n int64
	for i, m := range r.db.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.IsRead {
			r.db.messages[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *memConversations) WithTx(pgx.Tx) messaging.Repository { return r }

type memOutbox struct{ db *memDB }

func (r *memOutbox) Create(_ context.Context, m *outbox.Message) error {
	if r.db.failOutboxCreate != nil {
		return r.db.failOutboxCreate
	}
	m.ID = int64(len(r.db.outbox) + 1)
	r.db.outbox = append(r.db.outbox, *m)
	return nil
}

func (r *memOutbox) GetPending(_ context.Context, limit int) ([]*outbox.Message, error) {
	var out []*outbox.Message
	for _, m := range r.db.outbox {
		if m.Status == shared.OutboxStatusPending && len(out) < limit {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *memOutbox) UpdateStatus(_ context.Context, id int64, status shared.OutboxStatus) error {
	for i := range r.db.outbox {
		if r.db.outbox[i].ID == id {
			r.db.outbox[i].Status = status
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

func (r *memOutbox) IncrementAttempts(_ context.Context, id int64) error {
	for i := range r.db.outbox {
		if r.db.outbox[i].ID == id {
			r.db.outbox[i].Attempts++
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

func (r *memOutbox) GetByEventID(_ context.Context, eventID string) (*outbox.Message, error) {
	for _, m := range r.db.outbox {
		if m.EventID == eventID {
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound{Entity: "outbox message", ID: eventID}
}

func (r *memOutbox) WithTx(pgx.Tx) outbox.Repository { return r }
