package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/repository/contract"
	"ai-storyboard-be/internal/repository/specification"
	"ai-storyboard-be/internal/repository/unitofwork"
	"ai-storyboard-be/pkg/events"

	"github.com/google/uuid"
)

// memStore is an in-memory database shared by every unit of work created
// from one fakeFactory. Each operation is atomic; a unit of work keeps an undo
// log so Rollback reverts only its own writes.
type memStore struct {
	mu sync.Mutex

	users         map[uuid.UUID]*entity.User
	balances      map[uuid.UUID]*entity.TokenBalance
	transactions  []*entity.TokenTransaction
	billingEvents map[string]*entity.BillingEvent
	conversations map[uuid.UUID]*entity.Conversation
	messages      []*entity.Message
	scenes        map[uuid.UUID]*entity.Scene

	// failure injection
	failTransactionCreate bool
	failMessageCreate     func(m *entity.Message) error
	failUserCreate        error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]*entity.User{},
		balances:      map[uuid.UUID]*entity.TokenBalance{},
		billingEvents: map[string]*entity.BillingEvent{},
		conversations: map[uuid.UUID]*entity.Conversation{},
		scenes:        map[uuid.UUID]*entity.Scene{},
	}
}

func (s *memStore) balanceOf(userId uuid.UUID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[userId]
	if !ok {
		return 0, false
	}
	return b.Balance, true
}

func (s *memStore) transactionsOf(userId uuid.UUID) []*entity.TokenTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.TokenTransaction
	for _, t := range s.transactions {
		if t.UserId == userId {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}

func (s *memStore) messagesOf(conversationId uuid.UUID) []*entity.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Message
	for _, m := range s.messages {
		if m.ConversationId == conversationId {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out
}

func (s *memStore) sceneList() []*entity.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Scene
	for _, sc := range s.scenes {
		cp := *sc
		out = append(out, &cp)
	}
	return out
}

type fakeFactory struct {
	store *memStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: newMemStore()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *memStore
	inTx  bool
	undo  []func()
}

func (u *fakeUow) Begin(ctx context.Context) error {
	if u.inTx {
		return errors.New("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.inTx = false
	u.undo = nil
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.inTx {
		return nil
	}
	u.store.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.store.mu.Unlock()
	u.undo = nil
	u.inTx = false
	return nil
}

// onUndo must be called with store.mu held.
func (u *fakeUow) onUndo(fn func()) {
	if !u.inTx {
		return
	}
	u.undo = append(u.undo, fn)
}

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{u}
}

func (u *fakeUow) TokenBalanceRepository() contract.TokenBalanceRepository {
	return &fakeBalanceRepo{u}
}

func (u *fakeUow) TokenTransactionRepository() contract.TokenTransactionRepository {
	return &fakeTransactionRepo{u}
}

func (u *fakeUow) BillingEventRepository() contract.BillingEventRepository {
	return &fakeBillingEventRepo{u}
}

func (u *fakeUow) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{u}
}

func (u *fakeUow) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{u}
}

func (u *fakeUow) SceneRepository() contract.SceneRepository {
	return &fakeSceneRepo{u}
}

// query is the decoded form of the specifications the services use.
type query struct {
	id             *uuid.UUID
	userId         *uuid.UUID
	conversationId *uuid.UUID
	status         *string
	txType         *string
	desc           bool
	ordered        bool
	limit, offset  int
}

func decode(specs []specification.Specification) query {
	var q query
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			q.id = &id
		case specification.UserOwnedBy:
			id := v.UserID
			q.userId = &id
		case specification.ByConversationID:
			id := v.ConversationID
			q.conversationId = &id
		case specification.ByStatus:
			st := v.Status
			q.status = &st
		case specification.ByTransactionType:
			tt := v.Type
			q.txType = &tt
		case specification.OrderBy:
			q.ordered = true
			q.desc = v.Desc
		case specification.Pagination:
			q.limit, q.offset = v.Limit, v.Offset
		}
	}
	return q
}

func page[T any](items []T, q query) []T {
	if q.offset >= len(items) {
		return []T{}
	}
	items = items[q.offset:]
	if q.limit > 0 && q.limit < len(items) {
		items = items[:q.limit]
	}
	return items
}

func sortByCreated[T any](items []T, createdAt func(T) time.Time, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return createdAt(items[i]).After(createdAt(items[j]))
		}
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}

type fakeUserRepo struct{ u *fakeUow }

func (r *fakeUserRepo) CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUserCreate != nil {
		return false, s.failUserCreate
	}
	if _, ok := s.users[user.Id]; ok {
		return false, nil
	}
	cp := *user
	s.users[user.Id] = &cp
	r.u.onUndo(func() { delete(s.users, user.Id) })
	return true, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	q := decode(specs)
	if q.id == nil {
		return nil, nil
	}
	if u, ok := s.users[*q.id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type fakeBalanceRepo struct{ u *fakeUow }

func (r *fakeBalanceRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.TokenBalance, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.balances[userId]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBalanceRepo) Initialize(ctx context.Context, userId uuid.UUID, initial int) (*entity.TokenBalance, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[userId]; ok {
		return nil, contract.ErrBalanceExists
	}
	b := &entity.TokenBalance{UserId: userId, Balance: initial, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.balances[userId] = b
	r.u.onUndo(func() { delete(s.balances, userId) })
	cp := *b
	return &cp, nil
}

func (r *fakeBalanceRepo) EnsureExists(ctx context.Context, userId uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[userId]; ok {
		return nil
	}
	s.balances[userId] = &entity.TokenBalance{UserId: userId, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.u.onUndo(func() { delete(s.balances, userId) })
	return nil
}

func (r *fakeBalanceRepo) Credit(ctx context.Context, userId uuid.UUID, amount int) (int, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[userId]
	if !ok {
		return 0, contract.ErrBalanceNotFound
	}
	b.Balance += amount
	r.u.onUndo(func() { b.Balance -= amount })
	return b.Balance, nil
}

func (r *fakeBalanceRepo) DebitOne(ctx context.Context, userId uuid.UUID) (int, bool, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[userId]
	if !ok || b.Balance <= 0 {
		return 0, false, nil
	}
	b.Balance--
	r.u.onUndo(func() { b.Balance++ })
	return b.Balance, true, nil
}

type fakeTransactionRepo struct{ u *fakeUow }

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *entity.TokenTransaction) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTransactionCreate {
		return errors.New("insert token_transactions: connection reset")
	}
	cp := *tx
	s.transactions = append(s.transactions, &cp)
	r.u.onUndo(func() {
		for i, t := range s.transactions {
			if t.Id == cp.Id {
				s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *fakeTransactionRepo) filter(specs []specification.Specification) ([]*entity.TokenTransaction, query) {
	q := decode(specs)
	var out []*entity.TokenTransaction
	for _, t := range r.u.store.transactions {
		if q.userId != nil && t.UserId != *q.userId {
			continue
		}
		if q.txType != nil && string(t.Type) != *q.txType {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, q
}

func (r *fakeTransactionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TokenTransaction, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	out, q := r.filter(specs)
	if q.ordered {
		sortByCreated(out, func(t *entity.TokenTransaction) time.Time { return t.CreatedAt }, q.desc)
	}
	return page(out, q), nil
}

func (r *fakeTransactionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	out, _ := r.filter(specs)
	return int64(len(out)), nil
}

type fakeBillingEventRepo struct{ u *fakeUow }

func (r *fakeBillingEventRepo) MarkProcessed(ctx context.Context, event *entity.BillingEvent) (bool, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.billingEvents[event.EventId]; ok {
		return false, nil
	}
	cp := *event
	s.billingEvents[event.EventId] = &cp
	r.u.onUndo(func() { delete(s.billingEvents, event.EventId) })
	return true, nil
}

type fakeConversationRepo struct{ u *fakeUow }

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.conversations[c.Id] = &cp
	r.u.onUndo(func() { delete(s.conversations, c.Id) })
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, c *entity.Conversation) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.conversations[c.Id] = &cp
	return nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	q := decode(specs)
	var out []*entity.Conversation
	for _, c := range s.conversations {
		if q.id != nil && c.Id != *q.id {
			continue
		}
		if q.userId != nil && (c.UserId == nil || *c.UserId != *q.userId) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sortByCreated(out, func(c *entity.Conversation) time.Time { return c.UpdatedAt }, q.desc)
	return page(out, q), nil
}

type fakeMessageRepo struct{ u *fakeUow }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMessageCreate != nil {
		if err := s.failMessageCreate(m); err != nil {
			return err
		}
	}
	cp := *m
	s.messages = append(s.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.ConversationId != conversationId {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

func (r *fakeMessageRepo) filter(specs []specification.Specification) ([]*entity.Message, query) {
	q := decode(specs)
	var out []*entity.Message
	for _, m := range r.u.store.messages {
		if q.conversationId != nil && m.ConversationId != *q.conversationId {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, q
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	out, q := r.filter(specs)
	sortByCreated(out, func(m *entity.Message) time.Time { return m.CreatedAt }, q.desc)
	return page(out, q), nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	out, _ := r.filter(specs)
	return int64(len(out)), nil
}

type fakeSceneRepo struct{ u *fakeUow }

func (r *fakeSceneRepo) Create(ctx context.Context, sc *entity.Scene) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sc
	s.scenes[sc.Id] = &cp
	return nil
}

func (r *fakeSceneRepo) Update(ctx context.Context, sc *entity.Scene) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sc
	s.scenes[sc.Id] = &cp
	return nil
}

func (r *fakeSceneRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sc := range s.scenes {
		if sc.ConversationId == conversationId {
			delete(s.scenes, id)
		}
	}
	return nil
}

func (r *fakeSceneRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Scene, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	q := decode(specs)
	var out []*entity.Scene
	for _, sc := range s.scenes {
		if q.id != nil && sc.Id != *q.id {
			continue
		}
		if q.conversationId != nil && sc.ConversationId != *q.conversationId {
			continue
		}
		if q.status != nil && string(sc.Status) != *q.status {
			continue
		}
		cp := *sc
		out = append(out, &cp)
	}
	sortByCreated(out, func(sc *entity.Scene) time.Time { return sc.CreatedAt }, q.desc)
	return out, nil
}

func (r *fakeSceneRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Scene, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// recordingPublisher captures published event types.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}
