// Package memory implements the ledger store on in-process maps. It exists
// for tests: it honors the same invariants the SQL schema enforces (unique
// submission per user/task, non-negative balances, cascading task deletes)
// and rolls back mutations when a WithTx callback fails.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/perchik2875/ONI/internal/domain"
	"github.com/perchik2875/ONI/internal/storage"
)

type data struct {
	users       map[int64]*domain.User
	tasks       map[int64]*domain.Task
	completions map[int64]*domain.Completion
	payments    map[int64]*domain.Payment
	earnings    []domain.ReferralEarning

	nextUserID       int64
	nextTaskID       int64
	nextCompletionID int64
	nextPaymentID    int64
	nextEarningID    int64
}

type Store struct {
	mu   *sync.Mutex
	d    *data
	inTx bool
}

func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		d: &data{
			users:       make(map[int64]*domain.User),
			tasks:       make(map[int64]*domain.Task),
			completions: make(map[int64]*domain.Completion),
			payments:    make(map[int64]*domain.Payment),
		},
	}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (d *data) clone() *data {
	c := &data{
		users:            make(map[int64]*domain.User, len(d.users)),
		tasks:            make(map[int64]*domain.Task, len(d.tasks)),
		completions:      make(map[int64]*domain.Completion, len(d.completions)),
		payments:         make(map[int64]*domain.Payment, len(d.payments)),
		earnings:         append([]domain.ReferralEarning(nil), d.earnings...),
		nextUserID:       d.nextUserID,
		nextTaskID:       d.nextTaskID,
		nextCompletionID: d.nextCompletionID,
		nextPaymentID:    d.nextPaymentID,
		nextEarningID:    d.nextEarningID,
	}
	for id, u := range d.users {
		cp := *u
		c.users[id] = &cp
	}
	for id, t := range d.tasks {
		cp := *t
		c.tasks[id] = &cp
	}
	for id, cm := range d.completions {
		cp := *cm
		cp.Proofs = append([]string(nil), cm.Proofs...)
		c.completions[id] = &cp
	}
	for id, p := range d.payments {
		cp := *p
		c.payments[id] = &cp
	}
	return c
}

// WithTx serializes the callback under the store mutex and restores the
// pre-callback snapshot if it returns an error.
func (s *Store) WithTx(ctx context.Context, fn func(storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(&Store{mu: s.mu, d: s.d, inTx: true}); err != nil {
		*s.d = *snapshot
		return err
	}
	return nil
}

// Users.

func (s *Store) CreateUser(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	defer s.lock()()

	for _, u := range s.d.users {
		if u.TelegramID == telegramID {
			return nil, fmt.Errorf("duplicate telegram id %d", telegramID)
		}
	}
	s.d.nextUserID++
	u := &domain.User{
		ID:                  s.d.nextUserID,
		TelegramID:          telegramID,
		Username:            username,
		Balance:             decimal.Zero,
		Earned:              decimal.Zero,
		EarnedFromReferrals: decimal.Zero,
		RegisteredAt:        time.Now(),
	}
	s.d.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *Store) getUser(id int64) (*domain.User, error) {
	u, ok := s.d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return s.GetUser(ctx, id)
}

func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	defer s.lock()()
	for _, u := range s.d.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) UpdateUsername(ctx context.Context, id int64, username string) error {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return err
	}
	u.Username = username
	return nil
}

func (s *Store) SetReferrer(ctx context.Context, id, referrerID int64) error {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return err
	}
	if u.ReferrerID != nil {
		return domain.ErrUserNotFound
	}
	ref, err := s.getUser(referrerID)
	if err != nil {
		return err
	}
	rid := referrerID
	u.ReferrerID = &rid
	ref.ReferralCount++
	return nil
}

func (s *Store) AddEarnings(ctx context.Context, id int64, amount decimal.Decimal) error {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return err
	}
	u.Balance = u.Balance.Add(amount)
	u.Earned = u.Earned.Add(amount)
	return nil
}

func (s *Store) AddReferralEarnings(ctx context.Context, id int64, amount decimal.Decimal) error {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return err
	}
	u.Balance = u.Balance.Add(amount)
	u.EarnedFromReferrals = u.EarnedFromReferrals.Add(amount)
	return nil
}

func (s *Store) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return err
	}
	next := u.Balance.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientBalance
	}
	u.Balance = next
	return nil
}

func (s *Store) SetBanned(ctx context.Context, id int64, banned bool) error {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return err
	}
	u.Banned = banned
	return nil
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]domain.User, error) {
	defer s.lock()()
	users := make([]domain.User, 0, len(s.d.users))
	for _, u := range s.d.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Banned != users[j].Banned {
			return !users[i].Banned
		}
		return users[i].Balance.GreaterThan(users[j].Balance)
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *Store) ListActiveTelegramIDs(ctx context.Context) ([]int64, error) {
	defer s.lock()()
	var ids []int64
	for _, u := range s.d.users {
		if !u.Banned {
			ids = append(ids, u.TelegramID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) GetUserOverview(ctx context.Context, id int64) (*domain.UserOverview, error) {
	defer s.lock()()
	u, err := s.getUser(id)
	if err != nil {
		return nil, err
	}
	overview := &domain.UserOverview{User: *u}
	for _, c := range s.d.completions {
		if c.UserID == id {
			overview.CompletedTasks++
		}
	}
	for _, p := range s.d.payments {
		if p.UserID == id {
			overview.Payments++
		}
	}
	return overview, nil
}

func (s *Store) GetStats(ctx context.Context) (*domain.Stats, error) {
	defer s.lock()()
	st := &domain.Stats{
		TotalBalance:     decimal.Zero,
		ReferralEarnings: decimal.Zero,
		PaidOut:          decimal.Zero,
		PendingPayout:    decimal.Zero,
	}
	for _, u := range s.d.users {
		st.Users++
		if u.Banned {
			st.Banned++
		}
		st.TotalBalance = st.TotalBalance.Add(u.Balance)
		st.ReferralEarnings = st.ReferralEarnings.Add(u.EarnedFromReferrals)
	}
	for _, t := range s.d.tasks {
		if t.Active {
			st.ActiveTasks++
		}
	}
	st.Completions = len(s.d.completions)
	for _, p := range s.d.payments {
		switch p.Status {
		case domain.PaymentStatusApproved:
			st.PaidOut = st.PaidOut.Add(p.Amount)
		case domain.PaymentStatusPending:
			st.PendingPayout = st.PendingPayout.Add(p.Amount)
		}
	}
	return st, nil
}

// Tasks.

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	defer s.lock()()
	s.d.nextTaskID++
	t := &domain.Task{
		ID:             s.d.nextTaskID,
		Description:    task.Description,
		Link:           task.Link,
		Reward:         task.Reward,
		CreatedAt:      time.Now(),
		Active:         true,
		MaxCompletions: task.MaxCompletions,
	}
	s.d.tasks[t.ID] = t
	cp := *t
	return &cp, nil
}

func (s *Store) getTask(id int64) (*domain.Task, error) {
	t, ok := s.d.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	defer s.lock()()
	t, err := s.getTask(id)
	if err != nil {
		return nil, err
	}
	cp := *t
	return &cp, nil
}

func (s *Store) GetTaskForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	return s.GetTask(ctx, id)
}

func (s *Store) ListAvailableTasks(ctx context.Context) ([]domain.Task, error) {
	defer s.lock()()
	var tasks []domain.Task
	for _, t := range s.d.tasks {
		if t.Available() {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *Store) ListAllTasks(ctx context.Context) ([]domain.Task, error) {
	defer s.lock()()
	var tasks []domain.Task
	for _, t := range s.d.tasks {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })
	return tasks, nil
}

func (s *Store) SetTaskActive(ctx context.Context, id int64, active bool) error {
	defer s.lock()()
	t, err := s.getTask(id)
	if err != nil {
		return err
	}
	t.Active = active
	return nil
}

func (s *Store) AdjustCompletionsCount(ctx context.Context, id int64, delta int) error {
	defer s.lock()()
	t, err := s.getTask(id)
	if err != nil {
		return err
	}
	t.CompletionsCount += delta
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	defer s.lock()()
	if _, err := s.getTask(id); err != nil {
		return err
	}
	delete(s.d.tasks, id)
	for cid, c := range s.d.completions {
		if c.TaskID == id {
			delete(s.d.completions, cid)
		}
	}
	return nil
}

// Completions.

func (s *Store) CreateCompletion(ctx context.Context, userID, taskID int64, proofs []string) (*domain.Completion, error) {
	defer s.lock()()
	for _, c := range s.d.completions {
		if c.UserID == userID && c.TaskID == taskID {
			return nil, domain.ErrAlreadySubmitted
		}
	}
	s.d.nextCompletionID++
	c := &domain.Completion{
		ID:          s.d.nextCompletionID,
		UserID:      userID,
		TaskID:      taskID,
		SubmittedAt: time.Now(),
		Proofs:      append([]string(nil), proofs...),
	}
	s.d.completions[c.ID] = c
	cp := *c
	cp.Proofs = append([]string(nil), c.Proofs...)
	return &cp, nil
}

func (s *Store) GetCompletion(ctx context.Context, userID, taskID int64) (*domain.Completion, error) {
	defer s.lock()()
	for _, c := range s.d.completions {
		if c.UserID == userID && c.TaskID == taskID {
			cp := *c
			cp.Proofs = append([]string(nil), c.Proofs...)
			return &cp, nil
		}
	}
	return nil, domain.ErrCompletionNotFound
}

func (s *Store) MarkVerified(ctx context.Context, completionID int64) error {
	defer s.lock()()
	c, ok := s.d.completions[completionID]
	if !ok {
		return domain.ErrCompletionNotFound
	}
	c.Verified = true
	return nil
}

func (s *Store) DeleteCompletion(ctx context.Context, completionID int64) error {
	defer s.lock()()
	if _, ok := s.d.completions[completionID]; !ok {
		return domain.ErrCompletionNotFound
	}
	delete(s.d.completions, completionID)
	return nil
}

func (s *Store) ListPendingCompletions(ctx context.Context) ([]domain.PendingCompletion, error) {
	defer s.lock()()
	var pending []domain.PendingCompletion
	for _, c := range s.d.completions {
		if c.Verified {
			continue
		}
		p := domain.PendingCompletion{Completion: *c}
		p.Proofs = append([]string(nil), c.Proofs...)
		if t, ok := s.d.tasks[c.TaskID]; ok {
			p.TaskDescription = t.Description
			p.Reward = t.Reward
		}
		if u, ok := s.d.users[c.UserID]; ok {
			p.Username = u.Username
			p.UserTelegramID = u.TelegramID
		}
		pending = append(pending, p)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

// Payments.

func (s *Store) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	defer s.lock()()
	s.d.nextPaymentID++
	p := &domain.Payment{
		ID:          s.d.nextPaymentID,
		Reference:   payment.Reference,
		UserID:      payment.UserID,
		Amount:      payment.Amount,
		RequestedAt: time.Now(),
		Status:      domain.PaymentStatusPending,
		Method:      payment.Method,
		Destination: payment.Destination,
	}
	s.d.payments[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *Store) GetPaymentForUpdate(ctx context.Context, id int64) (*domain.Payment, error) {
	defer s.lock()()
	p, ok := s.d.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	defer s.lock()()
	p, ok := s.d.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Status = status
	return nil
}

func (s *Store) ListPendingPayments(ctx context.Context) ([]domain.PendingPayment, error) {
	defer s.lock()()
	var pending []domain.PendingPayment
	for _, p := range s.d.payments {
		if p.Status != domain.PaymentStatusPending {
			continue
		}
		pp := domain.PendingPayment{Payment: *p}
		if u, ok := s.d.users[p.UserID]; ok {
			pp.Username = u.Username
			pp.UserTelegramID = u.TelegramID
		}
		pending = append(pending, pp)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

// Referral earnings.

func (s *Store) CreateReferralEarning(ctx context.Context, earning *domain.ReferralEarning) error {
	defer s.lock()()
	s.d.nextEarningID++
	e := *earning
	e.ID = s.d.nextEarningID
	e.EarnedAt = time.Now()
	s.d.earnings = append(s.d.earnings, e)
	return nil
}

func (s *Store) ListReferralEarnings(ctx context.Context, referrerID int64, limit int) ([]domain.ReferralEarningDetail, error) {
	defer s.lock()()
	var earnings []domain.ReferralEarningDetail
	for i := len(s.d.earnings) - 1; i >= 0 && len(earnings) < limit; i-- {
		e := s.d.earnings[i]
		if e.ReferrerID != referrerID {
			continue
		}
		detail := domain.ReferralEarningDetail{ReferralEarning: e}
		if u, ok := s.d.users[e.ReferralID]; ok {
			detail.ReferralUsername = u.Username
		}
		earnings = append(earnings, detail)
	}
	return earnings, nil
}
