package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errFakeStore = errors.New("fake store failure")

func assignID(base *models.BaseUUIDModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = time.Now()
	}
	base.UpdatedAt = time.Now()
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&user.BaseUUIDModel)
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if u.IsActive {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.LastLoginAt = &at
		}
	}
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*models.UserSettings
	inserts  int
}

func (r *fakeSettingsRepo) GetByUserID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*models.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *fakeSettingsRepo) Create(ctx context.Context, tx *gorm.DB, settings *models.UserSettings) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.settings[settings.UserID]; ok {
		return false, nil
	}
	assignID(&settings.BaseUUIDModel)
	c := *settings
	r.settings[settings.UserID] = &c
	r.inserts++
	return true, nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, tx *gorm.DB, settings *models.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *settings
	r.settings[settings.UserID] = &c
	return nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles []*models.Vehicle
}

func (r *fakeVehicleRepo) Create(ctx context.Context, tx *gorm.DB, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&vehicle.BaseUUIDModel)
	c := *vehicle
	r.vehicles = append(r.vehicles, &c)
	return nil
}

func (r *fakeVehicleRepo) find(id uuid.UUID) *models.Vehicle {
	for _, v := range r.vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (r *fakeVehicleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.find(id); v != nil {
		c := *v
		return &c, nil
	}
	return nil, nil
}

func (r *fakeVehicleRepo) GetByOwnerAndPlate(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
	plate string,
) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.OwnerID == ownerID && v.LicensePlate == plate {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeVehicleRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vehicle
	for _, v := range r.vehicles {
		if v.OwnerID == ownerID {
			c := *v
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		c := *v
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeVehicleRepo) Update(ctx context.Context, tx *gorm.DB, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.find(vehicle.ID); v != nil {
		*v = *vehicle
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeVehicleRepo) UpdateMileage(ctx context.Context, tx *gorm.DB, id uuid.UUID, mileage int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.find(id); v != nil {
		v.Mileage = mileage
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeVehicleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles = slices.DeleteFunc(r.vehicles, func(v *models.Vehicle) bool { return v.ID == id })
	return nil
}

type fakeMaintenanceRepo struct {
	mu           sync.Mutex
	maintenances []*models.Maintenance
	vehicles     *fakeVehicleRepo
}

func (r *fakeMaintenanceRepo) Create(ctx context.Context, tx *gorm.DB, maintenance *models.Maintenance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&maintenance.BaseUUIDModel)
	c := *maintenance
	c.Vehicle = nil
	r.maintenances = append(r.maintenances, &c)
	return nil
}

func (r *fakeMaintenanceRepo) withVehicle(m *models.Maintenance) *models.Maintenance {
	c := *m
	if v, _ := r.vehicles.GetByID(context.Background(), nil, m.VehicleID); v != nil {
		c.Vehicle = v
	}
	return &c
}

func (r *fakeMaintenanceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Maintenance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.maintenances {
		if m.ID == id {
			return r.withVehicle(m), nil
		}
	}
	return nil, nil
}

func (r *fakeMaintenanceRepo) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.MaintenanceFilter,
) ([]*models.Maintenance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Maintenance
	for _, m := range r.maintenances {
		withVehicle := r.withVehicle(m)
		if withVehicle.Vehicle == nil || withVehicle.Vehicle.OwnerID != filter.OwnerID {
			continue
		}
		if filter.VehicleID != nil && m.VehicleID != *filter.VehicleID {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		out = append(out, withVehicle)
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) Update(ctx context.Context, tx *gorm.DB, maintenance *models.Maintenance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.maintenances {
		if m.ID == maintenance.ID {
			c := *maintenance
			c.Vehicle = nil
			r.maintenances[i] = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeMaintenanceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maintenances = slices.DeleteFunc(r.maintenances, func(m *models.Maintenance) bool { return m.ID == id })
	return nil
}

func (r *fakeMaintenanceRepo) ListOverdue(ctx context.Context, tx *gorm.DB, now time.Time) ([]*models.Maintenance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Maintenance
	for _, m := range r.maintenances {
		if m.Status == models.MaintenanceStatusScheduled && m.ScheduledDate.Before(now) {
			out = append(out, r.withVehicle(m))
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) ListCompletedByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*models.Maintenance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Maintenance
	for _, m := range r.maintenances {
		if m.VehicleID == vehicleID && m.Status == models.MaintenanceStatusCompleted {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) CountCompletedForOwnerBetween(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
	start, end time.Time,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.maintenances {
		withVehicle := r.withVehicle(m)
		if withVehicle.Vehicle == nil || withVehicle.Vehicle.OwnerID != ownerID {
			continue
		}
		if m.Status != models.MaintenanceStatusCompleted || m.CompletedDate == nil {
			continue
		}
		if !m.CompletedDate.Before(start) && !m.CompletedDate.After(end) {
			count++
		}
	}
	return count, nil
}

type fakeExpenseRepo struct {
	mu       sync.Mutex
	expenses []*models.Expense
	vehicles *fakeVehicleRepo
}

func (r *fakeExpenseRepo) Create(ctx context.Context, tx *gorm.DB, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&expense.BaseUUIDModel)
	c := *expense
	r.expenses = append(r.expenses, &c)
	return nil
}

func (r *fakeExpenseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.expenses {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) ownedBy(e *models.Expense, ownerID uuid.UUID) bool {
	v, _ := r.vehicles.GetByID(context.Background(), nil, e.VehicleID)
	return v != nil && v.OwnerID == ownerID
}

func (r *fakeExpenseRepo) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.ExpenseFilter,
) ([]*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Expense
	for _, e := range r.expenses {
		if !r.ownedBy(e, filter.OwnerID) {
			continue
		}
		if filter.VehicleID != nil && e.VehicleID != *filter.VehicleID {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeExpenseRepo) Update(ctx context.Context, tx *gorm.DB, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.expenses {
		if e.ID == expense.ID {
			c := *expense
			r.expenses[i] = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses = slices.DeleteFunc(r.expenses, func(e *models.Expense) bool { return e.ID == id })
	return nil
}

func (r *fakeExpenseRepo) FindByVehicleAndDescription(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	description string,
) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.expenses {
		if e.VehicleID == vehicleID && e.Description == description {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) ListByVehicleSince(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	since time.Time,
) ([]*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Expense
	for _, e := range r.expenses {
		if e.VehicleID == vehicleID && !e.Date.Before(since) {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) SumForOwnerBetween(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
	start, end time.Time,
) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, e := range r.expenses {
		if r.ownedBy(e, ownerID) && !e.Date.Before(start) && !e.Date.After(end) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r *fakeExpenseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expenses)
}

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders []*models.Reminder
	vehicles  *fakeVehicleRepo
	createErr error
	updateErr error
}

func (r *fakeReminderRepo) Create(ctx context.Context, tx *gorm.DB, reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	assignID(&reminder.BaseUUIDModel)
	c := *reminder
	c.Vehicle = nil
	r.reminders = append(r.reminders, &c)
	return nil
}

func (r *fakeReminderRepo) withVehicle(rem *models.Reminder) *models.Reminder {
	c := *rem
	if v, _ := r.vehicles.GetByID(context.Background(), nil, rem.VehicleID); v != nil {
		c.Vehicle = v
	}
	return &c
}

func (r *fakeReminderRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			return r.withVehicle(rem), nil
		}
	}
	return nil, nil
}

func (r *fakeReminderRepo) Find(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.ReminderFilter,
) ([]*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reminder
	for _, rem := range r.reminders {
		withVehicle := r.withVehicle(rem)
		if filter.OwnerID != nil && (withVehicle.Vehicle == nil || withVehicle.Vehicle.OwnerID != *filter.OwnerID) {
			continue
		}
		if filter.VehicleID != nil && rem.VehicleID != *filter.VehicleID {
			continue
		}
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, rem.Type) {
			continue
		}
		if filter.Completed != nil && rem.Completed != *filter.Completed {
			continue
		}
		out = append(out, withVehicle)
	}
	return out, nil
}

func (r *fakeReminderRepo) Update(ctx context.Context, tx *gorm.DB, reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, rem := range r.reminders {
		if rem.ID == reminder.ID {
			c := *reminder
			c.Vehicle = nil
			r.reminders[i] = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeReminderRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders = slices.DeleteFunc(r.reminders, func(rem *models.Reminder) bool { return rem.ID == id })
	return nil
}

func (r *fakeReminderRepo) all() []*models.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		c := *rem
		out = append(out, &c)
	}
	return out
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&notification.BaseUUIDModel)
	c := *notification
	r.notifications = append(r.notifications, &c)
	return nil
}

func (r *fakeNotificationRepo) List(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	query repositories.NotificationQuery,
) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if query.UnreadOnly && n.Read {
			continue
		}
		if query.Category != nil && n.Category != *query.Category {
			continue
		}
		if query.Channel != nil && n.Channel != *query.Channel {
			continue
		}
		matched = append(matched, *n)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (query.Page - 1) * query.Limit
	if start < 0 || start >= len(matched) {
		return []models.Notification{}, total, nil
	}
	end := min(start+query.Limit, len(matched))
	return matched[start:end], total, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			rows++
		}
	}
	return rows, nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.notifications)
	r.notifications = slices.DeleteFunc(r.notifications, func(n *models.Notification) bool {
		return n.ID == id && n.UserID == userID
	})
	return int64(before - len(r.notifications)), nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.notifications)
	r.notifications = slices.DeleteFunc(r.notifications, func(n *models.Notification) bool {
		return n.Read && n.CreatedAt.Before(cutoff)
	})
	return int64(before - len(r.notifications)), nil
}

type fakeMileageRecordRepo struct {
	mu      sync.Mutex
	records []*models.MileageRecord
}

func (r *fakeMileageRecordRepo) Create(ctx context.Context, tx *gorm.DB, record *models.MileageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&record.BaseUUIDModel)
	c := *record
	r.records = append(r.records, &c)
	return nil
}

func (r *fakeMileageRecordRepo) ListByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	limit int,
) ([]*models.MileageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.MileageRecord
	for _, rec := range r.records {
		if rec.VehicleID == vehicleID {
			c := *rec
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePredictionRepo struct {
	mu          sync.Mutex
	predictions []*models.Prediction
}

func (r *fakePredictionRepo) Create(ctx context.Context, tx *gorm.DB, prediction *models.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&prediction.BaseUUIDModel)
	c := *prediction
	r.predictions = append(r.predictions, &c)
	return nil
}

func (r *fakePredictionRepo) GetValid(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	predictionType models.PredictionType,
	now time.Time,
) (*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.predictions) - 1; i >= 0; i-- {
		p := r.predictions[i]
		if p.VehicleID == vehicleID && p.Type == predictionType && p.ValidUntil.After(now) {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakePredictionRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.predictions)
	r.predictions = slices.DeleteFunc(r.predictions, func(p *models.Prediction) bool {
		return !p.ValidUntil.After(now)
	})
	return int64(before - len(r.predictions)), nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports []*models.Report
}

func (r *fakeReportRepo) Create(ctx context.Context, tx *gorm.DB, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignID(&report.BaseUUIDModel)
	c := *report
	r.reports = append(r.reports, &c)
	return nil
}

func (r *fakeReportRepo) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Report
	for _, rep := range r.reports {
		if rep.UserID == userID {
			c := *rep
			out = append(out, &c)
		}
	}
	return out, nil
}

// recordingNotifier captures every notification request instead of persisting it.
type recordingNotifier struct {
	mu     sync.Mutex
	inputs []CreateNotificationInput
	err    error
}

func (n *recordingNotifier) CreateNotification(
	ctx context.Context,
	input CreateNotificationInput,
) (*models.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	n.inputs = append(n.inputs, input)
	return &models.Notification{UserID: input.UserID, Type: input.Type}, nil
}

// ofType returns the in-app requests of a type; an empty channel means in-app.
func (n *recordingNotifier) ofType(notificationType models.NotificationType) []CreateNotificationInput {
	return append(
		n.onChannel(notificationType, models.NotificationChannelInApp),
		n.onChannel(notificationType, "")...,
	)
}

func (n *recordingNotifier) onChannel(
	notificationType models.NotificationType,
	channel models.NotificationChannel,
) []CreateNotificationInput {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []CreateNotificationInput
	for _, input := range n.inputs {
		if input.Type == notificationType && input.Channel == channel {
			out = append(out, input)
		}
	}
	return out
}

type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	t.calls++
	return fn(ctx, nil)
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []string
	ok   bool
}

func (e *fakeEmailSender) SendEmail(ctx context.Context, to, subject, html, text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, to)
	return e.ok
}

type fakeEventPublisher struct {
	mu        sync.Mutex
	published []uuid.UUID
}

func (p *fakeEventPublisher) PublishNotificationCreated(userID uuid.UUID, data map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, userID)
	return nil
}

type testEnv struct {
	users         *fakeUserRepo
	settings      *fakeSettingsRepo
	vehicles      *fakeVehicleRepo
	maintenances  *fakeMaintenanceRepo
	expenses      *fakeExpenseRepo
	reminders     *fakeReminderRepo
	notifications *fakeNotificationRepo
	mileage       *fakeMileageRecordRepo
	predictions   *fakePredictionRepo
	reports       *fakeReportRepo
	notifier      *recordingNotifier
	repos         repositories.Repository
}

func newTestEnv() *testEnv {
	vehicles := &fakeVehicleRepo{}
	env := &testEnv{
		users:         &fakeUserRepo{},
		settings:      &fakeSettingsRepo{settings: make(map[uuid.UUID]*models.UserSettings)},
		vehicles:      vehicles,
		maintenances:  &fakeMaintenanceRepo{vehicles: vehicles},
		expenses:      &fakeExpenseRepo{vehicles: vehicles},
		reminders:     &fakeReminderRepo{vehicles: vehicles},
		notifications: &fakeNotificationRepo{},
		mileage:       &fakeMileageRecordRepo{},
		predictions:   &fakePredictionRepo{},
		reports:       &fakeReportRepo{},
		notifier:      &recordingNotifier{},
	}
	env.repos = repositories.Repository{
		User:          env.users,
		UserSettings:  env.settings,
		Vehicle:       env.vehicles,
		Maintenance:   env.maintenances,
		Expense:       env.expenses,
		Reminder:      env.reminders,
		Notification:  env.notifications,
		MileageRecord: env.mileage,
		Prediction:    env.predictions,
		Report:        env.reports,
	}
	return env
}

func (e *testEnv) addUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Ada",
		LastName:  "Driver",
		IsActive:  true,
	}
	require.NoError(t, e.users.Create(context.Background(), nil, user))
	return user
}

func (e *testEnv) addVehicle(t *testing.T, ownerID uuid.UUID, mileage int) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		OwnerID:      ownerID,
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2018,
		LicensePlate: "ABC-" + uuid.NewString()[:4],
		Mileage:      mileage,
	}
	require.NoError(t, e.vehicles.Create(context.Background(), nil, vehicle))
	return vehicle
}

func (e *testEnv) addReminder(t *testing.T, reminder *models.Reminder) *models.Reminder {
	t.Helper()
	require.NoError(t, e.reminders.Create(context.Background(), nil, reminder))
	return reminder
}

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}
