// Package testutil provides in-memory stand-ins for the store, idempotency
// keys and event publishing.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"vendor-service/internal/models"
)

// MemoryStore is an in-memory stand-in for store.Store
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	vendors map[int64]models.Vendor
	orders  map[int64]models.PurchaseOrder
	history map[int64]models.HistoricalPerformance
	users   map[string]models.User
	events  map[string]string

	// PingErr is returned by Ping
	PingErr error
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vendors: map[int64]models.Vendor{},
		orders:  map[int64]models.PurchaseOrder{},
		history: map[int64]models.HistoricalPerformance{},
		users:   map[string]models.User{},
		events:  map[string]string{},
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, models.ErrNotFound)
}

func (m *MemoryStore) CreateVendor(_ context.Context, v *models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.vendors {
		if existing.VendorCode == v.VendorCode {
			return fmt.Errorf("vendor vendor_code: %w", models.ErrDuplicate)
		}
	}
	v.ID = m.id()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	m.vendors[v.ID] = *v
	return nil
}

func (m *MemoryStore) GetVendorByID(_ context.Context, id int64) (*models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vendors[id]
	if !ok {
		return nil, notFound("vendor")
	}
	return &v, nil
}

func (m *MemoryStore) ListVendors(_ context.Context) ([]models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Vendor{}
	for _, v := range m.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateVendor(_ context.Context, v *models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.vendors[v.ID]
	if !ok {
		return notFound("vendor")
	}
	for id, existing := range m.vendors {
		if id != v.ID && existing.VendorCode == v.VendorCode {
			return fmt.Errorf("vendor vendor_code: %w", models.ErrDuplicate)
		}
	}
	current.Name = v.Name
	current.ContactDetails = v.ContactDetails
	current.Address = v.Address
	current.VendorCode = v.VendorCode
	m.vendors[v.ID] = current
	*v = current
	return nil
}

func (m *MemoryStore) DeleteVendor(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vendors[id]; !ok {
		return notFound("vendor")
	}
	delete(m.vendors, id)
	for poID, po := range m.orders {
		if po.VendorID == id {
			delete(m.orders, poID)
		}
	}
	for hpID, hp := range m.history {
		if hp.VendorID == id {
			delete(m.history, hpID)
		}
	}
	return nil
}

func (m *MemoryStore) UpdateVendorPerformance(_ context.Context, vendorID int64, p models.PerformanceMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vendors[vendorID]
	if !ok {
		return notFound("vendor")
	}
	v.OnTimeDeliveryRate = p.OnTimeDeliveryRate
	v.QualityRatingAvg = p.QualityRatingAvg
	v.AverageResponseTime = p.AverageResponseTime
	v.FulfillmentRate = p.FulfillmentRate
	m.vendors[vendorID] = v
	return nil
}

func (m *MemoryStore) UpdateVendorAverageResponseTime(_ context.Context, vendorID int64, minutes float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vendors[vendorID]
	if !ok {
		return notFound("vendor")
	}
	v.AverageResponseTime = minutes
	m.vendors[vendorID] = v
	return nil
}

func (m *MemoryStore) checkPurchaseOrder(po *models.PurchaseOrder) error {
	if _, ok := m.vendors[po.VendorID]; !ok {
		return fmt.Errorf("purchase order vendor: %w", models.ErrInvalidReference)
	}
	for id, existing := range m.orders {
		if id != po.ID && existing.PONumber == po.PONumber {
			return fmt.Errorf("purchase order po_number: %w", models.ErrDuplicate)
		}
	}
	return nil
}

func (m *MemoryStore) CreatePurchaseOrder(_ context.Context, po *models.PurchaseOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkPurchaseOrder(po); err != nil {
		return err
	}
	po.ID = m.id()
	m.orders[po.ID] = *po
	return nil
}

func (m *MemoryStore) GetPurchaseOrderByID(_ context.Context, id int64) (*models.PurchaseOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	po, ok := m.orders[id]
	if !ok {
		return nil, notFound("purchase order")
	}
	return &po, nil
}

func (m *MemoryStore) ListPurchaseOrders(_ context.Context, f models.PurchaseOrderFilter) ([]models.PurchaseOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PurchaseOrder{}
	for _, po := range m.orders {
		if f.VendorID != nil && po.VendorID != *f.VendorID {
			continue
		}
		if f.Status != nil && po.Status != *f.Status {
			continue
		}
		if f.Acknowledged != nil && (po.Acknowledgment != nil) != *f.Acknowledged {
			continue
		}
		out = append(out, po)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdatePurchaseOrder(_ context.Context, po *models.PurchaseOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[po.ID]
	if !ok {
		return notFound("purchase order")
	}
	if err := m.checkPurchaseOrder(po); err != nil {
		return err
	}
	po.Acknowledgment = stored.Acknowledgment
	m.orders[po.ID] = *po
	return nil
}

func (m *MemoryStore) DeletePurchaseOrder(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return notFound("purchase order")
	}
	delete(m.orders, id)
	return nil
}

func (m *MemoryStore) SetPurchaseOrderAcknowledgment(_ context.Context, id int64, at time.Time) (*models.PurchaseOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	po, ok := m.orders[id]
	if !ok {
		return nil, notFound("purchase order")
	}
	po.Acknowledgment = &at
	m.orders[id] = po
	return &po, nil
}

func (m *MemoryStore) CreateHistoricalPerformance(_ context.Context, hp *models.HistoricalPerformance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vendors[hp.VendorID]; !ok {
		return fmt.Errorf("historical performance vendor: %w", models.ErrInvalidReference)
	}
	hp.ID = m.id()
	m.history[hp.ID] = *hp
	return nil
}

func (m *MemoryStore) GetHistoricalPerformanceByID(_ context.Context, id int64) (*models.HistoricalPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hp, ok := m.history[id]
	if !ok {
		return nil, notFound("historical performance")
	}
	return &hp, nil
}

func (m *MemoryStore) ListHistoricalPerformances(_ context.Context, vendorID *int64) ([]models.HistoricalPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.HistoricalPerformance{}
	for _, hp := range m.history {
		if vendorID != nil && hp.VendorID != *vendorID {
			continue
		}
		out = append(out, hp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateHistoricalPerformance(_ context.Context, hp *models.HistoricalPerformance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.history[hp.ID]; !ok {
		return notFound("historical performance")
	}
	if _, ok := m.vendors[hp.VendorID]; !ok {
		return fmt.Errorf("historical performance vendor: %w", models.ErrInvalidReference)
	}
	m.history[hp.ID] = *hp
	return nil
}

func (m *MemoryStore) DeleteHistoricalPerformance(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.history[id]; !ok {
		return notFound("historical performance")
	}
	delete(m.history, id)
	return nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (m *MemoryStore) UpsertUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.Username]; ok {
		u.ID = existing.ID
	} else {
		u.ID = m.id()
	}
	m.users[u.Username] = *u
	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return m.PingErr
}

func (m *MemoryStore) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[eventID]
	return ok, nil
}

func (m *MemoryStore) MarkEventProcessed(_ context.Context, eventID, eventType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[eventID] = eventType
	return nil
}

// MemoryIdempotency keeps idempotency keys in a map. Err, when set, fails every call.
type MemoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]int64
	Err  error
}

// pendingID marks a reserved key whose create has not finished
const pendingID int64 = -1

// NewMemoryIdempotency creates an empty key store
func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{keys: map[string]int64{}}
}

func (m *MemoryIdempotency) ReserveIdempotencyKey(_ context.Context, scope, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, false, m.Err
	}
	id, ok := m.keys[scope+":"+key]
	if !ok {
		m.keys[scope+":"+key] = pendingID
		return 0, true, nil
	}
	if id == pendingID {
		return 0, false, models.ErrRequestInProgress
	}
	return id, false, nil
}

func (m *MemoryIdempotency) CompleteIdempotencyKey(_ context.Context, scope, key string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.keys[scope+":"+key] = id
	return nil
}

func (m *MemoryIdempotency) ReleaseIdempotencyKey(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.keys, scope+":"+key)
	return nil
}

// RecordingPublisher keeps published events in memory. Events are recorded
// even when Err is set.
type RecordingPublisher struct {
	Acknowledged []*models.PurchaseOrderAcknowledgedEvent
	Computed     []*models.VendorPerformanceComputedEvent
	Deleted      []*models.VendorDeletedEvent
	Err          error
}

func (p *RecordingPublisher) PublishPurchaseOrderAcknowledged(_ context.Context, e *models.PurchaseOrderAcknowledgedEvent) error {
	p.Acknowledged = append(p.Acknowledged, e)
	return p.Err
}

func (p *RecordingPublisher) PublishVendorPerformanceComputed(_ context.Context, e *models.VendorPerformanceComputedEvent) error {
	p.Computed = append(p.Computed, e)
	return p.Err
}

func (p *RecordingPublisher) PublishVendorDeleted(_ context.Context, e *models.VendorDeletedEvent) error {
	p.Deleted = append(p.Deleted, e)
	return p.Err
}

// ErrUnavailable simulates a backing service being down
var ErrUnavailable = errors.New("unavailable")
