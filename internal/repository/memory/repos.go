package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/repository"
)

type base struct {
	gate  gate
	state func() *state
}

// do runs fn with exclusive access to the state the repository is bound to.
func (b base) do(ctx context.Context, fn func(st *state) error) error {
	if err := b.gate.acquire(ctx); err != nil {
		return err
	}
	defer b.gate.release()
	return fn(b.state())
}

func parseRent(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

type userRepository struct{ base }

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	var out *domain.User
	err := r.do(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepository) ListIDsByRole(ctx context.Context, role domain.Role) ([]int32, error) {
	var ids []int32
	err := r.do(ctx, func(st *state) error {
		for id, u := range st.users {
			if u.Role == role {
				ids = append(ids, id)
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

type propertyRepository struct{ base }

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	var out *domain.Property
	err := r.do(ctx, func(st *state) error {
		p, ok := st.properties[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no row lock: a transaction already owns the store.
func (r *propertyRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error) {
	return r.GetByID(ctx, id)
}

type rentalRequestRepository struct{ base }

func (r *rentalRequestRepository) Create(ctx context.Context, req *domain.RentalRequest) error {
	return r.do(ctx, func(st *state) error {
		if req.Status == domain.RequestStatusPending {
			for _, other := range st.requests {
				if other.Status == domain.RequestStatusPending && other.TenantID == req.TenantID && other.PropertyID == req.PropertyID {
					return repository.ErrUniqueViolation
				}
			}
		}
		req.ID = st.nextID("rental_requests")
		st.requests[req.ID] = *req
		return nil
	})
}

func (r *rentalRequestRepository) GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	var out *domain.RentalRequest
	err := r.do(ctx, func(st *state) error {
		req, ok := st.requests[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &req
		return nil
	})
	return out, err
}

func (r *rentalRequestRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *rentalRequestRepository) GetDetail(ctx context.Context, id int32) (*domain.RentalRequestDetail, error) {
	var out *domain.RentalRequestDetail
	err := r.do(ctx, func(st *state) error {
		req, ok := st.requests[id]
		if !ok {
			return repository.ErrNotFound
		}
		d := detail(st, req)
		out = &d
		return nil
	})
	return out, err
}

func (r *rentalRequestRepository) HasPending(ctx context.Context, tenantID, propertyID int32) (bool, error) {
	var found bool
	err := r.do(ctx, func(st *state) error {
		for _, req := range st.requests {
			if req.Status == domain.RequestStatusPending && req.TenantID == tenantID && req.PropertyID == propertyID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *rentalRequestRepository) MarkReviewed(ctx context.Context, id int32, review domain.Review) error {
	return r.do(ctx, func(st *state) error {
		req, ok := st.requests[id]
		if !ok || req.Status != domain.RequestStatusPending {
			return repository.ErrConflict
		}
		reviewer := review.ReviewerID
		at := review.ReviewedAt
		req.Status = review.Status
		req.ReviewedBy = &reviewer
		req.ReviewedAt = &at
		req.RejectionReason = review.RejectionReason
		st.requests[id] = req
		return nil
	})
}

func (r *rentalRequestRepository) ListAll(ctx context.Context) ([]domain.RentalRequestDetail, error) {
	return r.list(ctx, func(st *state, req domain.RentalRequest) bool { return true })
}

func (r *rentalRequestRepository) ListByTenant(ctx context.Context, tenantID int32) ([]domain.RentalRequestDetail, error) {
	return r.list(ctx, func(st *state, req domain.RentalRequest) bool { return req.TenantID == tenantID })
}

func (r *rentalRequestRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.RentalRequestDetail, error) {
	return r.list(ctx, func(st *state, req domain.RentalRequest) bool {
		return st.properties[req.PropertyID].OwnerID == ownerID
	})
}

func (r *rentalRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RentalRequest, error) {
	var out []domain.RentalRequest
	err := r.do(ctx, func(st *state) error {
		for _, req := range st.requests {
			if req.Status == domain.RequestStatusPending && req.RequestDate.Before(cutoff) {
				out = append(out, req)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *rentalRequestRepository) list(ctx context.Context, keep func(st *state, req domain.RentalRequest) bool) ([]domain.RentalRequestDetail, error) {
	var out []domain.RentalRequestDetail
	err := r.do(ctx, func(st *state) error {
		for _, req := range st.requests {
			if keep(st, req) {
				out = append(out, detail(st, req))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestDate.Equal(out[j].RequestDate) {
			return out[i].RequestDate.After(out[j].RequestDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func detail(st *state, req domain.RentalRequest) domain.RentalRequestDetail {
	p := st.properties[req.PropertyID]
	d := domain.RentalRequestDetail{
		RentalRequest: req,
		TenantName:    st.users[req.TenantID].Name,
		Locality:      p.Locality,
		Address:       p.Address,
		Rent:          p.Rent,
	}
	if req.ReviewedBy != nil {
		if u, ok := st.users[*req.ReviewedBy]; ok {
			name := u.Name
			d.ReviewedByName = &name
		}
	}
	return d
}

type rentalRepository struct{ base }

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	return r.do(ctx, func(st *state) error {
		for _, other := range st.rentals {
			if other.PropertyID == rt.PropertyID && other.IsOpen() && rt.IsOpen() {
				return repository.ErrUniqueViolation
			}
			if other.TenantID == rt.TenantID && other.PropertyID == rt.PropertyID && other.StartDate.Equal(rt.StartDate) {
				return repository.ErrUniqueViolation
			}
		}
		rt.ID = st.nextID("rentals")
		st.rentals[rt.ID] = *rt
		return nil
	})
}

func (r *rentalRepository) HasOpenAgreement(ctx context.Context, propertyID int32) (bool, error) {
	var open bool
	err := r.do(ctx, func(st *state) error {
		_, open = openRental(st, propertyID)
		return nil
	})
	return open, err
}

func (r *rentalRepository) GetForUpdate(ctx context.Context, key domain.AgreementKey) (*domain.Rental, error) {
	var out *domain.Rental
	err := r.do(ctx, func(st *state) error {
		for _, rt := range st.rentals {
			if rt.TenantID == key.TenantID && rt.PropertyID == key.PropertyID && rt.StartDate.Equal(key.StartDate) {
				out = &rt
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *rentalRepository) End(ctx context.Context, id int32, endDate time.Time) error {
	return r.do(ctx, func(st *state) error {
		rt, ok := st.rentals[id]
		if !ok || !rt.IsOpen() {
			return repository.ErrConflict
		}
		rt.EndDate = &endDate
		st.rentals[id] = rt
		return nil
	})
}

func (r *rentalRepository) GetOpenByProperty(ctx context.Context, propertyID int32) (*domain.Rental, error) {
	var out *domain.Rental
	err := r.do(ctx, func(st *state) error {
		rt, ok := openRental(st, propertyID)
		if !ok {
			return repository.ErrNotFound
		}
		out = &rt
		return nil
	})
	return out, err
}

func (r *rentalRepository) GetActiveByTenant(ctx context.Context, tenantID int32) (*domain.ActiveRental, error) {
	var out *domain.ActiveRental
	err := r.do(ctx, func(st *state) error {
		for _, rt := range st.rentals {
			if rt.TenantID != tenantID || !rt.IsOpen() {
				continue
			}
			if out != nil && !rt.StartDate.After(out.StartDate) {
				continue
			}
			p := st.properties[rt.PropertyID]
			owner := st.users[p.OwnerID]
			out = &domain.ActiveRental{
				PropertyID:    rt.PropertyID,
				Locality:      p.Locality,
				Address:       p.Address,
				Rent:          rt.MonthlyRent,
				StartDate:     rt.StartDate,
				OwnerName:     owner.Name,
				OwnerUsername: owner.Username,
			}
		}
		if out == nil {
			return repository.ErrNotFound
		}
		return nil
	})
	return out, err
}

func (r *rentalRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Rental, error) {
	var out []domain.Rental
	err := r.do(ctx, func(st *state) error {
		for _, rt := range st.rentals {
			if rt.PropertyID == propertyID {
				out = append(out, rt)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *rentalRepository) ListOpen(ctx context.Context) ([]domain.OpenRental, error) {
	return r.listOpen(ctx, func(domain.Property) bool { return true })
}

func (r *rentalRepository) ListOpenByOwner(ctx context.Context, ownerID int32) ([]domain.OpenRental, error) {
	return r.listOpen(ctx, func(p domain.Property) bool { return p.OwnerID == ownerID })
}

func (r *rentalRepository) listOpen(ctx context.Context, keep func(p domain.Property) bool) ([]domain.OpenRental, error) {
	var out []domain.OpenRental
	err := r.do(ctx, func(st *state) error {
		for _, rt := range st.rentals {
			p := st.properties[rt.PropertyID]
			if !rt.IsOpen() || !keep(p) {
				continue
			}
			tenant := st.users[rt.TenantID]
			out = append(out, domain.OpenRental{
				Rental:         rt,
				Locality:       p.Locality,
				Address:        p.Address,
				TenantName:     tenant.Name,
				TenantUsername: tenant.Username,
				OwnerID:        p.OwnerID,
				OwnerName:      st.users[p.OwnerID].Name,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func openRental(st *state, propertyID int32) (domain.Rental, bool) {
	for _, rt := range st.rentals {
		if rt.PropertyID == propertyID && rt.IsOpen() {
			return rt, true
		}
	}
	return domain.Rental{}, false
}

type notificationRepository struct{ base }

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.do(ctx, func(st *state) error {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}
		n.ID = st.nextID("notifications")
		st.notifications[n.ID] = *n
		return nil
	})
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var all []domain.Notification
	err := r.do(ctx, func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID {
				all = append(all, n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := int32(len(all))
	if offset < 0 || offset >= total {
		return nil, total, nil
	}
	end := int64(offset) + int64(limit)
	if limit <= 0 || end > int64(total) {
		end = int64(total)
	}
	return all[offset:end], total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	return r.update(ctx, id, func(n *domain.Notification) bool {
		if n.UserID != userID {
			return false
		}
		n.IsRead = true
		return true
	})
}

func (r *notificationRepository) ListUndelivered(ctx context.Context, maxAttempts, limit int32) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.do(ctx, func(st *state) error {
		for _, n := range st.notifications {
			if n.DeliveredAt == nil && n.DeliveryAttempts < maxAttempts {
				out = append(out, n)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id int32, at time.Time) error {
	return r.update(ctx, id, func(n *domain.Notification) bool {
		n.DeliveredAt = &at
		return true
	})
}

func (r *notificationRepository) RecordDeliveryFailure(ctx context.Context, id int32) error {
	return r.update(ctx, id, func(n *domain.Notification) bool {
		n.DeliveryAttempts++
		return true
	})
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int32, channel domain.DeliveryChannel, at time.Time) error {
	return r.update(ctx, id, func(n *domain.Notification) bool {
		switch channel {
		case domain.ChannelEmail:
			n.EmailSentAt = &at
		case domain.ChannelPush:
			n.PushSentAt = &at
		default:
			return false
		}
		return true
	})
}

func (r *notificationRepository) update(ctx context.Context, id int32, apply func(n *domain.Notification) bool) error {
	return r.do(ctx, func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || !apply(&n) {
			return repository.ErrNotFound
		}
		st.notifications[id] = n
		return nil
	})
}
