package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-classroom-client/api"
	"github.com/jrsteele09/go-classroom-client/bookings"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
)

const (
	bookingsPath  = "/admin/bookings"
	blacklistPath = "/admin/blacklist"
)

var (
	MissingIDErr           = errors.New("id is required")
	MissingRejectReasonErr = errors.New("a reason is required to reject a booking")
	InvalidStatusErr       = errors.New("status must be approved or rejected")
)

// StatusUpdate is the body of a booking review
type StatusUpdate struct {
	Status       bookings.Status `json:"status"`
	RejectReason string          `json:"reject_reason,omitempty"`
}

func (u StatusUpdate) Validate() error {
	switch u.Status {
	case bookings.StatusApproved:
		return nil
	case bookings.StatusRejected:
		if strings.TrimSpace(u.RejectReason) == "" {
			return MissingRejectReasonErr
		}
		return nil
	default:
		return InvalidStatusErr
	}
}

// BlacklistEntry bars a user from booking until it expires
type BlacklistEntry struct {
	BlacklistID api.ID `json:"blacklist_id,omitempty"`
	UserID      api.ID `json:"user_id"`
	Reason      string `json:"reason"`
	CreatedAt   string `json:"created_at,omitempty"`
	ExpiredAt   string `json:"expired_at,omitempty"`
}

// BlacklistRequest adds a user to the blacklist
type BlacklistRequest struct {
	UserID    string `json:"user_id"`
	Reason    string `json:"reason"`
	ExpiredAt string `json:"expired_at,omitempty"` // YYYY-MM-DD, empty for no expiry
}

func (r BlacklistRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Reason) == "" {
		return fmt.Errorf("%w: reason is required", apperrors.ErrInvalidRequest)
	}
	if r.ExpiredAt != "" {
		if _, err := time.Parse(bookings.DateLayout, r.ExpiredAt); err != nil {
			return fmt.Errorf("%w: expiry must be YYYY-MM-DD", apperrors.ErrInvalidRequest)
		}
	}
	return nil
}

// Service calls the admin-only endpoints
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Bookings lists every booking request
func (s *Service) Bookings(ctx context.Context) ([]bookings.Booking, error) {
	var out []bookings.Booking
	if err := s.client.Get(ctx, bookingsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pending lists the booking requests awaiting review
func (s *Service) Pending(ctx context.Context) ([]bookings.Booking, error) {
	all, err := s.Bookings(ctx)
	if err != nil {
		return nil, err
	}
	pending := all[:0]
	for _, b := range all {
		if b.Status == "" || b.Status == bookings.StatusPending {
			pending = append(pending, b)
		}
	}
	return pending, nil
}

func (s *Service) UpdateBookingStatus(ctx context.Context, id string, update StatusUpdate) (*api.Message, error) {
	if id == "" {
		return nil, MissingIDErr
	}
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("[Service.UpdateBookingStatus] %w: %w", apperrors.ErrInvalidRequest, err)
	}
	var out api.Message
	if err := s.client.Put(ctx, bookingsPath+"/"+url.PathEscape(id)+"/status", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*api.Message, error) {
	return s.UpdateBookingStatus(ctx, id, StatusUpdate{Status: bookings.StatusApproved})
}

// Reject declines a booking; reason is shown to the borrower and required
func (s *Service) Reject(ctx context.Context, id, reason string) (*api.Message, error) {
	return s.UpdateBookingStatus(ctx, id, StatusUpdate{Status: bookings.StatusRejected, RejectReason: reason})
}

func (s *Service) Blacklist(ctx context.Context) ([]BlacklistEntry, error) {
	var out []BlacklistEntry
	if err := s.client.Get(ctx, blacklistPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) AddToBlacklist(ctx context.Context, req BlacklistRequest) (*api.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out api.Message
	if err := s.client.Post(ctx, blacklistPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) RemoveFromBlacklist(ctx context.Context, userID string) (*api.Message, error) {
	if userID == "" {
		return nil, MissingIDErr
	}
	var out api.Message
	if err := s.client.Delete(ctx, blacklistPath+"/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
