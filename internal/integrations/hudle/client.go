// Package hudle talks to the external facility-booking system that also
// manages some courts' schedules. The availability path treats failures
// here as "no extra constraints"; the commit path treats them as fatal.
// That asymmetry lives in the callers, the client just reports typed errors.
package hudle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// externalSlotMinutes is the external system's own slot granularity.
// Booked ranges are split into increments of this size on push.
const externalSlotMinutes = 30

const remoteTimeLayout = "2006-01-02T15:04:05"

// Client is the HTTP client for the external facility system.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a facility system client with bearer-token auth.
func NewClient(baseURL, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSlots fetches the external schedule for one facility activity on a
// date, reduced to local HH:MM windows.
func (c *Client) GetSlots(ctx context.Context, facilityID, activityID string, date time.Time) ([]RemoteSlot, error) {
	endpoint := fmt.Sprintf("%s/v1/facilities/%s/activities/%s/slots?%s",
		c.baseURL,
		url.PathEscape(facilityID),
		url.PathEscape(activityID),
		url.Values{"date": {date.Format(domain.DateFormat)}}.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var payload slotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	slots := make([]RemoteSlot, 0, len(payload.Slots))
	for _, s := range payload.Slots {
		from, err := parseRemoteTime(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: bad start_time %q: %v", ErrInvalidResponse, s.StartTime, err)
		}
		to, err := parseRemoteTime(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: bad end_time %q: %v", ErrInvalidResponse, s.EndTime, err)
		}
		slots = append(slots, RemoteSlot{
			TimeFrom:  from,
			TimeTo:    to,
			Available: s.IsAvailable,
			Inventory: s.InventoryCount,
		})
	}

	return slots, nil
}

// IsRangeFree re-checks the external schedule for one booked range.
// The range is free only if every remote slot overlapping it is free.
func (c *Client) IsRangeFree(ctx context.Context, facilityID, activityID string, date time.Time, timeFrom, timeTo types.TimeString) (bool, error) {
	slots, err := c.GetSlots(ctx, facilityID, activityID, date)
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if !domain.Overlaps(timeFrom, timeTo, slot.TimeFrom, slot.TimeTo) {
			continue
		}
		if !slot.Free() {
			return false, nil
		}
	}

	return true, nil
}

// CreateBooking mirrors a confirmed local reservation into the external
// system, splitting the range into the external slot granularity.
func (c *Client) CreateBooking(ctx context.Context, bookingReq BookingRequest) error {
	payload := createBookingPayload{
		ActivityID: bookingReq.ActivityID,
		Note:       bookingReq.Note,
	}
	payload.Customer.Name = bookingReq.CustomerName
	payload.Customer.Email = bookingReq.CustomerEmail
	payload.Customer.Phone = bookingReq.CustomerPhone

	slots, err := splitRange(bookingReq.Date, bookingReq.TimeFrom, bookingReq.TimeTo)
	if err != nil {
		return fmt.Errorf("%w: failed to split booked range: %v", ErrInternal, err)
	}
	payload.Slots = slots

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	endpoint := fmt.Sprintf("%s/v1/facilities/%s/bookings", c.baseURL, url.PathEscape(bookingReq.FacilityID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	c.log.Info("hudle: booking pushed, facility=%s activity=%s date=%s %s-%s",
		bookingReq.FacilityID, bookingReq.ActivityID,
		bookingReq.Date.Format(domain.DateFormat), bookingReq.TimeFrom, bookingReq.TimeTo)

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}
}

// parseRemoteTime extracts the local HH:MM from a remote timestamp, which
// may arrive with or without a zone offset.
func parseRemoteTime(s string) (types.TimeString, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return types.NewTimeString(t), nil
	}
	t, err := time.Parse(remoteTimeLayout, s)
	if err != nil {
		return "", err
	}
	return types.NewTimeString(t), nil
}

// splitRange breaks [from, to) into externalSlotMinutes increments with
// full timestamps the external system expects.
func splitRange(date time.Time, from, to types.TimeString) ([]slotPayload, error) {
	startMins, err := from.Minutes()
	if err != nil {
		return nil, err
	}
	endMins, err := to.Minutes()
	if err != nil {
		return nil, err
	}
	if endMins <= startMins {
		return nil, fmt.Errorf("range %s-%s is empty", from, to)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	slots := make([]slotPayload, 0, (endMins-startMins)/externalSlotMinutes+1)
	for cur := startMins; cur < endMins; cur += externalSlotMinutes {
		next := cur + externalSlotMinutes
		if next > endMins {
			next = endMins
		}
		slots = append(slots, slotPayload{
			StartTime: day.Add(time.Duration(cur) * time.Minute).Format(remoteTimeLayout),
			EndTime:   day.Add(time.Duration(next) * time.Minute).Format(remoteTimeLayout),
		})
	}

	return slots, nil
}
