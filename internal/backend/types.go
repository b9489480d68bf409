package backend

import (
	"github.com/hackgods/tasting-booking-gateway/internal/availability"
)

// ProviderAvailability is the provider profile section consumed by slot resolution.
type ProviderAvailability struct {
	WeeklyAvailability       availability.WeeklyAvailability    `json:"weeklyAvailability"`
	SpecialDateOverrides     []availability.SpecialDateOverride `json:"specialDateOverrides"`
	DefaultSlotDuration      int                                `json:"defaultSlotDuration"`
	BufferTime               int                                `json:"bufferTime"`
	MultipleBookingsSameSlot bool                               `json:"multipleBookingsSameSlot"`
}

type NotificationPreferences struct {
	BookingAdvanceLimit string `json:"bookingAdvanceLimit"`
}

type WidgetAvailability struct {
	BookingRestrictionTime string `json:"bookingRestrictionTime"`
}

// WidgetData is the combined service payload the booking widget loads.
type WidgetData struct {
	Service                 availability.ServiceDefinition `json:"service"`
	NotificationPreferences NotificationPreferences        `json:"notificationPreferences"`
	Availability            WidgetAvailability             `json:"availability"`
}

const PaymentOnSite = "pay_on_site"

type BookingRequest struct {
	ServiceID     string `json:"serviceId"`
	ProviderID    string `json:"providerId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	Language      string `json:"language"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Notes         string `json:"notes,omitempty"`
	PaymentMethod string `json:"paymentMethod"`
}

type BookingConfirmation struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}
