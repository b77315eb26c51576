package services

// JWT issuer claim
const tokenIssuer = "vehiclecare"

// Defaults applied when a caller leaves the window unset
const (
	defaultUpcomingDays        = 30
	defaultMileageHistoryLimit = 50
)

// Hour of day the reminder for a scheduled maintenance fires.
const maintenanceReminderHour = 8
