package routes

const (
	// Health
	Health = "/health"

	// All authenticated endpoints hang off this prefix.
	APIPrefix = "/api/v1"

	// Deal endpoints (relative to APIPrefix)
	Deals     = "/deals"
	DealsByID = "/deals/{id}"

	// Client endpoints
	Clients     = "/clients"
	ClientsByID = "/clients/{id}"

	// Property endpoints
	Properties     = "/properties"
	PropertiesByID = "/properties/{id}"
)
