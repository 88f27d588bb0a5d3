// Package server serves the live map over a local HTTP API.
//
// Endpoints (JSON unless noted):
//
//	GET    /api/health
//	GET    /api/vehicles?q=
//	GET    /api/vehicles/{id}
//	GET    /api/routes?q=
//	GET    /api/markers?q=
//	GET    /api/selection
//	PUT    /api/selection/{id}
//	DELETE /api/selection
//	GET    /api/trips/{id}
//	GET    /api/error
//	DELETE /api/error
//	GET    /api/siri/vehicle-monitoring.json?lineRef=&vehicleRef=
//	GET    /api/siri/vehicle-monitoring.xml?lineRef=&vehicleRef=   (XML)
package server
