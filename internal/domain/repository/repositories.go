package repository

// Repositories bundles every port the use cases need.
type Repositories struct {
	Vehicles    VehicleRepository
	Routes      RouteRepository
	Drivers     DriverRepository
	FuelLogs    FuelLogRepository
	Maintenance MaintenanceRepository
	AuditLogs   AuditLogRepository
	Issues      ComplianceIssueRepository
}
